package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/progress-uz/backend/core/user"
)

type userRow struct {
	ID           string      `db:"id"`
	Name         string      `db:"name"`
	Username     null.String `db:"username"`
	Email        string      `db:"email"`
	Role         string      `db:"role"`
	GoogleID     null.String `db:"google_id"`
	Avatar       null.String `db:"avatar"`
	PasswordHash null.Bytes  `db:"password_hash"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func packUser(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Username:     null.NewString(usr.Username, usr.Username != ""),
		Email:        usr.Email,
		Role:         usr.Role,
		GoogleID:     null.NewString(usr.GoogleID, usr.GoogleID != ""),
		Avatar:       null.NewString(usr.Avatar, usr.Avatar != ""),
		PasswordHash: null.BytesFrom(usr.PasswordHash),
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
	}
}

func unpackUser(row userRow) user.User {
	return user.User{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username.String,
		Email:        row.Email,
		Role:         row.Role,
		GoogleID:     row.GoogleID.String,
		Avatar:       row.Avatar.String,
		PasswordHash: row.PasswordHash.Bytes,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func trapUserNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// trapUniqueErr maps unique index violations to the matching exists error.
func trapUserUniqueErr(err error, msg string) error {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "user_email_key":
			return user.ErrEmailExists
		case "user_username_key":
			return user.ErrUsernameExists
		}
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	excluded := make([]string, 0, len(excludedUsers))
	for _, u := range excludedUsers {
		excluded = append(excluded, u.ID)
	}

	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM "user" WHERE LOWER(email) = LOWER($1) AND id <> ALL($2))`,
		email, pq.Array(excluded))
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}

	if username == "" {
		return nil
	}
	err = repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM "user" WHERE username <> '' AND LOWER(username) = LOWER($1) AND id <> ALL($2))`,
		username, pq.Array(excluded))
	if err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	if exists {
		return user.ErrUsernameExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	row := packUser(usr)
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO "user" (id, name, username, email, role, google_id, avatar, password_hash, created_at, updated_at)
		 VALUES (:id, :name, :username, :email, :role, :google_id, :avatar, :password_hash, :created_at, :updated_at)`,
		row)
	if err != nil {
		return user.User{}, trapUserUniqueErr(err, "inserting user")
	}
	return unpackUser(row), nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM "user" WHERE id = $1`, id); err != nil {
		return user.User{}, trapUserNoRowsErr(err, "getting user by id")
	}
	return unpackUser(row), nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM "user" WHERE LOWER(email) = LOWER($1)`, email); err != nil {
		return user.User{}, trapUserNoRowsErr(err, "getting user by email")
	}
	return unpackUser(row), nil
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM "user" WHERE username <> '' AND LOWER(username) = LOWER($1)`, username)
	if err != nil {
		return user.User{}, trapUserNoRowsErr(err, "getting user by username")
	}
	return unpackUser(row), nil
}

func (repo userRepository) GetUserByUsernameOrEmail(ctx context.Context, uname string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM "user" WHERE LOWER(email) = LOWER($1) OR (username <> '' AND LOWER(username) = LOWER($1))`,
		uname)
	if err != nil {
		return user.User{}, trapUserNoRowsErr(err, "getting user by username or email")
	}
	return unpackUser(row), nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM "user" ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, unpackUser(row))
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := packUser(usr)
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE "user"
		 SET name = :name, username = :username, email = :email, role = :role,
		     google_id = :google_id, avatar = :avatar, password_hash = :password_hash,
		     updated_at = :updated_at
		 WHERE id = :id`,
		row)
	if err != nil {
		return user.User{}, trapUserUniqueErr(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return unpackUser(row), nil
}

func (repo userRepository) CountUsersByRole(ctx context.Context) (map[string]int, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM "user" GROUP BY role`)
	if err != nil {
		return nil, errors.Wrap(err, "counting users by role")
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var role string
		var count int
		if err = rows.Scan(&role, &count); err != nil {
			return nil, errors.Wrap(err, "counting users by role")
		}
		counts[role] = count
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "counting users by role")
	}
	return counts, nil
}
