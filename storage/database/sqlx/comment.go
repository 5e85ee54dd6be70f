package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/comment"
)

type commentRow struct {
	ID        string    `db:"id"`
	Body      string    `db:"body"`
	UserID    string    `db:"user_id"`
	LessonID  string    `db:"lesson_id"`
	CreatedAt time.Time `db:"created_at"`
}

type commentRepository struct {
	db *sqlx.DB
}

var _ comment.Repository = (*commentRepository)(nil)

func NewCommentRepository(db *sqlx.DB) *commentRepository {
	return &commentRepository{db: db}
}

func unpackComment(row commentRow) comment.Comment {
	return comment.Comment{
		ID:        row.ID,
		LessonID:  row.LessonID,
		UserID:    row.UserID,
		Text:      row.Body,
		CreatedAt: row.CreatedAt,
	}
}

func (repo commentRepository) CreateComment(ctx context.Context, cmt comment.Comment) (comment.Comment, error) {
	cmt.ID = uuid.New().String()
	row := commentRow{
		ID:        cmt.ID,
		Body:      cmt.Text,
		UserID:    cmt.UserID,
		LessonID:  cmt.LessonID,
		CreatedAt: cmt.CreatedAt.UTC(),
	}
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO comment (id, body, user_id, lesson_id, created_at)
		 VALUES (:id, :body, :user_id, :lesson_id, :created_at)`,
		row)
	if err != nil {
		return comment.Comment{}, errors.Wrap(err, "inserting comment")
	}
	return unpackComment(row), nil
}

func (repo commentRepository) GetCommentByID(ctx context.Context, id string) (comment.Comment, error) {
	var row commentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM comment WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return comment.Comment{}, comment.ErrNotFound
		}
		return comment.Comment{}, errors.Wrap(err, "getting comment")
	}
	return unpackComment(row), nil
}

func (repo commentRepository) QueryCommentsByLesson(ctx context.Context, lessonID string) ([]comment.Comment, error) {
	var rows []commentRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM comment WHERE lesson_id = $1 ORDER BY created_at`, lessonID)
	if err != nil {
		return nil, errors.Wrap(err, "querying comments")
	}
	comments := make([]comment.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, unpackComment(row))
	}
	return comments, nil
}

func (repo commentRepository) DeleteComment(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM comment WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting comment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return comment.ErrNotFound
	}
	return nil
}
