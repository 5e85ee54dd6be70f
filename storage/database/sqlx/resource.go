package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/resource"
)

type resourceRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Type        string    `db:"type"`
	URL         string    `db:"url"`
	Category    string    `db:"category"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func packResource(res resource.Resource) resourceRow {
	return resourceRow{
		ID:          res.ID,
		Title:       res.Title,
		Type:        res.Type,
		URL:         res.URL,
		Category:    res.Category,
		Description: res.Description,
		CreatedAt:   res.CreatedAt.UTC(),
		UpdatedAt:   res.UpdatedAt.UTC(),
	}
}

func unpackResource(row resourceRow) resource.Resource {
	return resource.Resource{
		ID:          row.ID,
		Title:       row.Title,
		Type:        row.Type,
		URL:         row.URL,
		Category:    row.Category,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type resourceRepository struct {
	db *sqlx.DB
}

var _ resource.Repository = (*resourceRepository)(nil)

func NewResourceRepository(db *sqlx.DB) *resourceRepository {
	return &resourceRepository{db: db}
}

func (repo resourceRepository) CreateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	res.ID = uuid.New().String()
	row := packResource(res)
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO resource (id, title, type, url, category, description, created_at, updated_at)
		 VALUES (:id, :title, :type, :url, :category, :description, :created_at, :updated_at)`,
		row)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "inserting resource")
	}
	return unpackResource(row), nil
}

func (repo resourceRepository) GetResourceByID(ctx context.Context, id string) (resource.Resource, error) {
	var row resourceRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM resource WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return resource.Resource{}, resource.ErrNotFound
		}
		return resource.Resource{}, errors.Wrap(err, "getting resource")
	}
	return unpackResource(row), nil
}

func (repo resourceRepository) QueryResources(ctx context.Context) ([]resource.Resource, error) {
	var rows []resourceRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM resource ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying resources")
	}
	return unpackResources(rows), nil
}

func (repo resourceRepository) UpdateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	row := packResource(res)
	sqlRes, err := repo.db.NamedExecContext(ctx,
		`UPDATE resource
		 SET title = :title, type = :type, url = :url, category = :category,
		     description = :description, updated_at = :updated_at
		 WHERE id = :id`,
		row)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "updating resource")
	}
	if n, err := sqlRes.RowsAffected(); err == nil && n == 0 {
		return resource.Resource{}, resource.ErrNotFound
	}
	return unpackResource(row), nil
}

func (repo resourceRepository) DeleteResource(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM resource WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting resource")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return resource.ErrNotFound
	}
	return nil
}

func (repo resourceRepository) CountResources(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM resource`); err != nil {
		return 0, errors.Wrap(err, "counting resources")
	}
	return count, nil
}

func (repo resourceRepository) SearchResources(ctx context.Context, q string) ([]resource.Resource, error) {
	var rows []resourceRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM resource WHERE title ILIKE $1 ORDER BY created_at DESC`, "%"+q+"%")
	if err != nil {
		return nil, errors.Wrap(err, "searching resources")
	}
	return unpackResources(rows), nil
}

func unpackResources(rows []resourceRow) []resource.Resource {
	resources := make([]resource.Resource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, unpackResource(row))
	}
	return resources
}
