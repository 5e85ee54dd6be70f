package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/progress-uz/backend/core/post"
)

type postRow struct {
	ID         string      `db:"id"`
	Title      string      `db:"title"`
	Content    string      `db:"content"`
	AuthorID   string      `db:"author_id"`
	Category   string      `db:"category"`
	CoverImage null.String `db:"cover_image"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

func packPost(pst post.Post) postRow {
	return postRow{
		ID:         pst.ID,
		Title:      pst.Title,
		Content:    pst.Content,
		AuthorID:   pst.AuthorID,
		Category:   pst.Category,
		CoverImage: null.NewString(pst.CoverImage, pst.CoverImage != ""),
		CreatedAt:  pst.CreatedAt.UTC(),
		UpdatedAt:  pst.UpdatedAt.UTC(),
	}
}

func unpackPost(row postRow) post.Post {
	return post.Post{
		ID:         row.ID,
		Title:      row.Title,
		Content:    row.Content,
		AuthorID:   row.AuthorID,
		Category:   row.Category,
		CoverImage: row.CoverImage.String,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

type postRepository struct {
	db *sqlx.DB
}

var _ post.Repository = (*postRepository)(nil)

func NewPostRepository(db *sqlx.DB) *postRepository {
	return &postRepository{db: db}
}

func (repo postRepository) CreatePost(ctx context.Context, pst post.Post) (post.Post, error) {
	pst.ID = uuid.New().String()
	row := packPost(pst)
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO post (id, title, content, author_id, category, cover_image, created_at, updated_at)
		 VALUES (:id, :title, :content, :author_id, :category, :cover_image, :created_at, :updated_at)`,
		row)
	if err != nil {
		return post.Post{}, errors.Wrap(err, "inserting post")
	}
	return unpackPost(row), nil
}

func (repo postRepository) GetPostByID(ctx context.Context, id string) (post.Post, error) {
	var row postRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM post WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, errors.Wrap(err, "getting post")
	}
	return unpackPost(row), nil
}

func (repo postRepository) QueryPosts(ctx context.Context) ([]post.Post, error) {
	var rows []postRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM post ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}
	return unpackPosts(rows), nil
}

func (repo postRepository) UpdatePost(ctx context.Context, pst post.Post) (post.Post, error) {
	row := packPost(pst)
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE post
		 SET title = :title, content = :content, category = :category,
		     cover_image = :cover_image, updated_at = :updated_at
		 WHERE id = :id`,
		row)
	if err != nil {
		return post.Post{}, errors.Wrap(err, "updating post")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return post.Post{}, post.ErrNotFound
	}
	return unpackPost(row), nil
}

func (repo postRepository) DeletePost(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM post WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting post")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return post.ErrNotFound
	}
	return nil
}

func (repo postRepository) CountPosts(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM post`); err != nil {
		return 0, errors.Wrap(err, "counting posts")
	}
	return count, nil
}

func (repo postRepository) SearchPosts(ctx context.Context, q string) ([]post.Post, error) {
	var rows []postRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM post WHERE title ILIKE $1 OR content ILIKE $1 ORDER BY created_at DESC`,
		"%"+q+"%")
	if err != nil {
		return nil, errors.Wrap(err, "searching posts")
	}
	return unpackPosts(rows), nil
}

func unpackPosts(rows []postRow) []post.Post {
	posts := make([]post.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, unpackPost(row))
	}
	return posts
}
