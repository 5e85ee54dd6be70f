package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/lesson"
)

type lessonRow struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	VideoURL     string         `db:"video_url"`
	Duration     int            `db:"duration"`
	Category     string         `db:"category"`
	Tags         pq.StringArray `db:"tags"`
	Likes        pq.StringArray `db:"likes"`
	InstructorID string         `db:"instructor_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func packLesson(les lesson.Lesson) lessonRow {
	return lessonRow{
		ID:           les.ID,
		Title:        les.Title,
		Description:  les.Description,
		VideoURL:     les.VideoURL,
		Duration:     les.Duration,
		Category:     les.Category,
		Tags:         pq.StringArray(les.Tags),
		Likes:        pq.StringArray(les.Likes),
		InstructorID: les.InstructorID,
		CreatedAt:    les.CreatedAt.UTC(),
		UpdatedAt:    les.UpdatedAt.UTC(),
	}
}

func unpackLesson(row lessonRow) lesson.Lesson {
	return lesson.Lesson{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		VideoURL:     row.VideoURL,
		Duration:     row.Duration,
		Category:     row.Category,
		Tags:         []string(row.Tags),
		Likes:        []string(row.Likes),
		InstructorID: row.InstructorID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

type lessonRepository struct {
	db *sqlx.DB
}

var _ lesson.Repository = (*lessonRepository)(nil)

func NewLessonRepository(db *sqlx.DB) *lessonRepository {
	return &lessonRepository{db: db}
}

func trapLessonNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return lesson.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo lessonRepository) CreateLesson(ctx context.Context, les lesson.Lesson) (lesson.Lesson, error) {
	les.ID = uuid.New().String()
	row := packLesson(les)
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO lesson (id, title, description, video_url, duration, category, tags, likes, instructor_id, created_at, updated_at)
		 VALUES (:id, :title, :description, :video_url, :duration, :category, :tags, :likes, :instructor_id, :created_at, :updated_at)`,
		row)
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return unpackLesson(row), nil
}

func (repo lessonRepository) GetLessonByID(ctx context.Context, id string) (lesson.Lesson, error) {
	var row lessonRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM lesson WHERE id = $1`, id); err != nil {
		return lesson.Lesson{}, trapLessonNoRowsErr(err, "getting lesson")
	}
	return unpackLesson(row), nil
}

func (repo lessonRepository) QueryLessons(ctx context.Context, filter lesson.Filter) ([]lesson.Lesson, error) {
	q := `SELECT * FROM lesson`
	args := make([]interface{}, 0, 1)
	if filter.Category != "" {
		q += ` WHERE category = $1`
		args = append(args, filter.Category)
	}
	switch filter.SortBy {
	case "duration":
		q += ` ORDER BY duration`
	default:
		q += ` ORDER BY created_at DESC`
	}

	var rows []lessonRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	return unpackLessons(rows), nil
}

func (repo lessonRepository) UpdateLesson(ctx context.Context, les lesson.Lesson) (lesson.Lesson, error) {
	row := packLesson(les)
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE lesson
		 SET title = :title, description = :description, video_url = :video_url,
		     duration = :duration, category = :category, tags = :tags, likes = :likes,
		     updated_at = :updated_at
		 WHERE id = :id`,
		row)
	if err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "updating lesson")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	return unpackLesson(row), nil
}

func (repo lessonRepository) DeleteLesson(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM lesson WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return lesson.ErrNotFound
	}
	return nil
}

func (repo lessonRepository) CountLessons(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM lesson`); err != nil {
		return 0, errors.Wrap(err, "counting lessons")
	}
	return count, nil
}

func (repo lessonRepository) SearchLessons(ctx context.Context, q string) ([]lesson.Lesson, error) {
	var rows []lessonRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM lesson WHERE title ILIKE $1 OR description ILIKE $1 ORDER BY created_at DESC`,
		"%"+q+"%")
	if err != nil {
		return nil, errors.Wrap(err, "searching lessons")
	}
	return unpackLessons(rows), nil
}

func unpackLessons(rows []lessonRow) []lesson.Lesson {
	lessons := make([]lesson.Lesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, unpackLesson(row))
	}
	return lessons
}
