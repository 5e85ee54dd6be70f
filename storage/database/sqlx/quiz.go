package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/quiz"
)

type quizRow struct {
	ID        string          `db:"id"`
	Title     string          `db:"title"`
	LessonID  string          `db:"lesson_id"`
	Questions json.RawMessage `db:"questions"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func packQuiz(qz quiz.Quiz) (quizRow, error) {
	questions, err := json.Marshal(qz.Questions)
	if err != nil {
		return quizRow{}, errors.Wrap(err, "encoding questions")
	}
	return quizRow{
		ID:        qz.ID,
		Title:     qz.Title,
		LessonID:  qz.LessonID,
		Questions: questions,
		CreatedAt: qz.CreatedAt.UTC(),
		UpdatedAt: qz.UpdatedAt.UTC(),
	}, nil
}

func unpackQuiz(row quizRow) (quiz.Quiz, error) {
	qz := quiz.Quiz{
		ID:        row.ID,
		Title:     row.Title,
		LessonID:  row.LessonID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal(row.Questions, &qz.Questions); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "decoding questions")
	}
	return qz, nil
}

type quizRepository struct {
	db *sqlx.DB
}

var _ quiz.Repository = (*quizRepository)(nil)

func NewQuizRepository(db *sqlx.DB) *quizRepository {
	return &quizRepository{db: db}
}

func (repo quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	qz.ID = uuid.New().String()
	row, err := packQuiz(qz)
	if err != nil {
		return quiz.Quiz{}, err
	}
	_, err = repo.db.NamedExecContext(ctx,
		`INSERT INTO quiz (id, title, lesson_id, questions, created_at, updated_at)
		 VALUES (:id, :title, :lesson_id, :questions, :created_at, :updated_at)`,
		row)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return qz, nil
}

func (repo quizRepository) GetQuizByID(ctx context.Context, id string) (quiz.Quiz, error) {
	var row quizRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM quiz WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return quiz.Quiz{}, quiz.ErrNotFound
		}
		return quiz.Quiz{}, errors.Wrap(err, "getting quiz")
	}
	return unpackQuiz(row)
}

func (repo quizRepository) QueryQuizzes(ctx context.Context, lessonID string) ([]quiz.Quiz, error) {
	q := `SELECT * FROM quiz ORDER BY created_at DESC`
	args := make([]interface{}, 0, 1)
	if lessonID != "" {
		q = `SELECT * FROM quiz WHERE lesson_id = $1 ORDER BY created_at DESC`
		args = append(args, lessonID)
	}

	var rows []quizRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying quizzes")
	}
	quizzes := make([]quiz.Quiz, 0, len(rows))
	for _, row := range rows {
		qz, err := unpackQuiz(row)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, qz)
	}
	return quizzes, nil
}

func (repo quizRepository) UpdateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	row, err := packQuiz(qz)
	if err != nil {
		return quiz.Quiz{}, err
	}
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE quiz
		 SET title = :title, lesson_id = :lesson_id, questions = :questions, updated_at = :updated_at
		 WHERE id = :id`,
		row)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "updating quiz")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	return qz, nil
}

func (repo quizRepository) DeleteQuiz(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM quiz WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting quiz")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return quiz.ErrNotFound
	}
	return nil
}
