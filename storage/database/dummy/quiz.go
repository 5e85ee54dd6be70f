package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/progress-uz/backend/core/quiz"
)

type quizRepository struct {
	db *quizTable
}

var _ quiz.Repository = (*quizRepository)(nil)

func NewQuizRepository(db *DB) quiz.Repository {
	return &quizRepository{db: db.quiz}
}

func (repo *quizRepository) CreateQuiz(_ context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	qz.ID = uuid.New().String()
	repo.db.table[qz.ID] = &qz
	return qz, nil
}

func (repo *quizRepository) GetQuizByID(_ context.Context, id string) (quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if qz, ok := repo.db.table[id]; ok {
		return *qz, nil
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) QueryQuizzes(_ context.Context, lessonID string) ([]quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var quizzes []quiz.Quiz
	for _, qz := range repo.db.table {
		if lessonID == "" || qz.LessonID == lessonID {
			quizzes = append(quizzes, *qz)
		}
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt) })
	return quizzes, nil
}

func (repo *quizRepository) UpdateQuiz(_ context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[qz.ID]; !ok {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	repo.db.table[qz.ID] = &qz
	return qz, nil
}

func (repo *quizRepository) DeleteQuiz(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return quiz.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
