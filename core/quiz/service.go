package quiz

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("quiz not found")

type (
	Repository interface {
		CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		GetQuizByID(ctx context.Context, id string) (Quiz, error)
		QueryQuizzes(ctx context.Context, lessonID string) ([]Quiz, error)
		UpdateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		DeleteQuiz(ctx context.Context, id string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nq NewQuiz) (Quiz, error)
		GetByID(ctx context.Context, id string) (Quiz, error)
		Query(ctx context.Context, lessonID string) ([]Quiz, error)
		Update(ctx context.Context, id string, nq NewQuiz) (Quiz, error)
		Delete(ctx context.Context, id string) error
		Evaluate(ctx context.Context, id string, sub Submission) (Result, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nq NewQuiz) (Quiz, error) {
	now := time.Now().UTC()
	qz := Quiz{
		Title:     nq.Title,
		LessonID:  nq.LessonID,
		Questions: nq.Questions,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateQuiz(ctx, qz)
}

func (svc *service) GetByID(ctx context.Context, id string) (Quiz, error) {
	return svc.repo.GetQuizByID(ctx, id)
}

func (svc *service) Query(ctx context.Context, lessonID string) ([]Quiz, error) {
	return svc.repo.QueryQuizzes(ctx, lessonID)
}

// Update replaces the quiz content wholesale; quizzes are small enough that
// partial patches are not worth the bookkeeping.
func (svc *service) Update(ctx context.Context, id string, nq NewQuiz) (Quiz, error) {
	qz, err := svc.repo.GetQuizByID(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	qz.Title = nq.Title
	qz.LessonID = nq.LessonID
	qz.Questions = nq.Questions
	qz.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateQuiz(ctx, qz)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteQuiz(ctx, id)
}

func (svc *service) Evaluate(ctx context.Context, id string, sub Submission) (Result, error) {
	qz, err := svc.repo.GetQuizByID(ctx, id)
	if err != nil {
		return Result{}, err
	}
	return qz.Evaluate(sub.Answers)
}
