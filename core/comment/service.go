package comment

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("comment not found")

type (
	Repository interface {
		CreateComment(ctx context.Context, cmt Comment) (Comment, error)
		GetCommentByID(ctx context.Context, id string) (Comment, error)
		QueryCommentsByLesson(ctx context.Context, lessonID string) ([]Comment, error)
		DeleteComment(ctx context.Context, id string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, lessonID, userID string, nc NewComment) (Comment, error)
		GetByID(ctx context.Context, id string) (Comment, error)
		QueryByLesson(ctx context.Context, lessonID string) ([]Comment, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, lessonID, userID string, nc NewComment) (Comment, error) {
	cmt := Comment{
		LessonID:  lessonID,
		UserID:    userID,
		Text:      nc.Text,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateComment(ctx, cmt)
}

func (svc *service) GetByID(ctx context.Context, id string) (Comment, error) {
	return svc.repo.GetCommentByID(ctx, id)
}

func (svc *service) QueryByLesson(ctx context.Context, lessonID string) ([]Comment, error) {
	return svc.repo.QueryCommentsByLesson(ctx, lessonID)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteComment(ctx, id)
}
