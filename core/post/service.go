package post

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("post not found")

type (
	Repository interface {
		CreatePost(ctx context.Context, pst Post) (Post, error)
		GetPostByID(ctx context.Context, id string) (Post, error)
		QueryPosts(ctx context.Context) ([]Post, error)
		UpdatePost(ctx context.Context, pst Post) (Post, error)
		DeletePost(ctx context.Context, id string) error
		CountPosts(ctx context.Context) (int, error)
		SearchPosts(ctx context.Context, q string) ([]Post, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, authorID string, np NewPost) (Post, error)
		GetByID(ctx context.Context, id string) (Post, error)
		Query(ctx context.Context) ([]Post, error)
		Update(ctx context.Context, id string, up UpdatePost) (Post, error)
		Delete(ctx context.Context, id string) error
		Count(ctx context.Context) (int, error)
		Search(ctx context.Context, q string) ([]Post, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, authorID string, np NewPost) (Post, error) {
	now := time.Now().UTC()
	pst := Post{
		Title:      np.Title,
		Content:    np.Content,
		AuthorID:   authorID,
		Category:   np.Category,
		CoverImage: np.CoverImage,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreatePost(ctx, pst)
}

func (svc *service) GetByID(ctx context.Context, id string) (Post, error) {
	return svc.repo.GetPostByID(ctx, id)
}

func (svc *service) Query(ctx context.Context) ([]Post, error) {
	return svc.repo.QueryPosts(ctx)
}

func (svc *service) Update(ctx context.Context, id string, up UpdatePost) (Post, error) {
	pst, err := svc.repo.GetPostByID(ctx, id)
	if err != nil {
		return Post{}, err
	}
	up.Apply(&pst)
	return svc.repo.UpdatePost(ctx, pst)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeletePost(ctx, id)
}

func (svc *service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountPosts(ctx)
}

func (svc *service) Search(ctx context.Context, q string) ([]Post, error) {
	return svc.repo.SearchPosts(ctx, q)
}
