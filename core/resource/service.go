package resource

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("resource not found")

type (
	Repository interface {
		CreateResource(ctx context.Context, res Resource) (Resource, error)
		GetResourceByID(ctx context.Context, id string) (Resource, error)
		QueryResources(ctx context.Context) ([]Resource, error)
		UpdateResource(ctx context.Context, res Resource) (Resource, error)
		DeleteResource(ctx context.Context, id string) error
		CountResources(ctx context.Context) (int, error)
		SearchResources(ctx context.Context, q string) ([]Resource, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, nr NewResource) (Resource, error)
		GetByID(ctx context.Context, id string) (Resource, error)
		Query(ctx context.Context) ([]Resource, error)
		Update(ctx context.Context, id string, ur UpdateResource) (Resource, error)
		Delete(ctx context.Context, id string) error
		Count(ctx context.Context) (int, error)
		Search(ctx context.Context, q string) ([]Resource, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nr NewResource) (Resource, error) {
	now := time.Now().UTC()
	res := Resource{
		Title:       nr.Title,
		Type:        nr.Type,
		URL:         nr.URL,
		Category:    nr.Category,
		Description: nr.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateResource(ctx, res)
}

func (svc *service) GetByID(ctx context.Context, id string) (Resource, error) {
	return svc.repo.GetResourceByID(ctx, id)
}

func (svc *service) Query(ctx context.Context) ([]Resource, error) {
	return svc.repo.QueryResources(ctx)
}

func (svc *service) Update(ctx context.Context, id string, ur UpdateResource) (Resource, error) {
	res, err := svc.repo.GetResourceByID(ctx, id)
	if err != nil {
		return Resource{}, err
	}
	ur.Apply(&res)
	return svc.repo.UpdateResource(ctx, res)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteResource(ctx, id)
}

func (svc *service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountResources(ctx)
}

func (svc *service) Search(ctx context.Context, q string) ([]Resource, error) {
	return svc.repo.SearchResources(ctx, q)
}
