package lesson

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("lesson not found")

type (
	Repository interface {
		CreateLesson(ctx context.Context, les Lesson) (Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		QueryLessons(ctx context.Context, filter Filter) ([]Lesson, error)
		UpdateLesson(ctx context.Context, les Lesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id string) error
		CountLessons(ctx context.Context) (int, error)
		SearchLessons(ctx context.Context, q string) ([]Lesson, error)
	}

	// Filter narrows and orders QueryLessons results.
	Filter struct {
		Category string
		SortBy   string // "created_at" (default) or "duration"
	}

	ServiceInterface interface {
		Create(ctx context.Context, nl NewLesson) (Lesson, error)
		GetByID(ctx context.Context, id string) (Lesson, error)
		Query(ctx context.Context, filter Filter) ([]Lesson, error)
		Update(ctx context.Context, id string, ul UpdateLesson) (Lesson, error)
		Delete(ctx context.Context, id string) error
		ToggleLike(ctx context.Context, id, userID string) (Lesson, error)
		Count(ctx context.Context) (int, error)
		Search(ctx context.Context, q string) ([]Lesson, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nl NewLesson) (Lesson, error) {
	now := time.Now().UTC()
	les := Lesson{
		Title:        nl.Title,
		Description:  nl.Description,
		VideoURL:     nl.VideoURL,
		Duration:     nl.Duration,
		Category:     nl.Category,
		Tags:         nl.Tags,
		Likes:        []string{},
		InstructorID: nl.InstructorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateLesson(ctx, les)
}

func (svc *service) GetByID(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter Filter) ([]Lesson, error) {
	return svc.repo.QueryLessons(ctx, filter)
}

func (svc *service) Update(ctx context.Context, id string, ul UpdateLesson) (Lesson, error) {
	les, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	ul.Apply(&les)
	return svc.repo.UpdateLesson(ctx, les)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteLesson(ctx, id)
}

// ToggleLike adds userID to the like set, or removes it if present.
func (svc *service) ToggleLike(ctx context.Context, id, userID string) (Lesson, error) {
	les, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	if les.LikedBy(userID) {
		likes := les.Likes[:0]
		for _, uid := range les.Likes {
			if uid != userID {
				likes = append(likes, uid)
			}
		}
		les.Likes = likes
	} else {
		les.Likes = append(les.Likes, userID)
	}
	les.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateLesson(ctx, les)
}

func (svc *service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountLessons(ctx)
}

func (svc *service) Search(ctx context.Context, q string) ([]Lesson, error) {
	return svc.repo.SearchLessons(ctx, q)
}
