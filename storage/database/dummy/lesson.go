package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/progress-uz/backend/core/lesson"
)

type lessonRepository struct {
	db *lessonTable
}

var _ lesson.Repository = (*lessonRepository)(nil)

func NewLessonRepository(db *DB) lesson.Repository {
	return &lessonRepository{db: db.lesson}
}

func (repo *lessonRepository) query() []lesson.Lesson {
	lessons := make([]lesson.Lesson, 0, len(repo.db.table))
	for _, l := range repo.db.table {
		lessons = append(lessons, *l)
	}
	return lessons
}

func (repo *lessonRepository) CreateLesson(_ context.Context, les lesson.Lesson) (lesson.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	les.ID = uuid.New().String()
	repo.db.table[les.ID] = &les
	return les, nil
}

func (repo *lessonRepository) GetLessonByID(_ context.Context, id string) (lesson.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if les, ok := repo.db.table[id]; ok {
		return *les, nil
	}
	return lesson.Lesson{}, lesson.ErrNotFound
}

func (repo *lessonRepository) QueryLessons(_ context.Context, filter lesson.Filter) ([]lesson.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	lessons := repo.query()
	if filter.Category != "" {
		filtered := lessons[:0]
		for _, l := range lessons {
			if l.Category == filter.Category {
				filtered = append(filtered, l)
			}
		}
		lessons = filtered
	}

	switch filter.SortBy {
	case "duration":
		sort.Slice(lessons, func(i, j int) bool { return lessons[i].Duration < lessons[j].Duration })
	default:
		sort.Slice(lessons, func(i, j int) bool { return lessons[i].CreatedAt.After(lessons[j].CreatedAt) })
	}
	return lessons, nil
}

func (repo *lessonRepository) UpdateLesson(_ context.Context, les lesson.Lesson) (lesson.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[les.ID]; !ok {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	repo.db.table[les.ID] = &les
	return les, nil
}

func (repo *lessonRepository) DeleteLesson(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return lesson.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *lessonRepository) CountLessons(_ context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.table), nil
}

func (repo *lessonRepository) SearchLessons(_ context.Context, q string) ([]lesson.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	q = strings.ToLower(q)
	var matched []lesson.Lesson
	for _, l := range repo.query() {
		if strings.Contains(strings.ToLower(l.Title), q) ||
			strings.Contains(strings.ToLower(l.Description), q) {
			matched = append(matched, l)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}
