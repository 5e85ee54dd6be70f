package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/progress-uz/backend/core/comment"
)

type commentRepository struct {
	db *commentTable
}

var _ comment.Repository = (*commentRepository)(nil)

func NewCommentRepository(db *DB) comment.Repository {
	return &commentRepository{db: db.comment}
}

func (repo *commentRepository) CreateComment(_ context.Context, cmt comment.Comment) (comment.Comment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	cmt.ID = uuid.New().String()
	repo.db.table[cmt.ID] = &cmt
	return cmt, nil
}

func (repo *commentRepository) GetCommentByID(_ context.Context, id string) (comment.Comment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cmt, ok := repo.db.table[id]; ok {
		return *cmt, nil
	}
	return comment.Comment{}, comment.ErrNotFound
}

func (repo *commentRepository) QueryCommentsByLesson(_ context.Context, lessonID string) ([]comment.Comment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var comments []comment.Comment
	for _, cmt := range repo.db.table {
		if cmt.LessonID == lessonID {
			comments = append(comments, *cmt)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (repo *commentRepository) DeleteComment(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return comment.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
