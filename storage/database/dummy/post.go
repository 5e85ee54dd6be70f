package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/progress-uz/backend/core/post"
)

type postRepository struct {
	db *postTable
}

var _ post.Repository = (*postRepository)(nil)

func NewPostRepository(db *DB) post.Repository {
	return &postRepository{db: db.post}
}

func (repo *postRepository) query() []post.Post {
	posts := make([]post.Post, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts
}

func (repo *postRepository) CreatePost(_ context.Context, pst post.Post) (post.Post, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	pst.ID = uuid.New().String()
	repo.db.table[pst.ID] = &pst
	return pst, nil
}

func (repo *postRepository) GetPostByID(_ context.Context, id string) (post.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pst, ok := repo.db.table[id]; ok {
		return *pst, nil
	}
	return post.Post{}, post.ErrNotFound
}

func (repo *postRepository) QueryPosts(_ context.Context) ([]post.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *postRepository) UpdatePost(_ context.Context, pst post.Post) (post.Post, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[pst.ID]; !ok {
		return post.Post{}, post.ErrNotFound
	}
	repo.db.table[pst.ID] = &pst
	return pst, nil
}

func (repo *postRepository) DeletePost(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return post.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *postRepository) CountPosts(_ context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.table), nil
}

func (repo *postRepository) SearchPosts(_ context.Context, q string) ([]post.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	q = strings.ToLower(q)
	var matched []post.Post
	for _, p := range repo.query() {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Content), q) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}
