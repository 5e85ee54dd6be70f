package dummydb

import (
	"sync"

	"github.com/progress-uz/backend/core/chat"
	"github.com/progress-uz/backend/core/comment"
	"github.com/progress-uz/backend/core/lesson"
	"github.com/progress-uz/backend/core/notification"
	"github.com/progress-uz/backend/core/post"
	"github.com/progress-uz/backend/core/quiz"
	"github.com/progress-uz/backend/core/resource"
	"github.com/progress-uz/backend/core/user"
)

// DB is an in-memory store mirroring the sqlx repositories. Used in tests
// and by the admin CLI tests.
type (
	DB struct {
		user         *userTable
		lesson       *lessonTable
		comment      *commentTable
		quiz         *quizTable
		post         *postTable
		resource     *resourceTable
		notification *notificationTable
		message      *messageTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	lessonTable struct {
		sync.RWMutex
		table map[string]*lesson.Lesson
	}
	commentTable struct {
		sync.RWMutex
		table map[string]*comment.Comment
	}
	quizTable struct {
		sync.RWMutex
		table map[string]*quiz.Quiz
	}
	postTable struct {
		sync.RWMutex
		table map[string]*post.Post
	}
	resourceTable struct {
		sync.RWMutex
		table map[string]*resource.Resource
	}
	notificationTable struct {
		sync.RWMutex
		table map[string]*notification.Notification
	}
	messageTable struct {
		sync.RWMutex
		table map[string]*chat.Message
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:         &userTable{table: make(map[string]*user.User)},
		lesson:       &lessonTable{table: make(map[string]*lesson.Lesson)},
		comment:      &commentTable{table: make(map[string]*comment.Comment)},
		quiz:         &quizTable{table: make(map[string]*quiz.Quiz)},
		post:         &postTable{table: make(map[string]*post.Post)},
		resource:     &resourceTable{table: make(map[string]*resource.Resource)},
		notification: &notificationTable{table: make(map[string]*notification.Notification)},
		message:      &messageTable{table: make(map[string]*chat.Message)},
	}
	return db, nil
}
