package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/progress-uz/backend/core"
	"github.com/progress-uz/backend/core/chat"
	"github.com/progress-uz/backend/core/comment"
	"github.com/progress-uz/backend/core/lesson"
	"github.com/progress-uz/backend/core/notification"
	"github.com/progress-uz/backend/core/post"
	"github.com/progress-uz/backend/core/quiz"
	"github.com/progress-uz/backend/core/resource"
	"github.com/progress-uz/backend/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf   *core.Config
		Logger core.Logger

		// Shutdown is called when a request handler reports an
		// unrecoverable error. Optional.
		Shutdown func()

		UserSvc         user.ServiceInterface
		LessonSvc       lesson.ServiceInterface
		CommentSvc      comment.ServiceInterface
		QuizSvc         quiz.ServiceInterface
		PostSvc         post.ServiceInterface
		ResourceSvc     resource.ServiceInterface
		NotificationSvc notification.ServiceInterface
		ChatSvc         chat.ServiceInterface
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/api/v1")
	auth := newAuth(conf, s.opts.UserSvc)

	registerUserAPI(v1, auth, s.opts.UserSvc)
	registerLessonAPI(v1, auth, s.opts.LessonSvc, s.opts.CommentSvc, s.opts.NotificationSvc)
	registerQuizAPI(v1, auth, s.opts.QuizSvc)
	registerPostAPI(v1, auth, s.opts.PostSvc)
	registerResourceAPI(v1, auth, s.opts.ResourceSvc)
	registerNotificationAPI(v1, auth, s.opts.NotificationSvc)
	registerChatAPI(v1, auth, s.opts.ChatSvc, s.opts.UserSvc)
	registerDashboardAPI(v1, auth, s.opts.UserSvc, s.opts.LessonSvc, s.opts.PostSvc, s.opts.ResourceSvc)
	registerSearchAPI(v1, s.opts.LessonSvc, s.opts.PostSvc, s.opts.ResourceSvc)
}

func (s *server) signalShutdown() {
	if s.opts.Shutdown != nil {
		s.opts.Shutdown()
	}
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Progress API!")
}
