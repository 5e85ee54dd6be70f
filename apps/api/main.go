package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/progress-uz/backend/apps/api/echo"
	"github.com/progress-uz/backend/core"
	"github.com/progress-uz/backend/core/chat"
	"github.com/progress-uz/backend/core/comment"
	"github.com/progress-uz/backend/core/lesson"
	"github.com/progress-uz/backend/core/notification"
	"github.com/progress-uz/backend/core/post"
	"github.com/progress-uz/backend/core/quiz"
	"github.com/progress-uz/backend/core/resource"
	"github.com/progress-uz/backend/core/user"
	broadcastsvc "github.com/progress-uz/backend/services/broadcast"
	emailsvc "github.com/progress-uz/backend/services/email"
	googlesvc "github.com/progress-uz/backend/services/google"
	logsvc "github.com/progress-uz/backend/services/logger"
	"github.com/progress-uz/backend/storage/database"
	sqlxrepos "github.com/progress-uz/backend/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	conf, err := core.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	broadcaster := broadcastsvc.NewMemoryBroadcaster()
	verifier := googlesvc.NewVerifier(conf, logger)

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), verifier, mailSvc, conf)
	notifSvc := notification.NewService(sqlxrepos.NewNotificationRepository(db), broadcaster)

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:         conf.Server.Addr(),
		Conf:            conf,
		Logger:          logger,
		Shutdown:        func() { shutdown <- syscall.SIGTERM },
		UserSvc:         usrSvc,
		LessonSvc:       lesson.NewService(sqlxrepos.NewLessonRepository(db)),
		CommentSvc:      comment.NewService(sqlxrepos.NewCommentRepository(db)),
		QuizSvc:         quiz.NewService(sqlxrepos.NewQuizRepository(db)),
		PostSvc:         post.NewService(sqlxrepos.NewPostRepository(db)),
		ResourceSvc:     resource.NewService(sqlxrepos.NewResourceRepository(db)),
		NotificationSvc: notifSvc,
		ChatSvc:         chat.NewService(sqlxrepos.NewChatRepository(db), broadcaster),
	})

	go server.Start()

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}
