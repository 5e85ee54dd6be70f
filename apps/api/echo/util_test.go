package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"

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
	logsvc "github.com/progress-uz/backend/services/logger"
	dummydb "github.com/progress-uz/backend/storage/database/dummy"
)

type testApp struct {
	server      echoapi.Server
	usrRepo     user.Repository
	usrSvc      user.ServiceInterface
	notifSvc    notification.ServiceInterface
	broadcaster *broadcastsvc.MemoryBroadcaster
	verifier    *stubVerifier
}

// stubVerifier stands in for the external identity provider.
type stubVerifier struct {
	claims user.FederatedClaims
	err    error
}

func (v *stubVerifier) Verify(_ context.Context, _ string) (user.FederatedClaims, error) {
	if v.err != nil {
		return user.FederatedClaims{}, v.err
	}
	return v.claims, nil
}

func testConfig() *core.Config {
	return &core.Config{
		Env:       "test",
		TestMode:  true,
		AppName:   "Progress",
		SecretKey: []byte("test-secret-key"),
		Server: core.ServerConfig{
			JWTExpirationDelta: 90 * 24 * time.Hour,
		},
	}
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := testConfig()
	logger := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}

	usrRepo := dummydb.NewUserRepository(db)
	broadcaster := broadcastsvc.NewMemoryBroadcaster()
	verifier := &stubVerifier{}

	usrSvc := user.NewService(usrRepo, verifier, nil, conf)
	notifSvc := notification.NewService(dummydb.NewNotificationRepository(db), broadcaster)

	server := echoapi.NewServer(&echoapi.Options{
		DisableReqLogs:  true,
		Conf:            conf,
		Logger:          logger,
		UserSvc:         usrSvc,
		LessonSvc:       lesson.NewService(dummydb.NewLessonRepository(db)),
		CommentSvc:      comment.NewService(dummydb.NewCommentRepository(db)),
		QuizSvc:         quiz.NewService(dummydb.NewQuizRepository(db)),
		PostSvc:         post.NewService(dummydb.NewPostRepository(db)),
		ResourceSvc:     resource.NewService(dummydb.NewResourceRepository(db)),
		NotificationSvc: notifSvc,
		ChatSvc:         chat.NewService(dummydb.NewChatRepository(db), broadcaster),
	})

	return &testApp{
		server:      server,
		usrRepo:     usrRepo,
		usrSvc:      usrSvc,
		notifSvc:    notifSvc,
		broadcaster: broadcaster,
		verifier:    verifier,
	}
}

// envelope mirrors the response shapes for assertions.
type envelope struct {
	Status  string                     `json:"status"`
	Token   string                     `json:"token"`
	Results *int                       `json:"results"`
	Message json.RawMessage            `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app *testApp) do(req *http.Request, rec *httptest.ResponseRecorder) envelope {
	app.server.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return env
}

// unmarshalData decodes one key of the response data object.
func unmarshalData(env envelope, key string, v interface{}) error {
	raw, ok := env.Data[key]
	if !ok {
		return errors.Errorf("response data has no %q key", key)
	}
	return json.Unmarshal(raw, v)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

// createUser seeds a user with a usable password directly in the store.
func createUser(t *testing.T, repo user.Repository, name, username, email, pwd, role string) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  username,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

// loginToken obtains a session token through the login endpoint.
func (app *testApp) loginToken(t *testing.T, identifier, pwd string) string {
	t.Helper()

	body := marshallObj(t, map[string]string{"email": identifier, "password": pwd})
	req, rec := newRequest(http.MethodPost, "/api/v1/users/login", body)
	env := app.do(req, rec)
	if rec.Code != http.StatusOK {
		t.Fatalf("loginToken(): code = %d; body = %s", rec.Code, rec.Body.String())
	}
	return env.Token
}
