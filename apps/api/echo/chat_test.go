package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progress-uz/backend/core/chat"
	"github.com/progress-uz/backend/core/user"
)

func TestChatSend(t *testing.T) {
	app := setup(t)
	sender := createUser(t, app.usrRepo, "Sender", "sender", "sender@test.uz", "secret123", user.RoleStudent)
	receiver := createUser(t, app.usrRepo, "Receiver", "receiver", "receiver@test.uz", "secret123", user.RoleTeacher)
	senderToken := app.loginToken(t, "sender@test.uz", "secret123")

	t.Run("anonymous", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"body": "hey"})
		req, rec := newRequest(http.MethodPost, "/api/v1/chats/"+receiver.ID, body)
		app.do(req, rec)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown receiver", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"body": "hey"})
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/chats/no-such-user", senderToken, body)
		app.do(req, rec)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/chats/"+receiver.ID, senderToken, marshallObj(t, map[string]string{}))
		app.do(req, rec)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"body":"this field is required"`)
	})

	t.Run("ok and pushed to the receiver", func(t *testing.T) {
		sub, cancel := app.broadcaster.Subscribe(receiver.ID)
		defer cancel()

		body := marshallObj(t, map[string]string{"body": "hey there"})
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/chats/"+receiver.ID, senderToken, body)
		env := app.do(req, rec)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var msg chat.Message
		require.NoError(t, unmarshalData(env, "message", &msg))
		assert.Equal(t, sender.ID, msg.SenderID)
		assert.Equal(t, receiver.ID, msg.ReceiverID)
		assert.Equal(t, "hey there", msg.Body)

		select {
		case d := <-sub:
			assert.Equal(t, "message", d.Event)
			assert.Equal(t, receiver.ID, d.Room)
		default:
			t.Fatal("expected the message to be pushed to the receiver")
		}
	})
}

func TestChatConversation(t *testing.T) {
	app := setup(t)
	alice := createUser(t, app.usrRepo, "Alice", "alice", "alice@test.uz", "secret123", user.RoleStudent)
	bob := createUser(t, app.usrRepo, "Bob", "bob", "bob@test.uz", "secret123", user.RoleStudent)
	createUser(t, app.usrRepo, "Carol", "carol", "carol@test.uz", "secret123", user.RoleStudent)

	aliceToken := app.loginToken(t, "alice@test.uz", "secret123")
	bobToken := app.loginToken(t, "bob@test.uz", "secret123")
	carolToken := app.loginToken(t, "carol@test.uz", "secret123")

	send := func(token, to, text string) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/chats/"+to, token, marshallObj(t, map[string]string{"body": text}))
		app.do(req, rec)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	send(aliceToken, bob.ID, "hi bob")
	send(bobToken, alice.ID, "hi alice")
	send(carolToken, bob.ID, "hi from carol")

	t.Run("both directions in order", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/chats/"+bob.ID, aliceToken)
		env := app.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var msgs []chat.Message
		require.NoError(t, unmarshalData(env, "messages", &msgs))
		require.Len(t, msgs, 2)
		assert.Equal(t, "hi bob", msgs[0].Body)
		assert.Equal(t, "hi alice", msgs[1].Body)
	})

	t.Run("third parties see nothing", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/chats/"+alice.ID, carolToken)
		env := app.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, env.Results)
		assert.Equal(t, 0, *env.Results)
	})

	t.Run("partner list excludes the caller", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/chats/users", aliceToken)
		env := app.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var partners []user.User
		require.NoError(t, unmarshalData(env, "users", &partners))
		require.Len(t, partners, 2)
		for _, p := range partners {
			assert.NotEqual(t, alice.ID, p.ID)
		}
	})
}
