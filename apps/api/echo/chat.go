package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/chat"
	"github.com/progress-uz/backend/core/user"
)

type chatApi struct {
	svc     chat.ServiceInterface
	userSvc user.ServiceInterface
}

func registerChatAPI(g *echo.Group, auth *auth, svc chat.ServiceInterface, userSvc user.ServiceInterface) {
	api := chatApi{svc: svc, userSvc: userSvc}

	cg := g.Group("/chats", auth.authenticate)
	cg.GET("/users", api.queryUsers)
	cg.GET("/:userId", api.conversation)
	cg.POST("/:userId", api.send)
}

// queryUsers lists every user except the caller, as chat partners.
func (api *chatApi) queryUsers(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	users, err := api.userSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}

	partners := make([]user.User, 0, len(users))
	for _, u := range users {
		if u.ID != usr.ID {
			partners = append(partners, u)
		}
	}
	return successList(ctx, http.StatusOK, len(partners), echo.Map{"users": partners})
}

func (api *chatApi) conversation(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	msgs, err := api.svc.Conversation(ctx.Request().Context(), usr.ID, ctx.Param("userId"))
	if err != nil {
		return errors.Wrap(err, "querying conversation")
	}
	return successList(ctx, http.StatusOK, len(msgs), echo.Map{"messages": msgs})
}

func (api *chatApi) send(ctx echo.Context) error {
	var data chat.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	// the receiver must exist
	receiver, err := api.userSvc.GetByID(ctx.Request().Context(), ctx.Param("userId"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting receiver")
	}

	msg, err := api.svc.Send(ctx.Request().Context(), usr.ID, receiver.ID, data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return success(ctx, http.StatusCreated, echo.Map{"message": msg})
}
