package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/notification"
	"github.com/progress-uz/backend/core/user"
)

type notificationApi struct {
	svc notification.ServiceInterface
}

func registerNotificationAPI(g *echo.Group, auth *auth, svc notification.ServiceInterface) {
	api := notificationApi{svc: svc}

	ng := g.Group("/notifications", auth.authenticate)
	ng.GET("", api.query)
	ng.PATCH("/:id/read", api.markRead)
	ng.POST("", api.create, requireRoles(user.RoleAdmin))
}

func (api *notificationApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	ntfs, err := api.svc.ListForUser(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return successList(ctx, http.StatusOK, len(ntfs), echo.Map{"notifications": ntfs})
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	ntf, err := api.svc.MarkRead(ctx.Request().Context(), ctx.Param("id"), usr.ID)
	if err != nil {
		if errors.Cause(err) == notification.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "marking notification read")
	}
	return success(ctx, http.StatusOK, echo.Map{"notification": ntf})
}

func (api *notificationApi) create(ctx echo.Context) error {
	var data notification.NewNotification
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotification")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ntf, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating notification")
	}
	return success(ctx, http.StatusCreated, echo.Map{"notification": ntf})
}
