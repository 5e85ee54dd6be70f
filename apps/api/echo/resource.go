package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/resource"
	"github.com/progress-uz/backend/core/user"
)

type resourceApi struct {
	svc resource.ServiceInterface
}

func registerResourceAPI(g *echo.Group, auth *auth, svc resource.ServiceInterface) {
	api := resourceApi{svc: svc}

	rg := g.Group("/resources")
	rg.GET("", api.query)
	rg.GET("/:id", api.retrieve)

	ag := rg.Group("", auth.authenticate, requireRoles(user.RoleAdmin, user.RoleTeacher))
	ag.POST("", api.create)
	ag.PATCH("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

func (api *resourceApi) query(ctx echo.Context) error {
	resources, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	return successList(ctx, http.StatusOK, len(resources), echo.Map{"resources": resources})
}

func (api *resourceApi) retrieve(ctx echo.Context) error {
	res, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == resource.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting resource")
	}
	return success(ctx, http.StatusOK, echo.Map{"resource": res})
}

func (api *resourceApi) create(ctx echo.Context) error {
	var data resource.NewResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating resource")
	}
	return success(ctx, http.StatusCreated, echo.Map{"resource": res})
}

func (api *resourceApi) update(ctx echo.Context) error {
	var data resource.UpdateResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateResource")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == resource.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating resource")
	}
	return success(ctx, http.StatusOK, echo.Map{"resource": res})
}

func (api *resourceApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == resource.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "deleting resource")
	}
	return ctx.NoContent(http.StatusNoContent)
}
