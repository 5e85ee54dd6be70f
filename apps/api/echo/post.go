package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/post"
)

type postApi struct {
	svc post.ServiceInterface
}

func registerPostAPI(g *echo.Group, auth *auth, svc post.ServiceInterface) {
	api := postApi{svc: svc}

	pg := g.Group("/posts")
	pg.GET("", api.query)
	pg.GET("/:id", api.retrieve)

	ag := pg.Group("", auth.authenticate)
	ag.POST("", api.create)
	ag.PATCH("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

func (api *postApi) query(ctx echo.Context) error {
	posts, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying posts")
	}
	return successList(ctx, http.StatusOK, len(posts), echo.Map{"posts": posts})
}

func (api *postApi) retrieve(ctx echo.Context) error {
	pst, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == post.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting post")
	}
	return success(ctx, http.StatusOK, echo.Map{"post": pst})
}

func (api *postApi) create(ctx echo.Context) error {
	var data post.NewPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPost")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	pst, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating post")
	}
	return success(ctx, http.StatusCreated, echo.Map{"post": pst})
}

// checkPostAccess allows only the author or an admin through.
func (api *postApi) checkPostAccess(ctx echo.Context, id string) (post.Post, error) {
	usr, err := getContextUser(ctx)
	if err != nil {
		return post.Post{}, err
	}
	pst, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == post.ErrNotFound {
			return post.Post{}, errHTTPNotFound
		}
		return post.Post{}, errors.Wrap(err, "getting post")
	}
	if pst.AuthorID != usr.ID && !usr.IsAdmin() {
		return post.Post{}, errHTTPForbidden
	}
	return pst, nil
}

func (api *postApi) update(ctx echo.Context) error {
	if _, err := api.checkPostAccess(ctx, ctx.Param("id")); err != nil {
		return err
	}

	var data post.UpdatePost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePost")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	pst, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating post")
	}
	return success(ctx, http.StatusOK, echo.Map{"post": pst})
}

func (api *postApi) destroy(ctx echo.Context) error {
	if _, err := api.checkPostAccess(ctx, ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting post")
	}
	return ctx.NoContent(http.StatusNoContent)
}
