package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core"
	"github.com/progress-uz/backend/core/lesson"
	"github.com/progress-uz/backend/core/post"
	"github.com/progress-uz/backend/core/resource"
)

type searchApi struct {
	lessonSvc   lesson.ServiceInterface
	postSvc     post.ServiceInterface
	resourceSvc resource.ServiceInterface
}

func registerSearchAPI(
	g *echo.Group,
	lessonSvc lesson.ServiceInterface,
	postSvc post.ServiceInterface,
	resourceSvc resource.ServiceInterface,
) {
	api := searchApi{lessonSvc: lessonSvc, postSvc: postSvc, resourceSvc: resourceSvc}
	g.GET("/search", api.search)
}

func (api *searchApi) search(ctx echo.Context) error {
	q := core.CleanString(ctx.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "search query is required")
	}
	reqCtx := ctx.Request().Context()

	lessons, err := api.lessonSvc.Search(reqCtx, q)
	if err != nil {
		return errors.Wrap(err, "searching lessons")
	}
	posts, err := api.postSvc.Search(reqCtx, q)
	if err != nil {
		return errors.Wrap(err, "searching posts")
	}
	resources, err := api.resourceSvc.Search(reqCtx, q)
	if err != nil {
		return errors.Wrap(err, "searching resources")
	}

	return successList(ctx, http.StatusOK, len(lessons)+len(posts)+len(resources), echo.Map{
		"lessons":   lessons,
		"posts":     posts,
		"resources": resources,
	})
}
