package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/lesson"
	"github.com/progress-uz/backend/core/post"
	"github.com/progress-uz/backend/core/resource"
	"github.com/progress-uz/backend/core/user"
)

type dashboardApi struct {
	userSvc     user.ServiceInterface
	lessonSvc   lesson.ServiceInterface
	postSvc     post.ServiceInterface
	resourceSvc resource.ServiceInterface
}

func registerDashboardAPI(
	g *echo.Group,
	auth *auth,
	userSvc user.ServiceInterface,
	lessonSvc lesson.ServiceInterface,
	postSvc post.ServiceInterface,
	resourceSvc resource.ServiceInterface,
) {
	api := dashboardApi{
		userSvc:     userSvc,
		lessonSvc:   lessonSvc,
		postSvc:     postSvc,
		resourceSvc: resourceSvc,
	}

	dg := g.Group("/dashboard", auth.authenticate, requireRoles(user.RoleAdmin))
	dg.GET("/stats", api.stats)
}

func (api *dashboardApi) stats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	roleCounts, err := api.userSvc.CountByRole(reqCtx)
	if err != nil {
		return errors.Wrap(err, "counting users")
	}
	var userCount int
	for _, n := range roleCounts {
		userCount += n
	}

	lessonCount, err := api.lessonSvc.Count(reqCtx)
	if err != nil {
		return errors.Wrap(err, "counting lessons")
	}
	postCount, err := api.postSvc.Count(reqCtx)
	if err != nil {
		return errors.Wrap(err, "counting posts")
	}
	resourceCount, err := api.resourceSvc.Count(reqCtx)
	if err != nil {
		return errors.Wrap(err, "counting resources")
	}

	return success(ctx, http.StatusOK, echo.Map{
		"stats": echo.Map{
			"users":     userCount,
			"roles":     roleCounts,
			"lessons":   lessonCount,
			"posts":     postCount,
			"resources": resourceCount,
		},
	})
}
