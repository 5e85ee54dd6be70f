package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/quiz"
	"github.com/progress-uz/backend/core/user"
)

type quizApi struct {
	svc quiz.ServiceInterface
}

func registerQuizAPI(g *echo.Group, auth *auth, svc quiz.ServiceInterface) {
	api := quizApi{svc: svc}

	qg := g.Group("/quizzes")
	qg.GET("", api.query)
	qg.GET("/:id", api.retrieve)

	ag := qg.Group("", auth.authenticate)
	ag.POST("", api.create, requireRoles(user.RoleAdmin, user.RoleTeacher))
	ag.PUT("/:id", api.update, requireRoles(user.RoleAdmin, user.RoleTeacher))
	ag.DELETE("/:id", api.destroy, requireRoles(user.RoleAdmin, user.RoleTeacher))
	ag.POST("/:id/evaluate", api.evaluate)
}

func (api *quizApi) query(ctx echo.Context) error {
	quizzes, err := api.svc.Query(ctx.Request().Context(), ctx.QueryParam("lesson"))
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	return successList(ctx, http.StatusOK, len(quizzes), echo.Map{"quizzes": quizzes})
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	qz, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting quiz")
	}
	return success(ctx, http.StatusOK, echo.Map{"quiz": qz})
}

func (api *quizApi) create(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	qz, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating quiz")
	}
	return success(ctx, http.StatusCreated, echo.Map{"quiz": qz})
}

func (api *quizApi) update(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	qz, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating quiz")
	}
	return success(ctx, http.StatusOK, echo.Map{"quiz": qz})
}

func (api *quizApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "deleting quiz")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *quizApi) evaluate(ctx echo.Context) error {
	var data quiz.Submission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.Evaluate(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		switch errors.Cause(err) {
		case quiz.ErrNotFound:
			return errHTTPNotFound
		case quiz.ErrIncompleteAnswers:
			return echo.NewHTTPError(http.StatusBadRequest, quiz.ErrIncompleteAnswers.Error())
		}
		return errors.Wrap(err, "evaluating quiz")
	}
	return success(ctx, http.StatusOK, echo.Map{"result": res})
}
