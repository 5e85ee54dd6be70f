package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/comment"
	"github.com/progress-uz/backend/core/lesson"
	"github.com/progress-uz/backend/core/notification"
	"github.com/progress-uz/backend/core/user"
)

type lessonApi struct {
	svc        lesson.ServiceInterface
	commentSvc comment.ServiceInterface
	notifSvc   notification.ServiceInterface
}

func registerLessonAPI(
	g *echo.Group,
	auth *auth,
	svc lesson.ServiceInterface,
	commentSvc comment.ServiceInterface,
	notifSvc notification.ServiceInterface,
) {
	api := lessonApi{svc: svc, commentSvc: commentSvc, notifSvc: notifSvc}

	lg := g.Group("/lessons")
	lg.GET("", api.query)
	lg.GET("/:id", api.retrieve)
	lg.GET("/:id/comments", api.queryComments)

	ag := lg.Group("", auth.authenticate)
	ag.POST("", api.create, requireRoles(user.RoleAdmin, user.RoleTeacher))
	ag.PATCH("/:id", api.update, requireRoles(user.RoleAdmin, user.RoleTeacher))
	ag.DELETE("/:id", api.destroy, requireRoles(user.RoleAdmin, user.RoleTeacher))
	ag.POST("/:id/like", api.like)
	ag.POST("/:id/comments", api.createComment)
	ag.DELETE("/:id/comments/:commentId", api.destroyComment)
}

func (api *lessonApi) query(ctx echo.Context) error {
	filter := lesson.Filter{
		Category: ctx.QueryParam("category"),
		SortBy:   ctx.QueryParam("sort"),
	}
	lessons, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	return successList(ctx, http.StatusOK, len(lessons), echo.Map{"lessons": lessons})
}

func (api *lessonApi) retrieve(ctx echo.Context) error {
	les, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == lesson.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting lesson")
	}
	return success(ctx, http.StatusOK, echo.Map{"lesson": les})
}

func (api *lessonApi) create(ctx echo.Context) error {
	var data lesson.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}

	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if data.InstructorID == "" {
		data.InstructorID = usr.ID
	}
	if err = data.Validate(); err != nil {
		return err
	}

	les, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}

	if api.notifSvc != nil {
		_, err = api.notifSvc.Create(ctx.Request().Context(), notification.NewNotification{
			Type:    notification.TypeNewLesson,
			Message: "New lesson: " + les.Title,
			Link:    "/lessons/" + les.ID,
		})
		if err != nil {
			return errors.Wrap(err, "creating lesson notification")
		}
	}
	return success(ctx, http.StatusCreated, echo.Map{"lesson": les})
}

func (api *lessonApi) update(ctx echo.Context) error {
	var data lesson.UpdateLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	les, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == lesson.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating lesson")
	}
	return success(ctx, http.StatusOK, echo.Map{"lesson": les})
}

func (api *lessonApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == lesson.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *lessonApi) like(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	les, err := api.svc.ToggleLike(ctx.Request().Context(), ctx.Param("id"), usr.ID)
	if err != nil {
		if errors.Cause(err) == lesson.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "toggling like")
	}
	return success(ctx, http.StatusOK, echo.Map{"lesson": les})
}

func (api *lessonApi) queryComments(ctx echo.Context) error {
	comments, err := api.commentSvc.QueryByLesson(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying comments")
	}
	return successList(ctx, http.StatusOK, len(comments), echo.Map{"comments": comments})
}

func (api *lessonApi) createComment(ctx echo.Context) error {
	var data comment.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	// the lesson must exist
	if _, err = api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == lesson.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting lesson")
	}

	cmt, err := api.commentSvc.Create(ctx.Request().Context(), ctx.Param("id"), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating comment")
	}
	return success(ctx, http.StatusCreated, echo.Map{"comment": cmt})
}

func (api *lessonApi) destroyComment(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	cmt, err := api.commentSvc.GetByID(ctx.Request().Context(), ctx.Param("commentId"))
	if err != nil {
		if errors.Cause(err) == comment.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting comment")
	}
	if cmt.UserID != usr.ID && !usr.IsAdmin() {
		return errHTTPForbidden
	}

	if err = api.commentSvc.Delete(ctx.Request().Context(), cmt.ID); err != nil {
		return errors.Wrap(err, "deleting comment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
