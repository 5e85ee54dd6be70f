package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/user"
)

const (
	contextClaimsKey = "userClaims"
	contextUserKey   = "user"
	authScheme       = "Bearer"
)

// authenticate verifies the Bearer token and loads the subject User into the
// request context. A valid token whose subject no longer exists is rejected.
func (a *auth) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, authScheme+" ") {
			return errUnauthorized
		}

		claims, err := a.verifyToken(strings.TrimSpace(header[len(authScheme):]))
		if err != nil {
			return errUnauthorized
		}

		usr, err := a.svc.GetByID(ctx.Request().Context(), claims.Subject)
		if err != nil {
			if errors.Cause(err) == user.ErrNotFound {
				return errUnauthorized
			}
			return errors.Wrap(err, "finding user by ID")
		}

		ctx.Set(contextClaimsKey, *claims)
		ctx.Set(contextUserKey, usr)
		return next(ctx)
	}
}

// requireRoles rejects authenticated users whose role is not in roles.
func requireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if usr.HasAnyRole(roles...) {
				return next(ctx)
			}
			return errHTTPForbidden
		}
	}
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(Claims); ok {
		return claims, nil
	}
	return Claims{}, errUnauthorized
}
