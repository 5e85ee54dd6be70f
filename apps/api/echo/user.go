package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core"
	"github.com/progress-uz/backend/core/user"
)

var errWrongPassword = echo.NewHTTPError(http.StatusUnauthorized, "Your current password is wrong")

type (
	// loginRequest accepts an email or a username in the email field.
	loginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	googleLoginRequest struct {
		Token string `json:"token" validate:"required"`
	}
)

func (r *loginRequest) Validate() error {
	if err := core.Validate.Struct(r); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}

func (r *googleLoginRequest) Validate() error {
	if err := core.Validate.Struct(r); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}

type userApi struct {
	svc  user.ServiceInterface
	auth *auth
}

func registerUserAPI(g *echo.Group, auth *auth, svc user.ServiceInterface) {
	api := userApi{svc: svc, auth: auth}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/register", api.register)
	ug.POST("/login", api.login)
	ug.POST("/google-login", api.googleLogin)

	// authed endpoints
	ag := ug.Group("", auth.authenticate)
	ag.GET("/me", api.me)
	ag.PATCH("/update-password", api.updatePassword)
	ag.GET("", api.query, requireRoles(user.RoleAdmin))
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	token, err := api.auth.login(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return successToken(ctx, http.StatusCreated, token, echo.Map{"user": usr})
}

func (api *userApi) login(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to loginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrAuthenticationFailed {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := api.auth.login(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return successToken(ctx, http.StatusOK, token, echo.Map{"user": usr})
}

func (api *userApi) googleLogin(ctx echo.Context) error {
	var data googleLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to googleLoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.svc.FederatedLogin(ctx.Request().Context(), data.Token)
	if err != nil {
		if errors.Cause(err) == user.ErrFederationFailed {
			return errGoogleLoginFailed
		}
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return err
		}
		return errors.Wrap(err, "resolving federated login")
	}
	token, err := api.auth.login(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return successToken(ctx, http.StatusOK, token, echo.Map{"user": usr})
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return success(ctx, http.StatusOK, echo.Map{"user": usr})
}

func (api *userApi) updatePassword(ctx echo.Context) error {
	var data user.UpdatePassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePassword")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	usr, err = api.svc.ChangePassword(ctx.Request().Context(), usr, data.PasswordCurrent, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrWrongPassword {
			return errWrongPassword
		}
		return errors.Wrap(err, "changing password")
	}

	// previously issued tokens stay valid; a fresh one is returned for convenience
	token, err := api.auth.login(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return successToken(ctx, http.StatusOK, token, echo.Map{"user": usr})
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return successList(ctx, http.StatusOK, len(users), echo.Map{"users": users})
}
