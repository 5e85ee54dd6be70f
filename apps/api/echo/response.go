package echoapi

import "github.com/labstack/echo/v4"

// successResponse is the uniform success envelope.
type successResponse struct {
	Status  string   `json:"status"`
	Token   string   `json:"token,omitempty"`
	Results *int     `json:"results,omitempty"`
	Data    echo.Map `json:"data,omitempty"`
}

func success(ctx echo.Context, code int, data echo.Map) error {
	return ctx.JSON(code, successResponse{Status: "success", Data: data})
}

// successToken responds with a session token alongside the payload.
func successToken(ctx echo.Context, code int, token string, data echo.Map) error {
	return ctx.JSON(code, successResponse{Status: "success", Token: token, Data: data})
}

// successList responds with a collection payload and its length.
func successList(ctx echo.Context, code, results int, data echo.Map) error {
	return ctx.JSON(code, successResponse{Status: "success", Results: &results, Data: data})
}
