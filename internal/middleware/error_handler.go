package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"pokePortMarket/pkg/logger"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Message string `json:"message"`
}

// ErrorHandler is the echo HTTPErrorHandler. It renders framework errors
// (unknown routes, bad methods, panics recovered upstream) in the same
// {"message": ...} shape the handlers use.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		logger.Error("unhandled request error", "method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, errorBody{Message: msg})
	}
	if writeErr != nil {
		logger.Error("failed to write error response", writeErr)
	}
}
