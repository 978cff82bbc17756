package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/apperror"
	"github.com/suteetoe/honeydew/pkg/logger"
)

const msgInternal = "An error occurred. Please try again."

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Response maps an error to its status and body. Unexpected errors always
// render the same generic body.
func Response(err error) (int, ErrorResponse) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperror.KindValidation:
			return http.StatusBadRequest, ErrorResponse{Error: appErr.Message, Code: "Validation"}
		case apperror.KindUnauthorized:
			return http.StatusUnauthorized, ErrorResponse{Error: appErr.Message}
		case apperror.KindForbidden:
			return http.StatusForbidden, ErrorResponse{Error: appErr.Message, Code: "Forbid"}
		case apperror.KindNotFound:
			return http.StatusNotFound, ErrorResponse{Error: appErr.Message, Code: "NotFound"}
		case apperror.KindConflict:
			return http.StatusConflict, ErrorResponse{Error: appErr.Message}
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
		msg := http.StatusText(httpErr.Code)
		if s, ok := httpErr.Message.(string); ok && s != "" {
			msg = s
		}
		switch httpErr.Code {
		case http.StatusBadRequest:
			return httpErr.Code, ErrorResponse{Error: msg, Code: "Validation"}
		case http.StatusNotFound:
			return httpErr.Code, ErrorResponse{Error: msg, Code: "NotFound"}
		default:
			return httpErr.Code, ErrorResponse{Error: msg}
		}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: msgInternal, Code: "InternalError"}
}

// HTTPErrorHandler renders every error returned by a handler, middleware or
// echo itself. Internal errors are logged with the request logger.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := Response(err)
	if status == http.StatusInternalServerError {
		logger.FromEcho(c).Error("Request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err))
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		logger.FromEcho(c).Error("Failed to write error response", zap.Error(writeErr))
	}
}
