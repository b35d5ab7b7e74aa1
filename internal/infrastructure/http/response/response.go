// Package response writes the JSON envelope shared by every API endpoint
package response

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/alchemorsel/mealplanner/pkg/errors"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool                 `json:"success"`
	Data    interface{}          `json:"data,omitempty"`
	Error   *errors.ErrorDetails `json:"error,omitempty"`
	Message string               `json:"message,omitempty"`
}

// JSON writes a successful response
func JSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}, message string) {
	write(w, logger, status, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Error writes err as an error envelope. Errors that are not AppErrors are
// reported as internal errors without their text.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewInternalError("").WithCause(err)
	}

	status := appErr.StatusCode()
	fields := []zap.Field{
		zap.String("code", string(appErr.Code)),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
	} else {
		logger.Debug("Request rejected", fields...)
	}

	body := errors.ToErrorResponse(appErr, middleware.GetReqID(r.Context()))
	write(w, logger, status, APIResponse{
		Success: false,
		Error:   &body.Error,
		Message: appErr.Message,
	})
}

func write(w http.ResponseWriter, logger *zap.Logger, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}
