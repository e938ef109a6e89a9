package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	factordomain "github.com/utkalworks/floorops/internal/emissionfactor/domain"
	meterdomain "github.com/utkalworks/floorops/internal/meterreading/domain"
	proddomain "github.com/utkalworks/floorops/internal/productionlog/domain"
	scrapdomain "github.com/utkalworks/floorops/internal/scraplog/domain"
	"github.com/utkalworks/floorops/internal/serieslock"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, scrapdomain.ErrAlreadyDispatched):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "scrap log already dispatched",
		}
	case errors.Is(err, serieslock.ErrLockBusy):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "another reading for this meter is in flight",
		}
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, factordomain.ErrUnknownStage),
		errors.Is(err, factordomain.ErrValueRequired),
		errors.Is(err, factordomain.ErrInvalidKey),
		errors.Is(err, meterdomain.ErrReadingRequired),
		errors.Is(err, meterdomain.ErrInvalidMeterType),
		errors.Is(err, proddomain.ErrLogDateRequired),
		errors.Is(err, proddomain.ErrInvalidLogDate),
		errors.Is(err, proddomain.ErrStageEntriesRequired),
		errors.Is(err, scrapdomain.ErrScrapTypeRequired),
		errors.Is(err, scrapdomain.ErrInvalidScrapType),
		errors.Is(err, scrapdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, scrapdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "unknown_stage":
		return "stage"
	case "value_required":
		return "value"
	case "invalid_key":
		return "key"
	case "reading_value_required":
		return "reading_value"
	case "invalid_meter_type":
		return "meter_type"
	case "log_date_required", "invalid_log_date":
		return "log_date"
	case "stage_entries_required":
		return "stage_entries"
	case "scrap_type_required", "invalid_scrap_type":
		return "scrap_type"
	case "invalid_id":
		return "id"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "unknown_stage":
		return "unknown production stage"
	case "reading_value_required":
		return "reading_value is required"
	case "invalid_meter_type":
		return "meter_type must be electricity or water"
	case "invalid_log_date":
		return "log_date must be YYYY-MM-DD"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog buckets handler errors so access logs carry a
// stable (error_type, error_code) pair instead of raw error strings.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	if vErr := asValidationErrors(err); vErr != nil {
		code := ""
		if len(vErr.Errors) > 0 {
			code = vErr.Errors[0].Code
		}
		return "validation_error", code
	}
	if isValidationError(err) {
		return "validation_error", validationErrorCode(err)
	}
	switch {
	case isNotFoundError(err):
		return "not_found", "not_found"
	case errors.Is(err, scrapdomain.ErrAlreadyDispatched):
		return "conflict", "already_dispatched"
	case errors.Is(err, serieslock.ErrLockBusy):
		return "conflict", "lock_busy"
	default:
		return "internal_error", "internal_error"
	}
}
