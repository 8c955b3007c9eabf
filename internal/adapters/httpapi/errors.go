package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/oapi-codegen/nullable"

	"github.com/tourvisto/trip-admin-api/internal/app/drafts"
	"github.com/tourvisto/trip-admin-api/internal/app/payments"
	"github.com/tourvisto/trip-admin-api/internal/app/trips"
	"github.com/tourvisto/trip-admin-api/internal/platform/sl"
)

type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
}

// ErrorResponse is the envelope every non-2xx response uses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func newErrorResponse(ctx context.Context, code string, message string, details map[string]any) ErrorResponse {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(ctx); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}
	return er
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	render.Status(r, status)
	render.JSON(w, r, newErrorResponse(r.Context(), code, message, details))
}

// writeAppError maps service errors onto the envelope. Anything unrecognised is a logged 500.
func writeAppError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		tripErr *trips.Error
		payErr  *payments.Error
		valErr  *drafts.ValidationError
	)
	switch {
	case errors.As(err, &tripErr):
		writeError(w, r, tripErr.Status, tripErr.Code, tripErr.Message, tripErr.Details)
	case errors.As(err, &payErr):
		writeError(w, r, payErr.Status, payErr.Code, payErr.Message, payErr.Details)
	case errors.As(err, &valErr):
		details := make(map[string]any, len(valErr.Fields))
		for k, v := range valErr.Fields {
			details[k] = v
		}
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", valErr.Error(), details)
	case errors.Is(err, context.Canceled):
		writeError(w, r, http.StatusServiceUnavailable, "REQUEST_CANCELED", "request canceled", nil)
	default:
		log.Error("request failed", slog.String("path", r.URL.Path), sl.Err(err))
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
