package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

// writeError maps service errors to the envelope. Anything unrecognised is
// logged and reported as a server error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr      *service.ValidationError
		throttled *service.ThrottledError
	)

	switch {
	case errors.As(err, &verr):
		httpx.WriteErrorBody(w, http.StatusBadRequest, httpx.ErrorBody{
			Code:    rostersdk.CodeValidation,
			Message: "validation failed for some fields",
			Details: verr.Fields,
		})
	case errors.As(err, &throttled):
		httpx.WriteErrorBody(w, http.StatusTooManyRequests, httpx.ErrorBody{
			Code:       rostersdk.CodeThrottled,
			Message:    "a code was sent recently, wait before asking again",
			RetryAfter: throttled.RemainingSeconds,
		})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownAccount):
		httpx.WriteError(w, http.StatusNotFound, rostersdk.CodeNotFound, "not found")
	case errors.Is(err, service.ErrNotYetApproved):
		httpx.WriteError(w, http.StatusForbidden, rostersdk.CodeNotApproved, "membership has not been approved yet")
	case errors.Is(err, service.ErrNotAffiliated):
		httpx.WriteError(w, http.StatusBadRequest, rostersdk.CodeNotAffiliated, "member is not in this department")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, rostersdk.CodeForbidden, "not allowed")
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, rostersdk.CodeUnauthorized, "authentication required")
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, rostersdk.CodeConflict, "the request conflicts with the current state")
	case errors.Is(err, service.ErrInvalidCode):
		httpx.WriteError(w, http.StatusBadRequest, rostersdk.CodeInvalidCode, "the code is not valid")
	case errors.Is(err, service.ErrExpiredCode):
		httpx.WriteError(w, http.StatusBadRequest, rostersdk.CodeExpiredCode, "the code has expired, request a new one")
	case errors.Is(err, service.ErrInvalidRefresh):
		httpx.WriteError(w, http.StatusUnauthorized, rostersdk.CodeInvalidRefresh, "refresh token is invalid or expired")
	case errors.Is(err, service.ErrServiceLocked):
		httpx.WriteError(w, http.StatusServiceUnavailable, rostersdk.CodeServiceLocked, "service is temporarily locked")
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, rostersdk.CodeServerError, "an internal error occurred")
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	httpx.WriteError(w, http.StatusBadRequest, rostersdk.CodeInvalidRequest, msg)
}
