package rostersdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in the envelope.
const (
	CodeValidation      = "validation_error"
	CodeNotFound        = "not_found"
	CodeNotApproved     = "not_approved"
	CodeNotAffiliated   = "not_affiliated"
	CodeForbidden       = "forbidden"
	CodeUnauthorized    = "unauthorized"
	CodeConflict        = "conflict"
	CodeThrottled       = "throttled"
	CodeInvalidCode     = "invalid_code"
	CodeExpiredCode     = "expired_code"
	CodeInvalidRefresh  = "invalid_refresh_token"
	CodeServiceLocked   = "service_locked"
	CodeRateLimited     = "rate_limited"
	CodeInvalidRequest  = "invalid_request"
	CodeServerError     = "server_error"
)

// APIError is a failed response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]string
	RetryAfter int
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s (%d): %s %v", e.Code, e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var e *APIError
	return errors.As(err, &e) && e.Code == code
}

// parseError turns a non-success response body into an *APIError.
func parseError(resp *http.Response, body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       env.Error.Code,
			Message:    env.Error.Message,
			Details:    env.Error.Details,
			RetryAfter: env.Error.RetryAfter,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       CodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
