package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{service.Invalid("email", "is required"), http.StatusBadRequest, rostersdk.CodeValidation},
		{&service.ThrottledError{RemainingSeconds: 42}, http.StatusTooManyRequests, rostersdk.CodeThrottled},
		{service.ErrNotFound, http.StatusNotFound, rostersdk.CodeNotFound},
		{service.ErrUnknownAccount, http.StatusNotFound, rostersdk.CodeNotFound},
		{service.ErrNotYetApproved, http.StatusForbidden, rostersdk.CodeNotApproved},
		{service.ErrNotAffiliated, http.StatusBadRequest, rostersdk.CodeNotAffiliated},
		{service.ErrForbidden, http.StatusForbidden, rostersdk.CodeForbidden},
		{service.ErrUnauthorized, http.StatusUnauthorized, rostersdk.CodeUnauthorized},
		{fmt.Errorf("assign: %w", service.ErrConflict), http.StatusConflict, rostersdk.CodeConflict},
		{service.ErrInvalidCode, http.StatusBadRequest, rostersdk.CodeInvalidCode},
		{service.ErrExpiredCode, http.StatusBadRequest, rostersdk.CodeExpiredCode},
		{service.ErrInvalidRefresh, http.StatusUnauthorized, rostersdk.CodeInvalidRefresh},
		{service.ErrServiceLocked, http.StatusServiceUnavailable, rostersdk.CodeServiceLocked},
		{errors.New("disk on fire"), http.StatusInternalServerError, rostersdk.CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			env := requireError(t, rec, tt.status, tt.code)
			if tt.code == rostersdk.CodeThrottled {
				require.Equal(t, 42, env.Error.RetryAfter)
				require.Equal(t, "42", rec.Header().Get("Retry-After"))
			}
			if tt.code == rostersdk.CodeServerError {
				require.NotContains(t, rec.Body.String(), "disk on fire")
			}
		})
	}
}
