package httpx

import (
	"context"
	"net/http"
	"slices"

	"github.com/aussiebroadwan/roster/pkg/jwtx"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

// LockMiddleware rejects every request with 503 while locked() reports true,
// except those carrying a valid bearer token that holds bypassScope. When
// confirm is set it must also accept the token's subject, so a bypass can be
// checked against current state rather than the scopes minted at login.
func LockMiddleware(
	locked func() bool,
	v jwtx.Verifier,
	bypassScope string,
	confirm func(ctx context.Context, subject string) bool,
) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !locked() {
				next.ServeHTTP(w, r)
				return
			}

			if raw, ok := bearerToken(r); ok {
				claims, err := v.Verify(raw)
				if err == nil && slices.Contains(claims.Scopes, bypassScope) &&
					(confirm == nil || confirm(r.Context(), claims.Subject)) {
					next.ServeHTTP(w, r)
					return
				}
			}

			slogx.FromContext(r.Context()).Info("request rejected while locked")
			WriteError(w, http.StatusServiceUnavailable, "service_locked", "service is temporarily locked")
		})
	}
}
