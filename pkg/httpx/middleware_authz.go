package httpx

import (
	"net/http"
	"slices"
	"strings"
)

// RequireAnyScope admits callers whose token carries at least one of scopes.
// Run it after AuthnMiddleware.
func RequireAnyScope(scopes ...string) Middleware {
	return requireScopes(scopes, func(have []string) bool {
		return slices.ContainsFunc(scopes, func(s string) bool { return slices.Contains(have, s) })
	})
}

// RequireAllScopes admits callers whose token carries every one of scopes.
func RequireAllScopes(scopes ...string) Middleware {
	return requireScopes(scopes, func(have []string) bool {
		return !slices.ContainsFunc(scopes, func(s string) bool { return !slices.Contains(have, s) })
	})
}

func requireScopes(scopes []string, ok func(have []string) bool) Middleware {
	challenge := `Bearer error="insufficient_scope", scope="` + strings.Join(scopes, " ") + `"`
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ok(scopesFromCtx(r.Context())) {
				w.Header().Set("WWW-Authenticate", challenge)
				WriteError(w, http.StatusForbidden, "forbidden", "insufficient scope")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
