package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/jwtx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Reports whether the database, the signing keys and the media store are usable.
//	@Description	Any failing check turns the status to "degraded" with 503.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	rostersdk.HealthResponse
//	@Failure		503	{object}	rostersdk.HealthResponse
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
	files media.Store,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		healthy := true
		check := func(err error) string {
			if err != nil {
				healthy = false
				return "error: " + err.Error()
			}
			return "ok"
		}

		checks := &rostersdk.HealthChecks{Database: check(st.Ping(ctx))}
		if keys.IsReady() {
			checks.Signer = "ok"
		} else {
			healthy = false
			checks.Signer = "error: no keys loaded"
		}
		if p, ok := files.(pinger); ok {
			checks.Media = check(p.Ping(ctx))
		}

		resp := rostersdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		code := http.StatusOK
		if !healthy {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, code, resp)
	}
}
