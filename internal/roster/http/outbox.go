package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/roster/internal/roster/notify"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
)

// OutboxHandler lists the email captured for an address. Only mounted in the
// test environment so end-to-end suites can read login codes.
func OutboxHandler(o *notify.Outbox) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		to := strings.TrimSpace(r.URL.Query().Get("to"))
		if to == "" {
			writeBadRequest(w, "the to query parameter is required")
			return
		}
		msgs := o.Messages(to)
		out := make([]rostersdk.OutboxMessage, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, rostersdk.OutboxMessage{
				Kind:    string(m.Kind),
				To:      m.To,
				Subject: m.Subject,
				Code:    m.Code,
			})
		}
		httpx.WriteData(w, http.StatusOK, out)
	}
}
