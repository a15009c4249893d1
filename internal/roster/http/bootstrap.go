package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the membership system
//	@Description	Creates the first superuser. This endpoint is only available when a bootstrap token is configured and only works while no superuser exists.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token for authorization"
//	@Param			request				body		rostersdk.BootstrapRequest	true	"First superuser"
//	@Success		201					{object}	rostersdk.BootstrapResponse	"Superuser created"
//	@Failure		400					{object}	rostersdk.ErrorResponse		"Invalid request body or validation failed"
//	@Failure		401					{object}	rostersdk.ErrorResponse		"Missing or invalid bootstrap token"
//	@Failure		404					{object}	rostersdk.ErrorResponse		"Bootstrap not enabled (no token configured)"
//	@Failure		409					{object}	rostersdk.ErrorResponse		"System already bootstrapped"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("Starting to bootstrap")

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		httpx.WriteError(w, http.StatusNotFound, rostersdk.CodeNotFound, "Bootstrap endpoint is not enabled")
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, rostersdk.CodeUnauthorized,
			"Bootstrap token is required in X-Bootstrap-Token header")
		return
	}

	// 3. Parse request body
	var req rostersdk.BootstrapRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// 4. Perform bootstrap
	memberID, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		Email:         strings.TrimSpace(req.Email),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		DepartmentIDs: req.Departments,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			httpx.WriteError(w, http.StatusUnauthorized, rostersdk.CodeUnauthorized, "Invalid bootstrap token")
		case errors.Is(err, service.ErrBootstrapAlready):
			httpx.WriteError(w, http.StatusConflict, rostersdk.CodeConflict, "System has already been bootstrapped")
		default:
			writeError(w, r, err)
		}
		return
	}

	// 5. Respond with the new superuser
	httpx.WriteData(w, http.StatusCreated, rostersdk.BootstrapResponse{MemberID: memberID})
}
