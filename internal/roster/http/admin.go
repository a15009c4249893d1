package http

import (
	"net/http"

	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
)

// AdminHandler serves the maintenance sweep and the kill-switch.
type AdminHandler struct {
	Store      store.Store
	Lifecycle  *service.LifecycleService
	KillSwitch *service.KillSwitch
}

// HandleExpirePending deletes applications older than the pending window.
//
//	@Summary	Expire stale applications
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	rostersdk.ExpireResponse
//	@Failure	403	{object}	rostersdk.ErrorResponse	"Caller is not staff"
//	@Router		/v1/maintenance/expire-pending [post].
func (h *AdminHandler) HandleExpirePending(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.Lifecycle.ExpireStaleAs(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, rostersdk.ExpireResponse{DeletedCount: n})
}

// HandleLock engages the kill-switch.
//
//	@Summary		Lock the service
//	@Description	While locked every request except those from superusers and the health probes receives 503.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	rostersdk.LockResponse
//	@Failure		403	{object}	rostersdk.ErrorResponse	"Caller is not a superuser"
//	@Router			/v1/lock [post].
func (h *AdminHandler) HandleLock(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.KillSwitch.Lock(r.Context(), actor); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, rostersdk.LockResponse{Locked: true})
}

// HandleUnlock releases the kill-switch.
//
//	@Summary	Unlock the service
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	rostersdk.LockResponse
//	@Failure	403	{object}	rostersdk.ErrorResponse	"Caller is not a superuser"
//	@Router		/v1/lock [delete].
func (h *AdminHandler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.KillSwitch.Unlock(r.Context(), actor); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, rostersdk.LockResponse{Locked: false})
}
