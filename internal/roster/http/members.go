package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
)

// MembersHandler serves profiles, search, departments and settings.
type MembersHandler struct {
	Store     store.Store
	Directory *service.DirectoryService
	Media     media.Store
}

// HandleDepartments lists every activity department.
//
//	@Summary	List departments
//	@Tags		Members
//	@Produce	json
//	@Success	200	{array}	rostersdk.Department
//	@Router		/v1/departments [get].
func (h *MembersHandler) HandleDepartments(w http.ResponseWriter, r *http.Request) {
	depts, err := h.Directory.Departments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, mapSlice(depts, func(d domain.Department) rostersdk.Department {
		return rostersdk.Department{ID: d.ID, Title: d.Title, Heading: d.Heading}
	}))
}

// HandleProfile renders a member for the caller.
//
//	@Summary		Get a member profile
//	@Description	Anonymous and member callers see the public fields the member chose to show. Staff see everything.
//	@Tags			Members
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Member id"
//	@Success		200	{object}	rostersdk.Profile
//	@Failure		404	{object}	rostersdk.ErrorResponse	"No approved member with this id"
//	@Router			/v1/members/{id} [get].
func (h *MembersHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Directory.Profile(r.Context(), actor, pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toProfile(h.Media, p))
}

// HandleAdminProfile renders every field of a member.
//
//	@Summary	Get a full member record
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Member id"
//	@Success	200	{object}	rostersdk.Profile
//	@Failure	403	{object}	rostersdk.ErrorResponse	"Caller is not staff"
//	@Failure	404	{object}	rostersdk.ErrorResponse	"No approved member with this id"
//	@Router		/v1/admin/members/{id} [get].
func (h *MembersHandler) HandleAdminProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Directory.AdminProfile(r.Context(), actor, pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toProfile(h.Media, p))
}

// HandleGrantStaff sets or clears the staff flag.
//
//	@Summary	Grant or revoke staff
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Member id"
//	@Param		request	body		rostersdk.StaffRequest	true	"Staff flag"
//	@Success	200		{object}	rostersdk.Envelope
//	@Failure	403		{object}	rostersdk.ErrorResponse	"Caller is not a superuser"
//	@Router		/v1/admin/members/{id}/staff [post].
func (h *MembersHandler) HandleGrantStaff(w http.ResponseWriter, r *http.Request) {
	var req rostersdk.StaffRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Directory.GrantStaff(r.Context(), actor, pathID(r, "id"), req.IsStaff); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, nil)
}

// HandleMe returns the caller's own record.
//
//	@Summary	Get my profile
//	@Tags		Members
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	rostersdk.SelfProfile
//	@Failure	401	{object}	rostersdk.ErrorResponse
//	@Router		/v1/me [get].
func (h *MembersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	v, err := h.Directory.Me(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toSelf(h.Media, v))
}

// HandleSettings returns the caller's effective display settings.
//
//	@Summary	Get display settings
//	@Tags		Members
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	rostersdk.Settings
//	@Router		/v1/settings [get].
func (h *MembersHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.Directory.Settings(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, rostersdk.Settings(s))
}

// HandleUpdateSettings merges display settings. Unknown keys are ignored.
//
//	@Summary	Update display settings
//	@Tags		Members
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		rostersdk.Settings	true	"Keys to change"
//	@Success	200		{object}	rostersdk.Settings	"Effective settings"
//	@Router		/v1/settings [post].
func (h *MembersHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if !decodeJSON(w, r, &raw) {
		return
	}

	// Only recognized keys must be booleans; anything else is dropped.
	update := make(map[string]bool, len(raw))
	verr := service.NewValidationError()
	for key, v := range raw {
		if !domain.IsRecognized(key) {
			continue
		}
		var b bool
		if err := json.Unmarshal(v, &b); err != nil || string(v) == "null" {
			verr.Add(key, "must be true or false")
			continue
		}
		update[key] = b
	}
	if err := verr.OrNil(); err != nil {
		writeError(w, r, err)
		return
	}

	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.Directory.UpdateSettings(r.Context(), actor, update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, rostersdk.Settings(s))
}

// HandleSearch finds approved members by name.
//
//	@Summary	Search members
//	@Tags		Members
//	@Produce	json
//	@Security	BearerAuth
//	@Param		q	query	string	true	"Part of a name"
//	@Success	200	{array}	rostersdk.SearchResult
//	@Router		/v1/search [get].
func (h *MembersHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	results, err := h.Directory.Search(r.Context(), actor, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, mapSlice(results, func(s service.SearchResult) rostersdk.SearchResult {
		out := rostersdk.SearchResult(s)
		out.PersonalImage = urlOf(h.Media, s.PersonalImage)
		return out
	}))
}
