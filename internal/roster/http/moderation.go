package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/policy"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
)

// ModerationHandler serves the pending queue and moderator seats.
type ModerationHandler struct {
	Store      store.Store
	Lifecycle  *service.LifecycleService
	Moderators *service.ModeratorService
}

// HandlePending lists applications in the caller's department.
//
//	@Summary	List pending applications
//	@Tags		Moderation
//	@Produce	json
//	@Security	BearerAuth
//	@Param		department_id	query	string	false	"Narrow to one department"
//	@Success	200				{array}	rostersdk.PendingMember
//	@Failure	403				{object}	rostersdk.ErrorResponse	"Caller does not moderate the department"
//	@Router		/v1/pending [get].
func (h *ModerationHandler) HandlePending(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pending, err := h.Lifecycle.ListPending(r.Context(), actor, strings.TrimSpace(r.URL.Query().Get("department_id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, mapSlice(pending, func(m domain.MemberSummary) rostersdk.PendingMember {
		return rostersdk.PendingMember{
			ID:         m.ID,
			FirstName:  m.FirstName,
			LastName:   m.LastName,
			ThirdName:  m.ThirdName,
			FourthName: m.FourthName,
			Email:      m.Email,
		}
	}))
}

// HandleAccept approves a pending application.
//
//	@Summary	Accept an application
//	@Tags		Moderation
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		rostersdk.MemberRequest	true	"Applicant"
//	@Success	200		{object}	rostersdk.Envelope
//	@Failure	403		{object}	rostersdk.ErrorResponse	"Caller does not moderate any of the applicant's departments"
//	@Failure	404		{object}	rostersdk.ErrorResponse
//	@Failure	409		{object}	rostersdk.ErrorResponse	"Already approved"
//	@Router		/v1/pending/accept [post].
func (h *ModerationHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Lifecycle.Approve)
}

// HandleDecline rejects and deletes a pending application.
//
//	@Summary	Decline an application
//	@Tags		Moderation
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		rostersdk.MemberRequest	true	"Applicant"
//	@Success	200		{object}	rostersdk.Envelope
//	@Failure	403		{object}	rostersdk.ErrorResponse
//	@Failure	404		{object}	rostersdk.ErrorResponse
//	@Router		/v1/pending/decline [post].
func (h *ModerationHandler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Lifecycle.Reject)
}

func (h *ModerationHandler) decide(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, actor policy.Actor, memberID string) error,
) {
	var req rostersdk.MemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.MemberID) == "" {
		writeError(w, r, service.Invalid("member_id", "is required"))
		return
	}
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := apply(r.Context(), actor, strings.TrimSpace(req.MemberID)); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, nil)
}

// HandleAssign seats a member as a department moderator.
//
//	@Summary		Assign a moderator
//	@Description	Seats the member as primary or deputy of the department. The previous holder of that seat is displaced and any other seat the member held is vacated.
//	@Tags			Moderation
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		rostersdk.ModeratorRequest	true	"Seat"
//	@Success		200		{object}	rostersdk.ModeratorResponse
//	@Failure		400		{object}	rostersdk.ErrorResponse	"Invalid rank or member not in department"
//	@Failure		403		{object}	rostersdk.ErrorResponse	"Caller is not staff"
//	@Failure		404		{object}	rostersdk.ErrorResponse
//	@Router			/v1/moderators [post].
func (h *ModerationHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var req rostersdk.ModeratorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}

	seat, err := h.Moderators.Assign(r.Context(), actor,
		strings.TrimSpace(req.MemberID),
		strings.TrimSpace(req.DepartmentID),
		domain.Rank(strings.TrimSpace(req.Rank)),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, rostersdk.ModeratorResponse{
		MemberID:     seat.MemberID,
		DepartmentID: seat.DepartmentID,
		Rank:         string(seat.Rank),
	})
}
