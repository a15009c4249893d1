package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
)

// AchievementsHandler serves the achievement ledger.
type AchievementsHandler struct {
	Store  store.Store
	Ledger *service.LedgerService
	Media  media.Store
}

// HandleAward records an achievement and credits its beneficiaries.
//
//	@Summary		Award an achievement
//	@Description	Credits the score to every listed approved member once. Unknown or pending ids are skipped.
//	@Tags			Achievements
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			title		formData	string		true	"Title"
//	@Param			description	formData	string		false	"Description"
//	@Param			score		formData	int			false	"Points, not negative; defaults when omitted"
//	@Param			member_ids	formData	[]string	true	"Beneficiaries"	collectionFormat(multi)
//	@Param			image		formData	file		false	"Badge image"
//	@Success		201			{object}	rostersdk.AwardResponse
//	@Failure		400			{object}	rostersdk.ErrorResponse
//	@Failure		403			{object}	rostersdk.ErrorResponse	"Caller is not staff"
//	@Router			/v1/achievements [post].
func (h *AchievementsHandler) HandleAward(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.Store)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := service.AwardInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		MemberIDs:   formValues(r, "member_ids"),
		Image:       formFile(r, "image"),
	}
	if raw := strings.TrimSpace(r.FormValue("score")); raw != "" {
		score, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, r, service.Invalid("score", "must be an integer"))
			return
		}
		in.Score = &score
	}

	res, err := h.Ledger.Award(r.Context(), actor, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, rostersdk.AwardResponse{
		AchievementID: res.AchievementID,
		MemberIDs:     res.MemberIDs,
	})
}

// HandleHistory pages through a member's achievements, newest first.
//
//	@Summary	Member achievements
//	@Tags		Achievements
//	@Produce	json
//	@Param		id		path		string	true	"Member id"
//	@Param		cursor	query		string	false	"Cursor from the previous page"
//	@Success	200		{object}	rostersdk.AchievementPage
//	@Failure	404		{object}	rostersdk.ErrorResponse
//	@Router		/v1/members/{id}/achievements [get].
func (h *AchievementsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	page, err := h.Ledger.History(r.Context(), pathID(r, "id"), r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toPage(page, func(a domain.Achievement) rostersdk.Achievement {
		return toAchievement(h.Media, a)
	}))
}
