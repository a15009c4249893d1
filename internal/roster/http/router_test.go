package http

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
	"github.com/stretchr/testify/require"
)

func TestHealthAndJWKS(t *testing.T) {
	s := newServer(t)

	rec := s.json(http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = s.json(http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"database":"ok"`)
	require.Contains(t, rec.Body.String(), `"media":"ok"`)

	rec = s.json(http.MethodGet, "/.well-known/jwks.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"OKP"`)
}

func TestLoginFlow(t *testing.T) {
	s := newServer(t)
	s.addMember("ali@example.com", true, "media")

	rec := s.json(http.MethodPost, "/v1/login", "", rostersdk.LoginRequest{Email: "ali@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	msg, ok := s.outbox.Last("ali@example.com")
	require.True(t, ok)

	// A second request inside the cooldown is throttled
	rec = s.json(http.MethodPost, "/v1/login", "", rostersdk.LoginRequest{Email: "ali@example.com"})
	env := requireError(t, rec, http.StatusTooManyRequests, rostersdk.CodeThrottled)
	require.Positive(t, env.Error.RetryAfter)
	require.Equal(t, strconv.Itoa(env.Error.RetryAfter), rec.Header().Get("Retry-After"))

	rec = s.json(http.MethodPost, "/v1/otp", "", rostersdk.OTPRequest{Email: "ali@example.com", Code: "000000x"})
	requireError(t, rec, http.StatusBadRequest, rostersdk.CodeInvalidCode)

	rec = s.json(http.MethodPost, "/v1/otp", "", rostersdk.OTPRequest{Email: "ali@example.com", Code: msg.Code})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login rostersdk.LoginResponse
	decode(t, rec, &login)
	require.NotEmpty(t, login.Tokens.AccessToken)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = s.json(http.MethodGet, "/v1/me", "Bearer "+login.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var me rostersdk.SelfProfile
	decode(t, rec, &me)
	require.Equal(t, login.MemberID, me.ID)
	require.Equal(t, []string{"media"}, me.Departments)

	rec = s.json(http.MethodPost, "/v1/refresh", "", rostersdk.RefreshRequest{RefreshToken: login.Tokens.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.json(http.MethodPost, "/v1/refresh", "", rostersdk.RefreshRequest{RefreshToken: login.Tokens.RefreshToken})
	requireError(t, rec, http.StatusUnauthorized, rostersdk.CodeInvalidRefresh)
}

func TestLoginErrors(t *testing.T) {
	s := newServer(t)
	s.addMember("pending@example.com", false, "media")

	rec := s.json(http.MethodPost, "/v1/login", "", rostersdk.LoginRequest{Email: "nobody@example.com"})
	requireError(t, rec, http.StatusNotFound, rostersdk.CodeNotFound)

	rec = s.json(http.MethodPost, "/v1/login", "", rostersdk.LoginRequest{Email: "pending@example.com"})
	requireError(t, rec, http.StatusForbidden, rostersdk.CodeNotApproved)

	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader("{"))
	requireError(t, s.do(req), http.StatusBadRequest, rostersdk.CodeInvalidRequest)
}

func TestAuthRequired(t *testing.T) {
	s := newServer(t)

	rec := s.json(http.MethodGet, "/v1/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.json(http.MethodGet, "/v1/members/01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "Bearer garbage", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupAndAccept(t *testing.T) {
	s := newServer(t)
	mod := s.addMember("mod@example.com", true, "media")
	root := s.superuser("root@example.com")

	rec := s.json(http.MethodPost, "/v1/moderators", s.bearer(root), rostersdk.ModeratorRequest{
		MemberID: mod.ID, DepartmentID: "media", Rank: "primary",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.form("/v1/signup", "", map[string][]string{
		"first_name":           {"علي"},
		"last_name":            {"حسن"},
		"third_name":           {"كريم"},
		"fourth_name":          {"جاسم"},
		"mother_full_name":     {"فاطمة علي حسين كاظم"},
		"email":                {"new@example.com"},
		"phone_number":         {"07701234567"},
		"address":              {"بغداد - الكرادة - شارع الصناعة"},
		"gender":               {"M"},
		"academic_achievement": {"S"},
		"marital_status":       {"V"},
		"studying_department":  {"C"},
		"stage":                {"2"},
		"studying_shift":       {"A"},
		"activity_department":  {"media", "arts"},
	}, service.DocumentFields...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created rostersdk.SignupResponse
	decode(t, rec, &created)
	require.Equal(t, "new", created.Username)

	rec = s.json(http.MethodGet, "/v1/pending?department_id=media", s.bearer(mod), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pending []rostersdk.PendingMember
	decode(t, rec, &pending)
	require.Len(t, pending, 1)
	require.Equal(t, created.MemberID, pending[0].ID)

	rec = s.json(http.MethodGet, "/v1/pending?department_id=arts", s.bearer(mod), nil)
	requireError(t, rec, http.StatusForbidden, rostersdk.CodeForbidden)

	rec = s.json(http.MethodPost, "/v1/pending/accept", s.bearer(mod), rostersdk.MemberRequest{MemberID: created.MemberID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 1, s.outbox.Count("new@example.com", "approved"))

	rec = s.json(http.MethodPost, "/v1/pending/accept", s.bearer(mod), rostersdk.MemberRequest{MemberID: created.MemberID})
	requireError(t, rec, http.StatusConflict, rostersdk.CodeConflict)

	// Staff see the documents as URLs
	rec = s.json(http.MethodGet, "/v1/admin/members/"+created.MemberID, s.bearer(root), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var full rostersdk.Profile
	decode(t, rec, &full)
	require.True(t, strings.HasPrefix(full.IDCardFront, "http://localhost:8080/media/members/"+created.MemberID+"/"))

	rec = s.json(http.MethodGet, "/v1/admin/members/"+created.MemberID, s.bearer(mod), nil)
	requireError(t, rec, http.StatusForbidden, rostersdk.CodeForbidden)
}

func TestSignupValidationEnvelope(t *testing.T) {
	s := newServer(t)

	rec := s.form("/v1/signup", "", map[string][]string{
		"first_name": {"Ali"},
		"email":      {"not-an-email"},
	})
	env := requireError(t, rec, http.StatusBadRequest, rostersdk.CodeValidation)
	require.Contains(t, env.Error.Details, "first_name")
	require.Contains(t, env.Error.Details, "email")
	require.Contains(t, env.Error.Details, "personal_image")
}

func TestPostsAndFeed(t *testing.T) {
	s := newServer(t)
	mod := s.addMember("mod@example.com", true, "media")
	plain := s.addMember("plain@example.com", true, "media")
	root := s.superuser("root@example.com")

	rec := s.json(http.MethodPost, "/v1/moderators", s.bearer(root), rostersdk.ModeratorRequest{
		MemberID: mod.ID, DepartmentID: "media", Rank: "deputy",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	values := map[string][]string{"heading": {"Meeting"}, "description": {"Friday <script>x</script>"}}
	rec = s.form("/v1/posts", s.bearer(plain), values, "image")
	requireError(t, rec, http.StatusForbidden, rostersdk.CodeForbidden)

	rec = s.form("/v1/posts", s.bearer(mod), values, "image")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post rostersdk.Post
	decode(t, rec, &post)
	require.Equal(t, "media", post.DepartmentID)
	require.NotContains(t, post.Description, "script")

	rec = s.json(http.MethodGet, "/v1/feed", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page rostersdk.PostPage
	decode(t, rec, &page)
	require.Len(t, page.Results, 1)
	require.Empty(t, page.NextCursor)

	rec = s.json(http.MethodGet, "/v1/feed?cursor=bogus", "", nil)
	requireError(t, rec, http.StatusBadRequest, rostersdk.CodeValidation)

	rec = s.json(http.MethodGet, "/v1/notifications", s.bearer(plain), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var digest []rostersdk.Post
	decode(t, rec, &digest)
	require.Len(t, digest, 1)
	require.Empty(t, digest[0].Description)
}

func TestAwardAndHistory(t *testing.T) {
	s := newServer(t)
	a := s.addMember("a@example.com", true)
	root := s.superuser("root@example.com")

	values := map[string][]string{
		"title":      {"Cleanup day"},
		"score":      {"15"},
		"member_ids": {a.ID, a.ID, "unknown"},
	}
	rec := s.form("/v1/achievements", s.bearer(a), values)
	requireError(t, rec, http.StatusForbidden, rostersdk.CodeForbidden)

	rec = s.form("/v1/achievements", s.bearer(root), values)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var award rostersdk.AwardResponse
	decode(t, rec, &award)
	require.Equal(t, []string{a.ID}, award.MemberIDs)

	values["score"] = []string{"lots"}
	rec = s.form("/v1/achievements", s.bearer(root), values)
	env := requireError(t, rec, http.StatusBadRequest, rostersdk.CodeValidation)
	require.Contains(t, env.Error.Details, "score")

	rec = s.json(http.MethodGet, "/v1/members/"+a.ID+"/achievements", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page rostersdk.AchievementPage
	decode(t, rec, &page)
	require.Len(t, page.Results, 1)
	require.EqualValues(t, 15, page.Results[0].Score)

	rec = s.json(http.MethodGet, "/v1/members/"+a.ID, "", nil)
	var profile rostersdk.Profile
	decode(t, rec, &profile)
	require.EqualValues(t, 15, profile.Score)
}

func TestKillSwitch(t *testing.T) {
	s := newServer(t)
	member := s.addMember("a@example.com", true)
	root := s.superuser("root@example.com")

	rec := s.json(http.MethodPost, "/v1/lock", s.bearer(member), nil)
	requireError(t, rec, http.StatusForbidden, rostersdk.CodeForbidden)

	rec = s.json(http.MethodPost, "/v1/lock", s.bearer(root), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	requireError(t, s.json(http.MethodGet, "/v1/feed", "", nil), http.StatusServiceUnavailable, rostersdk.CodeServiceLocked)
	requireError(t, s.json(http.MethodGet, "/v1/me", s.bearer(member), nil), http.StatusServiceUnavailable, rostersdk.CodeServiceLocked)
	require.Equal(t, http.StatusOK, s.json(http.MethodGet, "/livez", "", nil).Code)
	require.Equal(t, http.StatusOK, s.json(http.MethodGet, "/v1/me", s.bearer(root), nil).Code)

	rec = s.json(http.MethodDelete, "/v1/lock", s.bearer(root), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, http.StatusOK, s.json(http.MethodGet, "/v1/feed", "", nil).Code)
}

func TestKillSwitchBypassFollowsStoredFlag(t *testing.T) {
	s := newServer(t)
	root := s.superuser("root@example.com")
	require.Equal(t, http.StatusOK, s.json(http.MethodPost, "/v1/lock", s.bearer(root), nil).Code)

	// A token still carrying the superuser scope for an account the store
	// no longer marks as superuser.
	demoted := s.addMember("former@example.com", true)
	demoted.IsSuperuser = true
	stale := s.bearer(demoted)

	requireError(t, s.json(http.MethodGet, "/v1/me", stale, nil), http.StatusServiceUnavailable, rostersdk.CodeServiceLocked)
	require.Equal(t, http.StatusOK, s.json(http.MethodGet, "/v1/me", s.bearer(root), nil).Code)
}

func TestBootstrapStatusCodes(t *testing.T) {
	s := newServer(t)
	body := rostersdk.BootstrapRequest{Email: "root@example.com", FirstName: "Root"}

	req := func(token string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/v1/bootstrap", strings.NewReader(`{"email":"root@example.com","first_name":"Root"}`))
		if token != "" {
			r.Header.Set("X-Bootstrap-Token", token)
		}
		return s.do(r)
	}

	requireError(t, req(""), http.StatusUnauthorized, rostersdk.CodeUnauthorized)
	requireError(t, req("wrong"), http.StatusUnauthorized, rostersdk.CodeUnauthorized)

	rec := req(bootstrapToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out rostersdk.BootstrapResponse
	decode(t, rec, &out)
	require.NotEmpty(t, out.MemberID)

	requireError(t, req(bootstrapToken), http.StatusConflict, rostersdk.CodeConflict)

	s.router.Bootstrap.Token = ""
	requireError(t, s.json(http.MethodPost, "/v1/bootstrap", "", body), http.StatusNotFound, rostersdk.CodeNotFound)
}

func TestSettingsAndSearch(t *testing.T) {
	s := newServer(t)
	m := s.addMember("a@example.com", true)

	rec := s.json(http.MethodGet, "/v1/members/"+m.ID, "", nil)
	var p rostersdk.Profile
	decode(t, rec, &p)
	require.Equal(t, domain.DefaultDateOfBirth, p.DateOfBirth)

	rec = s.json(http.MethodPost, "/v1/settings", s.bearer(m), map[string]any{
		"show_date_of_birth": false,
		"show_dark_mode":     true,
		"theme":              "blue",
		"bogus":              true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var settings rostersdk.Settings
	decode(t, rec, &settings)
	require.Contains(t, settings, "show_date_of_birth")
	require.False(t, settings["show_date_of_birth"])
	require.True(t, settings["show_dark_mode"])
	require.True(t, settings["show_personal_image"])
	require.NotContains(t, settings, "theme")
	require.NotContains(t, settings, "bogus")

	rec = s.json(http.MethodGet, "/v1/settings", s.bearer(m), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	settings = nil
	decode(t, rec, &settings)
	require.False(t, settings["show_date_of_birth"])

	// A recognized key still has to be a boolean.
	rec = s.json(http.MethodPost, "/v1/settings", s.bearer(m), map[string]any{"show_dark_mode": "yes"})
	env := requireError(t, rec, http.StatusBadRequest, rostersdk.CodeValidation)
	require.Contains(t, env.Error.Details, "show_dark_mode")

	rec = s.json(http.MethodGet, "/v1/members/"+m.ID, "", nil)
	p = rostersdk.Profile{}
	decode(t, rec, &p)
	require.Empty(t, p.DateOfBirth)

	// Staff see the field regardless of the member's settings.
	root := s.superuser("root@example.com")
	rec = s.json(http.MethodGet, "/v1/admin/members/"+m.ID, s.bearer(root), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p = rostersdk.Profile{}
	decode(t, rec, &p)
	require.Equal(t, domain.DefaultDateOfBirth, p.DateOfBirth)

	rec = s.json(http.MethodGet, "/v1/search?q=%D8%B9%D9%84", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var results []rostersdk.SearchResult
	decode(t, rec, &results)
	require.Len(t, results, 1)
}

func TestExpirePendingRequiresStaff(t *testing.T) {
	s := newServer(t)
	m := s.addMember("a@example.com", true)
	root := s.superuser("root@example.com")

	requireError(t, s.json(http.MethodPost, "/v1/maintenance/expire-pending", s.bearer(m), nil),
		http.StatusForbidden, rostersdk.CodeForbidden)

	rec := s.json(http.MethodPost, "/v1/maintenance/expire-pending", s.bearer(root), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out rostersdk.ExpireResponse
	decode(t, rec, &out)
	require.Zero(t, out.DeletedCount)
}

func TestDebugOutbox(t *testing.T) {
	s := newServer(t)
	s.addMember("a@example.com", true)

	require.Equal(t, http.StatusOK, s.json(http.MethodPost, "/v1/login", "", rostersdk.LoginRequest{Email: "a@example.com"}).Code)

	rec := s.json(http.MethodGet, "/v1/debug/outbox?to=A@example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []rostersdk.OutboxMessage
	decode(t, rec, &msgs)
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Code, 6)
}
