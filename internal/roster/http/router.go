package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/roster/internal/roster/domain"
	"github.com/aussiebroadwan/roster/internal/roster/media"
	"github.com/aussiebroadwan/roster/internal/roster/notify"
	"github.com/aussiebroadwan/roster/internal/roster/policy"
	"github.com/aussiebroadwan/roster/internal/roster/service"
	"github.com/aussiebroadwan/roster/internal/roster/store"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/jwtx"
	"github.com/aussiebroadwan/roster/pkg/slogx"

	_ "github.com/aussiebroadwan/roster/api/roster" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	Media media.Store

	Tokens     *service.TokenService
	OTP        *service.OTPService
	Signup     *service.SignupService
	Lifecycle  *service.LifecycleService
	Moderators *service.ModeratorService
	Ledger     *service.LedgerService
	Posts      *service.PostService
	Directory  *service.DirectoryService
	Bootstrap  *service.BootstrapService
	KillSwitch *service.KillSwitch

	// Outbox exposes captured email to end-to-end tests. Nil outside the
	// test environment.
	Outbox *notify.Outbox
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}
	return r
}

func (r *Router) ApplyRoutes() {
	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.lockGate(),
	}

	r.registerAuth()
	r.registerSignup()
	r.registerMembers()
	r.registerModeration()
	r.registerPosts()
	r.registerAchievements()
	r.registerAdmin()
	r.registerSystem()
	r.registerBootstrap()
	r.registerDebug()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
	if ls, ok := r.Media.(*media.LocalStore); ok {
		r.Mux.Handle("GET "+media.MountPath, ls.Handler())
	}
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Roster Membership API
//	@version		0.1.0
//	@description	Membership backend for a volunteer organization: email code login, applications and their approval, department moderators, announcements and achievement scores.
//	@description
//	@description				Access tokens are EdDSA signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/roster
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// lockGate applies the kill-switch to everything but the health probes, so
// orchestrators keep the instance alive while it is locked.
func (r *Router) lockGate() httpx.Middleware {
	locked := func() bool { return r.KillSwitch != nil && r.KillSwitch.Locked() }
	// The superuser flag is re-read so a demoted account loses the bypass
	// before its access token expires.
	stillSuperuser := func(ctx context.Context, memberID string) bool {
		actor, err := service.LoadActor(ctx, r.store, memberID)
		return err == nil && policy.CanToggleLock(actor)
	}
	gate := httpx.LockMiddleware(locked, r.verifier, domain.ScopeSuperuser, stillSuperuser)
	return func(next http.Handler) http.Handler {
		gated := gate(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path == "/livez" || req.URL.Path == "/readyz" {
				next.ServeHTTP(w, req)
				return
			}
			gated.ServeHTTP(w, req)
		})
	}
}

// member wraps h for routes that require a signed-in member. What the
// member may do is decided by the services from the stored record.
func (r *Router) member(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(domain.ScopeMember),
		httpx.RateLimitByUser(limit),
	)
}

// optional wraps h for routes that render differently for signed-in callers.
func (r *Router) optional(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.OptionalAuthnMiddleware(r.verifier),
		httpx.RateLimitByIP(limit),
	)
}

func public(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h, httpx.RateLimitByIP(limit))
}

func (r *Router) registerAuth() {
	h := &AuthHandler{OTP: r.OTP, Tokens: r.Tokens}

	// Login attempts are limited per IP and per address
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /v1/otp",
		httpx.Chain(http.HandlerFunc(h.HandleOTP),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /v1/refresh", public(http.HandlerFunc(h.HandleRefresh), httpx.StrictLimit))

	r.Mux.Handle("GET /.well-known/jwks.json", public(JWKSHandler(r.keys), httpx.PublicLimit))
}

func (r *Router) registerSignup() {
	h := &SignupHandler{Signup: r.Signup}
	r.Mux.Handle("POST /v1/signup", public(h, httpx.StrictLimit))
}

func (r *Router) registerMembers() {
	h := &MembersHandler{Store: r.store, Directory: r.Directory, Media: r.Media}

	r.Mux.Handle("GET /v1/departments", public(http.HandlerFunc(h.HandleDepartments), httpx.PublicLimit))
	r.Mux.Handle("GET /v1/members/{id}", r.optional(h.HandleProfile, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/search", r.optional(h.HandleSearch, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/me", r.member(h.HandleMe, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/settings", r.member(h.HandleSettings, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/settings", r.member(h.HandleUpdateSettings, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/admin/members/{id}", r.member(h.HandleAdminProfile, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/members/{id}/staff", r.member(h.HandleGrantStaff, httpx.ModerateLimit))
}

func (r *Router) registerModeration() {
	h := &ModerationHandler{Store: r.store, Lifecycle: r.Lifecycle, Moderators: r.Moderators}

	r.Mux.Handle("GET /v1/pending", r.member(h.HandlePending, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/pending/accept", r.member(h.HandleAccept, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/pending/decline", r.member(h.HandleDecline, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/moderators", r.member(h.HandleAssign, httpx.ModerateLimit))
}

func (r *Router) registerPosts() {
	h := &PostsHandler{Store: r.store, Posts: r.Posts, Media: r.Media}

	r.Mux.Handle("POST /v1/posts", r.member(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/feed", public(http.HandlerFunc(h.HandleFeed), httpx.PublicLimit))
	r.Mux.Handle("GET /v1/notifications", r.member(h.HandleNotifications, httpx.LenientLimit))
}

func (r *Router) registerAchievements() {
	h := &AchievementsHandler{Store: r.store, Ledger: r.Ledger, Media: r.Media}

	r.Mux.Handle("POST /v1/achievements", r.member(h.HandleAward, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/members/{id}/achievements", public(http.HandlerFunc(h.HandleHistory), httpx.PublicLimit))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Store: r.store, Lifecycle: r.Lifecycle, KillSwitch: r.KillSwitch}

	r.Mux.Handle("POST /v1/maintenance/expire-pending", r.member(h.HandleExpirePending, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/lock", r.member(h.HandleLock, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/lock", r.member(h.HandleUnlock, httpx.ModerateLimit))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.Bootstrap}
	r.Mux.Handle("POST /v1/bootstrap", public(bootstrapHandler, httpx.StrictLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez", public(LivezHandler(r.startTime, r.buildVersion), httpx.LenientLimit))
	r.Mux.Handle("GET /readyz",
		public(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.Media), httpx.LenientLimit),
	)
}

func (r *Router) registerDebug() {
	if r.Outbox == nil {
		return
	}
	r.Mux.Handle("GET /v1/debug/outbox", OutboxHandler(r.Outbox))
}

// pathID reads a path parameter.
func pathID(req *http.Request, name string) string {
	return strings.TrimSpace(req.PathValue(name))
}
