package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/metrics"
	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/aussiebroadwan/notes/api/notes" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Authentication policy per route family.
var (
	// Signup is exempt from CSRF: a first-time visitor has no token yet and
	// the endpoint creates no session.
	policySignup    = Policy{}
	policyCSRFToken = Policy{}
	policyLogin     = Policy{Throttle: true}
	policyLogout    = Policy{CSRF: true, Token: true, HeaderRequired: true, Revocation: true}
	policyVerify    = Policy{CSRF: true, Token: true, Revocation: true}
	policyProtected = Policy{CSRF: true, Token: true, HeaderRequired: true, Revocation: true, Session: true}
	policyNotes     = Policy{CSRF: true, Token: true, Revocation: true, Session: true}
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	pipeline    *Pipeline

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService  *service.AuthService
	NotesService *service.NotesService
	Throttle     *service.LoginThrottle
	Revocations  *service.RevocationRegistry
	Sessions     *service.SessionGate
	CSRF         *httpx.CSRFGuard

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // Optional: /metrics is only served when set
	Redis    Pinger              // Optional: checked by /readyz when set

	SecureCookies bool

	// ClientKey identifies the caller for IP-based limits. Defaults to the
	// connection's peer address.
	ClientKey httpx.KeyExtractor
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		ClientKey:    httpx.RemoteAddrKeyExtractor,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	if r.CSRF == nil {
		r.CSRF = httpx.NewCSRFGuard(r.SecureCookies)
	}

	r.pipeline = &Pipeline{
		CSRF:        r.CSRF,
		Throttle:    r.Throttle,
		Verifier:    r.verifier,
		Revocations: r.Revocations,
		Sessions:    r.Sessions,
		Metrics:     r.Metrics,
		ClientKey:   r.ClientKey,
	}

	r.registerAuth()
	r.registerNotes()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Notes API
//	@version		0.1.0
//	@description	Personal notes service with JWT authentication, CSRF protection and session idle timeouts.
//	@description
//	@description				State-changing requests need the value from /api/auth/csrf-token in the X-CSRF-Token header.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/notes
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:5000
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

// handle registers h under pattern and records request metrics for it.
func (r *Router) handle(pattern string, h http.Handler) {
	r.Mux.Handle(pattern, r.Metrics.Instrument(pattern, h))
}

func (r *Router) byIP(config httpx.RateLimitConfig) httpx.Middleware {
	return httpx.RateLimitMiddleware(config, r.ClientKey)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:   r.AuthService,
		CSRF:          r.CSRF,
		SecureCookies: r.SecureCookies,
	}

	// POST /signup - strict rate limit by IP (account creation)
	r.handle("POST /api/auth/signup",
		httpx.Chain(r.pipeline.Wrap(policySignup, http.HandlerFunc(h.HandleSignup)),
			r.byIP(httpx.StrictLimit),
		),
	)

	// GET /csrf-token - lenient, the browser client fetches one per form
	r.handle("GET /api/auth/csrf-token",
		httpx.Chain(r.pipeline.Wrap(policyCSRFToken, http.HandlerFunc(h.HandleCSRFToken)),
			r.byIP(httpx.LenientLimit),
		),
	)

	// POST /login - guarded by the login throttle only
	r.handle("POST /api/auth/login",
		r.pipeline.Wrap(policyLogin, http.HandlerFunc(h.HandleLogin)),
	)

	r.handle("POST /api/auth/logout",
		r.pipeline.Wrap(policyLogout, http.HandlerFunc(h.HandleLogout)),
	)
	r.handle("GET /api/auth/verify",
		r.pipeline.Wrap(policyVerify, http.HandlerFunc(h.HandleVerify)),
	)
	r.handle("GET /api/auth/protected",
		r.pipeline.Wrap(policyProtected, http.HandlerFunc(h.HandleProtected)),
	)
}

func (r *Router) registerNotes() {
	h := &NotesHandler{NotesService: r.NotesService}

	// Lenient rate limit by user; runs after the token stage so the user id is known
	secured := func(fn http.HandlerFunc) http.Handler {
		return r.pipeline.Wrap(policyNotes,
			httpx.Chain(fn, httpx.RateLimitByUser(httpx.LenientLimit)),
		)
	}

	r.handle("GET /api/notes", secured(h.HandleList))
	r.handle("POST /api/notes", secured(h.HandleCreate))
	r.handle("GET /api/notes/{id}", secured(h.HandleGet))
	r.handle("PUT /api/notes/{id}", secured(h.HandleUpdate))
	r.handle("DELETE /api/notes/{id}", secured(h.HandleDelete))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.byIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Redis),
			r.byIP(httpx.LenientLimit),
		),
	)

	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.Gatherer))
	}
}
