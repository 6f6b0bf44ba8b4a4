package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/service"
	"github.com/aussiebroadwan/tubetab/internal/auth/store"
	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/aussiebroadwan/tubetab/pkg/httpx"
	"github.com/aussiebroadwan/tubetab/pkg/slogx"

	_ "github.com/aussiebroadwan/tubetab/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux     *http.ServeMux
	handler http.Handler

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	metrics      *httpx.Metrics

	Sessions     *service.SessionService
	Registration *service.RegistrationService
	Tokens       *service.TokenService

	Cookies CookieConfig

	// UploadDir and MaxUploadBytes bound the registration form.
	UploadDir      string
	MaxUploadBytes int64

	// Media serves locally stored images under /media/. Nil when images live
	// in a bucket.
	Media http.Handler
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger, metrics *httpx.Metrics) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		metrics:      metrics,
		Cookies:      CookieConfig{Secure: true},
	}
}

// ApplyRoutes registers every route and builds the middleware chain. Call it
// once, after the services are set and before serving.
func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerSystem()

	if r.Media != nil {
		r.Mux.Handle("GET /media/", http.StripPrefix("/media/", r.Media))
	}
	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	// Metrics sits right on the mux so it sees the matched pattern
	mws := []httpx.Middleware{slogx.HTTPMiddleware(r.logger)}
	if r.metrics != nil {
		mws = append(mws, r.metrics.Middleware())
	}
	r.handler = httpx.Chain(r.Mux, mws...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			tubetab Account Service API
//	@version		0.1.0
//	@description	Registration, login, logout and token refresh for tubetab users.
//	@description
//	@description				Access and refresh tokens are HS256 JWTs signed with separate secrets.
//	@description				They are returned in the response body and as HttpOnly cookies.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tubetab
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
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	reg := &RegisterHandler{
		Registration: r.Registration,
		TempDir:      r.UploadDir,
		MaxBytes:     r.MaxUploadBytes,
	}
	sessions := &SessionHandler{Sessions: r.Sessions, Cookies: r.Cookies}

	// Logout needs a valid access token, from the cookie or the header
	authn := httpx.AuthnMiddleware(r.Tokens.AccessVerifier(), httpx.AuthnOptions{
		CookieName: authsdk.AccessTokenCookie,
		OnError:    authnError,
	})

	r.Mux.Handle("POST /api/v1/users/register", reg)
	r.Mux.Handle("POST /api/v1/users/login", handle(sessions.HandleLogin))
	r.Mux.Handle("POST /api/v1/users/logout", httpx.Chain(handle(sessions.HandleLogout), authn))
	r.Mux.Handle("POST /api/v1/users/refresh-token", handle(sessions.HandleRefresh))
}

func (r *Router) registerSystem() {
	health := Health{Started: r.startTime, Version: r.buildVersion, Store: r.store}
	r.Mux.HandleFunc("GET /livez", health.Livez)
	r.Mux.HandleFunc("GET /readyz", health.Readyz)
	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
