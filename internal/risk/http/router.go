package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/encoding"
	"github.com/aussiebroadwan/creditrisk/internal/risk/service"
	"github.com/aussiebroadwan/creditrisk/internal/risk/store"
	"github.com/aussiebroadwan/creditrisk/pkg/httpx"
	"github.com/aussiebroadwan/creditrisk/pkg/jwtx"
	"github.com/aussiebroadwan/creditrisk/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/aussiebroadwan/creditrisk/api/creditrisk" // Swagger docs
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

	store    store.Store // Optional: nil when auditing is disabled
	metrics  *service.Metrics
	gatherer prometheus.Gatherer
	pages    *pages

	PredictionService *service.PredictionService
	AuthService       *service.AuthService // Optional: nil disables the login gate
	Tables            *encoding.Tables
	SecureCookie      bool
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	metrics *service.Metrics,
	gatherer prometheus.Gatherer,
	ui UIConfig,
	logger *slog.Logger,
) (*Router, error) {
	p, err := newPages(ui)
	if err != nil {
		return nil, err
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      metrics,
		gatherer:     gatherer,
		pages:        p,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}
	if metrics != nil {
		r.middlewares = append(r.middlewares, instrument(metrics))
	}

	return r, nil
}

func (r *Router) ApplyRoutes() {
	r.registerPages()
	r.registerAPI()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Credit Risk Predictor API
//	@version		0.1.0
//	@description	Scores loan applicants as good or bad credit risks.
//	@description
//	@description				Sessions are EdDSA signed tokens issued by POST /v1/sessions and sent as bearer tokens.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/creditrisk
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
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) authEnabled() bool { return r.AuthService != nil }

// pageSession sends visitors without a valid session cookie to the login page.
func (r *Router) pageSession() []httpx.Middleware {
	if !r.authEnabled() {
		return nil
	}
	return []httpx.Middleware{
		httpx.RequireSession(r.verifier, httpx.SessionOptions{
			CookieName:   SessionCookieName,
			Unauthorized: redirectToLogin,
		}),
	}
}

// apiSession requires a bearer token on JSON endpoints.
func (r *Router) apiSession() []httpx.Middleware {
	if !r.authEnabled() {
		return nil
	}
	return []httpx.Middleware{httpx.RequireSession(r.verifier, httpx.SessionOptions{})}
}

// onLimit counts rejected requests of route.
func (r *Router) onLimit(route string) httpx.LimiterOption {
	return httpx.WithOnLimit(func(*http.Request) {
		if r.metrics != nil {
			r.metrics.RateLimitedTotal.WithLabelValues(route).Inc()
		}
	})
}

func (r *Router) registerPages() {
	form := &FormHandler{
		PredictionService: r.PredictionService,
		AuthEnabled:       r.authEnabled(),
		pages:             r.pages,
	}

	// GET / - public limit, the form itself is static
	r.Mux.Handle("GET /{$}",
		httpx.Chain(http.HandlerFunc(form.HandleIndex),
			append([]httpx.Middleware{httpx.RateLimitByIP(httpx.PublicLimit, r.onLimit("/"))}, r.pageSession()...)...,
		),
	)

	// POST /predict - lenient limit, every submission calls the classifier
	r.Mux.Handle("POST /predict",
		httpx.Chain(http.HandlerFunc(form.HandlePredict),
			append([]httpx.Middleware{httpx.RateLimitByIP(httpx.LenientLimit, r.onLimit("/predict"))}, r.pageSession()...)...,
		),
	)

	if !r.authEnabled() {
		r.Mux.Handle("GET /login", http.RedirectHandler("/", http.StatusSeeOther))
		return
	}

	login := &LoginHandler{
		AuthService:  r.AuthService,
		Verifier:     r.verifier,
		SecureCookie: r.SecureCookie,
		pages:        r.pages,
	}

	r.Mux.Handle("GET /login",
		httpx.Chain(http.HandlerFunc(login.HandleGet),
			httpx.RateLimitByIP(httpx.PublicLimit, r.onLimit("/login")),
		),
	)

	// POST /login - strict limit by IP + username to slow down guessing
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(login.HandlePost),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username",
				httpx.WithReject(login.RejectTooManyAttempts),
				r.onLimit("/login"),
			),
		),
	)

	r.Mux.Handle("POST /logout", http.HandlerFunc(login.HandleLogout))
}

func (r *Router) registerAPI() {
	if r.authEnabled() {
		// POST /v1/sessions - strict rate limit by IP (credential checks)
		sessions := &SessionsHandler{AuthService: r.AuthService}
		r.Mux.Handle("POST /v1/sessions",
			httpx.Chain(sessions,
				httpx.RateLimitByIP(httpx.StrictLimit, r.onLimit("/v1/sessions")),
			),
		)
	}

	predictions := &PredictionsHandler{PredictionService: r.PredictionService}
	r.Mux.Handle("POST /v1/predictions",
		httpx.Chain(predictions,
			append([]httpx.Middleware{httpx.RateLimitByIP(httpx.LenientLimit, r.onLimit("/v1/predictions"))}, r.apiSession()...)...,
		),
	)

	r.Mux.Handle("GET /v1/schema",
		httpx.Chain(SchemaHandler(r.Tables),
			httpx.RateLimitByIP(httpx.PublicLimit, r.onLimit("/v1/schema")),
		),
	)
}

func (r *Router) registerSystem() {
	var keys *jwtx.KeySet
	if r.authEnabled() {
		keys = r.keys
	}

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.PredictionService.Classifier, keys, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	if r.gatherer != nil {
		r.Mux.Handle("GET /metrics", MetricsHandler(r.gatherer))
	}
}
