package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/adboard/adboard-api/internal/api"
	apiMiddleware "github.com/adboard/adboard-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Read and search endpoints are public; mutations go through
// the authorization policy, so they only need the principal populated.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := secureMiddleware.Process(w, r); err != nil {
				app.logger.Warn("secure headers blocked request", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.tokenLifetime(),
		app.logger,
	)
	userHandler := api.NewUserHandler(app.userStore, app.passwordHasher, app.logger)
	adHandler := api.NewAdvertisementHandler(app.adStore, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Credential endpoints are rate limited per client IP to slow down
	// guessing attacks.
	credentialLimiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP))

	r.Group(func(r chi.Router) {
		r.Use(credentialLimiter)
		r.Post("/login", authHandler.Login)
		r.With(authMiddleware.Populate).Post("/user", userHandler.Register)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Populate)

		r.Route("/user/{id}", func(r chi.Router) {
			r.Get("/", userHandler.Get)
			r.Patch("/", userHandler.Update)
			r.Delete("/", userHandler.Delete)
		})

		r.Route("/advertisement", func(r chi.Router) {
			r.Post("/", adHandler.Create)
			r.Get("/", adHandler.Search)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", adHandler.Get)
				r.Patch("/", adHandler.Update)
				r.Delete("/", adHandler.Delete)
			})
		})
	})

	r.Get("/healthz", app.handleHealthz)

	return r
}

// handleHealthz reports liveness and database reachability.
func (app *application) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := app.db.PingContext(r.Context()); err != nil {
		app.logger.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unreachable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("failed to write health check response", "error", err)
	}
}
