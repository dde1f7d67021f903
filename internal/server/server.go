package server

import (
	"context"
	"net/http"
	"time"

	"github.com/reliwe/storefront/internal/auth"
	"github.com/reliwe/storefront/internal/config"
	"github.com/reliwe/storefront/internal/http/handlers"
	"github.com/reliwe/storefront/internal/logging"
	"github.com/reliwe/storefront/internal/middleware"
	"github.com/reliwe/storefront/internal/session"
	"github.com/reliwe/storefront/internal/storage"
)

// Stores groups the persistence dependencies the server needs.
type Stores struct {
	Users    storage.UserStore
	Profiles storage.ProfileStore
	Activity storage.ActivityStore
	Products storage.ProductStore
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner    *http.Server
	sessions *session.Store
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, stores Stores, logger logging.Logger) *Server {
	sessions := session.NewStore(cfg.SessionTTL)
	limiter := auth.NewRateLimiter(stores.Activity)
	authSvc := auth.NewService(stores.Users, stores.Activity, limiter, logger, cfg.AuthTimeout, cfg.BcryptCost)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(authSvc, sessions, logger).Register(mux)
	handlers.NewCartHandler(stores.Products, logger).Register(mux)
	handlers.NewProductsHandler(stores.Products, logger).Register(mux)
	handlers.NewProfileHandler(stores.Profiles, logger).Register(mux)
	handlers.NewAdminHandler(stores.Users, stores.Activity, logger).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins,
		middleware.Logging(logger,
			middleware.Sessions(sessions, mux)))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer, sessions: sessions}
}

// Start begins serving HTTP traffic and runs the session janitor
// until the context is canceled.
func (s *Server) Start(ctx context.Context, logger logging.Logger) error {
	go s.sessions.RunJanitor(ctx, time.Minute, logger)
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
