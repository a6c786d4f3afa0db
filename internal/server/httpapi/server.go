// Package httpapi is the thin request-routing layer in front of the account
// service. It owns transport concerns only: routing, JSON encoding, bearer
// token extraction, trace ids and status-code mapping. All business rules
// live in the services package.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/accountsvc/internal/logging"
	"github.com/dmitrijs2005/accountsvc/internal/server/config"
	"github.com/dmitrijs2005/accountsvc/internal/server/services"
)

var errUnauthorized = errors.New("missing or malformed bearer token")

// Server serves the public HTTP API.
type Server struct {
	addr     string
	accounts *services.AccountService
	logger   logging.Logger
	listAuth bool
}

func NewServer(cfg *config.Config, accounts *services.AccountService, logger logging.Logger) *Server {
	return &Server{
		addr:     cfg.EndpointAddr,
		accounts: accounts,
		logger:   logger.With("module", "http_server"),
		listAuth: cfg.ListRequiresAuth,
	}
}

// Routes builds the chi router with all endpoints and middleware attached.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(traceMiddleware)
	r.Use(requestLogMiddleware(s.logger))

	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Post("/refresh", s.handleRefresh)

	r.Route("/users", func(r chi.Router) {
		if s.listAuth {
			r.With(s.authMiddleware).Get("/", s.handleListAccounts)
		} else {
			r.Get("/", s.handleListAccounts)
		}

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/me", s.handleMe)
			r.Put("/me/password", s.handleUpdatePassword)
			r.Post("/me/avatar", s.handleUploadAvatar)
		})
	})

	return r
}

// Run starts the HTTP server and shuts it down gracefully when ctx ends.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Routes()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
