// Package api implements the identity service HTTP surface consumed
// by the portal's session gateway.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkelsey/devportal/internal/api/handler"
	"github.com/mkelsey/devportal/internal/api/middleware"
	"github.com/mkelsey/devportal/internal/services/account"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Accounts *account.Service
}

// NewRouter creates the /auth router
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(cfg.Accounts)

	authMiddleware := middleware.Auth(cfg.Accounts)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	auth := r.PathPrefix("/auth").Subrouter()
	auth.Use(recoveryMiddleware)
	auth.Use(loggingMiddleware)

	// Unauthenticated routes
	auth.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	// Bearer-authenticated routes
	protected := auth.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/profile", authHandler.UpdateProfile).Methods(http.MethodPut)

	// Health check endpoint (no auth)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
