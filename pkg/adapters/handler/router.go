package handler

import (
	"encoding/json"
	"net/http"

	"github.com/warinb/linkgrove/pkg/assets"
	"github.com/warinb/linkgrove/pkg/config"
	"github.com/warinb/linkgrove/pkg/ports"
	"github.com/warinb/linkgrove/pkg/wallet"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, profiles ports.ProfileService, links ports.LinkService, enumerator assets.Enumerator, verifier wallet.Verifier) http.Handler {
	// Initialize Handlers
	h := NewHTTPHandler(profiles, links, enumerator)
	lh := NewLinkHandler(links, profiles)

	// Initialize Middleware
	mw := NewMiddleware(cfg)

	// Initialize Auth Handler
	authHandler := NewAuthHandler(cfg, verifier)

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{
			"message": "ok",
		}
		_ = json.NewEncoder(w).Encode(&res)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /u/{subdomain}", h.GetPublicPage)
	mux.HandleFunc("GET /auth/wallet/nonce", authHandler.Nonce)
	mux.HandleFunc("POST /auth/wallet/verify", authHandler.Verify)
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes (API & Dashboard)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("POST /api/v1/profiles", h.CreateProfile)
	protectedMux.HandleFunc("GET /api/v1/profiles/{id}", h.GetProfile)
	protectedMux.HandleFunc("PUT /api/v1/profiles/{id}", h.UpdateProfile)
	protectedMux.HandleFunc("PUT /api/v1/profiles/{id}/image", h.UpdateProfileImage)
	protectedMux.HandleFunc("PUT /api/v1/profiles/{id}/subdomain", h.UpdateSubdomain)
	protectedMux.HandleFunc("GET /api/v1/me/profile", h.GetMyProfile)
	protectedMux.HandleFunc("GET /api/v1/me/assets", h.ListAssets)

	// Link Routes
	protectedMux.HandleFunc("POST /api/v1/profiles/{id}/links", lh.Add)
	protectedMux.HandleFunc("GET /api/v1/profiles/{id}/links", lh.List)
	protectedMux.HandleFunc("GET /api/v1/profiles/{id}/links/{linkID}", lh.Get)
	protectedMux.HandleFunc("PUT /api/v1/profiles/{id}/links/{linkID}", lh.Update)
	protectedMux.HandleFunc("DELETE /api/v1/profiles/{id}/links/{linkID}", lh.Delete)
	protectedMux.HandleFunc("PATCH /api/v1/profiles/{id}/links/{linkID}/toggle", lh.Toggle)
	protectedMux.HandleFunc("PATCH /api/v1/profiles/{id}/links/{linkID}/order", lh.Reorder)

	// Apply Middleware to Protected Routes
	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return mux
}
