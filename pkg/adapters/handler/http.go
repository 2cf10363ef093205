package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/warinb/linkgrove/pkg/assets"
	"github.com/warinb/linkgrove/pkg/core/domain"
	"github.com/warinb/linkgrove/pkg/ports"
)

type HTTPHandler struct {
	profiles   ports.ProfileService
	links      ports.LinkService
	enumerator assets.Enumerator
}

func NewHTTPHandler(profiles ports.ProfileService, links ports.LinkService, enumerator assets.Enumerator) *HTTPHandler {
	return &HTTPHandler{profiles: profiles, links: links, enumerator: enumerator}
}

// CreateProfileRequest payload
type CreateProfileRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	ImageURL    string `json:"image_url"`
	Subdomain   string `json:"subdomain"`
}

// UpdateProfileRequest payload
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
}

type profileResponse struct {
	Profile *domain.Profile `json:"profile"`
	Receipt *domain.Receipt `json:"receipt,omitempty"`
}

// Create Profile. The owner is the authenticated wallet, never the payload.
func (h *HTTPHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	owner := OwnerFromContext(r.Context())

	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, receipt, err := h.profiles.CreateProfile(r.Context(), owner, req.Username, req.DisplayName, req.Bio, req.ImageURL, req.Subdomain)
	if err != nil {
		writeDomainError(w, "create_profile", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(profileResponse{Profile: profile, Receipt: receipt})
}

// Get Profile by id
func (h *HTTPHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, "get_profile", err)
		return
	}
	json.NewEncoder(w).Encode(profileResponse{Profile: profile})
}

// Get the authenticated wallet's own profile
func (h *HTTPHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetProfileByOwner(r.Context(), OwnerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, "get_profile_by_owner", err)
		return
	}
	json.NewEncoder(w).Encode(profileResponse{Profile: profile})
}

// Update display name and bio. Nothing else is touched.
func (h *HTTPHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if !h.authorize(w, r, profileID) {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	receipt, err := h.profiles.UpdateProfile(r.Context(), profileID, req.DisplayName, req.Bio)
	if err != nil {
		writeDomainError(w, "update_profile", err)
		return
	}
	json.NewEncoder(w).Encode(profileResponse{Receipt: receipt})
}

// Update profile image
func (h *HTTPHandler) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if !h.authorize(w, r, profileID) {
		return
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	receipt, err := h.profiles.UpdateProfileImage(r.Context(), profileID, req.ImageURL)
	if err != nil {
		writeDomainError(w, "update_profile_image", err)
		return
	}
	json.NewEncoder(w).Encode(profileResponse{Receipt: receipt})
}

// Update subdomain
func (h *HTTPHandler) UpdateSubdomain(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if !h.authorize(w, r, profileID) {
		return
	}

	var req struct {
		Subdomain string `json:"subdomain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	receipt, err := h.profiles.UpdateSubdomain(r.Context(), profileID, req.Subdomain)
	if err != nil {
		writeDomainError(w, "update_subdomain", err)
		return
	}
	json.NewEncoder(w).Encode(profileResponse{Receipt: receipt})
}

// Public page: profile plus its active links, sorted for display.
func (h *HTTPHandler) GetPublicPage(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetProfileBySubdomain(r.Context(), r.PathValue("subdomain"))
	if err != nil {
		writeDomainError(w, "get_public_page", err)
		return
	}

	links, err := h.links.GetProfileLinks(r.Context(), profile.ID)
	if err != nil {
		writeDomainError(w, "get_public_page", err)
		return
	}
	active := make([]domain.Link, 0, len(links))
	for _, l := range links {
		if l.IsActive {
			active = append(active, l)
		}
	}

	resp := map[string]interface{}{
		"profile": profile,
		"links":   active,
	}
	json.NewEncoder(w).Encode(resp)
}

// List the authenticated wallet's NFTs for the profile editor.
func (h *HTTPHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	owner := OwnerFromContext(r.Context())
	list, err := h.enumerator.ListAssets(r.Context(), owner)
	if err != nil {
		writeDomainError(w, "list_assets", err)
		return
	}
	resp := map[string]interface{}{
		"assets": list,
	}
	json.NewEncoder(w).Encode(resp)
}

// authorize writes the error response itself when the caller does not own
// the profile.
func (h *HTTPHandler) authorize(w http.ResponseWriter, r *http.Request, profileID string) bool {
	profile, err := h.profiles.GetProfile(r.Context(), profileID)
	if err != nil {
		writeDomainError(w, "authorize", err)
		return false
	}
	if profile.Owner != OwnerFromContext(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// writeDomainError maps the store's error taxonomy onto HTTP. Not-found and
// owner-taken are expected outcomes; anything else is a persistence failure,
// logged with its operation and surfaced as a retryable 500.
func writeDomainError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound), errors.Is(err, domain.ErrLinkNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrOwnerTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("%s: persistence failure: %v", operation, err)
		http.Error(w, "Something went wrong, please try again", http.StatusInternalServerError)
	}
}
