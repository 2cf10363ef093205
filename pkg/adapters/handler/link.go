package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/warinb/linkgrove/pkg/core/domain"
	"github.com/warinb/linkgrove/pkg/ports"
)

type LinkHandler struct {
	links    ports.LinkService
	profiles ports.ProfileService
}

func NewLinkHandler(links ports.LinkService, profiles ports.ProfileService) *LinkHandler {
	return &LinkHandler{links: links, profiles: profiles}
}

// LinkRequest payload for add and update
type LinkRequest struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Icon   string `json:"icon"`
	Banner string `json:"banner"`
}

type linkResponse struct {
	Link    *domain.Link    `json:"link,omitempty"`
	Receipt *domain.Receipt `json:"receipt,omitempty"`
}

// Add Link to a profile
func (h *LinkHandler) Add(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if !h.authorize(w, r, profileID) {
		return
	}

	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	link, receipt, err := h.links.AddLink(r.Context(), profileID, req.Title, req.URL, req.Icon, req.Banner)
	if err != nil {
		writeDomainError(w, "add_link", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(linkResponse{Link: link, Receipt: receipt})
}

// List all of a profile's links, inactive included, sorted by order.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.GetProfileLinks(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, "get_profile_links", err)
		return
	}
	resp := map[string]interface{}{
		"links": links,
	}
	json.NewEncoder(w).Encode(resp)
}

// Get one link
func (h *LinkHandler) Get(w http.ResponseWriter, r *http.Request) {
	linkID, ok := parseLinkID(w, r)
	if !ok {
		return
	}

	link, err := h.links.GetLink(r.Context(), r.PathValue("id"), linkID)
	if err != nil {
		writeDomainError(w, "get_link", err)
		return
	}
	json.NewEncoder(w).Encode(linkResponse{Link: link})
}

// Update the four editable fields. Active flag and order stay put.
func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if !h.authorize(w, r, profileID) {
		return
	}
	linkID, ok := parseLinkID(w, r)
	if !ok {
		return
	}

	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	receipt, err := h.links.UpdateLink(r.Context(), profileID, linkID, req.Title, req.URL, req.Icon, req.Banner)
	if err != nil {
		writeDomainError(w, "update_link", err)
		return
	}
	json.NewEncoder(w).Encode(linkResponse{Receipt: receipt})
}

// Delete Link. The id is retired, never reused.
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if !h.authorize(w, r, profileID) {
		return
	}
	linkID, ok := parseLinkID(w, r)
	if !ok {
		return
	}

	receipt, err := h.links.DeleteLink(r.Context(), profileID, linkID)
	if err != nil {
		writeDomainError(w, "delete_link", err)
		return
	}
	json.NewEncoder(w).Encode(linkResponse{Receipt: receipt})
}

// Toggle active flag (idempotent)
func (h *LinkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if !h.authorize(w, r, profileID) {
		return
	}
	linkID, ok := parseLinkID(w, r)
	if !ok {
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	receipt, err := h.links.ToggleLink(r.Context(), profileID, linkID, req.IsActive)
	if err != nil {
		writeDomainError(w, "toggle_link", err)
		return
	}
	json.NewEncoder(w).Encode(linkResponse{Receipt: receipt})
}

// Reorder sets the target link's order only; siblings are not renumbered, so
// a drag-and-drop client calls this once per moved link.
func (h *LinkHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if !h.authorize(w, r, profileID) {
		return
	}
	linkID, ok := parseLinkID(w, r)
	if !ok {
		return
	}

	var req struct {
		Order int64 `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	receipt, err := h.links.ReorderLink(r.Context(), profileID, linkID, req.Order)
	if err != nil {
		writeDomainError(w, "reorder_link", err)
		return
	}
	json.NewEncoder(w).Encode(linkResponse{Receipt: receipt})
}

func (h *LinkHandler) authorize(w http.ResponseWriter, r *http.Request, profileID string) bool {
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

func parseLinkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("linkID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid link ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
