package domain

import "time"

// Link is one navigable entry on a profile's page. IDs are unique per profile
// only, minted from the profile's NextLinkID counter and never reused.
type Link struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Icon      string    `json:"icon"`
	Banner    string    `json:"banner"`
	IsActive  bool      `json:"is_active"`
	Order     int64     `json:"order"` // display sort key, not necessarily contiguous
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
