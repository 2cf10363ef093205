package domain

import "time"

// Profile represents a user's public link-in-bio page: wallet identity,
// display fields, and the ordered set of link ids it owns.
type Profile struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"` // wallet address
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	ImageURL    string    `json:"image_url"`
	Subdomain   string    `json:"subdomain"`
	LinkIDs     []int64   `json:"link_ids"` // ids of non-deleted links, display order of insertion
	NextLinkID  int64     `json:"next_link_id"`
	NextOrder   int64     `json:"next_order"` // default order for new links; never decremented
	LinkCount   int64     `json:"link_count"` // currently present links
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileExport pairs a profile with its full link bucket, used by the
// export/import CLI.
type ProfileExport struct {
	Profile Profile `json:"profile"`
	Links   []Link  `json:"links"`
}

// Receipt is the synthetic transaction token returned by mutating operations
// for interface parity with a ledger-backed implementation. The digest carries
// no meaning here; profile/link ids are authoritative.
type Receipt struct {
	TxDigest string `json:"tx_digest"`
}
