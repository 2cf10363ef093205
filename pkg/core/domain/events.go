package domain

// Store events, delivered synchronously after the mutation commits.

type ProfileCreated struct {
	ProfileID string `json:"profile_id"`
	Owner     string `json:"owner"`
	Username  string `json:"username"`
}

type LinkAdded struct {
	ProfileID string `json:"profile_id"`
	LinkID    int64  `json:"link_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
}

type LinkDeleted struct {
	ProfileID string `json:"profile_id"`
	LinkID    int64  `json:"link_id"`
}
