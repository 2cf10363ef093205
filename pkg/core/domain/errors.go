package domain

import "errors"

// Expected, recoverable outcomes callers branch on. Anything else coming out
// of a repository is a persistence failure and is surfaced as-is.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrLinkNotFound    = errors.New("link not found")
	ErrOwnerTaken      = errors.New("owner already has a profile")
)
