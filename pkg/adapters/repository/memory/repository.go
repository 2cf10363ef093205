package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/warinb/linkgrove/pkg/core/domain"
	"github.com/warinb/linkgrove/pkg/ports"
)

// Persisted key layout. Each operation is a full
// read-modify-write-serialize cycle over these three keys.
const (
	keyProfiles = "profiles"
	keyLinks    = "links"
	keyNextID   = "nextId"
)

// Repository implements ports.ProfileRepository over a KV, serializing the
// whole collection state as JSON the way the local-storage mock does.
type Repository struct {
	kv KV
}

func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

type state struct {
	Profiles map[string]domain.Profile `json:"profiles"`
	Links    map[string][]domain.Link  `json:"links"`
	NextID   int64                     `json:"nextId"`
}

func (r *Repository) load() (*state, error) {
	st := &state{
		Profiles: make(map[string]domain.Profile),
		Links:    make(map[string][]domain.Link),
	}

	if raw, ok, err := r.kv.Get(keyProfiles); err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &st.Profiles); err != nil {
			return nil, fmt.Errorf("decode profiles: %w", err)
		}
	}

	if raw, ok, err := r.kv.Get(keyLinks); err != nil {
		return nil, fmt.Errorf("read links: %w", err)
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &st.Links); err != nil {
			return nil, fmt.Errorf("decode links: %w", err)
		}
	}

	if raw, ok, err := r.kv.Get(keyNextID); err != nil {
		return nil, fmt.Errorf("read nextId: %w", err)
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &st.NextID); err != nil {
			return nil, fmt.Errorf("decode nextId: %w", err)
		}
	}

	return st, nil
}

func (r *Repository) save(st *state) error {
	profiles, err := json.Marshal(st.Profiles)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	links, err := json.Marshal(st.Links)
	if err != nil {
		return fmt.Errorf("encode links: %w", err)
	}
	nextID, err := json.Marshal(st.NextID)
	if err != nil {
		return fmt.Errorf("encode nextId: %w", err)
	}

	if err := r.kv.Set(keyProfiles, string(profiles)); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := r.kv.Set(keyLinks, string(links)); err != nil {
		return fmt.Errorf("write links: %w", err)
	}
	if err := r.kv.Set(keyNextID, string(nextID)); err != nil {
		return fmt.Errorf("write nextId: %w", err)
	}
	return nil
}

func (r *Repository) CreateProfile(_ context.Context, profile *domain.Profile) error {
	st, err := r.load()
	if err != nil {
		return err
	}

	profile.ID = fmt.Sprintf("pfl-%06d", st.NextID)
	st.NextID++

	st.Profiles[profile.ID] = *profile
	st.Links[profile.ID] = []domain.Link{}

	return r.save(st)
}

func (r *Repository) GetProfile(_ context.Context, profileID string) (*domain.Profile, error) {
	st, err := r.load()
	if err != nil {
		return nil, err
	}
	p, ok := st.Profiles[profileID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

// GetProfileByOwner scans all profiles. Owner uniqueness is enforced at
// creation, but for pre-existing duplicate data the lowest profile id (the
// earliest created, ids being zero-padded counters) wins deterministically.
func (r *Repository) GetProfileByOwner(_ context.Context, owner string) (*domain.Profile, error) {
	st, err := r.load()
	if err != nil {
		return nil, err
	}
	var found *domain.Profile
	for id, p := range st.Profiles {
		if p.Owner != owner {
			continue
		}
		if found == nil || strings.Compare(id, found.ID) < 0 {
			p := p
			found = &p
		}
	}
	if found == nil {
		return nil, domain.ErrProfileNotFound
	}
	return found, nil
}

func (r *Repository) GetProfileBySubdomain(_ context.Context, subdomain string) (*domain.Profile, error) {
	st, err := r.load()
	if err != nil {
		return nil, err
	}
	var found *domain.Profile
	for id, p := range st.Profiles {
		if p.Subdomain != subdomain {
			continue
		}
		if found == nil || strings.Compare(id, found.ID) < 0 {
			p := p
			found = &p
		}
	}
	if found == nil {
		return nil, domain.ErrProfileNotFound
	}
	return found, nil
}

func (r *Repository) UpdateProfile(_ context.Context, profile *domain.Profile) error {
	st, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := st.Profiles[profile.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	st.Profiles[profile.ID] = *profile
	return r.save(st)
}

func (r *Repository) PutLinks(_ context.Context, profile *domain.Profile, links []domain.Link) error {
	st, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := st.Profiles[profile.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	st.Profiles[profile.ID] = *profile
	st.Links[profile.ID] = links
	return r.save(st)
}

func (r *Repository) GetLinks(_ context.Context, profileID string) ([]domain.Link, error) {
	st, err := r.load()
	if err != nil {
		return nil, err
	}
	links, ok := st.Links[profileID]
	if !ok {
		if _, exists := st.Profiles[profileID]; !exists {
			return nil, domain.ErrProfileNotFound
		}
		return []domain.Link{}, nil
	}
	out := make([]domain.Link, len(links))
	copy(out, links)
	return out, nil
}

func (r *Repository) Dump(_ context.Context) ([]domain.ProfileExport, error) {
	st, err := r.load()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(st.Profiles))
	for id := range st.Profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.ProfileExport, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.ProfileExport{
			Profile: st.Profiles[id],
			Links:   st.Links[id],
		})
	}
	return out, nil
}

func (r *Repository) Restore(_ context.Context, export domain.ProfileExport) error {
	st, err := r.load()
	if err != nil {
		return err
	}
	st.Profiles[export.Profile.ID] = export.Profile
	links := export.Links
	if links == nil {
		links = []domain.Link{}
	}
	st.Links[export.Profile.ID] = links

	// Keep minted ids ahead of everything restored.
	var n int64
	if _, err := fmt.Sscanf(export.Profile.ID, "pfl-%d", &n); err == nil && n >= st.NextID {
		st.NextID = n + 1
	}
	return r.save(st)
}

// Ensure interface compliance
var _ ports.ProfileRepository = (*Repository)(nil)
