// Package assets lists the NFTs owned by a wallet address for display on a
// profile page. Chain objects carry display fields under inconsistent keys,
// so extraction is a first-match lookup over an ordered candidate list per
// logical attribute. The profile store never validates or transforms these
// records.
package assets

import "context"

// Asset is one displayable NFT record.
type Asset struct {
	ObjectID   string            `json:"object_id"`
	Name       string            `json:"name"`
	ImageURL   string            `json:"image_url"`
	Collection string            `json:"collection"`
	Rarity     string            `json:"rarity"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Enumerator returns the assets owned by an address.
type Enumerator interface {
	ListAssets(ctx context.Context, owner string) ([]Asset, error)
}

// Candidate keys per logical attribute, checked in order. First present,
// non-empty string wins.
var (
	nameKeys       = []string{"name", "title", "token_name", "label"}
	imageKeys      = []string{"image_url", "img_url", "image", "url", "media_url"}
	collectionKeys = []string{"collection", "collection_name", "project", "symbol"}
	rarityKeys     = []string{"rarity", "tier", "grade"}
)

// Extract maps a raw chain object's display fields into an Asset. Missing
// attributes get empty-string defaults rather than failing.
func Extract(objectID string, fields map[string]any) Asset {
	a := Asset{
		ObjectID:   objectID,
		Name:       lookup(fields, nameKeys, "Unnamed"),
		ImageURL:   lookup(fields, imageKeys, ""),
		Collection: lookup(fields, collectionKeys, ""),
		Rarity:     lookup(fields, rarityKeys, ""),
	}
	if attrs, ok := fields["attributes"].(map[string]any); ok {
		a.Attributes = make(map[string]string, len(attrs))
		for k, v := range attrs {
			if s, ok := v.(string); ok {
				a.Attributes[k] = s
			}
		}
	}
	return a
}

func lookup(fields map[string]any, keys []string, fallback string) string {
	for _, k := range keys {
		if s, ok := fields[k].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// StaticEnumerator serves a fixed asset list per owner. Used in local
// development and tests in place of a chain indexer.
type StaticEnumerator struct {
	Assets map[string][]Asset // keyed by owner address
}

func (e *StaticEnumerator) ListAssets(_ context.Context, owner string) ([]Asset, error) {
	return e.Assets[owner], nil
}
