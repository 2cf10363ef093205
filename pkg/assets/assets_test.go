package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPrefersEarlierCandidates(t *testing.T) {
	a := Extract("0xobj", map[string]any{
		"name":       "Cool Cat",
		"label":      "ignored",
		"img_url":    "https://img.dev/cat.png",
		"symbol":     "CATS",
		"tier":       "rare",
		"attributes": map[string]any{"background": "blue", "power": 9000},
	})

	assert.Equal(t, "Cool Cat", a.Name)
	assert.Equal(t, "https://img.dev/cat.png", a.ImageURL)
	assert.Equal(t, "CATS", a.Collection)
	assert.Equal(t, "rare", a.Rarity)
	// Only string attributes carry over.
	assert.Equal(t, map[string]string{"background": "blue"}, a.Attributes)
}

func TestExtractDefaults(t *testing.T) {
	a := Extract("0xobj", map[string]any{"name": ""})
	assert.Equal(t, "Unnamed", a.Name)
	assert.Empty(t, a.ImageURL)
	assert.Empty(t, a.Collection)
	assert.Nil(t, a.Attributes)
}
