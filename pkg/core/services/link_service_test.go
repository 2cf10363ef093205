package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warinb/linkgrove/pkg/adapters/repository/memory"
	"github.com/warinb/linkgrove/pkg/core/domain"
	"github.com/warinb/linkgrove/pkg/wallet"
)

func newTestServices(t *testing.T) (*ProfileService, *LinkService, *EventBus) {
	t.Helper()
	repo := memory.NewRepository(memory.NewMapKV())
	events := NewEventBus()
	return NewProfileService(repo, wallet.MockSigner{}, events),
		NewLinkService(repo, wallet.MockSigner{}, events),
		events
}

func createTestProfile(t *testing.T, ps *ProfileService) *domain.Profile {
	t.Helper()
	profile, receipt, err := ps.CreateProfile(context.Background(), "0xabc", "alice", "Alice", "hi", "", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, receipt.TxDigest)
	return profile
}

func TestAddLinkMintsSequentialIDs(t *testing.T) {
	ps, ls, _ := newTestServices(t)
	profile := createTestProfile(t, ps)
	ctx := context.Background()

	for i := int64(0); i < 5; i++ {
		link, receipt, err := ls.AddLink(ctx, profile.ID, "t", "https://a.dev", "", "")
		require.NoError(t, err)
		assert.Equal(t, i, link.ID)
		assert.Equal(t, i, link.Order)
		assert.True(t, link.IsActive)
		assert.NotEmpty(t, receipt.TxDigest)
	}

	links, err := ls.GetProfileLinks(ctx, profile.ID)
	require.NoError(t, err)
	assert.Len(t, links, 5)

	got, err := ps.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.NextLinkID)
	assert.Equal(t, int64(5), got.LinkCount)
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, got.LinkIDs)
}

func TestUpdateLinkRoundTrip(t *testing.T) {
	ps, ls, _ := newTestServices(t)
	profile := createTestProfile(t, ps)
	ctx := context.Background()

	link, _, err := ls.AddLink(ctx, profile.ID, "Old", "https://old.dev", "old.png", "")
	require.NoError(t, err)

	_, err = ls.ReorderLink(ctx, profile.ID, link.ID, 7)
	require.NoError(t, err)

	_, err = ls.UpdateLink(ctx, profile.ID, link.ID, "New", "https://new.dev", "new.png", "banner.png")
	require.NoError(t, err)

	got, err := ls.GetLink(ctx, profile.ID, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "https://new.dev", got.URL)
	assert.Equal(t, "new.png", got.Icon)
	assert.Equal(t, "banner.png", got.Banner)
	// Untouched by update
	assert.True(t, got.IsActive)
	assert.Equal(t, int64(7), got.Order)
}

func TestToggleLinkIdempotent(t *testing.T) {
	ps, ls, _ := newTestServices(t)
	profile := createTestProfile(t, ps)
	ctx := context.Background()

	link, _, err := ls.AddLink(ctx, profile.ID, "t", "https://a.dev", "", "")
	require.NoError(t, err)

	_, err = ls.ToggleLink(ctx, profile.ID, link.ID, false)
	require.NoError(t, err)
	_, err = ls.ToggleLink(ctx, profile.ID, link.ID, false)
	require.NoError(t, err)

	got, err := ls.GetLink(ctx, profile.ID, link.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = ls.ToggleLink(ctx, profile.ID, link.ID, true)
	require.NoError(t, err)
	_, err = ls.ToggleLink(ctx, profile.ID, link.ID, true)
	require.NoError(t, err)

	got, err = ls.GetLink(ctx, profile.ID, link.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestDeleteLinkRetiresID(t *testing.T) {
	ps, ls, _ := newTestServices(t)
	profile := createTestProfile(t, ps)
	ctx := context.Background()

	first, _, err := ls.AddLink(ctx, profile.ID, "a", "https://a.dev", "", "")
	require.NoError(t, err)
	second, _, err := ls.AddLink(ctx, profile.ID, "b", "https://b.dev", "", "")
	require.NoError(t, err)

	_, err = ls.DeleteLink(ctx, profile.ID, first.ID)
	require.NoError(t, err)

	_, err = ls.GetLink(ctx, profile.ID, first.ID)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	got, err := ps.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID}, got.LinkIDs)
	assert.Equal(t, int64(1), got.LinkCount)

	// The deleted id is never reissued: the next link continues from
	// NextLinkID, and its default order continues from NextOrder.
	third, _, err := ls.AddLink(ctx, profile.ID, "c", "https://c.dev", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), third.ID)
	assert.Equal(t, int64(2), third.Order)

	links, err := ls.GetProfileLinks(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	for _, l := range links {
		assert.NotEqual(t, first.ID, l.ID)
	}
}

func TestGetProfileLinksSortsByOrder(t *testing.T) {
	ps, ls, _ := newTestServices(t)
	profile := createTestProfile(t, ps)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _, err := ls.AddLink(ctx, profile.ID, "t", "https://a.dev", "", "")
		require.NoError(t, err)
	}

	// Scramble orders: ids 0..3 get orders 30, 10, 40, 20.
	for id, order := range map[int64]int64{0: 30, 1: 10, 2: 40, 3: 20} {
		_, err := ls.ReorderLink(ctx, profile.ID, id, order)
		require.NoError(t, err)
	}

	links, err := ls.GetProfileLinks(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, links, 4)
	assert.Equal(t, []int64{1, 3, 0, 2}, []int64{links[0].ID, links[1].ID, links[2].ID, links[3].ID})
}

func TestGetProfileLinksStableOnEqualOrder(t *testing.T) {
	ps, ls, _ := newTestServices(t)
	profile := createTestProfile(t, ps)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := ls.AddLink(ctx, profile.ID, "t", "https://a.dev", "", "")
		require.NoError(t, err)
	}
	for id := int64(0); id < 3; id++ {
		_, err := ls.ReorderLink(ctx, profile.ID, id, 0)
		require.NoError(t, err)
	}

	links, err := ls.GetProfileLinks(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, links, 3)
	// Ties keep insertion order.
	assert.Equal(t, int64(0), links[0].ID)
	assert.Equal(t, int64(1), links[1].ID)
	assert.Equal(t, int64(2), links[2].ID)
}

func TestNotFoundLeavesStoreUnmodified(t *testing.T) {
	ps, ls, _ := newTestServices(t)
	profile := createTestProfile(t, ps)
	ctx := context.Background()

	_, _, err := ls.AddLink(ctx, profile.ID, "t", "https://a.dev", "", "")
	require.NoError(t, err)

	before, err := ls.GetProfileLinks(ctx, profile.ID)
	require.NoError(t, err)
	beforeProfile, err := ps.GetProfile(ctx, profile.ID)
	require.NoError(t, err)

	_, err = ls.UpdateLink(ctx, profile.ID, 99, "x", "x", "x", "x")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	_, err = ls.DeleteLink(ctx, profile.ID, 99)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	_, err = ls.ToggleLink(ctx, profile.ID, 99, false)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	_, err = ls.ReorderLink(ctx, profile.ID, 99, 1)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	_, err = ls.GetLink(ctx, profile.ID, 99)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	_, _, err = ls.AddLink(ctx, "pfl-999999", "t", "https://a.dev", "", "")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	_, err = ls.DeleteLink(ctx, "pfl-999999", 0)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	_, err = ls.GetProfileLinks(ctx, "pfl-999999")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	after, err := ls.GetProfileLinks(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	afterProfile, err := ps.GetProfile(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, beforeProfile, afterProfile)
}

func TestEndToEndScenario(t *testing.T) {
	ps, ls, _ := newTestServices(t)
	ctx := context.Background()

	profile, _, err := ps.CreateProfile(ctx, "0xalice", "alice", "Alice", "", "", "alice")
	require.NoError(t, err)

	first, _, err := ls.AddLink(ctx, profile.ID, "Site", "https://a.dev", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.ID)
	assert.Equal(t, int64(0), first.Order)

	second, _, err := ls.AddLink(ctx, profile.ID, "Blog", "https://b.dev", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.ID)
	assert.Equal(t, int64(1), second.Order)

	_, err = ls.DeleteLink(ctx, profile.ID, first.ID)
	require.NoError(t, err)

	links, err := ls.GetProfileLinks(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, second.ID, links[0].ID)

	_, err = ls.ReorderLink(ctx, profile.ID, second.ID, 5)
	require.NoError(t, err)

	links, err = ls.GetProfileLinks(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, second.ID, links[0].ID)
	assert.Equal(t, int64(5), links[0].Order)
}
