package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warinb/linkgrove/pkg/core/domain"
)

func TestEventsFireAfterCommit(t *testing.T) {
	ps, ls, events := newTestServices(t)
	ctx := context.Background()

	var created []domain.ProfileCreated
	var added []domain.LinkAdded
	var deleted []domain.LinkDeleted
	events.OnProfileCreated(func(ev domain.ProfileCreated) { created = append(created, ev) })
	events.OnLinkAdded(func(ev domain.LinkAdded) { added = append(added, ev) })
	events.OnLinkDeleted(func(ev domain.LinkDeleted) { deleted = append(deleted, ev) })

	profile, _, err := ps.CreateProfile(ctx, "0xabc", "alice", "", "", "", "alice")
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, profile.ID, created[0].ProfileID)
	assert.Equal(t, "0xabc", created[0].Owner)

	link, _, err := ls.AddLink(ctx, profile.ID, "Site", "https://a.dev", "", "")
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, link.ID, added[0].LinkID)
	assert.Equal(t, "https://a.dev", added[0].URL)

	_, err = ls.DeleteLink(ctx, profile.ID, link.ID)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, link.ID, deleted[0].LinkID)
}

func TestNoEventOnFailedMutation(t *testing.T) {
	_, ls, events := newTestServices(t)
	ctx := context.Background()

	fired := 0
	events.OnLinkAdded(func(domain.LinkAdded) { fired++ })
	events.OnLinkDeleted(func(domain.LinkDeleted) { fired++ })

	_, _, err := ls.AddLink(ctx, "pfl-999999", "t", "u", "", "")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	_, err = ls.DeleteLink(ctx, "pfl-999999", 0)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	assert.Zero(t, fired)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewEventBus()

	first, second := 0, 0
	unsub := bus.OnLinkAdded(func(domain.LinkAdded) { first++ })
	bus.OnLinkAdded(func(domain.LinkAdded) { second++ })

	unsub()
	unsub() // no-op, must not disturb the other listener

	bus.emitLinkAdded(domain.LinkAdded{ProfileID: "pfl-000000", LinkID: 0})
	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}

func TestPanickingListenerDoesNotBlockMutation(t *testing.T) {
	ps, ls, events := newTestServices(t)
	ctx := context.Background()

	events.OnLinkAdded(func(domain.LinkAdded) { panic("listener bug") })

	profile, _, err := ps.CreateProfile(ctx, "0xabc", "alice", "", "", "", "alice")
	require.NoError(t, err)

	link, _, err := ls.AddLink(ctx, profile.ID, "Site", "https://a.dev", "", "")
	require.NoError(t, err)

	// The mutation committed despite the listener panic.
	got, err := ls.GetLink(ctx, profile.ID, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "Site", got.Title)
}
