package dm_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prime-studio/studio-backend/internal/dm"
	"github.com/prime-studio/studio-backend/internal/metrics"
	"github.com/prime-studio/studio-backend/internal/models"
	"github.com/prime-studio/studio-backend/internal/storage/memory"
)

const (
	alice = "11111111-1111-4111-8111-111111111111"
	bob   = "22222222-2222-4222-9222-222222222222"
	carol = "33333333-3333-4333-a333-333333333333"
)

func newService(t *testing.T) (*dm.Service, *memory.FollowStore, *memory.DMStore, *memory.ProfileStore) {
	t.Helper()
	follows := memory.NewFollowStore()
	convs := memory.NewDMStore()
	profiles := memory.NewProfileStore()
	return dm.NewService(follows, convs, profiles), follows, convs, profiles
}

func mutualFollow(t *testing.T, follows *memory.FollowStore, a, b string) {
	t.Helper()
	require.NoError(t, follows.Follow(context.Background(), a, b))
	require.NoError(t, follows.Follow(context.Background(), b, a))
}

func TestAllowedRequiresBothEdges(t *testing.T) {
	ctx := context.Background()
	svc, follows, _, _ := newService(t)

	allowed, err := svc.Allowed(ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, allowed, "no edges")

	require.NoError(t, follows.Follow(ctx, alice, bob))
	allowed, err = svc.Allowed(ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, allowed, "one-way follow is not enough")

	require.NoError(t, follows.Follow(ctx, bob, alice))
	allowed, err = svc.Allowed(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllowedIsSymmetric(t *testing.T) {
	ctx := context.Background()
	svc, follows, _, _ := newService(t)
	require.NoError(t, follows.Follow(ctx, alice, bob))

	ab, err := svc.Allowed(ctx, alice, bob)
	require.NoError(t, err)
	ba, err := svc.Allowed(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)

	mutualFollow(t, follows, alice, bob)
	ab, err = svc.Allowed(ctx, alice, bob)
	require.NoError(t, err)
	ba, err = svc.Allowed(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestResolveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, follows, convs, _ := newService(t)
	mutualFollow(t, follows, alice, bob)

	first, err := svc.Resolve(ctx, alice, bob)
	require.NoError(t, err)
	second, err := svc.Resolve(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Reversed order resolves to the same conversation.
	reversed, err := svc.Resolve(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, first.ID, reversed.ID)
	assert.Equal(t, "dm", first.Kind)
	assert.Equal(t, dm.Key(alice, bob), first.DMKey)

	participants := convs.Participants(first.ID)
	require.Len(t, participants, 2)
	for _, p := range participants {
		assert.Equal(t, "member", p.Role)
	}
}

func TestResolveCountsOnlyGenuineCreates(t *testing.T) {
	ctx := context.Background()
	svc, follows, convs, _ := newService(t)
	mutualFollow(t, follows, alice, bob)

	before := testutil.ToFloat64(metrics.ConversationsCreated)
	_, err := svc.Resolve(ctx, alice, bob)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ConversationsCreated),
		"only the first resolve creates a conversation")

	// The store distinguishes a create from finding an existing key.
	conv, created, err := convs.CreateDM(ctx, dm.Key(alice, bob), alice, bob)
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.False(t, created)
}

func TestSendBlockedWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc, follows, convs, _ := newService(t)
	require.NoError(t, follows.Follow(ctx, alice, bob)) // one-way only

	blocked, err := svc.SendMessage(ctx, alice, bob, "hello")
	require.NoError(t, err)
	assert.True(t, blocked)

	conv, err := convs.GetByDMKey(ctx, dm.Key(alice, bob))
	require.NoError(t, err)
	assert.Nil(t, conv, "no conversation should be created for a blocked pair")
}

func TestListBlockedIsNotAnError(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newService(t)

	msgs, blocked, err := svc.ListMessages(ctx, alice, bob)
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Empty(t, msgs)
}

func TestListEmptyConversationIsNotBlocked(t *testing.T) {
	ctx := context.Background()
	svc, follows, _, _ := newService(t)
	mutualFollow(t, follows, alice, bob)

	msgs, blocked, err := svc.ListMessages(ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Empty(t, msgs, "resolvable conversation with no messages")
}

func TestMessagesOrderedByCreation(t *testing.T) {
	ctx := context.Background()
	svc, follows, _, _ := newService(t)
	mutualFollow(t, follows, alice, bob)

	for _, send := range []struct{ from, to, body string }{
		{alice, bob, "first"},
		{bob, alice, "second"},
		{alice, bob, "third"},
	} {
		blocked, err := svc.SendMessage(ctx, send.from, send.to, send.body)
		require.NoError(t, err)
		require.False(t, blocked)
	}

	msgs, blocked, err := svc.ListMessages(ctx, bob, alice)
	require.NoError(t, err)
	require.False(t, blocked)
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{msgs[0].Body, msgs[1].Body, msgs[2].Body})
	assert.Equal(t, alice, msgs[0].SenderID)
	assert.Equal(t, bob, msgs[1].SenderID)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt),
			"created_at must be non-decreasing")
	}
}

func TestSendBumpsLastMessageAt(t *testing.T) {
	ctx := context.Background()
	svc, follows, convs, _ := newService(t)
	mutualFollow(t, follows, alice, bob)

	conv, err := svc.Resolve(ctx, alice, bob)
	require.NoError(t, err)
	assert.Nil(t, conv.LastMessageAt, "no messages yet")

	blocked, err := svc.SendMessage(ctx, alice, bob, "hello")
	require.NoError(t, err)
	require.False(t, blocked)

	conv, err = convs.GetByDMKey(ctx, dm.Key(alice, bob))
	require.NoError(t, err)
	require.NotNil(t, conv)
	require.NotNil(t, conv.LastMessageAt, "send must set last_message_at")

	msgs, err := convs.Messages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.False(t, conv.LastMessageAt.Before(msgs[0].CreatedAt),
		"last_message_at must not lag the latest message")

	first := *conv.LastMessageAt
	blocked, err = svc.SendMessage(ctx, bob, alice, "again")
	require.NoError(t, err)
	require.False(t, blocked)

	conv, err = convs.GetByDMKey(ctx, dm.Key(alice, bob))
	require.NoError(t, err)
	require.NotNil(t, conv.LastMessageAt)
	assert.False(t, conv.LastMessageAt.Before(first), "later send must advance last_message_at")
}

func TestPeersIntersectsFollowSets(t *testing.T) {
	ctx := context.Background()
	svc, follows, _, profiles := newService(t)

	for _, p := range []models.Profile{
		{ID: alice, DisplayName: "Alice"},
		{ID: bob, DisplayName: "Bob", Username: "bob"},
		{ID: carol, DisplayName: "Carol"},
	} {
		prof := p
		require.NoError(t, profiles.Create(ctx, &prof))
	}

	// Alice and Bob are mutuals; Carol only follows Alice.
	mutualFollow(t, follows, alice, bob)
	require.NoError(t, follows.Follow(ctx, carol, alice))

	peers, err := svc.Peers(ctx, alice)
	require.NoError(t, err)
	require.Len(t, peers, 1)
	assert.Equal(t, bob, peers[0].ID)
	assert.Equal(t, "Bob", peers[0].DisplayName)

	peers, err = svc.Peers(ctx, carol)
	require.NoError(t, err)
	assert.Empty(t, peers)
}
