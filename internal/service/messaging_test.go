package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/pitchhub/internal/apperror"
	"github.com/sakif/pitchhub/internal/model"
)

func TestSend_EmptyBodyRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	_, err := env.messaging.Send(ctx, a.ID, b.ID, "hi", "   ")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	box, err := env.messaging.ListForUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, box.Received)
	assert.Empty(t, env.notifications(t, b.ID))
}

func TestSend_UnknownReceiver(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "alice")

	_, err := env.messaging.Send(context.Background(), a.ID, 9999, "", "hello")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSend_NotifiesReceiver(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	msg, err := env.messaging.Send(ctx, a.ID, b.ID, " Hello ", " Want to team up? ")
	require.NoError(t, err)
	assert.False(t, msg.Read)
	assert.Equal(t, "Hello", msg.Subject)
	assert.Equal(t, "Want to team up?", msg.Body)
	assert.Equal(t, "alice", msg.SenderName)
	assert.Equal(t, "bob", msg.ReceiverName)

	notes := env.notifications(t, b.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationMessage, notes[0].Type)
	assert.Equal(t, model.RelatedMessage, notes[0].RelatedType)
	require.NotNil(t, notes[0].RelatedID)
	assert.Equal(t, msg.ID, *notes[0].RelatedID)
	assert.Equal(t, "alice sent you a message: Hello", notes[0].Body)
	assert.Empty(t, env.notifications(t, a.ID))
}

func TestSend_ToSelfStillNotifies(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "alice")

	_, err := env.messaging.Send(context.Background(), a.ID, a.ID, "", "note to self")
	require.NoError(t, err)
	assert.Len(t, env.notifications(t, a.ID), 1)
}

func TestMarkRead_ReceiverOnlyAndOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	msg, err := env.messaging.Send(ctx, a.ID, b.ID, "", "ping")
	require.NoError(t, err)

	unread := func() int {
		n, err := env.unread.UnreadMessageCount(ctx, b.ID)
		require.NoError(t, err)
		return n
	}
	assert.Equal(t, 1, unread())

	// the sender cannot mark it read
	require.NoError(t, env.messaging.MarkRead(ctx, msg.ID, a.ID))
	assert.Equal(t, 1, unread())

	require.NoError(t, env.messaging.MarkRead(ctx, msg.ID, b.ID))
	assert.Equal(t, 0, unread())

	// second call is a no-op, not an error
	require.NoError(t, env.messaging.MarkRead(ctx, msg.ID, b.ID))
	assert.Equal(t, 0, unread())

	got, err := env.messaging.Get(ctx, msg.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)
}

func TestListForUser_Partitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")

	_, err := env.messaging.Send(ctx, a.ID, b.ID, "", "first")
	require.NoError(t, err)
	_, err = env.messaging.Send(ctx, a.ID, b.ID, "", "second")
	require.NoError(t, err)
	_, err = env.messaging.Send(ctx, b.ID, a.ID, "", "reply")
	require.NoError(t, err)

	box, err := env.messaging.ListForUser(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, box.Received, 2)
	assert.Equal(t, "second", box.Received[0].Body, "newest first")
	require.Len(t, box.Sent, 1)
	assert.Equal(t, "reply", box.Sent[0].Body)
}

func TestGet_HiddenFromThirdParty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	c := env.user(t, "carol")

	msg, err := env.messaging.Send(ctx, a.ID, b.ID, "", "private")
	require.NoError(t, err)

	_, err = env.messaging.Get(ctx, msg.ID, a.ID)
	assert.NoError(t, err)

	_, err = env.messaging.Get(ctx, msg.ID, c.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = env.messaging.Get(ctx, 4040, a.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// =========================================================================
// UNREAD STATE TESTS
// =========================================================================

func TestUnread_CountsAndTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	p := env.pitch(t, b.ID, "p")

	_, err := env.messaging.Send(ctx, a.ID, b.ID, "", "hi")
	require.NoError(t, err)
	_, err = env.interactions.ToggleLike(ctx, p.ID, a.ID)
	require.NoError(t, err)
	_, err = env.interactions.AddComment(ctx, p.ID, a.ID, "nice")
	require.NoError(t, err)

	counts, err := env.unread.Counts(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UnreadCounts{Messages: 1, Notifications: 3}, *counts)

	notes, err := env.unread.ListNotifications(ctx, b.ID, true, 0, 0)
	require.NoError(t, err)
	require.Len(t, notes, 3)

	// alice cannot touch bob's notifications
	require.NoError(t, env.unread.MarkNotificationRead(ctx, notes[0].ID, a.ID))
	require.NoError(t, env.unread.DeleteNotification(ctx, notes[0].ID, a.ID))
	n, _ := env.unread.UnreadNotificationCount(ctx, b.ID)
	assert.Equal(t, 3, n)

	require.NoError(t, env.unread.MarkNotificationRead(ctx, notes[0].ID, b.ID))
	n, _ = env.unread.UnreadNotificationCount(ctx, b.ID)
	assert.Equal(t, 2, n)

	changed, err := env.unread.MarkAllNotificationsRead(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	require.NoError(t, env.unread.DeleteNotification(ctx, notes[1].ID, b.ID))
	all, err := env.unread.ListNotifications(ctx, b.ID, false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	counts, err = env.unread.Counts(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Notifications)
	assert.Equal(t, 1, counts.Messages)
}
