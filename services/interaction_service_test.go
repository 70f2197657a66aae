package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentOnEvent(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "comment_host")
	guest := createUser(t, "comment_guest")
	event := createPrivateEvent(t, host)

	comment, err := CommentOnEvent(guest, event.ID, "<b>Looking forward</b> to it", nil)
	require.NoError(t, err)
	assert.Equal(t, "Looking forward to it", comment.Text)
	assert.Nil(t, comment.ParentID)

	reply, err := CommentOnEvent(host, event.ID, "See you there", &comment.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, comment.ID, *reply.ParentID)

	_, err = CommentOnEvent(guest, event.ID, "   <br/>  ", nil)
	assert.ErrorIs(t, err, ErrValidation)

	other := createPrivateEvent(t, host)
	_, err = CommentOnEvent(guest, other.ID, "wrong thread", &comment.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestToggleLike(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "like_host")
	guest := createUser(t, "like_guest")
	event := createPrivateEvent(t, host)

	liked, err := ToggleLike(guest, event.ID, nil)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = ToggleLike(guest, event.ID, nil)
	require.NoError(t, err)
	assert.False(t, liked)

	// Liking a comment is independent of liking the event.
	comment, err := CommentOnEvent(host, event.ID, "first", nil)
	require.NoError(t, err)

	liked, err = ToggleLike(guest, event.ID, &comment.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = ToggleLike(guest, event.ID, nil)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestShareEvent(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "share_host")
	guest := createUser(t, "share_guest")
	event := createPrivateEvent(t, host)

	share, err := ShareEvent(guest, event.ID, "whatsapp")
	require.NoError(t, err)
	assert.Equal(t, "whatsapp", share.Platform)

	_, err = ShareEvent(guest, event.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)
}
