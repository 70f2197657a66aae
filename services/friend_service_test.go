package services

import (
	"testing"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendFriendRequest(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "req_alice")
	bob := createUser(t, "req_bob")

	request, err := SendFriendRequest(alice, bob.Username)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, request.FromUserID)
	assert.Equal(t, bob.ID, request.ToUserID)

	pending, err := ListPendingFriendRequests(bob)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, alice.ID, pending[0].FromUserID)

	_, err = SendFriendRequest(alice, alice.Username)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = SendFriendRequest(alice, "req_nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	// Neither direction may stack a second request on the pending one.
	_, err = SendFriendRequest(alice, bob.Username)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = SendFriendRequest(bob, alice.Username)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAcceptFriendRequestIsSymmetric(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "sym_alice")
	bob := createUser(t, "sym_bob")

	_, err := SendFriendRequest(alice, bob.Username)
	require.NoError(t, err)
	require.NoError(t, AcceptFriendRequest(bob, alice.Username))

	assert.True(t, AreFriends(alice.ID, bob.ID))
	assert.True(t, AreFriends(bob.ID, alice.ID))

	aliceFriends, err := ListFriends(alice)
	require.NoError(t, err)
	require.Len(t, aliceFriends, 1)
	assert.Equal(t, bob.ID, aliceFriends[0].ID)

	bobFriends, err := ListFriends(bob)
	require.NoError(t, err)
	require.Len(t, bobFriends, 1)
	assert.Equal(t, alice.ID, bobFriends[0].ID)

	var requests int64
	database.DB.Model(&models.FriendRequest{}).Count(&requests)
	assert.Zero(t, requests)

	// Friends cannot be re-requested.
	_, err = SendFriendRequest(alice, bob.Username)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAcceptFriendRequestRequiresPending(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "nopend_alice")
	bob := createUser(t, "nopend_bob")

	err := AcceptFriendRequest(bob, alice.Username)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, AreFriends(alice.ID, bob.ID))
}

func TestAcceptFriendRequestOnlyAddressee(t *testing.T) {
	setupTestDB(t)
	alice := createUser(t, "addr_alice")
	bob := createUser(t, "addr_bob")

	_, err := SendFriendRequest(alice, bob.Username)
	require.NoError(t, err)

	// The sender cannot accept their own request.
	err = AcceptFriendRequest(alice, bob.Username)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, AreFriends(alice.ID, bob.ID))
}
