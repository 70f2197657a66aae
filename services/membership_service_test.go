package services

import (
	"strings"
	"testing"
	"time"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/notifications"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventValidation(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "validation_host")

	cases := []struct {
		name   string
		mutate func(*CreateEventInput)
	}{
		{"title too short", func(in *CreateEventInput) { in.Title = "ab" }},
		{"title only markup", func(in *CreateEventInput) { in.Title = "<b>x</b>" }},
		{"too few participants", func(in *CreateEventInput) { in.MaxParticipants = 1 }},
		{"too many participants", func(in *CreateEventInput) { in.MaxParticipants = 101 }},
		{"latitude out of range", func(in *CreateEventInput) { in.Latitude = 91 }},
		{"end before start", func(in *CreateEventInput) { in.EndTime = in.StartTime.Add(-time.Hour) }},
		{"end equals start", func(in *CreateEventInput) { in.EndTime = in.StartTime }},
		{"unknown event type", func(in *CreateEventInput) { in.EventType = "rave" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validEventInput()
			tc.mutate(&in)
			_, err := CreateEvent(host, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateEventPublicRequiresCertifiedHost(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "uncertified_host")

	in := validEventInput()
	in.IsPublic = true
	_, err := CreateEvent(host, in)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updateProfile(t, host, func(p *models.UserProfile) { p.IsCertified = true })
	event, err := CreateEvent(host, in)
	require.NoError(t, err)
	assert.True(t, event.IsPublic)
}

func TestCreateEventHostAttendsAndFriendsAreInvited(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "creating_host")
	friend := createUser(t, "invited_friend")

	in := validEventInput()
	in.Title = "  <b>Study night</b>  "
	in.InterestTags = []string{" Algorithms ", "algorithms", "Go"}
	in.InvitedFriends = []string{friend.Username, host.Username}

	event, err := CreateEvent(host, in)
	require.NoError(t, err)

	assert.Equal(t, "Study night", event.Title)
	assert.Equal(t, []string{"algorithms", "go"}, event.InterestTags)
	assert.True(t, isAttendee(t, event.ID, host.ID))

	var invitations []models.EventInvitation
	require.NoError(t, database.DB.Where("event_id = ?", event.ID).Find(&invitations).Error)
	require.Len(t, invitations, 1)
	assert.Equal(t, friend.ID, invitations[0].UserID)
	assert.False(t, invitations[0].IsAutoMatched)
}

func TestCreateEventUnknownInviteeRollsBack(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "rollback_host")

	in := validEventInput()
	in.InvitedFriends = []string{"no_such_user"}
	_, err := CreateEvent(host, in)
	assert.ErrorIs(t, err, ErrNotFound)

	var events int64
	database.DB.Model(&models.Event{}).Count(&events)
	assert.Zero(t, events)
}

func TestRSVPPublicEventJoinsDirectly(t *testing.T) {
	setupTestDB(t)
	host := createCertifiedUser(t, "public_host")
	guest := createUser(t, "public_guest")
	event := createPublicEvent(t, host, 10)

	result, err := RSVP(event.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, RSVPJoined, result.Status)
	assert.Nil(t, result.RequestID)
	assert.True(t, isAttendee(t, event.ID, guest.ID))

	// Repeating the RSVP changes nothing.
	again, err := RSVP(event.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, RSVPJoined, again.Status)
	assert.Equal(t, 2, attendeeCount(t, event.ID))
}

func TestRSVPPrivateEventCreatesJoinRequest(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "private_host")
	guest := createUser(t, "private_guest")
	event := createPrivateEvent(t, host)

	result, err := RSVP(event.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, RSVPRequestSent, result.Status)
	require.NotNil(t, result.RequestID)
	assert.False(t, isAttendee(t, event.ID, guest.ID))

	// A second RSVP reuses the pending request instead of stacking a new one.
	again, err := RSVP(event.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, RSVPRequestSent, again.Status)
	assert.Equal(t, *result.RequestID, *again.RequestID)

	var requests int64
	database.DB.Model(&models.EventJoinRequest{}).
		Where("event_id = ? AND user_id = ?", event.ID, guest.ID).Count(&requests)
	assert.EqualValues(t, 1, requests)
}

func TestRSVPManualInvitationJoinsPrivateEvent(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "inviter_host")
	guest := createUser(t, "manual_invitee")
	event := createPrivateEvent(t, host)

	require.NoError(t, InviteUser(event.ID, host.ID, guest.Username, false))

	result, err := RSVP(event.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, RSVPJoined, result.Status)
	assert.True(t, isAttendee(t, event.ID, guest.ID))
}

func TestRSVPAutoMatchedInvitationStillNeedsApproval(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "automatch_host")
	guest := createUser(t, "automatch_invitee")
	event := createPrivateEvent(t, host)

	require.NoError(t, InviteUser(event.ID, host.ID, guest.Username, true))

	result, err := RSVP(event.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, RSVPRequestSent, result.Status)
	assert.False(t, isAttendee(t, event.ID, guest.ID))
}

func TestRSVPFullEvent(t *testing.T) {
	setupTestDB(t)
	host := createCertifiedUser(t, "full_host")
	first := createUser(t, "first_guest")
	second := createUser(t, "second_guest")
	event := createPublicEvent(t, host, 2)

	result, err := RSVP(event.ID, first)
	require.NoError(t, err)
	assert.Equal(t, RSVPJoined, result.Status)

	_, err = RSVP(event.ID, second)
	assert.ErrorIs(t, err, ErrEventFull)
	assert.Equal(t, 2, attendeeCount(t, event.ID))
}

func TestRSVPUnknownEvent(t *testing.T) {
	setupTestDB(t)
	guest := createUser(t, "lost_guest")

	_, err := RSVP(uuid.New(), guest)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInviteUser(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "invite_host")
	guest := createUser(t, "invite_guest")
	outsider := createUser(t, "invite_outsider")
	event := createPrivateEvent(t, host)

	err := InviteUser(event.ID, outsider.ID, guest.Username, false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = InviteUser(event.ID, host.ID, host.Username, false)
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, InviteUser(event.ID, host.ID, guest.Username, false))
	err = InviteUser(event.ID, host.ID, guest.Username, false)
	assert.ErrorIs(t, err, ErrAlreadyInvited)
}

func TestApproveJoinRequest(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "approve_host")
	guest := createUser(t, "approve_guest")
	outsider := createUser(t, "approve_outsider")
	event := createPrivateEvent(t, host)

	result, err := RSVP(event.ID, guest)
	require.NoError(t, err)
	requestID := *result.RequestID

	err = ApproveJoinRequest(requestID, outsider.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, ApproveJoinRequest(requestID, host.ID))
	assert.True(t, isAttendee(t, event.ID, guest.ID))

	var request models.EventJoinRequest
	require.NoError(t, database.DB.First(&request, "id = ?", requestID).Error)
	assert.Equal(t, models.JoinRequestApproved, request.Status)
	assert.NotNil(t, request.ProcessedAt)

	// Approving again is a no-op, not a second admission.
	require.NoError(t, ApproveJoinRequest(requestID, host.ID))
	assert.Equal(t, 2, attendeeCount(t, event.ID))
}

func TestApproveJoinRequestRespectsCapacity(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "capacity_host")
	first := createUser(t, "capacity_first")
	second := createUser(t, "capacity_second")

	in := validEventInput()
	in.MaxParticipants = 2
	event, err := CreateEvent(host, in)
	require.NoError(t, err)

	firstResult, err := RSVP(event.ID, first)
	require.NoError(t, err)
	secondResult, err := RSVP(event.ID, second)
	require.NoError(t, err)

	require.NoError(t, ApproveJoinRequest(*firstResult.RequestID, host.ID))
	err = ApproveJoinRequest(*secondResult.RequestID, host.ID)
	assert.ErrorIs(t, err, ErrEventFull)

	var request models.EventJoinRequest
	require.NoError(t, database.DB.First(&request, "id = ?", *secondResult.RequestID).Error)
	assert.Equal(t, models.JoinRequestPending, request.Status)
}

func TestRejectJoinRequest(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "reject_host")
	guest := createUser(t, "reject_guest")
	event := createPrivateEvent(t, host)

	result, err := RSVP(event.ID, guest)
	require.NoError(t, err)
	requestID := *result.RequestID

	require.NoError(t, RejectJoinRequest(requestID, host.ID))
	assert.False(t, isAttendee(t, event.ID, guest.ID))

	var request models.EventJoinRequest
	require.NoError(t, database.DB.First(&request, "id = ?", requestID).Error)
	assert.Equal(t, models.JoinRequestRejected, request.Status)
	assert.NotNil(t, request.ProcessedAt)

	// Rejecting twice is fine; flipping a rejected request to approved is not.
	require.NoError(t, RejectJoinRequest(requestID, host.ID))
	err = ApproveJoinRequest(requestID, host.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestHostCanStillInviteAfterRejection(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "relenting_host")
	guest := createUser(t, "persistent_guest")
	event := createPrivateEvent(t, host)

	result, err := RSVP(event.ID, guest)
	require.NoError(t, err)
	require.NoError(t, RejectJoinRequest(*result.RequestID, host.ID))

	// The earlier rejection does not block a direct invitation.
	require.NoError(t, InviteUser(event.ID, host.ID, guest.Username, false))

	joined, err := RSVP(event.ID, guest)
	require.NoError(t, err)
	assert.Equal(t, RSVPJoined, joined.Status)
}

func TestDeclineInvitation(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "decline_host")
	guest := createUser(t, "decline_guest")
	event := createPrivateEvent(t, host)

	require.NoError(t, InviteUser(event.ID, host.ID, guest.Username, false))
	require.NoError(t, DeclineInvitation(event.ID, guest))

	var invitations int64
	database.DB.Model(&models.EventInvitation{}).
		Where("event_id = ? AND user_id = ?", event.ID, guest.ID).Count(&invitations)
	assert.Zero(t, invitations)

	var declines int64
	database.DB.Model(&models.DeclinedInvitation{}).
		Where("event_id = ? AND user_id = ?", event.ID, guest.ID).Count(&declines)
	assert.EqualValues(t, 1, declines)

	// Declining again stays a single decline row.
	require.NoError(t, DeclineInvitation(event.ID, guest))
	database.DB.Model(&models.DeclinedInvitation{}).
		Where("event_id = ? AND user_id = ?", event.ID, guest.ID).Count(&declines)
	assert.EqualValues(t, 1, declines)

	views, err := GetInvitations(guest)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestReinviteAfterDeclineClearsDecline(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "reinvite_host")
	guest := createUser(t, "reinvite_guest")
	event := createPrivateEvent(t, host)

	require.NoError(t, InviteUser(event.ID, host.ID, guest.Username, false))
	require.NoError(t, DeclineInvitation(event.ID, guest))
	require.NoError(t, InviteUser(event.ID, host.ID, guest.Username, false))

	// The re-invite supersedes the decline: never both rows at once.
	var invitations, declines int64
	database.DB.Model(&models.EventInvitation{}).
		Where("event_id = ? AND user_id = ?", event.ID, guest.ID).Count(&invitations)
	database.DB.Model(&models.DeclinedInvitation{}).
		Where("event_id = ? AND user_id = ?", event.ID, guest.ID).Count(&declines)
	assert.EqualValues(t, 1, invitations)
	assert.Zero(t, declines)

	views, err := GetInvitations(guest)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, event.ID, views[0].Event.ID)
}

func TestCreateEventLengthLimitsCountCharacters(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "unicode_host")

	in := validEventInput()
	in.Title = "日本語" // three characters, nine bytes
	event, err := CreateEvent(host, in)
	require.NoError(t, err)
	assert.Equal(t, "日本語", event.Title)

	in.Title = strings.Repeat("ü", 200)
	_, err = CreateEvent(host, in)
	require.NoError(t, err)

	in.Title = strings.Repeat("ü", 201)
	_, err = CreateEvent(host, in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRSVPJoinPushesEventUpdateToHost(t *testing.T) {
	setupTestDB(t)

	type recordedPush struct {
		userID uuid.UUID
		ntype  string
	}
	got := make(chan recordedPush, 16)
	orig := sendPush
	sendPush = func(userID uuid.UUID, ntype string, data map[string]interface{}) {
		got <- recordedPush{userID, ntype}
	}
	defer func() { sendPush = orig }()

	host := createCertifiedUser(t, "push_host")
	guest := createUser(t, "push_guest")
	event := createPublicEvent(t, host, 10)

	_, err := RSVP(event.ID, guest)
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case p := <-got:
			if p.ntype == notifications.TypeEventUpdate {
				assert.Equal(t, host.ID, p.userID)
				return
			}
		case <-deadline:
			t.Fatal("no event_update push dispatched to the host")
		}
	}
}

func TestDeleteEventCascades(t *testing.T) {
	setupTestDB(t)
	host := createCertifiedUser(t, "deleting_host")
	guest := createUser(t, "deleted_guest")
	invitee := createUser(t, "deleted_invitee")
	outsider := createUser(t, "deleting_outsider")
	event := createPublicEvent(t, host, 10)

	_, err := RSVP(event.ID, guest)
	require.NoError(t, err)
	require.NoError(t, InviteUser(event.ID, host.ID, invitee.Username, false))
	_, err = CommentOnEvent(guest, event.ID, "see you there", nil)
	require.NoError(t, err)
	_, err = ToggleLike(guest, event.ID, nil)
	require.NoError(t, err)

	err = DeleteEvent(event.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, DeleteEvent(event.ID, host.ID))

	var events int64
	database.DB.Model(&models.Event{}).Where("id = ?", event.ID).Count(&events)
	assert.Zero(t, events)
	assert.Zero(t, attendeeCount(t, event.ID))

	for _, table := range []interface{}{
		&models.EventInvitation{}, &models.EventJoinRequest{},
		&models.EventComment{}, &models.EventLike{},
	} {
		var count int64
		database.DB.Model(table).Where("event_id = ?", event.ID).Count(&count)
		assert.Zero(t, count)
	}

	err = DeleteEvent(event.ID, host.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchEventsVisibility(t *testing.T) {
	setupTestDB(t)
	host := createCertifiedUser(t, "search_host")
	viewer := createUser(t, "search_viewer")
	invitee := createUser(t, "search_invitee")

	public := createPublicEvent(t, host, 10)
	private := createPrivateEvent(t, host)
	require.NoError(t, InviteUser(private.ID, host.ID, invitee.Username, false))

	declined := createPublicEvent(t, host, 10)
	require.NoError(t, DeclineInvitation(declined.ID, viewer))

	viewerEvents, err := SearchEvents(viewer, SearchFilter{})
	require.NoError(t, err)
	require.Len(t, viewerEvents, 1)
	assert.Equal(t, public.ID, viewerEvents[0].ID)

	inviteeEvents, err := SearchEvents(invitee, SearchFilter{})
	require.NoError(t, err)
	ids := make(map[uuid.UUID]bool)
	for _, e := range inviteeEvents {
		ids[e.ID] = true
	}
	assert.True(t, ids[public.ID])
	assert.True(t, ids[private.ID])

	hostEvents, err := SearchEvents(host, SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, hostEvents, 3)
}

func TestSearchEventsFilters(t *testing.T) {
	setupTestDB(t)
	host := createCertifiedUser(t, "filter_host")

	near := validEventInput()
	near.IsPublic = true
	near.Title = "Near study"
	near.InterestTags = []string{"algorithms"}
	nearEvent, err := CreateEvent(host, near)
	require.NoError(t, err)

	far := validEventInput()
	far.IsPublic = true
	far.Title = "Far party"
	far.EventType = "party"
	far.Latitude = 47.0707 // Graz, ~145 km away
	far.Longitude = 15.4395
	farEvent, err := CreateEvent(host, far)
	require.NoError(t, err)

	center := 48.2082
	centerLon := 16.3738
	nearby, err := SearchEvents(host, SearchFilter{CenterLat: &center, CenterLon: &centerLon, RadiusKM: 50})
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, nearEvent.ID, nearby[0].ID)

	parties, err := SearchEvents(host, SearchFilter{EventType: "party"})
	require.NoError(t, err)
	require.Len(t, parties, 1)
	assert.Equal(t, farEvent.ID, parties[0].ID)

	tagged, err := SearchEvents(host, SearchFilter{Tags: []string{"Algorithms"}})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, nearEvent.ID, tagged[0].ID)
}

func TestGetUserEventsFeed(t *testing.T) {
	setupTestDB(t)
	host := createCertifiedUser(t, "feed_host")
	guest := createUser(t, "feed_guest")

	first := validEventInput()
	first.IsPublic = true
	first.Title = "Earlier event"
	firstEvent, err := CreateEvent(host, first)
	require.NoError(t, err)

	second := validEventInput()
	second.IsPublic = true
	second.Title = "Later event"
	second.StartTime = second.StartTime.Add(48 * time.Hour)
	second.EndTime = second.StartTime.Add(2 * time.Hour)
	secondEvent, err := CreateEvent(host, second)
	require.NoError(t, err)

	// The guest only sees events they are part of, not all public ones.
	_, err = RSVP(secondEvent.ID, guest)
	require.NoError(t, err)

	feed, err := GetUserEvents(guest)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, secondEvent.ID, feed[0].ID)

	hostFeed, err := GetUserEvents(host)
	require.NoError(t, err)
	require.Len(t, hostFeed, 2)
	assert.Equal(t, firstEvent.ID, hostFeed[0].ID)
	assert.Equal(t, secondEvent.ID, hostFeed[1].ID)
}

func TestGetEventJoinRequestsHostOnly(t *testing.T) {
	setupTestDB(t)
	host := createUser(t, "requests_host")
	guest := createUser(t, "requests_guest")
	event := createPrivateEvent(t, host)

	_, err := RSVP(event.ID, guest)
	require.NoError(t, err)

	_, err = GetEventJoinRequests(event.ID, guest.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	requests, err := GetEventJoinRequests(event.ID, host.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, guest.ID, requests[0].UserID)
	assert.Equal(t, models.JoinRequestPending, requests[0].Status)
}
