package services

import (
	"fmt"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/utils"
	"github.com/google/uuid"
)

func CommentOnEvent(user models.User, eventID uuid.UUID, text string, parentID *uuid.UUID) (*models.EventComment, error) {
	text = utils.StripHTML(text)
	if utils.IsBlank(text) {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
	}

	var count int64
	database.DB.Model(&models.Event{}).Where("id = ?", eventID).Count(&count)
	if count == 0 {
		return nil, fmt.Errorf("%w: event", ErrNotFound)
	}
	if parentID != nil {
		var parent models.EventComment
		if err := database.DB.First(&parent, "id = ?", *parentID).Error; err != nil {
			return nil, fmt.Errorf("%w: parent comment", ErrNotFound)
		}
		if parent.EventID != eventID {
			return nil, fmt.Errorf("%w: parent comment belongs to another event", ErrValidation)
		}
	}

	comment := models.EventComment{
		ID:       uuid.New(),
		EventID:  eventID,
		AuthorID: user.ID,
		Text:     text,
		ParentID: parentID,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ToggleLike likes the event (or one of its comments) if not yet liked, and
// removes the like otherwise. It reports whether a like now exists.
func ToggleLike(user models.User, eventID uuid.UUID, commentID *uuid.UUID) (bool, error) {
	var count int64
	database.DB.Model(&models.Event{}).Where("id = ?", eventID).Count(&count)
	if count == 0 {
		return false, fmt.Errorf("%w: event", ErrNotFound)
	}

	q := database.DB.Where("event_id = ? AND user_id = ?", eventID, user.ID)
	if commentID != nil {
		q = q.Where("comment_id = ?", *commentID)
	} else {
		q = q.Where("comment_id IS NULL")
	}

	var existing models.EventLike
	if err := q.First(&existing).Error; err == nil {
		if err := database.DB.Delete(&existing).Error; err != nil {
			return true, err
		}
		return false, nil
	}

	like := models.EventLike{
		ID:        uuid.New(),
		EventID:   eventID,
		UserID:    user.ID,
		CommentID: commentID,
	}
	if err := database.DB.Create(&like).Error; err != nil {
		return false, err
	}
	return true, nil
}

func ShareEvent(user models.User, eventID uuid.UUID, platform string) (*models.EventShare, error) {
	if utils.IsBlank(platform) {
		return nil, fmt.Errorf("%w: platform is required", ErrValidation)
	}
	var count int64
	database.DB.Model(&models.Event{}).Where("id = ?", eventID).Count(&count)
	if count == 0 {
		return nil, fmt.Errorf("%w: event", ErrNotFound)
	}

	share := models.EventShare{
		ID:       uuid.New(),
		EventID:  eventID,
		UserID:   user.ID,
		Platform: platform,
	}
	if err := database.DB.Create(&share).Error; err != nil {
		return nil, err
	}
	return &share, nil
}
