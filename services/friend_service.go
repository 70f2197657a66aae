package services

import (
	"fmt"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SendFriendRequest(fromUser models.User, toUsername string) (*models.FriendRequest, error) {
	var toUser models.User
	if err := database.DB.Where("username = ?", toUsername).First(&toUser).Error; err != nil {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, toUsername)
	}
	if fromUser.ID == toUser.ID {
		return nil, fmt.Errorf("%w: cannot befriend yourself", ErrValidation)
	}

	var friends int64
	database.DB.Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", fromUser.ID, toUser.ID).
		Count(&friends)
	if friends > 0 {
		return nil, fmt.Errorf("%w: already friends", ErrConflict)
	}

	var existing models.FriendRequest
	err := database.DB.Where(
		"(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
		fromUser.ID, toUser.ID, toUser.ID, fromUser.ID).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: a friend request is already pending", ErrConflict)
	}

	request := models.FriendRequest{
		ID:         uuid.New(),
		FromUserID: fromUser.ID,
		ToUserID:   toUser.ID,
	}
	if err := database.DB.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// AcceptFriendRequest atomically inserts both directions of the edge and
// deletes the request row, keeping the friends set symmetric.
func AcceptFriendRequest(toUser models.User, fromUsername string) error {
	var fromUser models.User
	if err := database.DB.Where("username = ?", fromUsername).First(&fromUser).Error; err != nil {
		return fmt.Errorf("%w: user %q", ErrNotFound, fromUsername)
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		var request models.FriendRequest
		if err := tx.Where("from_user_id = ? AND to_user_id = ?", fromUser.ID, toUser.ID).
			First(&request).Error; err != nil {
			return fmt.Errorf("%w: friend request", ErrNotFound)
		}

		edges := []models.Friendship{
			{UserID: fromUser.ID, FriendID: toUser.ID},
			{UserID: toUser.ID, FriendID: fromUser.ID},
		}
		if err := tx.Create(&edges).Error; err != nil {
			return err
		}
		return tx.Delete(&request).Error
	})
}

func ListFriends(user models.User) ([]models.User, error) {
	var friends []models.User
	err := database.DB.
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", user.ID).
		Order("users.username asc").
		Find(&friends).Error
	return friends, err
}

func ListPendingFriendRequests(user models.User) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := database.DB.Preload("FromUser").
		Where("to_user_id = ?", user.ID).
		Order("created_at desc").
		Find(&requests).Error
	return requests, err
}

func AreFriends(a, b uuid.UUID) bool {
	var count int64
	database.DB.Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", a, b).
		Count(&count)
	return count > 0
}
