package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/notifications"
	"github.com/TomPython98/pinit-backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmitRating stores the rating and recomputes the ratee's reputation in the
// same transaction, serialized on the stats row. Ratings are insert-only.
func SubmitRating(fromUser models.User, toUsername string, eventID *uuid.UUID, score int, reference string) (*models.UserRating, error) {
	if score < 1 || score > 5 {
		return nil, fmt.Errorf("%w: score must be between 1 and 5", ErrValidation)
	}
	reference = utils.StripHTML(reference)
	if utf8.RuneCountInString(reference) > 5000 {
		return nil, fmt.Errorf("%w: reference must be at most 5000 characters", ErrValidation)
	}

	var toUser models.User
	if err := database.DB.Where("username = ?", toUsername).First(&toUser).Error; err != nil {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, toUsername)
	}
	if fromUser.ID == toUser.ID {
		return nil, fmt.Errorf("%w: users cannot rate themselves", ErrValidation)
	}
	if eventID != nil {
		var count int64
		database.DB.Model(&models.Event{}).Where("id = ?", *eventID).Count(&count)
		if count == 0 {
			return nil, fmt.Errorf("%w: event", ErrNotFound)
		}
	}

	rating := models.UserRating{
		ID:         uuid.New(),
		FromUserID: fromUser.ID,
		ToUserID:   toUser.ID,
		EventID:    eventID,
		Score:      score,
		Reference:  reference,
	}

	trustChanged := false
	var newLevel int

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		dup := tx.Model(&models.UserRating{}).
			Where("from_user_id = ? AND to_user_id = ?", fromUser.ID, toUser.ID)
		if eventID != nil {
			dup = dup.Where("event_id = ?", *eventID)
		} else {
			dup = dup.Where("event_id IS NULL")
		}
		var existing int64
		if err := dup.Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("%w: rating already submitted", ErrConflict)
		}

		if err := tx.Create(&rating).Error; err != nil {
			return err
		}

		changed, level, err := recomputeStats(tx, toUser.ID)
		if err != nil {
			return err
		}
		trustChanged = changed
		newLevel = level
		return nil
	})
	if err != nil {
		return nil, err
	}

	if trustChanged {
		go notifications.SendNotification(toUser.ID, notifications.TypeTrustLevelUpdated, map[string]interface{}{
			"trust_level": newLevel,
		})
	}
	return &rating, nil
}

// recomputeStats rebuilds the reputation row from scratch and re-evaluates
// the trust level against the static ladder. It reports whether the level
// changed. The level may drop if the average does.
func recomputeStats(tx *gorm.DB, userID uuid.UUID) (bool, int, error) {
	var stats models.UserReputationStats
	err := lockForUpdate(tx).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = models.UserReputationStats{ID: uuid.New(), UserID: userID, TrustLevelID: 1}
		if err := tx.Create(&stats).Error; err != nil {
			return false, 0, err
		}
	} else if err != nil {
		return false, 0, err
	}

	type aggregate struct {
		Total    int
		Average  float64
		Positive int
		Negative int
	}
	var agg aggregate
	err = tx.Model(&models.UserRating{}).
		Select(`count(*) as total,
			coalesce(avg(score), 0) as average,
			coalesce(sum(case when score >= 4 then 1 else 0 end), 0) as positive,
			coalesce(sum(case when score < 3 then 1 else 0 end), 0) as negative`).
		Where("to_user_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return false, 0, err
	}

	var hosted int64
	if err := tx.Model(&models.Event{}).Where("host_id = ?", userID).Count(&hosted).Error; err != nil {
		return false, 0, err
	}
	var attended int64
	if err := tx.Table("event_attendees").Where("user_id = ?", userID).Count(&attended).Error; err != nil {
		return false, 0, err
	}

	var levels []models.UserTrustLevel
	if err := tx.Order("level asc").Find(&levels).Error; err != nil {
		return false, 0, err
	}
	newLevel := 1
	for _, l := range levels {
		if agg.Total >= l.RequiredRatings && agg.Average >= l.MinAverageRating {
			newLevel = l.Level
		}
	}

	changed := newLevel != stats.TrustLevelID

	stats.TotalRatings = agg.Total
	stats.AverageRating = agg.Average
	stats.PositiveRatings = agg.Positive
	stats.NegativeRatings = agg.Negative
	stats.EventsHosted = int(hosted)
	stats.EventsAttended = int(attended)
	stats.TrustLevelID = newLevel

	if err := tx.Save(&stats).Error; err != nil {
		return false, 0, err
	}
	return changed, newLevel, nil
}

type ReputationView struct {
	Stats      models.UserReputationStats `json:"stats"`
	TrustLevel models.UserTrustLevel      `json:"trust_level"`
}

func GetUserReputation(username string) (*ReputationView, error) {
	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}

	var stats models.UserReputationStats
	err := database.DB.Preload("TrustLevel").Where("user_id = ?", user.ID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var level models.UserTrustLevel
		if err := database.DB.First(&level, "level = ?", 1).Error; err != nil {
			return nil, err
		}
		return &ReputationView{
			Stats:      models.UserReputationStats{UserID: user.ID, TrustLevelID: 1},
			TrustLevel: level,
		}, nil
	} else if err != nil {
		return nil, err
	}
	return &ReputationView{Stats: stats, TrustLevel: stats.TrustLevel}, nil
}

// GetUserRatings returns ratings received by the user, newest first.
func GetUserRatings(username string, page, pageSize int) ([]models.UserRating, error) {
	return ratingsFor(username, "to_user_id", page, pageSize)
}

// GetRatingsGiven returns ratings the user has submitted, newest first.
func GetRatingsGiven(username string, page, pageSize int) ([]models.UserRating, error) {
	return ratingsFor(username, "from_user_id", page, pageSize)
}

func ratingsFor(username, column string, page, pageSize int) ([]models.UserRating, error) {
	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var ratings []models.UserRating
	err := database.DB.Where(column+" = ?", user.ID).
		Order("created_at desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&ratings).Error
	return ratings, err
}
