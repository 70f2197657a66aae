package database

import (
	"fmt"
	"log"

	config "github.com/TomPython98/pinit-backend/configs"
	"github.com/TomPython98/pinit-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:            false,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Event{},
		&models.EventInvitation{},
		&models.DeclinedInvitation{},
		&models.EventJoinRequest{},
		&models.ChatMessage{},
		&models.EventComment{},
		&models.EventLike{},
		&models.EventShare{},
		&models.UserRating{},
		&models.UserTrustLevel{},
		&models.UserReputationStats{},
		&models.EventReviewReminder{},
		&models.Device{},
		&models.RefreshToken{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedTrustLevels inserts the static five-tier trust ladder if missing.
func SeedTrustLevels() {
	levels := []models.UserTrustLevel{
		{Level: 1, Title: "Newcomer", RequiredRatings: 0, MinAverageRating: 0},
		{Level: 2, Title: "Regular", RequiredRatings: 3, MinAverageRating: 3.5},
		{Level: 3, Title: "Trusted", RequiredRatings: 10, MinAverageRating: 4.0},
		{Level: 4, Title: "Veteran", RequiredRatings: 25, MinAverageRating: 4.3},
		{Level: 5, Title: "Ambassador", RequiredRatings: 50, MinAverageRating: 4.5},
	}

	for _, level := range levels {
		var count int64
		if err := DB.Model(&models.UserTrustLevel{}).Where("level = ?", level.Level).Count(&count).Error; err != nil {
			log.Fatalf("🔥 Failed to check trust level %d: %v", level.Level, err)
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&level).Error; err != nil {
			log.Fatalf("🔥 Failed to seed trust level %d: %v", level.Level, err)
		}
	}
	log.Println("✅ Trust levels seeded successfully")
}
