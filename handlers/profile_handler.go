package handlers

import (
	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/utils"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	FullName          *string            `json:"full_name"`
	University        *string            `json:"university"`
	Degree            *string            `json:"degree"`
	Year              *string            `json:"year"`
	Bio               *string            `json:"bio"`
	Interests         *[]string          `json:"interests"`
	Skills            *map[string]string `json:"skills"`
	AutoInviteEnabled *bool              `json:"auto_invite_enabled"`
	PreferredRadiusKM *float64           `json:"preferred_radius_km"`
	HomeLatitude      *float64           `json:"home_latitude"`
	HomeLongitude     *float64           `json:"home_longitude"`
	ProfileImageURL   *string            `json:"profile_image_url"`
}

func GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	var user models.User
	if err := database.DB.Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "NotFound", "message": "User not found"})
	}
	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var profile models.UserProfile
	if err := database.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "NotFound", "message": "Profile not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Cannot parse JSON"})
	}

	if req.FullName != nil {
		profile.FullName = utils.StripHTML(*req.FullName)
	}
	if req.University != nil {
		profile.University = utils.StripHTML(*req.University)
	}
	if req.Degree != nil {
		profile.Degree = utils.StripHTML(*req.Degree)
	}
	if req.Year != nil {
		profile.Year = *req.Year
	}
	if req.Bio != nil {
		profile.Bio = utils.StripHTML(*req.Bio)
	}
	if req.Interests != nil {
		profile.Interests = utils.NormalizeTags(*req.Interests)
	}
	if req.Skills != nil {
		skills := make(map[string]string, len(*req.Skills))
		for tag, level := range *req.Skills {
			switch level {
			case models.SkillBeginner, models.SkillIntermediate, models.SkillAdvanced, models.SkillExpert:
				skills[utils.NormalizeTag(tag)] = level
			default:
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Invalid skill level: " + level})
			}
		}
		profile.Skills = skills
	}
	if req.AutoInviteEnabled != nil {
		profile.AutoInviteEnabled = *req.AutoInviteEnabled
	}
	if req.PreferredRadiusKM != nil {
		profile.PreferredRadiusKM = *req.PreferredRadiusKM
	}
	if req.HomeLatitude != nil && req.HomeLongitude != nil {
		if *req.HomeLatitude < -90 || *req.HomeLatitude > 90 || *req.HomeLongitude < -180 || *req.HomeLongitude > 180 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Coordinates out of range"})
		}
		profile.HomeLatitude = req.HomeLatitude
		profile.HomeLongitude = req.HomeLongitude
	}
	if req.ProfileImageURL != nil {
		profile.ProfileImageURL = req.ProfileImageURL
	}

	if err := database.DB.Save(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal", "message": "Failed to update profile"})
	}
	return c.JSON(profile)
}

// SearchUsers matches usernames and full names for the invite flow.
func SearchUsers(c *fiber.Ctx) error {
	query := c.Params("query")
	if len(query) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation", "message": "Query must be at least 2 characters"})
	}

	var users []models.User
	pattern := "%" + query + "%"
	err := database.DB.Preload("Profile").
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id").
		Where("users.is_active = ?", true).
		Where("users.username LIKE ? OR user_profiles.full_name LIKE ?", pattern, pattern).
		Limit(20).
		Find(&users).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal", "message": "Search failed"})
	}
	return c.JSON(users)
}

// RequestCertification flags the caller's profile for an admin to review.
func RequestCertification(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized", "message": "Invalid token"})
	}

	var profile models.UserProfile
	if err := database.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "NotFound", "message": "Profile not found"})
	}
	if profile.IsCertified {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Conflict", "message": "User is already certified"})
	}

	if !profile.CertificationRequested {
		profile.CertificationRequested = true
		if err := database.DB.Save(&profile).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal", "message": "Failed to request certification"})
		}
	}
	return c.JSON(fiber.Map{"message": "Certification requested"})
}

// CertifyUser grants the public-event hosting permission. Admin only.
func CertifyUser(c *fiber.Ctx) error {
	username := c.Params("username")

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "NotFound", "message": "User not found"})
	}

	if err := database.DB.Model(&models.UserProfile{}).
		Where("user_id = ?", user.ID).
		Updates(map[string]interface{}{
			"is_certified":            true,
			"certification_requested": false,
		}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal", "message": "Failed to certify user"})
	}
	return c.JSON(fiber.Map{"message": "User certified", "username": username})
}
