package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/TomPython98/pinit-backend/database"
	"github.com/TomPython98/pinit-backend/models"
	"github.com/TomPython98/pinit-backend/notifications"
	"github.com/TomPython98/pinit-backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchWeights holds every hand-tuned score constant in one place.
type MatchWeights struct {
	InterestHit      float64 // per shared tag
	InterestHitCap   float64
	InterestRatioMax float64
	ContentMax       float64
	LocationMax      float64
	FriendOfHost     float64
	FriendOfFriend   float64
	SameUniAndDegree float64
	SameUniversity   float64
	SameDegree       float64
	SkillMax         float64
	BioMax           float64
	TrustLevelStep   float64
	RatingCountStep  float64
	RatingCountCap   float64
	EventTypeBonus   float64
	TimeFreeBonus    float64
	ActivityPerEvent float64
	ActivityMax      float64
}

var DefaultMatchWeights = MatchWeights{
	InterestHit:      25,
	InterestHitCap:   100,
	InterestRatioMax: 30,
	ContentMax:       20,
	LocationMax:      15,
	FriendOfHost:     20,
	FriendOfFriend:   10,
	SameUniAndDegree: 25,
	SameUniversity:   15,
	SameDegree:       10,
	SkillMax:         20,
	BioMax:           15,
	TrustLevelStep:   3,
	RatingCountStep:  0.5,
	RatingCountCap:   12,
	EventTypeBonus:   10,
	TimeFreeBonus:    10,
	ActivityPerEvent: 2,
	ActivityMax:      10,
}

var skillLevelWeights = map[string]float64{
	models.SkillBeginner:     0.25,
	models.SkillIntermediate: 0.5,
	models.SkillAdvanced:     0.75,
	models.SkillExpert:       1.0,
}

type MatchParams struct {
	MaxInvites     int     `json:"max_invites"`
	MinScore       float64 `json:"min_score"`
	RadiusKM       float64 `json:"radius_km"`
	PotentialsOnly bool    `json:"potentials_only"`
}

func DefaultMatchParams() MatchParams {
	return MatchParams{MaxInvites: 10, MinScore: 30, RadiusKM: 10}
}

// MatchCandidate carries everything the scorer needs about one user,
// precomputed so scoring itself touches no storage.
type MatchCandidate struct {
	User             models.User
	Profile          models.UserProfile
	Stats            *models.UserReputationStats
	IsFriendOfHost   bool
	IsFriendOfFriend bool
	SameTypeAttended int
	AttendedLast30d  int
	HasTimeConflict  bool
	DistanceKM       *float64
}

type MatchScore struct {
	UserID       uuid.UUID          `json:"user_id"`
	Username     string             `json:"username"`
	Score        float64            `json:"score"`
	InterestHits int                `json:"interest_hits"`
	TrustLevel   int                `json:"trust_level"`
	Breakdown    map[string]float64 `json:"breakdown"`
}

// ScoreCandidate applies the twelve weighted factors. Each factor is clamped
// non-negative by construction.
func ScoreCandidate(event models.Event, hostProfile *models.UserProfile, cand MatchCandidate,
	weights MatchWeights, radiusKM float64, skipContent bool) MatchScore {

	breakdown := make(map[string]float64)
	interests := make(map[string]bool)
	for _, tag := range utils.NormalizeTags(cand.Profile.Interests) {
		interests[tag] = true
	}

	hits := 0
	for _, tag := range event.InterestTags {
		if interests[tag] {
			hits++
		}
	}
	interestScore := weights.InterestHit * float64(hits)
	if interestScore > weights.InterestHitCap {
		interestScore = weights.InterestHitCap
	}
	breakdown["interest_overlap"] = interestScore

	if len(event.InterestTags) > 0 {
		breakdown["interest_ratio"] = weights.InterestRatioMax * float64(hits) / float64(len(event.InterestTags))
	}

	if !skipContent {
		contentTokens := utils.TokenSet(event.Title + " " + event.Description)
		userTokens := make(map[string]bool)
		for t := range interests {
			userTokens[t] = true
		}
		for skill := range cand.Profile.Skills {
			for _, t := range utils.Tokenize(skill) {
				userTokens[t] = true
			}
		}
		breakdown["content_similarity"] = weights.ContentMax * utils.Jaccard(contentTokens, userTokens)
	}

	if cand.DistanceKM != nil && radiusKM > 0 {
		proximity := 1 - *cand.DistanceKM/radiusKM
		if proximity < 0 {
			proximity = 0
		}
		breakdown["location_proximity"] = weights.LocationMax * proximity
	}

	if cand.IsFriendOfHost {
		breakdown["social_graph"] = weights.FriendOfHost
	} else if cand.IsFriendOfFriend {
		breakdown["social_graph"] = weights.FriendOfFriend
	}

	if hostProfile != nil {
		sameUni := hostProfile.University != "" && hostProfile.University == cand.Profile.University
		sameDegree := hostProfile.Degree != "" && hostProfile.Degree == cand.Profile.Degree
		switch {
		case sameUni && sameDegree:
			breakdown["academic_similarity"] = weights.SameUniAndDegree
		case sameUni:
			breakdown["academic_similarity"] = weights.SameUniversity
		case sameDegree:
			breakdown["academic_similarity"] = weights.SameDegree
		}
	}

	if len(event.InterestTags) > 0 && len(cand.Profile.Skills) > 0 {
		eventTags := make(map[string]bool)
		for _, tag := range event.InterestTags {
			eventTags[tag] = true
		}
		var skillWeight float64
		for skill, level := range cand.Profile.Skills {
			if eventTags[utils.NormalizeTag(skill)] {
				skillWeight += skillLevelWeights[level]
			}
		}
		breakdown["skill_relevance"] = weights.SkillMax * skillWeight / float64(len(event.InterestTags))
	}

	if cand.Profile.Bio != "" {
		bioTokens := utils.TokenSet(cand.Profile.Bio)
		eventTokens := utils.TokenSet(event.Description)
		for _, tag := range event.InterestTags {
			eventTokens[tag] = true
		}
		breakdown["bio_similarity"] = weights.BioMax * utils.Jaccard(bioTokens, eventTokens)
	}

	trustLevel := 1
	if cand.Stats != nil {
		trustLevel = cand.Stats.TrustLevelID
		countScore := float64(cand.Stats.TotalRatings) * weights.RatingCountStep
		if countScore > weights.RatingCountCap {
			countScore = weights.RatingCountCap
		}
		breakdown["reputation"] = weights.TrustLevelStep*float64(trustLevel) +
			countScore*(cand.Stats.AverageRating/5)
	} else {
		breakdown["reputation"] = weights.TrustLevelStep * float64(trustLevel)
	}

	if cand.SameTypeAttended >= 2 {
		breakdown["event_type_preference"] = weights.EventTypeBonus
	}

	if !cand.HasTimeConflict {
		breakdown["time_compatibility"] = weights.TimeFreeBonus
	}

	activityScore := float64(cand.AttendedLast30d) * weights.ActivityPerEvent
	if activityScore > weights.ActivityMax {
		activityScore = weights.ActivityMax
	}
	breakdown["activity_level"] = activityScore

	var total float64
	for _, v := range breakdown {
		total += v
	}

	return MatchScore{
		UserID:       cand.User.ID,
		Username:     cand.User.Username,
		Score:        total,
		InterestHits: hits,
		TrustLevel:   trustLevel,
		Breakdown:    breakdown,
	}
}

// RankCandidates scores and orders candidates deterministically:
// score, then interest hits, then trust level, then username.
func RankCandidates(event models.Event, hostProfile *models.UserProfile, candidates []MatchCandidate,
	weights MatchWeights, params MatchParams) []MatchScore {

	// Past a few thousand candidates the token-set factor dominates the
	// scoring cost, so it is shed first.
	skipContent := len(candidates) > 10000

	scores := make([]MatchScore, 0, len(candidates))
	for _, cand := range candidates {
		score := ScoreCandidate(event, hostProfile, cand, weights, params.RadiusKM, skipContent)
		if score.Score >= params.MinScore {
			scores = append(scores, score)
		}
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		if scores[i].InterestHits != scores[j].InterestHits {
			return scores[i].InterestHits > scores[j].InterestHits
		}
		if scores[i].TrustLevel != scores[j].TrustLevel {
			return scores[i].TrustLevel > scores[j].TrustLevel
		}
		return scores[i].Username < scores[j].Username
	})
	return scores
}

// RunAutoMatch scores every eligible user against the event. Unless
// PotentialsOnly is set, the top MaxInvites matches become auto-matched
// invitations; users already invited are skipped, so repeat runs are
// idempotent.
func RunAutoMatch(eventID uuid.UUID, params MatchParams) ([]MatchScore, error) {
	if params.MaxInvites <= 0 {
		params.MaxInvites = 10
	}

	var event models.Event
	if err := database.DB.First(&event, "id = ?", eventID).Error; err != nil {
		return nil, fmt.Errorf("%w: event", ErrNotFound)
	}

	var hostProfile models.UserProfile
	hostProfilePtr := &hostProfile
	if err := database.DB.Where("user_id = ?", event.HostID).First(&hostProfile).Error; err != nil {
		hostProfilePtr = nil
	}

	candidates, err := loadCandidates(database.DB, event, hostProfilePtr, params)
	if err != nil {
		return nil, err
	}

	ranked := RankCandidates(event, hostProfilePtr, candidates, DefaultMatchWeights, params)
	if params.PotentialsOnly {
		return ranked, nil
	}

	if len(ranked) > params.MaxInvites {
		ranked = ranked[:params.MaxInvites]
	}

	var invited []MatchScore
	for _, match := range ranked {
		created := false
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var existing int64
			tx.Model(&models.EventInvitation{}).
				Where("event_id = ? AND user_id = ?", event.ID, match.UserID).
				Count(&existing)
			if existing > 0 {
				return nil
			}
			invitation := models.EventInvitation{
				ID:            uuid.New(),
				EventID:       event.ID,
				UserID:        match.UserID,
				IsAutoMatched: true,
			}
			if err := tx.Create(&invitation).Error; err != nil {
				return err
			}
			created = true
			return nil
		})
		if err != nil {
			return nil, err
		}
		if !created {
			continue
		}
		invited = append(invited, match)

		username := match.Username
		userID := match.UserID
		go func() {
			publishEventFrame(username, eventFrame{"event.create", event.ID.String(), event.Title})
			notifications.SendNotification(userID, notifications.TypeEventInvitation, map[string]interface{}{
				"event_id":     event.ID.String(),
				"title":        event.Title,
				"auto_matched": true,
			})
		}()
	}
	return invited, nil
}

// loadCandidates gathers the candidate set and all per-user signals in a
// fixed number of queries regardless of candidate count.
func loadCandidates(db *gorm.DB, event models.Event, hostProfile *models.UserProfile, params MatchParams) ([]MatchCandidate, error) {
	var profiles []models.UserProfile
	err := db.Preload("User").
		Where("auto_invite_enabled = ?", true).
		Where("user_id <> ?", event.HostID).
		Where("user_id NOT IN (SELECT user_id FROM event_attendees WHERE event_id = ?)", event.ID).
		Where("user_id NOT IN (SELECT user_id FROM event_invitations WHERE event_id = ?)", event.ID).
		Where("user_id NOT IN (SELECT user_id FROM declined_invitations WHERE event_id = ?)", event.ID).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	hostFriends := make(map[uuid.UUID]bool)
	var friendIDs []uuid.UUID
	if err := db.Model(&models.Friendship{}).Where("user_id = ?", event.HostID).
		Pluck("friend_id", &friendIDs).Error; err != nil {
		return nil, err
	}
	for _, id := range friendIDs {
		hostFriends[id] = true
	}

	friendsOfFriends := make(map[uuid.UUID]bool)
	if len(friendIDs) > 0 {
		var fofIDs []uuid.UUID
		if err := db.Model(&models.Friendship{}).Where("user_id IN ?", friendIDs).
			Pluck("friend_id", &fofIDs).Error; err != nil {
			return nil, err
		}
		for _, id := range fofIDs {
			friendsOfFriends[id] = true
		}
	}

	statsByUser := make(map[uuid.UUID]*models.UserReputationStats)
	var allStats []models.UserReputationStats
	if err := db.Find(&allStats).Error; err != nil {
		return nil, err
	}
	for i := range allStats {
		statsByUser[allStats[i].UserID] = &allStats[i]
	}

	type userCount struct {
		UserID uuid.UUID
		N      int
	}

	sameTypeCounts := make(map[uuid.UUID]int)
	var typeCounts []userCount
	if err := db.Table("event_attendees").
		Select("event_attendees.user_id as user_id, count(*) as n").
		Joins("JOIN events ON events.id = event_attendees.event_id").
		Where("events.event_type = ? AND events.id <> ?", event.EventType, event.ID).
		Group("event_attendees.user_id").
		Scan(&typeCounts).Error; err != nil {
		return nil, err
	}
	for _, c := range typeCounts {
		sameTypeCounts[c.UserID] = c.N
	}

	recentCounts := make(map[uuid.UUID]int)
	var recent []userCount
	if err := db.Table("event_attendees").
		Select("event_attendees.user_id as user_id, count(*) as n").
		Joins("JOIN events ON events.id = event_attendees.event_id").
		Where("events.end_time > ? AND events.end_time <= ?", time.Now().AddDate(0, 0, -30), time.Now()).
		Group("event_attendees.user_id").
		Scan(&recent).Error; err != nil {
		return nil, err
	}
	for _, c := range recent {
		recentCounts[c.UserID] = c.N
	}

	conflicted := make(map[uuid.UUID]bool)
	var conflictIDs []uuid.UUID
	if err := db.Table("event_attendees").
		Joins("JOIN events ON events.id = event_attendees.event_id").
		Where("events.id <> ? AND events.start_time < ? AND events.end_time > ?",
			event.ID, event.EndTime, event.StartTime).
		Pluck("event_attendees.user_id", &conflictIDs).Error; err != nil {
		return nil, err
	}
	for _, id := range conflictIDs {
		conflicted[id] = true
	}

	candidates := make([]MatchCandidate, 0, len(profiles))
	for _, profile := range profiles {
		cand := MatchCandidate{
			User:             profile.User,
			Profile:          profile,
			Stats:            statsByUser[profile.UserID],
			IsFriendOfHost:   hostFriends[profile.UserID],
			IsFriendOfFriend: friendsOfFriends[profile.UserID],
			SameTypeAttended: sameTypeCounts[profile.UserID],
			AttendedLast30d:  recentCounts[profile.UserID],
			HasTimeConflict:  conflicted[profile.UserID],
		}

		if params.RadiusKM > 0 && profile.HomeLatitude != nil && profile.HomeLongitude != nil {
			dist := utils.HaversineKM(*profile.HomeLatitude, *profile.HomeLongitude, event.Latitude, event.Longitude)
			if dist > params.RadiusKM {
				continue
			}
			cand.DistanceKM = &dist
		}

		candidates = append(candidates, cand)
	}
	return candidates, nil
}
