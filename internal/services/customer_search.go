package services

import (
	"log"
	"strings"

	"reviewloop/internal/models"

	"gorm.io/gorm"
)

// CustomerActivity is one customer's footprint across an owner's campaigns
type CustomerActivity struct {
	UserEmail string                  `json:"user_email"`
	Rewards   []models.RewardCode     `json:"rewards"`
	Reminders []models.ReviewReminder `json:"reminders"`
}

// CustomerSearchService answers "what happened with this customer" queries
// from the dashboard
type CustomerSearchService struct {
	db *gorm.DB
}

func NewCustomerSearchService(db *gorm.DB) *CustomerSearchService {
	return &CustomerSearchService{db: db}
}

// SearchCustomers finds customer emails matching the term across the owner's
// wheels. Exact matches rank before prefix matches before substring matches.
func (s *CustomerSearchService) SearchCustomers(ownerUsername, searchTerm string, limit int) ([]CustomerActivity, error) {
	cleanTerm := strings.ToLower(strings.TrimSpace(searchTerm))
	if cleanTerm == "" {
		return []CustomerActivity{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var matches []struct {
		UserEmail string
		MatchRank int
	}
	query := `
		SELECT DISTINCT rc.user_email,
		       CASE
		           WHEN LOWER(rc.user_email) = ? THEN 0
		           WHEN LOWER(rc.user_email) LIKE ? THEN 1
		           ELSE 2
		       END AS match_rank
		FROM reward_code rc
		JOIN wheel_project wp ON wp.id = rc.wheel_id
		WHERE wp.owner_username = ?
		  AND LOWER(rc.user_email) LIKE ?
		ORDER BY match_rank, rc.user_email
		LIMIT ?
	`
	err := s.db.Raw(query, cleanTerm, cleanTerm+"%", ownerUsername, "%"+cleanTerm+"%", limit).
		Scan(&matches).Error
	if err != nil {
		log.Printf("Error: customer search failed for %q: %v", searchTerm, err)
		return nil, err
	}

	results := make([]CustomerActivity, 0, len(matches))
	for _, match := range matches {
		email := match.UserEmail
		activity := CustomerActivity{UserEmail: email}

		if err := s.db.Joins("JOIN wheel_project wp ON wp.id = reward_code.wheel_id").
			Where("wp.owner_username = ? AND reward_code.user_email = ?", ownerUsername, email).
			Order("reward_code.created_at DESC").
			Find(&activity.Rewards).Error; err != nil {
			log.Printf("Error: failed to load rewards for %s: %v", email, err)
			continue
		}

		if err := s.db.Joins("JOIN wheel_project wp ON wp.id = review_reminder.wheel_id").
			Where("wp.owner_username = ? AND review_reminder.user_email = ?", ownerUsername, email).
			Order("review_reminder.created_at DESC").
			Find(&activity.Reminders).Error; err != nil {
			log.Printf("Error: failed to load reminders for %s: %v", email, err)
			continue
		}

		results = append(results, activity)
	}

	return results, nil
}
