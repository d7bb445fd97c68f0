package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/xuexuelaila/qa-community/models"
)

// StatField names one of the denormalized reputation counters.
type StatField string

const (
	StatQuestions StatField = "questions"
	StatAnswers   StatField = "answers"
	StatAdopted   StatField = "adopted"
)

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	SearchByNickname(keyword string, limit int) ([]*models.User, error)
	// IncrementStat bumps one reputation counter. This runs as its own
	// operation, separate from the post/reply write that triggered it.
	IncrementStat(userID string, field StatField) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user.
func (r *userRepository) Create(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if err := r.db.Create(user).Error; err != nil {
		log.Printf("ERROR: [UserRepository] Failed to create user '%s': %v", user.Nickname, err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	log.Printf("INFO: [UserRepository] Successfully created user ID %s ('%s').", user.ID, user.Nickname)
	return nil
}

// GetByID retrieves a user by id. Returns (nil, nil) when not found.
func (r *userRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [UserRepository] Failed to retrieve user ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to retrieve user ID %s: %w", id, err)
	}
	return &user, nil
}

// SearchByNickname runs a case-insensitive substring match, capped at limit.
func (r *userRepository) SearchByNickname(keyword string, limit int) ([]*models.User, error) {
	var users []*models.User
	like := "%" + keyword + "%"
	err := r.db.Where("nickname LIKE ?", like).Limit(limit).Find(&users).Error
	if err != nil {
		log.Printf("ERROR: [UserRepository] Failed to search users (keyword='%s'): %v", keyword, err)
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	log.Printf("INFO: [UserRepository] User search (keyword='%s') returned %d users.", keyword, len(users))
	return users, nil
}

// IncrementStat bumps one of the user's reputation counters.
func (r *userRepository) IncrementStat(userID string, field StatField) error {
	var column string
	switch field {
	case StatQuestions:
		column = "stats_questions_count"
	case StatAnswers:
		column = "stats_answers_count"
	case StatAdopted:
		column = "stats_adopted_count"
	default:
		return fmt.Errorf("unknown stat field: %s", field)
	}

	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		log.Printf("ERROR: [UserRepository] Failed to increment %s for user ID %s: %v", field, userID, result.Error)
		return fmt.Errorf("failed to increment %s for user ID %s: %w", field, userID, result.Error)
	}
	if result.RowsAffected == 0 {
		log.Printf("WARN: [UserRepository] IncrementStat: user ID %s not found, counter not updated.", userID)
	}
	return nil
}
