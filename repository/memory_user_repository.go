package repository

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/xuexuelaila/qa-community/models"
)

// memoryUserRepository is the fallback user store used when the database is
// unreachable at startup.
type memoryUserRepository struct {
	users map[string]*models.User
	mu    sync.RWMutex
}

// NewMemoryUserRepository creates an in-memory UserRepository holding the
// given seed users.
func NewMemoryUserRepository(seed []*models.User) UserRepository {
	users := make(map[string]*models.User, len(seed))
	for _, user := range seed {
		copied := *user
		users[user.ID] = &copied
	}
	log.Printf("INFO: [MemoryUserRepository] Initialized with %d seed users.", len(users))
	return &memoryUserRepository{users: users}
}

func (r *memoryUserRepository) Create(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepository) SearchByNickname(keyword string, limit int) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lowered := strings.ToLower(keyword)
	var out []*models.User
	for _, user := range r.users {
		if strings.Contains(strings.ToLower(user.Nickname), lowered) {
			copied := *user
			out = append(out, &copied)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *memoryUserRepository) IncrementStat(userID string, field StatField) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		log.Printf("WARN: [MemoryUserRepository] IncrementStat: user ID %s not found, counter not updated.", userID)
		return nil
	}
	switch field {
	case StatQuestions:
		user.Stats.QuestionsCount++
	case StatAnswers:
		user.Stats.AnswersCount++
	case StatAdopted:
		user.Stats.AdoptedCount++
	default:
		return fmt.Errorf("unknown stat field: %s", field)
	}
	return nil
}
