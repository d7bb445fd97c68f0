package services

import (
	"errors"
	"time"

	"github.com/xuexuelaila/qa-community/models"
	"github.com/xuexuelaila/qa-community/repository"
	"github.com/xuexuelaila/qa-community/utils"
)

// userSearchLimit caps mention-search results.
const userSearchLimit = 10

// UserService defines the interface for managing community users.
type UserService interface {
	CreateUser(nickname, avatar string, role models.UserRole, wechatID string) (*models.User, error)
	// GetUser returns (nil, nil) when the user does not exist.
	GetUser(id string) (*models.User, error)
	SearchUsers(keyword string) ([]*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// CreateUser stores a new user with zeroed counters. Role defaults to member.
func (s *userService) CreateUser(nickname, avatar string, role models.UserRole, wechatID string) (*models.User, error) {
	if nickname == "" {
		return nil, errors.New("nickname cannot be empty")
	}
	if role == "" {
		role = models.RoleMember
	}

	now := time.Now()
	user := &models.User{
		ID:        utils.NewDocumentID(),
		Nickname:  nickname,
		Avatar:    avatar,
		Role:      role,
		WechatID:  wechatID,
		Stats:     models.UserStats{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by id.
func (s *userService) GetUser(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// SearchUsers finds users by nickname substring, for @-mention pickers.
func (s *userService) SearchUsers(keyword string) ([]*models.User, error) {
	if keyword == "" {
		return nil, errors.New("keyword cannot be empty")
	}
	return s.userRepo.SearchByNickname(keyword, userSearchLimit)
}
