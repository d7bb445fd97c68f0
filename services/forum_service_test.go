package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xuexuelaila/qa-community/models"
	"github.com/xuexuelaila/qa-community/repository"
)

// MockPostRepository is a mock type for the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) List(status string, page, limit int) ([]*models.Post, int64, error) {
	args := m.Called(status, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) GetByIDIncrementView(id string) (*models.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(id string) (*models.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) AppendReply(postID string, reply models.Reply) (*models.Post, error) {
	args := m.Called(postID, reply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) AdoptReply(postID, replyID string) (*models.Post, error) {
	args := m.Called(postID, replyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) LikeReply(postID, replyID string) (*models.Reply, error) {
	args := m.Called(postID, replyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reply), args.Error(1)
}

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) SearchByNickname(keyword string, limit int) ([]*models.User, error) {
	args := m.Called(keyword, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) IncrementStat(userID string, field repository.StatField) error {
	args := m.Called(userID, field)
	return args.Error(0)
}

func testUser(id, nickname string) *models.User {
	return &models.User{
		ID:       id,
		Nickname: nickname,
		Role:     models.RoleMember,
	}
}

func TestForumService_CreatePost(t *testing.T) {
	content := models.PostContent{Stage: "开发阶段", Problem: "构建失败", Attempts: "清过缓存"}

	t.Run("Successfully create a post and bump questionsCount", func(t *testing.T) {
		mockPostRepo := new(MockPostRepository)
		mockUserRepo := new(MockUserRepository)
		service := NewForumService(mockPostRepo, mockUserRepo)

		mockUserRepo.On("GetByID", "u1").Return(testUser("u1", "张三"), nil).Once()
		mockPostRepo.On("Create", mock.MatchedBy(func(p *models.Post) bool {
			return p.AuthorID == "u1" &&
				p.Status == models.PostStatusPending &&
				p.Author != nil && p.Author.Nickname == "张三" &&
				len(p.Replies) == 0 && p.ViewCount == 0
		})).Return(nil).Once()
		mockUserRepo.On("IncrementStat", "u1", repository.StatQuestions).Return(nil).Once()

		post, err := service.CreatePost("u1", "构建报错求助", content, nil, nil)
		assert.NoError(t, err)
		assert.NotEmpty(t, post.ID)
		assert.Equal(t, []models.Attachment{}, post.Attachments)
		assert.Equal(t, []string{}, post.Mentions)
		mockPostRepo.AssertExpectations(t)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("Missing required fields are rejected", func(t *testing.T) {
		mockPostRepo := new(MockPostRepository)
		mockUserRepo := new(MockUserRepository)
		service := NewForumService(mockPostRepo, mockUserRepo)

		_, err := service.CreatePost("", "标题", content, nil, nil)
		assert.Error(t, err)
		_, err = service.CreatePost("u1", "", content, nil, nil)
		assert.Error(t, err)
		_, err = service.CreatePost("u1", "标题", models.PostContent{}, nil, nil)
		assert.Error(t, err)
		mockPostRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Counter failure does not fail the post", func(t *testing.T) {
		mockPostRepo := new(MockPostRepository)
		mockUserRepo := new(MockUserRepository)
		service := NewForumService(mockPostRepo, mockUserRepo)

		mockUserRepo.On("GetByID", "u1").Return(testUser("u1", "张三"), nil).Once()
		mockPostRepo.On("Create", mock.AnythingOfType("*models.Post")).Return(nil).Once()
		mockUserRepo.On("IncrementStat", "u1", repository.StatQuestions).Return(errors.New("db down")).Once()

		post, err := service.CreatePost("u1", "标题", content, nil, nil)
		assert.NoError(t, err)
		assert.NotNil(t, post)
	})
}

func TestForumService_ListPosts(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewForumService(mockPostRepo, mockUserRepo)

	posts := []*models.Post{{ID: "p1"}, {ID: "p2"}}
	mockPostRepo.On("List", "pending", 1, 20).Return(posts, int64(41), nil).Once()

	list, err := service.ListPosts("pending", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, list.Posts, 2)
	assert.Equal(t, 1, list.Pagination.Page)
	assert.Equal(t, 20, list.Pagination.Limit)
	assert.Equal(t, int64(41), list.Pagination.Total)
	assert.Equal(t, 3, list.Pagination.TotalPages)
	mockPostRepo.AssertExpectations(t)
}

func TestForumService_AddReply(t *testing.T) {
	t.Run("Reply is appended and answersCount bumped", func(t *testing.T) {
		mockPostRepo := new(MockPostRepository)
		mockUserRepo := new(MockUserRepository)
		service := NewForumService(mockPostRepo, mockUserRepo)

		replier := testUser("u2", "李四")
		updated := &models.Post{ID: "p1", Replies: []models.Reply{{ID: "r1", AuthorID: "u2"}}}
		mockUserRepo.On("GetByID", "u2").Return(replier, nil).Once()
		mockPostRepo.On("AppendReply", "p1", mock.MatchedBy(func(r models.Reply) bool {
			return r.AuthorID == "u2" && r.Content == "加前缀就行" && !r.IsAdopted && r.Likes == 0
		})).Return(updated, nil).Once()
		mockUserRepo.On("IncrementStat", "u2", repository.StatAnswers).Return(nil).Once()

		post, err := service.AddReply("p1", "u2", "加前缀就行")
		assert.NoError(t, err)
		assert.Equal(t, updated, post)
		mockPostRepo.AssertExpectations(t)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("Missing post skips the counter", func(t *testing.T) {
		mockPostRepo := new(MockPostRepository)
		mockUserRepo := new(MockUserRepository)
		service := NewForumService(mockPostRepo, mockUserRepo)

		mockUserRepo.On("GetByID", "u2").Return(testUser("u2", "李四"), nil).Once()
		mockPostRepo.On("AppendReply", "ghost", mock.AnythingOfType("models.Reply")).Return(nil, nil).Once()

		post, err := service.AddReply("ghost", "u2", "回复")
		assert.NoError(t, err)
		assert.Nil(t, post)
		mockUserRepo.AssertNotCalled(t, "IncrementStat", "u2", repository.StatAnswers)
	})

	t.Run("Empty content is rejected", func(t *testing.T) {
		mockPostRepo := new(MockPostRepository)
		mockUserRepo := new(MockUserRepository)
		service := NewForumService(mockPostRepo, mockUserRepo)

		_, err := service.AddReply("p1", "u2", "")
		assert.Error(t, err)
	})
}

func TestForumService_AdoptReply(t *testing.T) {
	t.Run("Successful adoption resolves the post and bumps adoptedCount", func(t *testing.T) {
		mockPostRepo := new(MockPostRepository)
		mockUserRepo := new(MockUserRepository)
		service := NewForumService(mockPostRepo, mockUserRepo)

		pending := &models.Post{
			ID:      "p1",
			Status:  models.PostStatusPending,
			Replies: []models.Reply{{ID: "r1", AuthorID: "u2"}},
		}
		resolved := &models.Post{
			ID:      "p1",
			Status:  models.PostStatusResolved,
			Replies: []models.Reply{{ID: "r1", AuthorID: "u2", IsAdopted: true}},
		}
		mockPostRepo.On("GetByID", "p1").Return(pending, nil).Once()
		mockPostRepo.On("AdoptReply", "p1", "r1").Return(resolved, nil).Once()
		mockUserRepo.On("IncrementStat", "u2", repository.StatAdopted).Return(nil).Once()

		post, err := service.AdoptReply("p1", "r1")
		assert.NoError(t, err)
		assert.Equal(t, models.PostStatusResolved, post.Status)
		assert.True(t, post.Replies[0].IsAdopted)
		mockPostRepo.AssertExpectations(t)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("Second adoption on the same post is rejected", func(t *testing.T) {
		mockPostRepo := new(MockPostRepository)
		mockUserRepo := new(MockUserRepository)
		service := NewForumService(mockPostRepo, mockUserRepo)

		alreadyResolved := &models.Post{
			ID:     "p1",
			Status: models.PostStatusResolved,
			Replies: []models.Reply{
				{ID: "r1", AuthorID: "u2", IsAdopted: true},
				{ID: "r2", AuthorID: "u3"},
			},
		}
		mockPostRepo.On("GetByID", "p1").Return(alreadyResolved, nil).Once()

		_, err := service.AdoptReply("p1", "r2")
		assert.ErrorIs(t, err, ErrReplyAlreadyAdopted)
		mockPostRepo.AssertNotCalled(t, "AdoptReply", "p1", "r2")
		mockUserRepo.AssertNotCalled(t, "IncrementStat", mock.Anything, mock.Anything)
	})

	t.Run("Missing post returns nil without error", func(t *testing.T) {
		mockPostRepo := new(MockPostRepository)
		mockUserRepo := new(MockUserRepository)
		service := NewForumService(mockPostRepo, mockUserRepo)

		mockPostRepo.On("GetByID", "ghost").Return(nil, nil).Once()

		post, err := service.AdoptReply("ghost", "r1")
		assert.NoError(t, err)
		assert.Nil(t, post)
	})
}

func TestForumService_LikeReply(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewForumService(mockPostRepo, mockUserRepo)

	t.Run("Like increments the plain counter", func(t *testing.T) {
		liked := &models.Reply{ID: "r1", Likes: 6, CreatedAt: time.Now()}
		mockPostRepo.On("LikeReply", "p1", "r1").Return(liked, nil).Once()

		reply, err := service.LikeReply("p1", "r1")
		assert.NoError(t, err)
		assert.Equal(t, 6, reply.Likes)
		mockPostRepo.AssertExpectations(t)
	})

	t.Run("Empty postId is rejected", func(t *testing.T) {
		_, err := service.LikeReply("", "r1")
		assert.Error(t, err)
	})
}
