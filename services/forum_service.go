package services

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/xuexuelaila/qa-community/models"
	"github.com/xuexuelaila/qa-community/repository"
	"github.com/xuexuelaila/qa-community/utils"
)

// ErrReplyAlreadyAdopted is returned when a post already has an adopted reply.
// A post adopts at most one answer; adoption is not reversible.
var ErrReplyAlreadyAdopted = errors.New("post already has an adopted reply")

// ForumService defines the interface for the help forum.
type ForumService interface {
	CreatePost(authorID, title string, content models.PostContent, attachments []models.Attachment, mentions []string) (*models.Post, error)
	ListPosts(status string, page, limit int) (*models.PostList, error)
	// GetPost returns the post and bumps its view counter.
	// Returns (nil, nil) when not found.
	GetPost(id string) (*models.Post, error)
	AddReply(postID, authorID, content string) (*models.Post, error)
	AdoptReply(postID, replyID string) (*models.Post, error)
	LikeReply(postID, replyID string) (*models.Reply, error)
}

type forumService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// NewForumService creates a new instance of ForumService.
func NewForumService(postRepo repository.PostRepository, userRepo repository.UserRepository) ForumService {
	return &forumService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// CreatePost stores a new pending post and bumps the author's question
// counter. The counter update is a separate operation; the post is kept even
// if the counter update fails.
func (s *forumService) CreatePost(authorID, title string, content models.PostContent, attachments []models.Attachment, mentions []string) (*models.Post, error) {
	if authorID == "" || title == "" || content.Problem == "" {
		return nil, errors.New("authorId, title and content are required")
	}

	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &models.Post{
		ID:          utils.NewDocumentID(),
		AuthorID:    authorID,
		Author:      author.Snapshot(),
		Title:       title,
		Content:     content,
		Attachments: normalizeAttachments(attachments),
		Status:      models.PostStatusPending,
		Mentions:    normalizeMentions(mentions),
		Replies:     []models.Reply{},
		ViewCount:   0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	if err := s.userRepo.IncrementStat(authorID, repository.StatQuestions); err != nil {
		log.Printf("WARN: [ForumService] Post %s created but questionsCount update failed for user %s: %v", post.ID, authorID, err)
	}
	return post, nil
}

// ListPosts returns one page of posts, newest first.
func (s *forumService) ListPosts(status string, page, limit int) (*models.PostList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	posts, total, err := s.postRepo.List(status, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.PostList{
		Posts: posts,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// GetPost returns a post by id, counting the read as one view.
func (s *forumService) GetPost(id string) (*models.Post, error) {
	return s.postRepo.GetByIDIncrementView(id)
}

// AddReply appends a reply to a post and bumps the replier's answer counter.
func (s *forumService) AddReply(postID, authorID, content string) (*models.Post, error) {
	if authorID == "" || content == "" {
		return nil, errors.New("authorId and content are required")
	}

	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, err
	}

	reply := models.Reply{
		ID:         utils.NewReplyID(),
		AuthorID:   authorID,
		Author:     author.Snapshot(),
		Content:    content,
		IsAdopted:  false,
		Likes:      0,
		SubReplies: []models.SubReply{},
		CreatedAt:  time.Now(),
	}

	post, err := s.postRepo.AppendReply(postID, reply)
	if err != nil || post == nil {
		return post, err
	}

	if err := s.userRepo.IncrementStat(authorID, repository.StatAnswers); err != nil {
		log.Printf("WARN: [ForumService] Reply added to post %s but answersCount update failed for user %s: %v", postID, authorID, err)
	}
	return post, nil
}

// AdoptReply marks one reply as the accepted answer. At most one reply per
// post may be adopted; a second adoption attempt fails with
// ErrReplyAlreadyAdopted. On success the post flips to resolved and the
// reply author's adopted counter is bumped.
func (s *forumService) AdoptReply(postID, replyID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil || post == nil {
		return nil, err
	}
	if adopted := post.AdoptedReply(); adopted != nil {
		log.Printf("WARN: [ForumService] Adoption rejected on post %s: reply %s is already adopted.", postID, adopted.ID)
		return nil, ErrReplyAlreadyAdopted
	}

	post, err = s.postRepo.AdoptReply(postID, replyID)
	if err != nil || post == nil {
		return post, err
	}

	reply := post.FindReply(replyID)
	if reply != nil {
		if err := s.userRepo.IncrementStat(reply.AuthorID, repository.StatAdopted); err != nil {
			log.Printf("WARN: [ForumService] Reply %s adopted but adoptedCount update failed for user %s: %v", replyID, reply.AuthorID, err)
		}
	}
	return post, nil
}

// LikeReply increments a reply's like counter and returns the reply.
func (s *forumService) LikeReply(postID, replyID string) (*models.Reply, error) {
	if postID == "" {
		return nil, errors.New("postId is required")
	}
	return s.postRepo.LikeReply(postID, replyID)
}

func normalizeAttachments(attachments []models.Attachment) []models.Attachment {
	if attachments == nil {
		return []models.Attachment{}
	}
	return attachments
}

func normalizeMentions(mentions []string) []string {
	if mentions == nil {
		return []string{}
	}
	return mentions
}
