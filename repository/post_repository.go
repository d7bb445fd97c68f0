package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/xuexuelaila/qa-community/models"
)

// PostRepository defines the interface for interacting with help-forum posts.
// Posts and replies are never deleted.
type PostRepository interface {
	Create(post *models.Post) error
	// List returns one page of posts, newest first, optionally filtered by
	// status ("" or "all" means no filter), plus the total matching count.
	List(status string, page, limit int) ([]*models.Post, int64, error)
	// GetByIDIncrementView bumps the view counter and returns the post.
	// Returns (nil, nil) when not found.
	GetByIDIncrementView(id string) (*models.Post, error)
	GetByID(id string) (*models.Post, error)
	AppendReply(postID string, reply models.Reply) (*models.Post, error)
	// AdoptReply marks one reply adopted and flips the post to resolved.
	AdoptReply(postID, replyID string) (*models.Post, error)
	// LikeReply increments a reply's like counter (plain counter, not a toggle).
	LikeReply(postID, replyID string) (*models.Reply, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post.
func (r *postRepository) Create(post *models.Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}
	if err := r.db.Create(post).Error; err != nil {
		log.Printf("ERROR: [PostRepository] Failed to create post for authorID %s: %v", post.AuthorID, err)
		return fmt.Errorf("failed to create post: %w", err)
	}
	log.Printf("INFO: [PostRepository] Successfully created post ID %s for authorID %s.", post.ID, post.AuthorID)
	return nil
}

// List returns one page of posts, newest first.
func (r *postRepository) List(status string, page, limit int) ([]*models.Post, int64, error) {
	query := r.db.Model(&models.Post{})
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("ERROR: [PostRepository] Failed to count posts: %v", err)
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []*models.Post
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		log.Printf("ERROR: [PostRepository] Failed to list posts: %v", err)
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	log.Printf("INFO: [PostRepository] Listed %d posts (status='%s', page=%d, total=%d).", len(posts), status, page, total)
	return posts, total, nil
}

// GetByID retrieves a post without touching the view counter.
// Returns (nil, nil) when not found.
func (r *postRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	err := r.db.First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [PostRepository] Failed to retrieve post ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to retrieve post ID %s: %w", id, err)
	}
	return &post, nil
}

// GetByIDIncrementView bumps the view counter and returns the updated post.
func (r *postRepository) GetByIDIncrementView(id string) (*models.Post, error) {
	post, err := r.GetByID(id)
	if err != nil || post == nil {
		return nil, err
	}

	post.ViewCount++
	if err := r.db.Save(post).Error; err != nil {
		log.Printf("ERROR: [PostRepository] Failed to increment view count for post ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to increment view count for post ID %s: %w", id, err)
	}
	return post, nil
}

// AppendReply pushes a reply onto the post's reply array.
func (r *postRepository) AppendReply(postID string, reply models.Reply) (*models.Post, error) {
	post, err := r.GetByID(postID)
	if err != nil || post == nil {
		return nil, err
	}

	post.Replies = append(post.Replies, reply)
	if err := r.db.Save(post).Error; err != nil {
		log.Printf("ERROR: [PostRepository] Failed to append reply to post ID %s: %v", postID, err)
		return nil, fmt.Errorf("failed to append reply to post ID %s: %w", postID, err)
	}
	log.Printf("INFO: [PostRepository] Appended reply %s to post ID %s.", reply.ID, postID)
	return post, nil
}

// AdoptReply marks the reply adopted and resolves the post.
func (r *postRepository) AdoptReply(postID, replyID string) (*models.Post, error) {
	post, err := r.GetByID(postID)
	if err != nil || post == nil {
		return nil, err
	}

	reply := post.FindReply(replyID)
	if reply == nil {
		return nil, fmt.Errorf("reply %s not found on post %s", replyID, postID)
	}

	reply.IsAdopted = true
	post.Status = models.PostStatusResolved
	if err := r.db.Save(post).Error; err != nil {
		log.Printf("ERROR: [PostRepository] Failed to adopt reply %s on post ID %s: %v", replyID, postID, err)
		return nil, fmt.Errorf("failed to adopt reply on post ID %s: %w", postID, err)
	}
	log.Printf("INFO: [PostRepository] Adopted reply %s on post ID %s, status is now resolved.", replyID, postID)
	return post, nil
}

// LikeReply increments a reply's like counter.
func (r *postRepository) LikeReply(postID, replyID string) (*models.Reply, error) {
	post, err := r.GetByID(postID)
	if err != nil || post == nil {
		return nil, err
	}

	reply := post.FindReply(replyID)
	if reply == nil {
		return nil, fmt.Errorf("reply %s not found on post %s", replyID, postID)
	}

	reply.Likes++
	if err := r.db.Save(post).Error; err != nil {
		log.Printf("ERROR: [PostRepository] Failed to like reply %s on post ID %s: %v", replyID, postID, err)
		return nil, fmt.Errorf("failed to like reply on post ID %s: %w", postID, err)
	}
	return reply, nil
}
