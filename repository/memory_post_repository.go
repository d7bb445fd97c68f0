package repository

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/xuexuelaila/qa-community/models"
)

// memoryPostRepository is the fallback forum store used when the database is
// unreachable at startup.
type memoryPostRepository struct {
	posts map[string]*models.Post
	mu    sync.RWMutex
}

// NewMemoryPostRepository creates an in-memory PostRepository holding the
// given seed posts.
func NewMemoryPostRepository(seed []*models.Post) PostRepository {
	posts := make(map[string]*models.Post, len(seed))
	for _, post := range seed {
		copied := *post
		posts[post.ID] = &copied
	}
	log.Printf("INFO: [MemoryPostRepository] Initialized with %d seed posts.", len(posts))
	return &memoryPostRepository{posts: posts}
}

func (r *memoryPostRepository) Create(post *models.Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *memoryPostRepository) List(status string, page, limit int) ([]*models.Post, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Post
	for _, post := range r.posts {
		if status != "" && status != "all" && string(post.Status) != status {
			continue
		}
		copied := *post
		matched = append(matched, &copied)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []*models.Post{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memoryPostRepository) GetByID(id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	copied := *post
	return &copied, nil
}

func (r *memoryPostRepository) GetByIDIncrementView(id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	post.ViewCount++
	copied := *post
	return &copied, nil
}

func (r *memoryPostRepository) AppendReply(postID string, reply models.Reply) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[postID]
	if !ok {
		return nil, nil
	}
	post.Replies = append(post.Replies, reply)
	copied := *post
	return &copied, nil
}

func (r *memoryPostRepository) AdoptReply(postID, replyID string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[postID]
	if !ok {
		return nil, nil
	}
	reply := post.FindReply(replyID)
	if reply == nil {
		return nil, fmt.Errorf("reply %s not found on post %s", replyID, postID)
	}
	reply.IsAdopted = true
	post.Status = models.PostStatusResolved
	copied := *post
	return &copied, nil
}

func (r *memoryPostRepository) LikeReply(postID, replyID string) (*models.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[postID]
	if !ok {
		return nil, nil
	}
	reply := post.FindReply(replyID)
	if reply == nil {
		return nil, fmt.Errorf("reply %s not found on post %s", replyID, postID)
	}
	reply.Likes++
	copied := *reply
	return &copied, nil
}
