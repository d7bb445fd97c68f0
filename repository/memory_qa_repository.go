package repository

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xuexuelaila/qa-community/models"
)

// memoryQARepository is the fallback knowledge store used when the database is
// unreachable at startup. It serves a fixed seed dataset and accepts the same
// mutations as the real store, all of it gone on restart.
type memoryQARepository struct {
	qas map[string]*models.QAKnowledge
	mu  sync.RWMutex
}

// NewMemoryQARepository creates an in-memory QARepository holding the given
// seed records.
func NewMemoryQARepository(seed []*models.QAKnowledge) QARepository {
	qas := make(map[string]*models.QAKnowledge, len(seed))
	for _, qa := range seed {
		copied := *qa
		qas[qa.ID] = &copied
	}
	log.Printf("INFO: [MemoryQARepository] Initialized with %d seed records.", len(qas))
	return &memoryQARepository{qas: qas}
}

func (r *memoryQARepository) Create(qa *models.QAKnowledge) error {
	if qa == nil {
		return errors.New("qa cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *qa
	r.qas[qa.ID] = &copied
	return nil
}

func (r *memoryQARepository) GetByID(id string) (*models.QAKnowledge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	qa, ok := r.qas[id]
	if !ok {
		return nil, nil
	}
	copied := *qa
	return &copied, nil
}

func (r *memoryQARepository) FindByDateRange(start, end time.Time) ([]*models.QAKnowledge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.QAKnowledge
	for _, qa := range r.qas {
		if !qa.Date.Before(start) && !qa.Date.After(end) {
			copied := *qa
			out = append(out, &copied)
		}
	}
	sortByCreatedAtDesc(out)
	return out, nil
}

func (r *memoryQARepository) Search(keyword string, tags []string, limit int) ([]*models.QAKnowledge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.QAKnowledge
	for _, qa := range r.qas {
		if keyword != "" && !qaMatchesKeyword(qa, keyword) {
			continue
		}
		if len(tags) > 0 && !qaHasAnyTag(qa, tags) {
			continue
		}
		copied := *qa
		out = append(out, &copied)
	}
	sortByCreatedAtDesc(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryQARepository) DistinctDates(start, end time.Time) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, qa := range r.qas {
		if qa.Date.Before(start) || qa.Date.After(end) || seen[qa.Date] {
			continue
		}
		seen[qa.Date] = true
		dates = append(dates, qa.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (r *memoryQARepository) IncrementFeedback(id string, feedbackType string) (*models.QAKnowledge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	qa, ok := r.qas[id]
	if !ok {
		return nil, nil
	}
	if feedbackType == "useful" {
		qa.Feedback.Useful++
	} else {
		qa.Feedback.Useless++
	}
	qa.UpdatedAt = time.Now()
	copied := *qa
	return &copied, nil
}

func (r *memoryQARepository) AppendComment(qaID string, comment models.QAComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	qa, ok := r.qas[qaID]
	if !ok {
		return fmt.Errorf("QA %s not found", qaID)
	}
	qa.Comments = append(qa.Comments, comment)
	return nil
}

func (r *memoryQARepository) AppendReply(qaID, commentID string, reply models.QAReply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	qa, ok := r.qas[qaID]
	if !ok {
		return fmt.Errorf("QA %s not found", qaID)
	}
	for i := range qa.Comments {
		if qa.Comments[i].ID == commentID {
			qa.Comments[i].Replies = append(qa.Comments[i].Replies, reply)
			return nil
		}
	}
	return fmt.Errorf("comment %s not found on QA %s", commentID, qaID)
}

func (r *memoryQARepository) ToggleCommentLike(qaID, commentID, userID string) (*models.LikeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	qa, ok := r.qas[qaID]
	if !ok {
		return nil, fmt.Errorf("QA %s not found", qaID)
	}
	for i := range qa.Comments {
		if qa.Comments[i].ID == commentID {
			liked := toggleMembership(&qa.Comments[i].LikedUserIDs, userID)
			qa.Comments[i].Likes = len(qa.Comments[i].LikedUserIDs)
			return &models.LikeResult{Likes: qa.Comments[i].Likes, Liked: liked}, nil
		}
	}
	return nil, fmt.Errorf("comment %s not found on QA %s", commentID, qaID)
}

func (r *memoryQARepository) ToggleReplyLike(qaID, commentID, replyID, userID string) (*models.LikeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	qa, ok := r.qas[qaID]
	if !ok {
		return nil, fmt.Errorf("QA %s not found", qaID)
	}
	for i := range qa.Comments {
		if qa.Comments[i].ID != commentID {
			continue
		}
		for j := range qa.Comments[i].Replies {
			if qa.Comments[i].Replies[j].ID == replyID {
				reply := &qa.Comments[i].Replies[j]
				liked := toggleMembership(&reply.LikedUserIDs, userID)
				reply.Likes = len(reply.LikedUserIDs)
				return &models.LikeResult{Likes: reply.Likes, Liked: liked}, nil
			}
		}
		return nil, fmt.Errorf("reply %s not found on comment %s", replyID, commentID)
	}
	return nil, fmt.Errorf("comment %s not found on QA %s", commentID, qaID)
}

func qaMatchesKeyword(qa *models.QAKnowledge, keyword string) bool {
	if strings.Contains(qa.Question, keyword) || strings.Contains(qa.Answer, keyword) {
		return true
	}
	for _, tag := range qa.Tags {
		if strings.Contains(tag, keyword) {
			return true
		}
	}
	return false
}

func qaHasAnyTag(qa *models.QAKnowledge, tags []string) bool {
	for _, want := range tags {
		for _, tag := range qa.Tags {
			if tag == want {
				return true
			}
		}
	}
	return false
}

func sortByCreatedAtDesc(qas []*models.QAKnowledge) {
	sort.SliceStable(qas, func(i, j int) bool {
		return qas[i].CreatedAt.After(qas[j].CreatedAt)
	})
}
