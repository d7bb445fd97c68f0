package repository

import (
	"fmt"
	"log"
	"sync"

	"github.com/xuexuelaila/qa-community/models"
)

// ExtractedCommentStore holds comments attached to parser-produced knowledge
// records, which have no database row (their ids carry the "extracted_" prefix
// and are re-derived from the Markdown file on every read). The store is
// injected at process start and lives until restart; Reset exists so tests can
// start clean.
type ExtractedCommentStore interface {
	List(qaID string) []models.QAComment
	Append(qaID string, comment models.QAComment)
	AppendReply(qaID, commentID string, reply models.QAReply) error
	ToggleCommentLike(qaID, commentID, userID string) (*models.LikeResult, error)
	ToggleReplyLike(qaID, commentID, replyID, userID string) (*models.LikeResult, error)
	Reset()
}

type extractedCommentStore struct {
	comments map[string][]models.QAComment
	mu       sync.RWMutex
}

// NewExtractedCommentStore creates an empty in-memory comment store.
func NewExtractedCommentStore() ExtractedCommentStore {
	return &extractedCommentStore{
		comments: make(map[string][]models.QAComment),
	}
}

// List returns the comments for a record, empty slice when none exist.
func (s *extractedCommentStore) List(qaID string) []models.QAComment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.comments[qaID]
	out := make([]models.QAComment, len(stored))
	copy(out, stored)
	return out
}

// Append adds a comment to a record's list.
func (s *extractedCommentStore) Append(qaID string, comment models.QAComment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments[qaID] = append(s.comments[qaID], comment)
	log.Printf("INFO: [ExtractedCommentStore] Appended comment %s to %s (%d total).", comment.ID, qaID, len(s.comments[qaID]))
}

// AppendReply adds a reply to one comment of a record.
func (s *extractedCommentStore) AppendReply(qaID, commentID string, reply models.QAReply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.comments[qaID]
	for i := range list {
		if list[i].ID == commentID {
			list[i].Replies = append(list[i].Replies, reply)
			s.comments[qaID] = list
			return nil
		}
	}
	return fmt.Errorf("comment %s not found on QA %s", commentID, qaID)
}

// ToggleCommentLike toggles userID's membership in a comment's liked list.
func (s *extractedCommentStore) ToggleCommentLike(qaID, commentID, userID string) (*models.LikeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.comments[qaID]
	for i := range list {
		if list[i].ID == commentID {
			liked := toggleMembership(&list[i].LikedUserIDs, userID)
			list[i].Likes = len(list[i].LikedUserIDs)
			s.comments[qaID] = list
			return &models.LikeResult{Likes: list[i].Likes, Liked: liked}, nil
		}
	}
	return nil, fmt.Errorf("comment %s not found on QA %s", commentID, qaID)
}

// ToggleReplyLike toggles userID's membership in a reply's liked list.
func (s *extractedCommentStore) ToggleReplyLike(qaID, commentID, replyID, userID string) (*models.LikeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.comments[qaID]
	for i := range list {
		if list[i].ID != commentID {
			continue
		}
		for j := range list[i].Replies {
			if list[i].Replies[j].ID == replyID {
				reply := &list[i].Replies[j]
				liked := toggleMembership(&reply.LikedUserIDs, userID)
				reply.Likes = len(reply.LikedUserIDs)
				s.comments[qaID] = list
				return &models.LikeResult{Likes: reply.Likes, Liked: liked}, nil
			}
		}
		return nil, fmt.Errorf("reply %s not found on comment %s", replyID, commentID)
	}
	return nil, fmt.Errorf("comment %s not found on QA %s", commentID, qaID)
}

// Reset drops everything.
func (s *extractedCommentStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments = make(map[string][]models.QAComment)
	log.Println("INFO: [ExtractedCommentStore] Store reset.")
}
