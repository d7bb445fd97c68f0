package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/xuexuelaila/qa-community/models"
)

// QARepository defines the interface for interacting with the knowledge store.
// Mutating operations are one logical read-modify-write on a single document;
// there are no cross-document transactions.
type QARepository interface {
	Create(qa *models.QAKnowledge) error
	GetByID(id string) (*models.QAKnowledge, error)
	FindByDateRange(start, end time.Time) ([]*models.QAKnowledge, error)
	Search(keyword string, tags []string, limit int) ([]*models.QAKnowledge, error)
	DistinctDates(start, end time.Time) ([]time.Time, error)
	IncrementFeedback(id string, feedbackType string) (*models.QAKnowledge, error)
	AppendComment(qaID string, comment models.QAComment) error
	AppendReply(qaID, commentID string, reply models.QAReply) error
	ToggleCommentLike(qaID, commentID, userID string) (*models.LikeResult, error)
	ToggleReplyLike(qaID, commentID, replyID, userID string) (*models.LikeResult, error)
}

type qaRepository struct {
	db *gorm.DB
}

// NewQARepository creates a new instance of QARepository.
func NewQARepository(db *gorm.DB) QARepository {
	return &qaRepository{db: db}
}

// Create inserts a hand-authored knowledge record.
func (r *qaRepository) Create(qa *models.QAKnowledge) error {
	if qa == nil {
		return errors.New("qa cannot be nil")
	}
	if err := r.db.Create(qa).Error; err != nil {
		log.Printf("ERROR: [QARepository] Failed to create QA '%s': %v", qa.Question, err)
		return fmt.Errorf("failed to create QA: %w", err)
	}
	log.Printf("INFO: [QARepository] Successfully created QA ID %s.", qa.ID)
	return nil
}

// GetByID retrieves a record by id. Returns (nil, nil) when not found.
func (r *qaRepository) GetByID(id string) (*models.QAKnowledge, error) {
	var qa models.QAKnowledge
	err := r.db.First(&qa, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [QARepository] Failed to retrieve QA ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to retrieve QA ID %s: %w", id, err)
	}
	return &qa, nil
}

// FindByDateRange retrieves records whose date falls in [start, end],
// newest first.
func (r *qaRepository) FindByDateRange(start, end time.Time) ([]*models.QAKnowledge, error) {
	var qas []*models.QAKnowledge
	err := r.db.
		Where("date >= ? AND date <= ?", start, end).
		Order("created_at desc").
		Find(&qas).Error
	if err != nil {
		log.Printf("ERROR: [QARepository] Failed to retrieve QAs between %s and %s: %v", start, end, err)
		return nil, fmt.Errorf("failed to retrieve QAs by date range: %w", err)
	}
	log.Printf("INFO: [QARepository] Retrieved %d QAs between %s and %s.", len(qas), start.Format("2006-01-02"), end.Format("2006-01-02"))
	return qas, nil
}

// Search runs a keyword match over question/answer/tags with an optional tag
// filter, newest first, capped at limit.
func (r *qaRepository) Search(keyword string, tags []string, limit int) ([]*models.QAKnowledge, error) {
	query := r.db.Model(&models.QAKnowledge{})

	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("question LIKE ? OR answer LIKE ? OR tags LIKE ?", like, like, like)
	}
	if len(tags) > 0 {
		// tags 列是JSON数组文本，按精确token匹配任意一个
		tagQuery := r.db
		for i, tag := range tags {
			cond := fmt.Sprintf(`%%"%s"%%`, tag)
			if i == 0 {
				tagQuery = tagQuery.Where("tags LIKE ?", cond)
			} else {
				tagQuery = tagQuery.Or("tags LIKE ?", cond)
			}
		}
		query = query.Where(tagQuery)
	}

	var qas []*models.QAKnowledge
	err := query.Order("created_at desc").Limit(limit).Find(&qas).Error
	if err != nil {
		log.Printf("ERROR: [QARepository] Search failed (keyword='%s'): %v", keyword, err)
		return nil, fmt.Errorf("search failed: %w", err)
	}
	log.Printf("INFO: [QARepository] Search (keyword='%s', tags=%v) returned %d QAs.", keyword, tags, len(qas))
	return qas, nil
}

// DistinctDates returns the distinct content dates in [start, end].
func (r *qaRepository) DistinctDates(start, end time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.Model(&models.QAKnowledge{}).
		Where("date >= ? AND date <= ?", start, end).
		Distinct("date").
		Order("date asc").
		Pluck("date", &dates).Error
	if err != nil {
		log.Printf("ERROR: [QARepository] Failed to retrieve distinct dates: %v", err)
		return nil, fmt.Errorf("failed to retrieve distinct dates: %w", err)
	}
	return dates, nil
}

// IncrementFeedback bumps one of the feedback counters.
// Returns (nil, nil) when the record does not exist.
func (r *qaRepository) IncrementFeedback(id string, feedbackType string) (*models.QAKnowledge, error) {
	qa, err := r.GetByID(id)
	if err != nil || qa == nil {
		return nil, err
	}

	if feedbackType == "useful" {
		qa.Feedback.Useful++
	} else {
		qa.Feedback.Useless++
	}

	if err := r.db.Save(qa).Error; err != nil {
		log.Printf("ERROR: [QARepository] Failed to save feedback for QA ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to save feedback for QA ID %s: %w", id, err)
	}
	log.Printf("INFO: [QARepository] Incremented '%s' feedback for QA ID %s.", feedbackType, id)
	return qa, nil
}

// AppendComment pushes a comment onto the record's comment array.
func (r *qaRepository) AppendComment(qaID string, comment models.QAComment) error {
	qa, err := r.GetByID(qaID)
	if err != nil {
		return err
	}
	if qa == nil {
		return fmt.Errorf("QA %s not found", qaID)
	}

	qa.Comments = append(qa.Comments, comment)
	if err := r.db.Save(qa).Error; err != nil {
		log.Printf("ERROR: [QARepository] Failed to append comment to QA ID %s: %v", qaID, err)
		return fmt.Errorf("failed to append comment to QA ID %s: %w", qaID, err)
	}
	log.Printf("INFO: [QARepository] Appended comment %s to QA ID %s.", comment.ID, qaID)
	return nil
}

// AppendReply pushes a reply onto one comment of the record.
func (r *qaRepository) AppendReply(qaID, commentID string, reply models.QAReply) error {
	qa, err := r.GetByID(qaID)
	if err != nil {
		return err
	}
	if qa == nil {
		return fmt.Errorf("QA %s not found", qaID)
	}

	for i := range qa.Comments {
		if qa.Comments[i].ID == commentID {
			qa.Comments[i].Replies = append(qa.Comments[i].Replies, reply)
			if err := r.db.Save(qa).Error; err != nil {
				log.Printf("ERROR: [QARepository] Failed to append reply to comment %s of QA ID %s: %v", commentID, qaID, err)
				return fmt.Errorf("failed to append reply to QA ID %s: %w", qaID, err)
			}
			log.Printf("INFO: [QARepository] Appended reply %s to comment %s of QA ID %s.", reply.ID, commentID, qaID)
			return nil
		}
	}
	return fmt.Errorf("comment %s not found on QA %s", commentID, qaID)
}

// ToggleCommentLike toggles userID's membership in the comment's liked list and
// derives likes from the list size.
func (r *qaRepository) ToggleCommentLike(qaID, commentID, userID string) (*models.LikeResult, error) {
	qa, err := r.GetByID(qaID)
	if err != nil {
		return nil, err
	}
	if qa == nil {
		return nil, fmt.Errorf("QA %s not found", qaID)
	}

	for i := range qa.Comments {
		if qa.Comments[i].ID == commentID {
			liked := toggleMembership(&qa.Comments[i].LikedUserIDs, userID)
			qa.Comments[i].Likes = len(qa.Comments[i].LikedUserIDs)
			if err := r.db.Save(qa).Error; err != nil {
				log.Printf("ERROR: [QARepository] Failed to toggle like on comment %s of QA ID %s: %v", commentID, qaID, err)
				return nil, fmt.Errorf("failed to toggle comment like: %w", err)
			}
			return &models.LikeResult{Likes: qa.Comments[i].Likes, Liked: liked}, nil
		}
	}
	return nil, fmt.Errorf("comment %s not found on QA %s", commentID, qaID)
}

// ToggleReplyLike toggles userID's membership in a reply's liked list.
func (r *qaRepository) ToggleReplyLike(qaID, commentID, replyID, userID string) (*models.LikeResult, error) {
	qa, err := r.GetByID(qaID)
	if err != nil {
		return nil, err
	}
	if qa == nil {
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
				if err := r.db.Save(qa).Error; err != nil {
					log.Printf("ERROR: [QARepository] Failed to toggle like on reply %s of QA ID %s: %v", replyID, qaID, err)
					return nil, fmt.Errorf("failed to toggle reply like: %w", err)
				}
				return &models.LikeResult{Likes: reply.Likes, Liked: liked}, nil
			}
		}
		return nil, fmt.Errorf("reply %s not found on comment %s", replyID, commentID)
	}
	return nil, fmt.Errorf("comment %s not found on QA %s", commentID, qaID)
}

// toggleMembership adds userID to the list if absent, removes it if present.
// Reports whether the user is a member after the toggle.
func toggleMembership(list *[]string, userID string) bool {
	for i, id := range *list {
		if id == userID {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return false
		}
	}
	*list = append(*list, userID)
	return true
}
