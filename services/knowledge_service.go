package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/xuexuelaila/qa-community/knowledge"
	"github.com/xuexuelaila/qa-community/models"
	"github.com/xuexuelaila/qa-community/repository"
	"github.com/xuexuelaila/qa-community/utils"
)

// ErrKnowledgeFileMissing is returned when the extracted knowledge file does
// not exist. A present-but-empty file is not an error: it yields zero records.
var ErrKnowledgeFileMissing = errors.New("knowledge file not found")

// extractedIDPrefix marks parser-produced records, which have no database row.
const extractedIDPrefix = "extracted_"

// KnowledgeService defines the interface for the knowledge base: the
// hand-curated daily records in the document store plus the records extracted
// from the group-chat Markdown file.
type KnowledgeService interface {
	DailyList(date string) ([]*models.QAKnowledge, error)
	DailyBrief(date string) (*models.DailyBrief, error)
	Search(keyword string, tags []string) ([]*models.QAKnowledge, error)
	Dates(month string) ([]time.Time, error)
	Feedback(qaID, feedbackType string) (*models.QAKnowledge, error)
	LoadExtracted() ([]models.QAKnowledge, error)
	ExtractedBrief() (*models.DailyBrief, error)
	ListComments(qaID string) ([]models.QAComment, error)
	AddComment(qaID string, author models.CommentAuthor, content string, images []string) (*models.QAComment, error)
	AddReply(qaID, commentID string, author models.CommentAuthor, content string, replyTo *models.ReplyTarget, images []string) (*models.QAReply, error)
	ToggleCommentLike(qaID, commentID, userID string) (*models.LikeResult, error)
	ToggleReplyLike(qaID, commentID, replyID, userID string) (*models.LikeResult, error)
}

type knowledgeService struct {
	qaRepo        repository.QARepository
	commentStore  repository.ExtractedCommentStore
	knowledgeFile string
}

// NewKnowledgeService creates a new instance of KnowledgeService.
// knowledgeFile is the path of the extracted Q&A Markdown file; it is re-read
// on every request so edits show up without a restart.
func NewKnowledgeService(qaRepo repository.QARepository, commentStore repository.ExtractedCommentStore, knowledgeFile string) KnowledgeService {
	return &knowledgeService{
		qaRepo:        qaRepo,
		commentStore:  commentStore,
		knowledgeFile: knowledgeFile,
	}
}

// DailyList returns the store-backed records whose date falls on the given
// day (YYYY-MM-DD); an empty date means today.
func (s *knowledgeService) DailyList(date string) ([]*models.QAKnowledge, error) {
	start, end, err := dayBounds(date)
	if err != nil {
		return nil, err
	}
	return s.qaRepo.FindByDateRange(start, end)
}

// DailyBrief summarizes one day of store-backed records.
func (s *knowledgeService) DailyBrief(date string) (*models.DailyBrief, error) {
	start, end, err := dayBounds(date)
	if err != nil {
		return nil, err
	}
	qas, err := s.qaRepo.FindByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	values := make([]models.QAKnowledge, len(qas))
	for i, qa := range qas {
		values[i] = *qa
	}
	topTags := knowledge.TopTags(values, 5)

	brief := &models.DailyBrief{
		Date:           start,
		Summary:        fmt.Sprintf("今天共沉淀了 %d 条知识，涵盖了%s等多个领域。", len(qas), strings.Join(topTags, "、")),
		TotalQuestions: len(qas),
		TotalAnswers:   len(qas),
		TopTags:        topTags,
	}
	return brief, nil
}

// Search queries the store-backed records by keyword and/or tags, capped at 50.
func (s *knowledgeService) Search(keyword string, tags []string) ([]*models.QAKnowledge, error) {
	return s.qaRepo.Search(keyword, tags, 50)
}

// Dates returns the distinct dates that have content within the given month
// (YYYY-MM). An empty month means the trailing month up to now.
func (s *knowledgeService) Dates(month string) ([]time.Time, error) {
	var start, end time.Time
	if month != "" {
		parsed, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q: %w", month, err)
		}
		start = parsed
		end = parsed.AddDate(0, 1, 0).Add(-time.Second)
	} else {
		end = time.Now()
		start = end.AddDate(0, -1, 0)
	}
	return s.qaRepo.DistinctDates(start, end)
}

// Feedback bumps the useful/useless counter of a store-backed record and
// returns the updated record. Returns (nil, nil) when the record is missing.
func (s *knowledgeService) Feedback(qaID, feedbackType string) (*models.QAKnowledge, error) {
	if qaID == "" {
		return nil, errors.New("qaId cannot be empty")
	}
	if feedbackType != "useful" && feedbackType != "useless" {
		return nil, fmt.Errorf("invalid feedback type %q", feedbackType)
	}
	return s.qaRepo.IncrementFeedback(qaID, feedbackType)
}

// LoadExtracted reads and parses the knowledge file. The file is read on
// every call; a missing file yields ErrKnowledgeFileMissing.
func (s *knowledgeService) LoadExtracted() ([]models.QAKnowledge, error) {
	content, err := os.ReadFile(s.knowledgeFile)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("WARN: [KnowledgeService] Knowledge file %s does not exist.", s.knowledgeFile)
			return nil, ErrKnowledgeFileMissing
		}
		log.Printf("ERROR: [KnowledgeService] Failed to read knowledge file %s: %v", s.knowledgeFile, err)
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}
	qaList := knowledge.Extract(string(content))
	log.Printf("INFO: [KnowledgeService] Parsed %d records from %s.", len(qaList), s.knowledgeFile)
	return qaList, nil
}

// ExtractedBrief summarizes the extracted knowledge file.
func (s *knowledgeService) ExtractedBrief() (*models.DailyBrief, error) {
	qaList, err := s.LoadExtracted()
	if err != nil {
		return nil, err
	}
	brief := knowledge.BuildExtractedBrief(qaList, time.Now())
	return &brief, nil
}

// ListComments returns the comments of a record. Extracted records keep
// their comments in the injected in-memory store; store-backed records carry
// them in the document itself.
func (s *knowledgeService) ListComments(qaID string) ([]models.QAComment, error) {
	if strings.HasPrefix(qaID, extractedIDPrefix) {
		return s.commentStore.List(qaID), nil
	}
	qa, err := s.qaRepo.GetByID(qaID)
	if err != nil {
		return nil, err
	}
	if qa == nil {
		return nil, fmt.Errorf("Q&A %s not found", qaID)
	}
	if qa.Comments == nil {
		return []models.QAComment{}, nil
	}
	return qa.Comments, nil
}

// AddComment appends a comment to a record and returns it.
func (s *knowledgeService) AddComment(qaID string, author models.CommentAuthor, content string, images []string) (*models.QAComment, error) {
	if content == "" {
		return nil, errors.New("content cannot be empty")
	}
	comment := models.QAComment{
		ID:           utils.NewCommentID(),
		Author:       ensureAuthor(author),
		Content:      content,
		Images:       normalizeImages(images),
		Likes:        0,
		LikedUserIDs: []string{},
		Replies:      []models.QAReply{},
		CreatedAt:    time.Now(),
	}

	if strings.HasPrefix(qaID, extractedIDPrefix) {
		s.commentStore.Append(qaID, comment)
		return &comment, nil
	}
	if err := s.qaRepo.AppendComment(qaID, comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// AddReply appends a reply under a comment and returns it.
func (s *knowledgeService) AddReply(qaID, commentID string, author models.CommentAuthor, content string, replyTo *models.ReplyTarget, images []string) (*models.QAReply, error) {
	if content == "" {
		return nil, errors.New("content cannot be empty")
	}
	reply := models.QAReply{
		ID:           utils.NewReplyID(),
		Author:       ensureAuthor(author),
		Content:      content,
		ReplyTo:      replyTo,
		Images:       normalizeImages(images),
		Likes:        0,
		LikedUserIDs: []string{},
		CreatedAt:    time.Now(),
	}

	if strings.HasPrefix(qaID, extractedIDPrefix) {
		if err := s.commentStore.AppendReply(qaID, commentID, reply); err != nil {
			return nil, err
		}
		return &reply, nil
	}
	if err := s.qaRepo.AppendReply(qaID, commentID, reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ToggleCommentLike flips the like of userID on a comment. An empty userID
// likes as "anonymous".
func (s *knowledgeService) ToggleCommentLike(qaID, commentID, userID string) (*models.LikeResult, error) {
	likeUser := likeUserID(userID)
	if strings.HasPrefix(qaID, extractedIDPrefix) {
		return s.commentStore.ToggleCommentLike(qaID, commentID, likeUser)
	}
	return s.qaRepo.ToggleCommentLike(qaID, commentID, likeUser)
}

// ToggleReplyLike flips the like of userID on a reply.
func (s *knowledgeService) ToggleReplyLike(qaID, commentID, replyID, userID string) (*models.LikeResult, error) {
	likeUser := likeUserID(userID)
	if strings.HasPrefix(qaID, extractedIDPrefix) {
		return s.commentStore.ToggleReplyLike(qaID, commentID, replyID, likeUser)
	}
	return s.qaRepo.ToggleReplyLike(qaID, commentID, replyID, likeUser)
}

// ensureAuthor fills the anonymous defaults on a comment author.
func ensureAuthor(author models.CommentAuthor) models.CommentAuthor {
	if author.ID == "" {
		author.ID = "anonymous"
	}
	if author.Name == "" {
		author.Name = "匿名"
	}
	if author.Role == "" {
		author.Role = string(models.RoleMember)
	}
	return author
}

func normalizeImages(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

func likeUserID(userID string) string {
	if userID == "" {
		return "anonymous"
	}
	return userID
}

// dayBounds resolves a YYYY-MM-DD date string (empty means today) into the
// start and end instants of that day.
func dayBounds(date string) (time.Time, time.Time, error) {
	target := time.Now()
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
		}
		target = parsed
	}
	start := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end, nil
}
