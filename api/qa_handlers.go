package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xuexuelaila/qa-community/models"
	"github.com/xuexuelaila/qa-community/services"
	"github.com/xuexuelaila/qa-community/utils"
)

// FeedbackRequest is the body of POST /api/qa/feedback.
type FeedbackRequest struct {
	QaID string `json:"qaId" binding:"required"`
	Type string `json:"type" binding:"required,oneof=useful useless"`
}

// CommentRequest is the body of POST /api/qa/:qaId/comments.
type CommentRequest struct {
	Author  models.CommentAuthor `json:"author"`
	Content string               `json:"content" binding:"required"`
	Images  []string             `json:"images"`
}

// ReplyRequest is the body of POST /api/qa/:qaId/comments/:commentId/replies.
type ReplyRequest struct {
	Author  models.CommentAuthor `json:"author"`
	Content string               `json:"content" binding:"required"`
	ReplyTo *models.ReplyTarget  `json:"replyTo"`
	Images  []string             `json:"images"`
}

// LikeRequest is the body of the comment/reply like endpoints.
type LikeRequest struct {
	UserID string `json:"userId"`
}

// DailyQAHandler returns the store-backed records for one day.
// GET /api/qa/daily?date=YYYY-MM-DD
func (h *APIHandler) DailyQAHandler(c *gin.Context) {
	qas, err := h.knowledgeService.DailyList(c.Query("date"))
	if err != nil {
		if strings.Contains(err.Error(), "invalid date") {
			utils.SendJSONError(c, http.StatusBadRequest, "Invalid date parameter.", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch Q&A list", err)
		return
	}
	utils.SendJSONData(c, qas)
}

// SearchQAHandler queries records by keyword and/or comma-separated tags.
// GET /api/qa/search?keyword=&tags=a,b
func (h *APIHandler) SearchQAHandler(c *gin.Context) {
	var tags []string
	if raw := c.Query("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	qas, err := h.knowledgeService.Search(c.Query("keyword"), tags)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Search failed", err)
		return
	}
	utils.SendJSONData(c, qas)
}

// DailyBriefHandler returns the one-day summary.
// GET /api/qa/brief?date=YYYY-MM-DD
func (h *APIHandler) DailyBriefHandler(c *gin.Context) {
	brief, err := h.knowledgeService.DailyBrief(c.Query("date"))
	if err != nil {
		if strings.Contains(err.Error(), "invalid date") {
			utils.SendJSONError(c, http.StatusBadRequest, "Invalid date parameter.", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch daily brief", err)
		return
	}
	utils.SendJSONData(c, brief)
}

// DatesHandler returns the dates that have content within a month.
// GET /api/qa/dates?month=YYYY-MM
func (h *APIHandler) DatesHandler(c *gin.Context) {
	dates, err := h.knowledgeService.Dates(c.Query("month"))
	if err != nil {
		if strings.Contains(err.Error(), "invalid month") {
			utils.SendJSONError(c, http.StatusBadRequest, "Invalid month parameter.", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch dates", err)
		return
	}
	utils.SendJSONData(c, dates)
}

// FeedbackHandler bumps the useful/useless counter of a record.
// POST /api/qa/feedback
func (h *APIHandler) FeedbackHandler(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request parameters", err)
		return
	}

	qa, err := h.knowledgeService.Feedback(req.QaID, req.Type)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to submit feedback", err)
		return
	}
	if qa == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Q&A not found", nil)
		return
	}
	utils.SendJSONData(c, qa)
}

// ExtractedHandler returns the records parsed from the knowledge file.
// GET /api/qa/extracted
func (h *APIHandler) ExtractedHandler(c *gin.Context) {
	qas, err := h.knowledgeService.LoadExtracted()
	if err != nil {
		if errors.Is(err, services.ErrKnowledgeFileMissing) {
			utils.SendJSONError(c, http.StatusNotFound, "知识库文件不存在", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "读取知识库失败", err)
		return
	}
	utils.SendJSONData(c, qas)
}

// ExtractedBriefHandler returns the summary of the knowledge file.
// GET /api/qa/extracted-brief
func (h *APIHandler) ExtractedBriefHandler(c *gin.Context) {
	brief, err := h.knowledgeService.ExtractedBrief()
	if err != nil {
		if errors.Is(err, services.ErrKnowledgeFileMissing) {
			utils.SendJSONError(c, http.StatusNotFound, "知识库文件不存在", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "读取知识库失败", err)
		return
	}
	utils.SendJSONData(c, brief)
}

// ListCommentsHandler returns the comments of a record.
// GET /api/qa/:qaId/comments
func (h *APIHandler) ListCommentsHandler(c *gin.Context) {
	comments, err := h.knowledgeService.ListComments(c.Param("qaId"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.SendJSONError(c, http.StatusNotFound, "Q&A not found", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch comments", err)
		return
	}
	utils.SendJSONData(c, comments)
}

// AddCommentHandler appends a comment to a record.
// POST /api/qa/:qaId/comments
func (h *APIHandler) AddCommentHandler(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "content required", err)
		return
	}

	comment, err := h.knowledgeService.AddComment(c.Param("qaId"), req.Author, req.Content, req.Images)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.SendJSONError(c, http.StatusNotFound, "Q&A not found", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to add comment", err)
		return
	}
	utils.SendJSONData(c, comment)
}

// AddReplyHandler appends a reply under a comment.
// POST /api/qa/:qaId/comments/:commentId/replies
func (h *APIHandler) AddReplyHandler(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "content required", err)
		return
	}

	reply, err := h.knowledgeService.AddReply(c.Param("qaId"), c.Param("commentId"), req.Author, req.Content, req.ReplyTo, req.Images)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.SendJSONError(c, http.StatusNotFound, "Comment not found", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to add reply", err)
		return
	}
	utils.SendJSONData(c, reply)
}

// LikeCommentHandler toggles the caller's like on a comment.
// POST /api/qa/:qaId/comments/:commentId/like
func (h *APIHandler) LikeCommentHandler(c *gin.Context) {
	var req LikeRequest
	_ = c.ShouldBindJSON(&req) // userId is optional; an empty body likes as anonymous

	result, err := h.knowledgeService.ToggleCommentLike(c.Param("qaId"), c.Param("commentId"), req.UserID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.SendJSONError(c, http.StatusNotFound, "Comment not found", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to like comment", err)
		return
	}
	utils.SendJSONData(c, result)
}

// LikeReplyHandler toggles the caller's like on a reply.
// POST /api/qa/:qaId/comments/:commentId/replies/:replyId/like
func (h *APIHandler) LikeReplyHandler(c *gin.Context) {
	var req LikeRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.knowledgeService.ToggleReplyLike(c.Param("qaId"), c.Param("commentId"), c.Param("replyId"), req.UserID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.SendJSONError(c, http.StatusNotFound, "Reply not found", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to like reply", err)
		return
	}
	utils.SendJSONData(c, result)
}
