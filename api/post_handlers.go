package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xuexuelaila/qa-community/models"
	"github.com/xuexuelaila/qa-community/services"
	"github.com/xuexuelaila/qa-community/utils"
)

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	AuthorID    string              `json:"authorId" binding:"required"`
	Title       string              `json:"title" binding:"required"`
	Content     models.PostContent  `json:"content" binding:"required"`
	Attachments []models.Attachment `json:"attachments"`
	Mentions    []string            `json:"mentions"`
}

// PostReplyRequest is the body of POST /api/posts/:id/reply.
type PostReplyRequest struct {
	AuthorID string `json:"authorId" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// AdoptRequest is the body of POST /api/posts/:id/adopt.
type AdoptRequest struct {
	ReplyID string `json:"replyId" binding:"required"`
}

// LikePostReplyRequest is the body of POST /api/posts/replies/:replyId/like.
type LikePostReplyRequest struct {
	PostID string `json:"postId" binding:"required"`
}

// ListPostsHandler returns one page of posts, newest first.
// GET /api/posts?status=&page=&limit=
func (h *APIHandler) ListPostsHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	list, err := h.forumService.ListPosts(c.Query("status"), page, limit)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch posts", err)
		return
	}
	utils.SendJSONData(c, list)
}

// GetPostHandler returns one post, counting the read as a view.
// GET /api/posts/:id
func (h *APIHandler) GetPostHandler(c *gin.Context) {
	post, err := h.forumService.GetPost(c.Param("id"))
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch post", err)
		return
	}
	if post == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Post not found", nil)
		return
	}
	utils.SendJSONData(c, post)
}

// CreatePostHandler stores a new pending post.
// POST /api/posts
func (h *APIHandler) CreatePostHandler(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Missing required fields", err)
		return
	}

	post, err := h.forumService.CreatePost(req.AuthorID, req.Title, req.Content, req.Attachments, req.Mentions)
	if err != nil {
		if strings.Contains(err.Error(), "required") {
			utils.SendJSONError(c, http.StatusBadRequest, "Missing required fields", err)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to create post", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    post,
	})
}

// ReplyPostHandler appends a reply to a post.
// POST /api/posts/:id/reply
func (h *APIHandler) ReplyPostHandler(c *gin.Context) {
	var req PostReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Missing required fields", err)
		return
	}

	post, err := h.forumService.AddReply(c.Param("id"), req.AuthorID, req.Content)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to reply to post", err)
		return
	}
	if post == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Post not found", nil)
		return
	}
	utils.SendJSONData(c, post)
}

// AdoptReplyHandler marks one reply as the accepted answer. A post adopts at
// most once; a second attempt yields 409.
// POST /api/posts/:id/adopt
func (h *APIHandler) AdoptReplyHandler(c *gin.Context) {
	var req AdoptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Reply ID is required", err)
		return
	}

	post, err := h.forumService.AdoptReply(c.Param("id"), req.ReplyID)
	if err != nil {
		if errors.Is(err, services.ErrReplyAlreadyAdopted) {
			utils.SendJSONError(c, http.StatusConflict, "Post already has an adopted reply", nil)
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.SendJSONError(c, http.StatusNotFound, "Reply not found", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to adopt answer", err)
		return
	}
	if post == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Post not found", nil)
		return
	}
	utils.SendJSONData(c, post)
}

// LikePostReplyHandler increments a reply's like counter.
// POST /api/posts/replies/:replyId/like
func (h *APIHandler) LikePostReplyHandler(c *gin.Context) {
	var req LikePostReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Post ID is required", err)
		return
	}

	reply, err := h.forumService.LikeReply(req.PostID, c.Param("replyId"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.SendJSONError(c, http.StatusNotFound, "Reply not found", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to like reply", err)
		return
	}
	if reply == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Post not found", nil)
		return
	}
	utils.SendJSONData(c, reply)
}
