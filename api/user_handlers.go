package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xuexuelaila/qa-community/models"
	"github.com/xuexuelaila/qa-community/utils"
)

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Nickname string          `json:"nickname" binding:"required"`
	Avatar   string          `json:"avatar"`
	Role     models.UserRole `json:"role" binding:"omitempty,oneof=member assistant captain"`
	WechatID string          `json:"wechatId"`
}

// GetUserHandler returns one user.
// GET /api/users/:id
func (h *APIHandler) GetUserHandler(c *gin.Context) {
	user, err := h.userService.GetUser(c.Param("id"))
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch user", err)
		return
	}
	if user == nil {
		utils.SendJSONError(c, http.StatusNotFound, "User not found", nil)
		return
	}
	utils.SendJSONData(c, user)
}

// CreateUserHandler stores a new user.
// POST /api/users
func (h *APIHandler) CreateUserHandler(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Nickname is required", err)
		return
	}

	user, err := h.userService.CreateUser(req.Nickname, req.Avatar, req.Role, req.WechatID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to create user", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// SearchUsersHandler finds users by nickname substring, for @-mention pickers.
// GET /api/users/search?keyword=
func (h *APIHandler) SearchUsersHandler(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		utils.SendJSONError(c, http.StatusBadRequest, "Keyword is required", nil)
		return
	}

	users, err := h.userService.SearchUsers(keyword)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to search users", err)
		return
	}
	utils.SendJSONData(c, users)
}
