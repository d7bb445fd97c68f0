package api

import (
	"github.com/xuexuelaila/qa-community/services"
)

// APIHandler holds all dependencies for API handlers.
type APIHandler struct {
	knowledgeService services.KnowledgeService
	forumService     services.ForumService
	userService      services.UserService
	uploadDir        string
	maxUploadFiles   int
	maxUploadSize    int64
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	knowledgeService services.KnowledgeService,
	forumService services.ForumService,
	userService services.UserService,
	uploadDir string,
	maxUploadFiles int,
	maxUploadSize int64,
) *APIHandler {
	return &APIHandler{
		knowledgeService: knowledgeService,
		forumService:     forumService,
		userService:      userService,
		uploadDir:        uploadDir,
		maxUploadFiles:   maxUploadFiles,
		maxUploadSize:    maxUploadSize,
	}
}
