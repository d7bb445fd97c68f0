// Package client is the Go SDK for the Q&A community API, plus the local
// application state used by terminal/desktop frontends: selected tags, drafts
// and optimistic pending mutations.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/xuexuelaila/qa-community/models"
)

// APIError carries the server-side failure of one request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// envelope is the wire format shared by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// Client talks to the community API.
type Client struct {
	http *resty.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:3001".
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15*time.Second).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("malformed response from %s %s: %w", method, path, err)
	}
	if resp.IsError() || !env.Success {
		return &APIError{StatusCode: resp.StatusCode(), Message: env.Message}
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("malformed payload from %s %s: %w", method, path, err)
		}
	}
	return nil
}

// GetExtracted fetches the records parsed from the knowledge file.
func (c *Client) GetExtracted(ctx context.Context) ([]models.QAKnowledge, error) {
	var qas []models.QAKnowledge
	err := c.do(ctx, http.MethodGet, "/api/qa/extracted", nil, nil, &qas)
	return qas, err
}

// GetExtractedBrief fetches the summary of the knowledge file.
func (c *Client) GetExtractedBrief(ctx context.Context) (*models.DailyBrief, error) {
	var brief models.DailyBrief
	if err := c.do(ctx, http.MethodGet, "/api/qa/extracted-brief", nil, nil, &brief); err != nil {
		return nil, err
	}
	return &brief, nil
}

// GetDaily fetches the store-backed records for one day (empty date = today).
func (c *Client) GetDaily(ctx context.Context, date string) ([]models.QAKnowledge, error) {
	query := map[string]string{}
	if date != "" {
		query["date"] = date
	}
	var qas []models.QAKnowledge
	err := c.do(ctx, http.MethodGet, "/api/qa/daily", query, nil, &qas)
	return qas, err
}

// GetDailyBrief fetches the one-day summary.
func (c *Client) GetDailyBrief(ctx context.Context, date string) (*models.DailyBrief, error) {
	query := map[string]string{}
	if date != "" {
		query["date"] = date
	}
	var brief models.DailyBrief
	if err := c.do(ctx, http.MethodGet, "/api/qa/brief", query, nil, &brief); err != nil {
		return nil, err
	}
	return &brief, nil
}

// Search queries records by keyword and/or tags.
func (c *Client) Search(ctx context.Context, keyword string, tags []string) ([]models.QAKnowledge, error) {
	query := map[string]string{}
	if keyword != "" {
		query["keyword"] = keyword
	}
	if len(tags) > 0 {
		query["tags"] = strings.Join(tags, ",")
	}
	var qas []models.QAKnowledge
	err := c.do(ctx, http.MethodGet, "/api/qa/search", query, nil, &qas)
	return qas, err
}

// GetDates fetches the dates that have content within a month (YYYY-MM).
func (c *Client) GetDates(ctx context.Context, month string) ([]time.Time, error) {
	query := map[string]string{}
	if month != "" {
		query["month"] = month
	}
	var dates []time.Time
	err := c.do(ctx, http.MethodGet, "/api/qa/dates", query, nil, &dates)
	return dates, err
}

// SubmitFeedback bumps the useful/useless counter of a record.
func (c *Client) SubmitFeedback(ctx context.Context, qaID, feedbackType string) (*models.QAKnowledge, error) {
	body := map[string]string{"qaId": qaID, "type": feedbackType}
	var qa models.QAKnowledge
	if err := c.do(ctx, http.MethodPost, "/api/qa/feedback", nil, body, &qa); err != nil {
		return nil, err
	}
	return &qa, nil
}

// ListComments fetches the comments of a record.
func (c *Client) ListComments(ctx context.Context, qaID string) ([]models.QAComment, error) {
	var comments []models.QAComment
	err := c.do(ctx, http.MethodGet, "/api/qa/"+qaID+"/comments", nil, nil, &comments)
	return comments, err
}

// AddComment appends a comment to a record and returns the stored comment.
func (c *Client) AddComment(ctx context.Context, qaID string, author models.CommentAuthor, content string, images []string) (*models.QAComment, error) {
	body := map[string]interface{}{
		"author":  author,
		"content": content,
		"images":  images,
	}
	var comment models.QAComment
	if err := c.do(ctx, http.MethodPost, "/api/qa/"+qaID+"/comments", nil, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// AddReply appends a reply under a comment.
func (c *Client) AddReply(ctx context.Context, qaID, commentID string, author models.CommentAuthor, content string, replyTo *models.ReplyTarget) (*models.QAReply, error) {
	body := map[string]interface{}{
		"author":  author,
		"content": content,
		"replyTo": replyTo,
	}
	var reply models.QAReply
	if err := c.do(ctx, http.MethodPost, "/api/qa/"+qaID+"/comments/"+commentID+"/replies", nil, body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ToggleCommentLike flips the user's like on a comment.
func (c *Client) ToggleCommentLike(ctx context.Context, qaID, commentID, userID string) (*models.LikeResult, error) {
	body := map[string]string{"userId": userID}
	var result models.LikeResult
	if err := c.do(ctx, http.MethodPost, "/api/qa/"+qaID+"/comments/"+commentID+"/like", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleReplyLike flips the user's like on a reply.
func (c *Client) ToggleReplyLike(ctx context.Context, qaID, commentID, replyID, userID string) (*models.LikeResult, error) {
	body := map[string]string{"userId": userID}
	var result models.LikeResult
	if err := c.do(ctx, http.MethodPost, "/api/qa/"+qaID+"/comments/"+commentID+"/replies/"+replyID+"/like", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPosts fetches one page of forum posts.
func (c *Client) ListPosts(ctx context.Context, status string, page, limit int) (*models.PostList, error) {
	query := map[string]string{
		"page":  fmt.Sprintf("%d", page),
		"limit": fmt.Sprintf("%d", limit),
	}
	if status != "" {
		query["status"] = status
	}
	var list models.PostList
	if err := c.do(ctx, http.MethodGet, "/api/posts", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetPost fetches one post (the read counts as a view server-side).
func (c *Client) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+id, nil, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost publishes a new help post.
func (c *Client) CreatePost(ctx context.Context, authorID, title string, content models.PostContent, attachments []models.Attachment, mentions []string) (*models.Post, error) {
	body := map[string]interface{}{
		"authorId":    authorID,
		"title":       title,
		"content":     content,
		"attachments": attachments,
		"mentions":    mentions,
	}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", nil, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ReplyPost appends a reply to a post and returns the updated post.
func (c *Client) ReplyPost(ctx context.Context, postID, authorID, content string) (*models.Post, error) {
	body := map[string]string{"authorId": authorID, "content": content}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/reply", nil, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// AdoptReply marks a reply as the accepted answer.
func (c *Client) AdoptReply(ctx context.Context, postID, replyID string) (*models.Post, error) {
	body := map[string]string{"replyId": replyID}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/adopt", nil, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// LikePostReply increments a post reply's like counter.
func (c *Client) LikePostReply(ctx context.Context, postID, replyID string) (*models.Reply, error) {
	body := map[string]string{"postId": postID}
	var reply models.Reply
	if err := c.do(ctx, http.MethodPost, "/api/posts/replies/"+replyID+"/like", nil, body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// GetUser fetches one user.
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+id, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers finds users by nickname, for @-mention pickers.
func (c *Client) SearchUsers(ctx context.Context, keyword string) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, "/api/users/search", map[string]string{"keyword": keyword}, nil, &users)
	return users, err
}
