package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xuexuelaila/qa-community/models"
)

// ItemStatus is the lifecycle of an optimistic mutation.
type ItemStatus string

const (
	StatusPending   ItemStatus = "pending"
	StatusConfirmed ItemStatus = "confirmed"
	StatusFailed    ItemStatus = "failed"
)

// LocalComment is one comment as the frontend sees it: either already
// confirmed by the server or an optimistic local copy awaiting confirmation.
// A failed item stays visible with its error until the user retries.
type LocalComment struct {
	TempID  string           `json:"tempId"`
	QaID    string           `json:"qaId"`
	Comment models.QAComment `json:"comment"`
	Status  ItemStatus       `json:"status"`
	Error   string           `json:"error,omitempty"`
}

// LocalLike records an optimistic like toggle on a comment.
type LocalLike struct {
	TempID    string     `json:"tempId"`
	QaID      string     `json:"qaId"`
	CommentID string     `json:"commentId"`
	UserID    string     `json:"userId"`
	Liked     bool       `json:"liked"`
	Likes     int        `json:"likes"`
	Status    ItemStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
}

// State is the persisted local application state.
type State struct {
	SelectedTags       []string          `json:"selectedTags"`
	TagClicks          map[string]int    `json:"tagClicks"`
	Drafts             map[string]string `json:"drafts"`
	SeenAssistantIntro bool              `json:"seenAssistantIntro"`
	Comments           []LocalComment    `json:"comments"`
	Likes              []LocalLike       `json:"likes"`
}

func newState() State {
	return State{
		SelectedTags: []string{},
		TagClicks:    map[string]int{},
		Drafts:       map[string]string{},
		Comments:     []LocalComment{},
		Likes:        []LocalLike{},
	}
}

// App ties the SDK to the persisted local state and implements the optimistic
// update flow: mutations apply locally first under a temp id, then reconcile
// with the server result. Failures are kept visible and retried only on an
// explicit Retry call.
type App struct {
	api  *Client
	path string
	mu   sync.Mutex
	st   State
}

// NewApp loads (or initializes) the state file at path.
func NewApp(api *Client, path string) (*App, error) {
	app := &App{api: api, path: path, st: newState()}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return app, nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &app.st); err != nil {
		return nil, fmt.Errorf("corrupt state file %s: %w", path, err)
	}
	if app.st.TagClicks == nil {
		app.st.TagClicks = map[string]int{}
	}
	if app.st.Drafts == nil {
		app.st.Drafts = map[string]string{}
	}
	return app, nil
}

// save persists the state; callers hold the mutex.
func (a *App) save() error {
	data, err := json.MarshalIndent(a.st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(a.path, data, 0o644)
}

// State returns a snapshot of the current state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st
}

// RecordTagClick bumps the click counter of a tag and keeps it selected.
func (a *App) RecordTagClick(tag string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.st.TagClicks[tag]++
	for _, t := range a.st.SelectedTags {
		if t == tag {
			return a.save()
		}
	}
	a.st.SelectedTags = append(a.st.SelectedTags, tag)
	return a.save()
}

// ClearSelectedTags drops the tag selection but keeps the click counters.
func (a *App) ClearSelectedTags() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.st.SelectedTags = []string{}
	return a.save()
}

// SetDraft stores the comment draft for a record; an empty text removes it.
func (a *App) SetDraft(qaID, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if text == "" {
		delete(a.st.Drafts, qaID)
	} else {
		a.st.Drafts[qaID] = text
	}
	return a.save()
}

// Draft returns the saved draft for a record.
func (a *App) Draft(qaID string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st.Drafts[qaID]
}

// MarkAssistantIntroSeen records that the assistant intro was shown, so it is
// only shown once per install.
func (a *App) MarkAssistantIntroSeen() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.st.SeenAssistantIntro = true
	return a.save()
}

// AddComment applies the comment locally with a temp id, then posts it. On
// success the local item flips to confirmed and takes the server id; on
// failure it flips to failed and stays in place for an explicit Retry.
func (a *App) AddComment(ctx context.Context, qaID string, author models.CommentAuthor, content string) (*LocalComment, error) {
	tempID := "tmp_" + uuid.NewString()

	local := LocalComment{
		TempID: tempID,
		QaID:   qaID,
		Comment: models.QAComment{
			ID:           tempID,
			Author:       author,
			Content:      content,
			Images:       []string{},
			LikedUserIDs: []string{},
			Replies:      []models.QAReply{},
			CreatedAt:    time.Now(),
		},
		Status: StatusPending,
	}
	a.mu.Lock()
	a.st.Comments = append(a.st.Comments, local)
	if err := a.save(); err != nil {
		a.mu.Unlock()
		return nil, err
	}
	a.mu.Unlock()

	a.submitComment(ctx, tempID)
	return a.findComment(tempID), nil
}

// Retry re-sends a failed comment. Pending and confirmed items are left alone.
func (a *App) Retry(ctx context.Context, tempID string) error {
	a.mu.Lock()
	item := a.lookupComment(tempID)
	if item == nil {
		a.mu.Unlock()
		return fmt.Errorf("no local comment with temp id %s", tempID)
	}
	if item.Status != StatusFailed {
		a.mu.Unlock()
		return fmt.Errorf("comment %s is %s, only failed items can be retried", tempID, item.Status)
	}
	item.Status = StatusPending
	item.Error = ""
	if err := a.save(); err != nil {
		a.mu.Unlock()
		return err
	}
	a.mu.Unlock()

	a.submitComment(ctx, tempID)
	return nil
}

// submitComment sends the pending item and reconciles the result.
func (a *App) submitComment(ctx context.Context, tempID string) {
	a.mu.Lock()
	item := a.lookupComment(tempID)
	if item == nil {
		a.mu.Unlock()
		return
	}
	qaID, author, content := item.QaID, item.Comment.Author, item.Comment.Content
	a.mu.Unlock()

	stored, err := a.api.AddComment(ctx, qaID, author, content, nil)

	a.mu.Lock()
	defer a.mu.Unlock()
	item = a.lookupComment(tempID)
	if item == nil {
		return
	}
	if err != nil {
		item.Status = StatusFailed
		item.Error = err.Error()
	} else {
		item.Comment = *stored
		item.Status = StatusConfirmed
		item.Error = ""
	}
	_ = a.save()
}

// ToggleCommentLike flips the like locally, then reconciles with the server
// counter. A failed toggle keeps the optimistic value, flagged as failed.
func (a *App) ToggleCommentLike(ctx context.Context, qaID, commentID, userID string) (*LocalLike, error) {
	like := LocalLike{
		TempID:    "tmp_" + uuid.NewString(),
		QaID:      qaID,
		CommentID: commentID,
		UserID:    userID,
		Liked:     true,
		Status:    StatusPending,
	}
	a.mu.Lock()
	// A second toggle on the same target flips the optimistic direction.
	for i := range a.st.Likes {
		prev := &a.st.Likes[i]
		if prev.QaID == qaID && prev.CommentID == commentID && prev.UserID == userID {
			like.Liked = !prev.Liked
		}
	}
	a.st.Likes = append(a.st.Likes, like)
	if err := a.save(); err != nil {
		a.mu.Unlock()
		return nil, err
	}
	a.mu.Unlock()

	result, err := a.api.ToggleCommentLike(ctx, qaID, commentID, userID)

	a.mu.Lock()
	defer a.mu.Unlock()
	stored := a.lookupLike(like.TempID)
	if stored == nil {
		return nil, fmt.Errorf("like %s vanished during reconcile", like.TempID)
	}
	if err != nil {
		stored.Status = StatusFailed
		stored.Error = err.Error()
	} else {
		stored.Liked = result.Liked
		stored.Likes = result.Likes
		stored.Status = StatusConfirmed
	}
	_ = a.save()
	copied := *stored
	return &copied, nil
}

func (a *App) lookupComment(tempID string) *LocalComment {
	for i := range a.st.Comments {
		if a.st.Comments[i].TempID == tempID {
			return &a.st.Comments[i]
		}
	}
	return nil
}

func (a *App) findComment(tempID string) *LocalComment {
	a.mu.Lock()
	defer a.mu.Unlock()
	item := a.lookupComment(tempID)
	if item == nil {
		return nil
	}
	copied := *item
	return &copied
}

func (a *App) lookupLike(tempID string) *LocalLike {
	for i := range a.st.Likes {
		if a.st.Likes[i].TempID == tempID {
			return &a.st.Likes[i]
		}
	}
	return nil
}
