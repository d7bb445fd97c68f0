package models

import "time"

// UserRole 用户身份
type UserRole string

const (
	RoleMember    UserRole = "member"    // 学员
	RoleAssistant UserRole = "assistant" // 助教
	RoleCaptain   UserRole = "captain"   // 教练
)

// UserStats holds the denormalized reputation counters maintained by the forum
// store. Each counter is incremented by its own operation, separate from the
// post/reply write (no cross-document transaction).
type UserStats struct {
	QuestionsCount int `gorm:"default:0" json:"questionsCount"`
	AnswersCount   int `gorm:"default:0" json:"answersCount"`
	AdoptedCount   int `gorm:"default:0" json:"adoptedCount"`
}

// User 社区用户
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"_id"`
	Nickname  string    `gorm:"not null;index" json:"nickname"`
	Avatar    string    `gorm:"default:''" json:"avatar"`
	Role      UserRole  `gorm:"type:varchar(20);default:'member'" json:"role"`
	WechatID  string    `json:"wechatId,omitempty"`
	Stats     UserStats `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// AuthorSnapshot is the denormalized author view attached to posts and replies
// when they are read, so list pages render without a second lookup.
type AuthorSnapshot struct {
	ID       string    `json:"_id"`
	Nickname string    `json:"nickname"`
	Avatar   string    `json:"avatar"`
	Role     UserRole  `json:"role"`
	Stats    UserStats `json:"stats"`
}

// Snapshot builds the denormalized view of a user.
func (u *User) Snapshot() *AuthorSnapshot {
	if u == nil {
		return nil
	}
	return &AuthorSnapshot{
		ID:       u.ID,
		Nickname: u.Nickname,
		Avatar:   u.Avatar,
		Role:     u.Role,
		Stats:    u.Stats,
	}
}
