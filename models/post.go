package models

import "time"

// PostStatus defines the possible statuses for a help-forum post.
type PostStatus string

const (
	PostStatusPending  PostStatus = "pending"  // 待解决
	PostStatusResolved PostStatus = "resolved" // 已解决
)

// PostContent is the structured body of a help post.
type PostContent struct {
	Stage    string `json:"stage"`    // 所处阶段
	Problem  string `json:"problem"`  // 遇到的问题
	Attempts string `json:"attempts"` // 已尝试的方案
}

// Attachment 帖子附件
type Attachment struct {
	Type string `json:"type"` // "image" or "video"
	URL  string `json:"url"`
}

// SubReply 回复的追评
type SubReply struct {
	ID        string    `json:"_id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Reply is one answer under a post. At most one reply per post carries
// IsAdopted=true; the adopt operation enforces that.
type Reply struct {
	ID         string          `json:"_id"`
	AuthorID   string          `json:"authorId"`
	Author     *AuthorSnapshot `json:"author,omitempty"`
	Content    string          `json:"content"`
	IsAdopted  bool            `json:"isAdopted"`
	Likes      int             `json:"likes"`
	SubReplies []SubReply      `json:"subReplies"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Post 求助帖。Replies 以 JSON 文档列存储，整帖读改写。
type Post struct {
	ID          string          `gorm:"primaryKey;size:64" json:"_id"`
	AuthorID    string          `gorm:"index;not null" json:"authorId"`
	Author      *AuthorSnapshot `gorm:"serializer:json" json:"author,omitempty"`
	Title       string          `gorm:"not null" json:"title"`
	Content     PostContent     `gorm:"serializer:json" json:"content"`
	Attachments []Attachment    `gorm:"serializer:json" json:"attachments"`
	Status      PostStatus      `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Mentions    []string        `gorm:"serializer:json" json:"mentions"`
	Replies     []Reply         `gorm:"serializer:json" json:"replies"`
	ViewCount   int             `gorm:"default:0" json:"viewCount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the Post model.
func (Post) TableName() string {
	return "posts"
}

// AdoptedReply returns the adopted reply, if any.
func (p *Post) AdoptedReply() *Reply {
	for i := range p.Replies {
		if p.Replies[i].IsAdopted {
			return &p.Replies[i]
		}
	}
	return nil
}

// FindReply returns the reply with the given id, or nil.
func (p *Post) FindReply(replyID string) *Reply {
	for i := range p.Replies {
		if p.Replies[i].ID == replyID {
			return &p.Replies[i]
		}
	}
	return nil
}
