package models

import "time"

// QACategory 知识分类
type QACategory string

const (
	CategoryPractical QACategory = "practical" // 实操技巧
	CategoryPitfall   QACategory = "pitfall"   // 避坑指南
	CategoryLogic     QACategory = "logic"     // 底层逻辑
)

// Feedback tracks the useful/useless counters for a knowledge record.
type Feedback struct {
	Useful  int `gorm:"default:0" json:"useful"`
	Useless int `gorm:"default:0" json:"useless"`
}

// Alternative is an alternative framing of an answer. Only the hand-authored
// dataset carries these; the extractor never produces them.
type Alternative struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CommentAuthor is the denormalized author info embedded in comments and replies.
type CommentAuthor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role"`
}

// ReplyTarget points a reply at the comment/reply it answers.
type ReplyTarget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QAReply 评论的回复
type QAReply struct {
	ID           string        `json:"id"`
	Author       CommentAuthor `json:"author"`
	Content      string        `json:"content"`
	ReplyTo      *ReplyTarget  `json:"replyTo,omitempty"`
	Images       []string      `json:"images"`
	Likes        int           `json:"likes"`
	LikedUserIDs []string      `json:"likedUserIds"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// QAComment 知识记录下的评论
type QAComment struct {
	ID           string        `json:"id"`
	Author       CommentAuthor `json:"author"`
	Content      string        `json:"content"`
	Images       []string      `json:"images"`
	Likes        int           `json:"likes"`
	LikedUserIDs []string      `json:"likedUserIds"`
	Replies      []QAReply     `json:"replies"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// QAKnowledge represents one question+answer unit with its metadata.
// Nested comments are stored as a JSON document column so every mutation is a
// single-document read-modify-write, matching the original document-store model.
type QAKnowledge struct {
	ID           string        `gorm:"primaryKey;size:64" json:"_id"`
	Date         time.Time     `gorm:"index;not null" json:"date"`
	Question     string        `gorm:"not null" json:"question"`
	Answer       string        `gorm:"type:text" json:"answer"`
	Category     QACategory    `gorm:"type:varchar(20);index" json:"category"`
	Tags         []string      `gorm:"serializer:json" json:"tags"`
	Alternatives []Alternative `gorm:"serializer:json" json:"alternatives,omitempty"`
	Comments     []QAComment   `gorm:"serializer:json" json:"comments"`
	OriginalChat string        `gorm:"type:text" json:"originalChat,omitempty"`
	Feedback     Feedback      `gorm:"embedded;embeddedPrefix:feedback_" json:"feedback"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for the QAKnowledge model.
func (QAKnowledge) TableName() string {
	return "qa_knowledge"
}

// DailyBrief 每日/提取概览
type DailyBrief struct {
	Date           time.Time `json:"date"`
	Summary        string    `json:"summary"`
	TotalQuestions int       `json:"totalQuestions"`
	TotalAnswers   int       `json:"totalAnswers"`
	TopTags        []string  `json:"topTags"`
}
