package models

import "time"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

type Post struct {
	ID          int        `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"unique;not null" json:"slug"`
	Content     string     `gorm:"type:text" json:"content"`
	Description string     `json:"description"`
	CategoryID  *int       `gorm:"index" json:"category_id,omitempty"`
	Category    *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AuthorID    int        `gorm:"not null;index" json:"author_id"`
	User        User       `gorm:"foreignKey:AuthorID" json:"user"`
	Status      string     `gorm:"default:draft;index" json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Views       int        `gorm:"default:0" json:"views"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPublished reports whether the post is visible to readers (and open for
// comments and likes).
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

type CreatePostRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	CategoryID  *int   `json:"category_id"`
	Status      string `json:"status"`
}
