package models

import "time"

// Post is a published blog entry. CreatedAt is set once at creation and is
// the ordering key for every feed; ID breaks ties between posts created in
// the same millisecond.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	ImagePath string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Author    User      `json:"author" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	GroupID   *uint     `json:"group_id,omitempty" gorm:"index"`
	Group     *Group    `json:"group,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// Filled by feed queries from an aggregate join; not a column.
	CommentCount int `json:"comment_count" gorm:"->;-:migration"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Text    string `json:"text" form:"text" validate:"required,min=1"`
	GroupID *uint  `json:"group_id,omitempty" form:"group_id" validate:"omitempty,min=1"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Text    string `json:"text" form:"text" validate:"required,min=1"`
	GroupID *uint  `json:"group_id,omitempty" form:"group_id" validate:"omitempty,min=1"`
}
