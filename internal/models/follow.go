package models

import "time"

// Follow is a directed edge: UserID reads AuthorID. The composite unique
// index makes duplicate-edge insertion a storage-level conflict, so two
// concurrent follow requests cannot both create the edge.
type Follow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_author;not null"`
	AuthorID  uint      `json:"author_id" gorm:"index;uniqueIndex:idx_user_author;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
