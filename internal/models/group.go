package models

// Group is an optional category a post can be published under. The slug is
// the external identifier used in feed URLs.
type Group struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:50;not null"`
	Description string `json:"description" gorm:"type:text"`

	Posts []Post `json:"-" gorm:"foreignKey:GroupID"`
}
