package entities

import "time"

// Memo is a free-text note attached to a registered book. It references the
// book but does not own it; deleting the book removes its memos.
type Memo struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ISBN13    string    `gorm:"column:isbn13;index;size:13" json:"isbn13"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"-"`
}
