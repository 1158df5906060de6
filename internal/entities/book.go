package entities

import "time"

// Book is a catalog entry keyed by its ISBN-13. Author rows are owned by the
// book and live or die with it.
type Book struct {
	ISBN13        string    `gorm:"column:isbn13;primaryKey;size:13" json:"isbn13"`
	Title         string    `gorm:"size:512" json:"title"`
	Description   string    `json:"description"`
	Publisher     string    `gorm:"size:256" json:"publisher"`
	PublishedDate string    `gorm:"size:32" json:"publishedDate"`
	ImageURL      string    `gorm:"size:2048" json:"imageUrl"`
	Authors       []Author  `gorm:"foreignKey:ISBN13;references:ISBN13" json:"-"`
	CreatedAt     time.Time `json:"-"`
}

// Author is one (book, name) pair. Position preserves the order the names
// were submitted in.
type Author struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	ISBN13     string `gorm:"column:isbn13;index;size:13" json:"-"`
	Position   int    `json:"-"`
	AuthorName string `gorm:"size:256" json:"authorName"`
}

// AuthorNames returns the author names in submission order.
// Authors must have been loaded ordered by position.
func (b *Book) AuthorNames() []string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.AuthorName)
	}
	return names
}
