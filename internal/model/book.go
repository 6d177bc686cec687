package model

import (
	"regexp"

	"gorm.io/gorm"
)

// Category represents a book category
type Category string

const (
	CategoryFiction    Category = "Fiction"
	CategoryNonFiction Category = "Non-Fiction"
	CategoryScience    Category = "Science"
	CategoryTechnology Category = "Technology"
	CategoryHistory    Category = "History"
	CategoryBiography  Category = "Biography"
	CategoryChildren   Category = "Children"
	CategoryPoetry     Category = "Poetry"
	CategoryOther      Category = "Other"
)

// Valid reports whether the category is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryFiction, CategoryNonFiction, CategoryScience, CategoryTechnology,
		CategoryHistory, CategoryBiography, CategoryChildren, CategoryPoetry, CategoryOther:
		return true
	}
	return false
}

var isbnPattern = regexp.MustCompile(`^(?:\d{10}|\d{13})$`)

// ValidISBN reports whether s is a 10 or 13 digit ISBN
func ValidISBN(s string) bool {
	return isbnPattern.MatchString(s)
}

// Book represents a title in the library inventory
type Book struct {
	BaseModel
	Title           string   `gorm:"type:varchar(200);not null" json:"title"`
	Author          string   `gorm:"type:varchar(100);not null;index" json:"author"`
	ISBN            string   `gorm:"type:varchar(13);uniqueIndex;not null" json:"isbn"`
	Category        Category `gorm:"type:varchar(32);default:'Other';index" json:"category"`
	PublicationYear int      `gorm:"not null" json:"publication_year"`
	TotalCopies     int      `gorm:"not null" json:"total_copies"`
	AvailableCopies int      `gorm:"not null" json:"available_copies"`
	CoverImage      string   `gorm:"type:varchar(512)" json:"cover_image"`
	Description     string   `gorm:"type:varchar(1500)" json:"description"`
	AddedByID       int      `gorm:"index" json:"added_by_id"`
	UpdatedByID     int      `json:"updated_by_id"`
}

// TableName specifies the table name for Book model
func (Book) TableName() string {
	return "books"
}

// BeforeSave clamps AvailableCopies so it never exceeds TotalCopies.
// The clamp is silent: an over-count is corrected, not rejected.
func (b *Book) BeforeSave(tx *gorm.DB) error {
	if b.AvailableCopies > b.TotalCopies {
		b.AvailableCopies = b.TotalCopies
	}
	if b.AvailableCopies < 0 {
		b.AvailableCopies = 0
	}
	return nil
}

// IsAvailable reports whether at least one copy can be borrowed
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}
