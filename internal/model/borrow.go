package model

import (
	"time"
)

// BorrowStatus represents the lifecycle state of a borrow transaction
type BorrowStatus string

const (
	BorrowStatusBorrowed  BorrowStatus = "borrowed"
	BorrowStatusReturned  BorrowStatus = "returned"
	BorrowStatusOverdue   BorrowStatus = "overdue"
	BorrowStatusLost      BorrowStatus = "lost"
	BorrowStatusCancelled BorrowStatus = "cancelled"
)

// Borrow represents a single borrow transaction of a book by a user
type Borrow struct {
	BaseModel
	Reference string `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	BookID    int    `gorm:"not null;index:idx_borrows_book_status" json:"book_id"`
	UserID    int    `gorm:"not null;index:idx_borrows_user_status" json:"user_id"`
	Book      Book   `json:"book,omitempty"`
	User      User   `json:"user,omitempty"`

	BorrowDate time.Time  `gorm:"not null" json:"borrow_date"`
	DueDate    time.Time  `gorm:"not null;index" json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`

	Status         BorrowStatus `gorm:"type:varchar(16);default:'borrowed';index:idx_borrows_book_status;index:idx_borrows_user_status" json:"status"`
	Fine           int          `gorm:"default:0" json:"fine"`
	Extended       bool         `gorm:"default:false" json:"extended"`
	ExtensionCount int          `gorm:"default:0" json:"extension_count"`
	Notes          string       `gorm:"type:varchar(500)" json:"notes"`
}

// TableName specifies the table name for Borrow model
func (Borrow) TableName() string {
	return "borrows"
}

// EffectiveStatus derives the status visible to callers at the given time.
// A persisted 'borrowed' record whose due date has passed reads as overdue;
// the stored status only changes through an explicit return.
func (b *Borrow) EffectiveStatus(now time.Time) BorrowStatus {
	if b.Status == BorrowStatusBorrowed && now.After(b.DueDate) {
		return BorrowStatusOverdue
	}
	return b.Status
}

// IsOverdue reports whether the borrow is active and past its due date
func (b *Borrow) IsOverdue(now time.Time) bool {
	return b.Status == BorrowStatusBorrowed && now.After(b.DueDate)
}

// DaysOverdue returns whole days past the due date at the given time,
// comparing at UTC midnight, never negative.
func (b *Borrow) DaysOverdue(now time.Time) int {
	if b.Status != BorrowStatusBorrowed {
		return 0
	}
	today := startOfDayUTC(now)
	due := startOfDayUTC(b.DueDate)
	if !today.After(due) {
		return 0
	}
	return int(today.Sub(due) / (24 * time.Hour))
}

func startOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
