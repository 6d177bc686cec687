package model

import (
	"time"
)

// FineStatus represents the payment state of a fine
type FineStatus string

const (
	FineStatusPending   FineStatus = "pending"
	FineStatusPartial   FineStatus = "partial"
	FineStatusPaid      FineStatus = "paid"
	FineStatusWaived    FineStatus = "waived"
	FineStatusCancelled FineStatus = "cancelled"
)

// Fine represents a payable fine for an overdue borrow.
// At most one fine exists per borrow.
type Fine struct {
	BaseModel
	BorrowID int    `gorm:"not null;uniqueIndex" json:"borrow_id"`
	UserID   int    `gorm:"not null;index" json:"user_id"`
	Borrow   Borrow `json:"borrow,omitempty"`
	User     User   `json:"user,omitempty"`

	Amount     int        `gorm:"not null" json:"amount"`
	PaidAmount int        `gorm:"default:0" json:"paid_amount"`
	Status     FineStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`

	// Payment deadline, 7 days after the fine is raised
	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	PaymentDate *time.Time `json:"payment_date"`
	Notes       string     `gorm:"type:varchar(500)" json:"notes"`
}

// TableName specifies the table name for Fine model
func (Fine) TableName() string {
	return "fines"
}

// Remaining returns the unpaid portion of the fine, never negative
func (f *Fine) Remaining() int {
	if f.PaidAmount >= f.Amount {
		return 0
	}
	return f.Amount - f.PaidAmount
}

// IsOverdue reports whether payment is still pending past the payment deadline
func (f *Fine) IsOverdue(now time.Time) bool {
	return f.Status == FineStatusPending && now.After(f.DueDate)
}
