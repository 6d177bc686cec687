package service

import (
	stderrors "errors"
	"time"

	"go_library/internal/fine"
	"go_library/internal/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Borrow policy constants
const (
	BorrowDays           = 14 // default borrow period
	MaxActiveBorrows     = 3  // per user, across all books
	DefaultExtensionDays = 5
)

// BorrowService manages the borrow/return lifecycle
type BorrowService struct {
	db *gorm.DB
}

// NewBorrowService creates a new borrow service
func NewBorrowService(db *gorm.DB) *BorrowService {
	return &BorrowService{db: db}
}

// OverdueBorrow is a borrow record annotated with its days overdue
type OverdueBorrow struct {
	model.Borrow
	DaysOverdue int `json:"days_overdue"`
}

// Borrow creates a borrow record for the user and takes one copy of the
// book. The duplicate and limit checks are read-then-write; they hold under
// serialized access, which is all the storage contract promises.
func (s *BorrowService) Borrow(userID, bookID int) (*model.Borrow, error) {
	var created *model.Borrow

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var book model.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrap(ErrNotFound, "book not found")
			}
			return errors.Wrap(err, "failed to load book")
		}
		if book.AvailableCopies <= 0 {
			return ErrNoCopiesAvailable
		}

		// One active borrow per (book, user) pair
		var dup int64
		if err := tx.Model(&model.Borrow{}).
			Where("book_id = ? AND user_id = ? AND status = ?", bookID, userID, model.BorrowStatusBorrowed).
			Count(&dup).Error; err != nil {
			return errors.Wrap(err, "failed to check duplicate borrow")
		}
		if dup > 0 {
			return ErrDuplicateBorrow
		}

		// System-wide active borrow cap per user
		var active int64
		if err := tx.Model(&model.Borrow{}).
			Where("user_id = ? AND status = ?", userID, model.BorrowStatusBorrowed).
			Count(&active).Error; err != nil {
			return errors.Wrap(err, "failed to count active borrows")
		}
		if active >= MaxActiveBorrows {
			return ErrBorrowLimitExceeded
		}

		now := time.Now()
		borrow := &model.Borrow{
			Reference:  uuid.NewString(),
			BookID:     bookID,
			UserID:     userID,
			BorrowDate: now,
			DueDate:    now.AddDate(0, 0, BorrowDays),
			Status:     model.BorrowStatusBorrowed,
		}
		if err := tx.Create(borrow).Error; err != nil {
			return errors.Wrap(err, "failed to create borrow")
		}

		book.AvailableCopies--
		if err := tx.Save(&book).Error; err != nil {
			return errors.Wrap(err, "failed to reserve copy")
		}

		created = borrow
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Return closes a borrow: sets the return date, computes the fine and puts
// the copy back. Allowed for the borrow's owner or staff.
func (s *BorrowService) Return(borrowID, actorUserID int, actorRole model.Role) (*model.Borrow, error) {
	var returned *model.Borrow

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var borrow model.Borrow
		if err := tx.First(&borrow, borrowID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrap(ErrNotFound, "borrow record not found")
			}
			return errors.Wrap(err, "failed to load borrow")
		}

		if borrow.Status == model.BorrowStatusReturned {
			return ErrAlreadyReturned
		}

		if borrow.UserID != actorUserID && !actorRole.IsStaff() {
			return errors.Wrap(ErrForbidden, "not authorized to return this book")
		}

		now := time.Now()
		borrow.ReturnDate = &now
		borrow.Fine = fine.Calculate(borrow.DueDate, now)
		borrow.Status = model.BorrowStatusReturned
		if err := tx.Save(&borrow).Error; err != nil {
			return errors.Wrap(err, "failed to save borrow")
		}

		if _, err := ReleaseCopy(tx, borrow.BookID); err != nil {
			return err
		}

		returned = &borrow
		return nil
	})
	if err != nil {
		return nil, err
	}
	return returned, nil
}

// ExtendDueDate pushes the due date forward by the given number of days.
// Only a record whose stored status is exactly 'borrowed' can be extended.
func (s *BorrowService) ExtendDueDate(borrowID, days int) (*model.Borrow, error) {
	if days <= 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "extension days must be greater than 0")
	}

	var borrow model.Borrow
	if err := s.db.First(&borrow, borrowID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "borrow record not found")
		}
		return nil, errors.Wrap(err, "failed to load borrow")
	}

	if borrow.Status != model.BorrowStatusBorrowed {
		return nil, errors.Wrap(ErrInvalidState, "can only extend active borrowed books")
	}

	borrow.DueDate = borrow.DueDate.AddDate(0, 0, days)
	borrow.Extended = true
	borrow.ExtensionCount++
	if err := s.db.Save(&borrow).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save borrow")
	}
	return &borrow, nil
}

// Get returns a single borrow, visible to its owner or staff
func (s *BorrowService) Get(borrowID, actorUserID int, actorRole model.Role) (*model.Borrow, error) {
	var borrow model.Borrow
	if err := s.db.Preload("Book").Preload("User").First(&borrow, borrowID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "borrow record not found")
		}
		return nil, errors.Wrap(err, "failed to load borrow")
	}
	if borrow.UserID != actorUserID && !actorRole.IsStaff() {
		return nil, errors.Wrap(ErrForbidden, "not authorized to view this borrow")
	}
	return &borrow, nil
}

// ListByUser returns a user's borrow history, newest first
func (s *BorrowService) ListByUser(userID int) ([]model.Borrow, error) {
	var borrows []model.Borrow
	if err := s.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("borrow_date DESC").
		Find(&borrows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list borrows")
	}
	return borrows, nil
}

// ListAll returns every borrow record, newest first
func (s *BorrowService) ListAll() ([]model.Borrow, error) {
	var borrows []model.Borrow
	if err := s.db.Preload("Book").Preload("User").
		Order("borrow_date DESC").
		Find(&borrows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list borrows")
	}
	return borrows, nil
}

// ListOverdue returns active borrows due before the start of today, earliest
// due date first, each annotated with its days overdue.
func (s *BorrowService) ListOverdue(now time.Time) ([]OverdueBorrow, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var borrows []model.Borrow
	if err := s.db.Preload("Book").Preload("User").
		Where("status = ? AND due_date < ?", model.BorrowStatusBorrowed, today).
		Order("due_date ASC").
		Find(&borrows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list overdue borrows")
	}

	overdue := make([]OverdueBorrow, 0, len(borrows))
	for _, b := range borrows {
		overdue = append(overdue, OverdueBorrow{
			Borrow:      b,
			DaysOverdue: b.DaysOverdue(now),
		})
	}
	return overdue, nil
}
