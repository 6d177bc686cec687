package service

import (
	stderrors "errors"
	"time"

	"go_library/internal/fine"
	"go_library/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Days a member has to settle a fine after it is raised
const FinePaymentDays = 7

// FineService manages fine records for overdue borrows
type FineService struct {
	db *gorm.DB
}

// NewFineService creates a new fine service
func NewFineService(db *gorm.DB) *FineService {
	return &FineService{db: db}
}

// Sweep raises one fine per overdue borrow that has none yet. Idempotent:
// a second run over the same borrows creates nothing.
func (s *FineService) Sweep(now time.Time) (int, error) {
	var overdue []model.Borrow
	if err := s.db.
		Where("status = ? AND due_date < ?", model.BorrowStatusBorrowed, now).
		Find(&overdue).Error; err != nil {
		return 0, errors.Wrap(err, "failed to list overdue borrows")
	}

	created := 0
	for _, borrow := range overdue {
		var existing int64
		if err := s.db.Model(&model.Fine{}).
			Where("borrow_id = ?", borrow.ID).
			Count(&existing).Error; err != nil {
			return created, errors.Wrap(err, "failed to check existing fine")
		}
		if existing > 0 {
			continue
		}

		record := &model.Fine{
			BorrowID: borrow.ID,
			UserID:   borrow.UserID,
			Amount:   fine.Calculate(borrow.DueDate, now),
			Status:   model.FineStatusPending,
			DueDate:  now.AddDate(0, 0, FinePaymentDays),
		}
		if err := s.db.Create(record).Error; err != nil {
			return created, errors.Wrap(err, "failed to create fine")
		}
		created++
	}
	return created, nil
}

// ListByUser returns a user's fines, newest first
func (s *FineService) ListByUser(userID int) ([]model.Fine, error) {
	var fines []model.Fine
	if err := s.db.Preload("Borrow").Preload("Borrow.Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&fines).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list fines")
	}
	return fines, nil
}

// Pay records a payment against a fine. Only the fine's owner may pay it.
// Status moves pending/partial -> partial while a balance remains, then to
// paid with the payment date set.
func (s *FineService) Pay(fineID, actorUserID int, actorRole model.Role, amount int) (*model.Fine, error) {
	if amount <= 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "payment amount must be greater than 0")
	}

	var record model.Fine
	if err := s.db.First(&record, fineID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "fine not found")
		}
		return nil, errors.Wrap(err, "failed to load fine")
	}

	if record.UserID != actorUserID && !actorRole.IsStaff() {
		return nil, errors.Wrap(ErrForbidden, "not authorized to pay this fine")
	}

	switch record.Status {
	case model.FineStatusPending, model.FineStatusPartial:
	default:
		return nil, errors.Wrap(ErrInvalidState, "fine is not payable")
	}

	if amount > record.Remaining() {
		return nil, errors.Wrap(ErrInvalidArgument, "payment exceeds remaining balance")
	}

	record.PaidAmount += amount
	if record.Remaining() == 0 {
		now := time.Now()
		record.Status = model.FineStatusPaid
		record.PaymentDate = &now
	} else {
		record.Status = model.FineStatusPartial
	}

	if err := s.db.Save(&record).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save fine")
	}
	return &record, nil
}

// Waive cancels the outstanding balance of a fine
func (s *FineService) Waive(fineID int) (*model.Fine, error) {
	var record model.Fine
	if err := s.db.First(&record, fineID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "fine not found")
		}
		return nil, errors.Wrap(err, "failed to load fine")
	}

	switch record.Status {
	case model.FineStatusPending, model.FineStatusPartial:
	default:
		return nil, errors.Wrap(ErrInvalidState, "fine is already settled")
	}

	record.Status = model.FineStatusWaived
	if err := s.db.Save(&record).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save fine")
	}
	return &record, nil
}
