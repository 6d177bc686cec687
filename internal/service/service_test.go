package service

import (
	"fmt"
	"testing"
	"time"

	"go_library/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database and migrates the schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Borrow{},
		&model.Fine{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()

	user := &model.User{
		Name:         "Test " + username,
		Username:     username,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedBook(t *testing.T, db *gorm.DB, title string, total, available int) *model.Book {
	t.Helper()

	book := &model.Book{
		Title:           title,
		Author:          "Author",
		ISBN:            randomISBN(),
		Category:        model.CategoryFiction,
		PublicationYear: 2020,
		TotalCopies:     total,
		AvailableCopies: available,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

// seedBorrow inserts a borrow record directly, bypassing the service, so
// tests can control the due date.
func seedBorrow(t *testing.T, db *gorm.DB, userID, bookID int, status model.BorrowStatus, dueDate time.Time) *model.Borrow {
	t.Helper()

	borrow := &model.Borrow{
		Reference:  uuid.NewString(),
		BookID:     bookID,
		UserID:     userID,
		BorrowDate: dueDate.AddDate(0, 0, -BorrowDays),
		DueDate:    dueDate,
		Status:     status,
	}
	require.NoError(t, db.Create(borrow).Error)
	return borrow
}

var isbnCounter int64 = 1000000000000

func randomISBN() string {
	isbnCounter++
	return fmt.Sprintf("%d", isbnCounter)
}
