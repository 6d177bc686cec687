package service

import (
	stderrors "errors"
	"strings"
	"time"

	"go_library/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// BookService manages the book inventory
type BookService struct {
	db *gorm.DB
}

// NewBookService creates a new book service
func NewBookService(db *gorm.DB) *BookService {
	return &BookService{db: db}
}

// CreateBookParams represents parameters for creating a book
type CreateBookParams struct {
	Title           string
	Author          string
	ISBN            string
	Category        model.Category
	PublicationYear int
	TotalCopies     int
	AvailableCopies *int
	CoverImage      string
	Description     string
	AddedByID       int
}

// UpdateBookParams carries the allow-listed fields a caller may change.
// Nil means "leave unchanged". Anything outside this set cannot be
// mass-assigned from a request payload.
type UpdateBookParams struct {
	Title           *string
	Author          *string
	ISBN            *string
	Category        *model.Category
	PublicationYear *int
	TotalCopies     *int
	AvailableCopies *int
	CoverImage      *string
	Description     *string
	UpdatedByID     int
}

// ListBooksParams represents parameters for listing books
type ListBooksParams struct {
	Search    string
	Category  string
	Available *bool
	Page      int
	PageSize  int
	Sort      string
}

// Pagination defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Create adds a new book to the inventory
func (s *BookService) Create(params CreateBookParams) (*model.Book, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "title is required")
	}
	if strings.TrimSpace(params.Author) == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "author is required")
	}
	if !model.ValidISBN(params.ISBN) {
		return nil, errors.Wrap(ErrInvalidArgument, "isbn must be 10 or 13 digits")
	}
	if params.TotalCopies < 1 {
		return nil, errors.Wrap(ErrInvalidArgument, "at least one copy is required")
	}
	if params.PublicationYear < 1000 || params.PublicationYear > time.Now().Year()+2 {
		return nil, errors.Wrap(ErrInvalidArgument, "publication year out of range")
	}

	category := params.Category
	if category == "" {
		category = model.CategoryOther
	}
	if !category.Valid() {
		return nil, errors.Wrap(ErrInvalidArgument, "unknown category")
	}

	available := params.TotalCopies
	if params.AvailableCopies != nil {
		available = *params.AvailableCopies
	}
	if available < 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "available copies cannot be negative")
	}

	book := &model.Book{
		Title:           strings.TrimSpace(params.Title),
		Author:          strings.TrimSpace(params.Author),
		ISBN:            params.ISBN,
		Category:        category,
		PublicationYear: params.PublicationYear,
		TotalCopies:     params.TotalCopies,
		AvailableCopies: available,
		CoverImage:      params.CoverImage,
		Description:     params.Description,
		AddedByID:       params.AddedByID,
	}

	if err := s.db.Create(book).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create book")
	}
	return book, nil
}

// Get returns a book by id
func (s *BookService) Get(id int) (*model.Book, error) {
	var book model.Book
	if err := s.db.First(&book, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "book not found")
		}
		return nil, errors.Wrap(err, "failed to load book")
	}
	return &book, nil
}

// List returns a paginated, filtered list of books
func (s *BookService) List(params ListBooksParams) ([]model.Book, int64, error) {
	page := params.Page
	if page < 1 {
		page = DefaultPage
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	query := s.db.Model(&model.Book{})

	if params.Search != "" {
		keyword := "%" + params.Search + "%"
		query = query.Where("title LIKE ? OR author LIKE ? OR isbn LIKE ?", keyword, keyword, keyword)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Available != nil {
		if *params.Available {
			query = query.Where("available_copies > 0")
		} else {
			query = query.Where("available_copies = 0")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count books")
	}

	sort := sanitizeBookSort(params.Sort)
	var books []model.Book
	if err := query.Order(sort).Offset((page - 1) * pageSize).Limit(pageSize).Find(&books).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list books")
	}
	return books, total, nil
}

// Update applies an allow-listed partial update and clamps the copy counts
func (s *BookService) Update(id int, params UpdateBookParams) (*model.Book, error) {
	book, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		book.Title = strings.TrimSpace(*params.Title)
	}
	if params.Author != nil {
		book.Author = strings.TrimSpace(*params.Author)
	}
	if params.ISBN != nil {
		if !model.ValidISBN(*params.ISBN) {
			return nil, errors.Wrap(ErrInvalidArgument, "isbn must be 10 or 13 digits")
		}
		book.ISBN = *params.ISBN
	}
	if params.Category != nil {
		if !params.Category.Valid() {
			return nil, errors.Wrap(ErrInvalidArgument, "unknown category")
		}
		book.Category = *params.Category
	}
	if params.PublicationYear != nil {
		book.PublicationYear = *params.PublicationYear
	}
	if params.TotalCopies != nil {
		if *params.TotalCopies < 1 {
			return nil, errors.Wrap(ErrInvalidArgument, "at least one copy is required")
		}
		book.TotalCopies = *params.TotalCopies
	}
	if params.AvailableCopies != nil {
		if *params.AvailableCopies < 0 {
			return nil, errors.Wrap(ErrInvalidArgument, "available copies cannot be negative")
		}
		book.AvailableCopies = *params.AvailableCopies
	}
	if params.CoverImage != nil {
		book.CoverImage = *params.CoverImage
	}
	if params.Description != nil {
		book.Description = *params.Description
	}
	book.UpdatedByID = params.UpdatedByID

	// BeforeSave clamps AvailableCopies to TotalCopies
	if err := s.db.Save(book).Error; err != nil {
		return nil, errors.Wrap(err, "failed to update book")
	}
	return book, nil
}

// Delete permanently removes a book
func (s *BookService) Delete(id int) error {
	book, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(book).Error; err != nil {
		return errors.Wrap(err, "failed to delete book")
	}
	return nil
}

// ReserveCopy takes one available copy of the book inside the given
// transaction handle. Fails when the book is absent or no copies are left.
func ReserveCopy(tx *gorm.DB, bookID int) (*model.Book, error) {
	var book model.Book
	if err := tx.First(&book, bookID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "book not found")
		}
		return nil, errors.Wrap(err, "failed to load book")
	}
	if book.AvailableCopies <= 0 {
		return nil, ErrNoCopiesAvailable
	}
	book.AvailableCopies--
	if err := tx.Save(&book).Error; err != nil {
		return nil, errors.Wrap(err, "failed to reserve copy")
	}
	return &book, nil
}

// ReleaseCopy puts one copy of the book back. The save hook clamps the count
// to TotalCopies, so a stray release can never exceed the total.
func ReleaseCopy(tx *gorm.DB, bookID int) (*model.Book, error) {
	var book model.Book
	if err := tx.First(&book, bookID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "book not found")
		}
		return nil, errors.Wrap(err, "failed to load book")
	}
	book.AvailableCopies++
	if err := tx.Save(&book).Error; err != nil {
		return nil, errors.Wrap(err, "failed to release copy")
	}
	return &book, nil
}

func sanitizeBookSort(sort string) string {
	switch sort {
	case "", "title":
		return "title ASC"
	case "-title":
		return "title DESC"
	case "author":
		return "author ASC"
	case "-author":
		return "author DESC"
	case "publication_year":
		return "publication_year ASC"
	case "-publication_year":
		return "publication_year DESC"
	case "created_at":
		return "created_at ASC"
	case "-created_at":
		return "created_at DESC"
	default:
		return "title ASC"
	}
}
