package books

import (
	"strconv"

	"go_library/api/v1/middleware"
	"go_library/api/v1/respond"
	"go_library/internal/httpx"
	"go_library/internal/model"
	"go_library/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles book inventory endpoints
type Handler struct {
	svc *service.BookService
}

// NewHandler creates a new books handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{svc: service.NewBookService(db)}
}

// CreateRequest represents the create book request body
type CreateRequest struct {
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"`
	ISBN            string `json:"isbn" binding:"required"`
	Category        string `json:"category"`
	PublicationYear int    `json:"publicationYear" binding:"required"`
	TotalCopies     int    `json:"totalCopies" binding:"required"`
	AvailableCopies *int   `json:"availableCopies"`
	CoverImage      string `json:"coverImage"`
	Description     string `json:"description"`
}

// UpdateRequest represents the partial update request body. Only the
// allow-listed fields below ever reach the record.
type UpdateRequest struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	ISBN            *string `json:"isbn"`
	Category        *string `json:"category"`
	PublicationYear *int    `json:"publicationYear"`
	TotalCopies     *int    `json:"totalCopies"`
	AvailableCopies *int    `json:"availableCopies"`
	CoverImage      *string `json:"coverImage"`
	Description     *string `json:"description"`
}

// List returns books with search, filters and pagination
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	params := service.ListBooksParams{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     page,
		PageSize: pageSize,
		Sort:     c.Query("sort"),
	}
	if available := c.Query("available"); available != "" {
		v := available == "true"
		params.Available = &v
	}

	items, total, err := h.svc.List(params)
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OKItems(c, items, total, page, pageSize)
}

// Get returns a single book
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid book id"))
		return
	}

	book, err := h.svc.Get(id)
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, book)
}

// Create adds a new book (admin/librarian)
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	book, err := h.svc.Create(service.CreateBookParams{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Category:        model.Category(req.Category),
		PublicationYear: req.PublicationYear,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.AvailableCopies,
		CoverImage:      req.CoverImage,
		Description:     req.Description,
		AddedByID:       middleware.CallerID(c),
	})
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.Created(c, book)
}

// Update applies an allow-listed partial update (admin/librarian)
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid book id"))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	params := service.UpdateBookParams{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.AvailableCopies,
		CoverImage:      req.CoverImage,
		Description:     req.Description,
		UpdatedByID:     middleware.CallerID(c),
	}
	if req.Category != nil {
		category := model.Category(*req.Category)
		params.Category = &category
	}

	book, err := h.svc.Update(id, params)
	if err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OK(c, book)
}

// Delete permanently removes a book (admin)
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid book id"))
		return
	}

	if err := h.svc.Delete(id); err != nil {
		respond.Err(c, err)
		return
	}
	httpx.OKMsg(c, "book removed successfully", nil)
}
