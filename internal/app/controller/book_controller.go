package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/internal/app/service"
	apperrors "github.com/ktakagi/sensho-backend/internal/errors"
	"github.com/ktakagi/sensho-backend/internal/middleware"
)

type BookController struct {
	bookService service.BookService
}

func NewBookController(bookService service.BookService) *BookController {
	return &BookController{
		bookService: bookService,
	}
}

type BookSearchRequest struct {
	Query          string   `json:"query" binding:"required"`
	TargetAudience string   `json:"target_audience"`
	Genre          string   `json:"genre"`
	PriceMin       *float64 `json:"price_min"`
	PriceMax       *float64 `json:"price_max"`
}

// Search looks up books by ISBN or free text, cache first
// POST /api/books/search
func (ctrl *BookController) Search(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req BookSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid book search request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "検索キーワードを指定してください")
		return
	}

	filter := repository.BookFilter{
		TargetAudience: req.TargetAudience,
		Genre:          req.Genre,
		PriceMin:       req.PriceMin,
		PriceMax:       req.PriceMax,
	}

	books, err := ctrl.bookService.Search(c.Request.Context(), req.Query, filter)
	if err != nil {
		log.Error("Book search failed", err, map[string]interface{}{
			"query": req.Query,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search books")
		return
	}

	log.Info("Book search completed", map[string]interface{}{
		"query": req.Query,
		"count": len(books),
	})

	c.JSON(http.StatusOK, gin.H{
		"books": books,
		"count": len(books),
	})
}

// GetByISBN returns a single book by ISBN
// GET /api/books/:isbn
func (ctrl *BookController) GetByISBN(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	isbn := c.Param("isbn")
	book, err := ctrl.bookService.GetByISBN(c.Request.Context(), isbn)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			log.Debug("Book not found", map[string]interface{}{
				"isbn": isbn,
			})
			apperrors.NotFound(c, apperrors.BookNotFound, "該当する書籍が見つかりません")
			return
		}
		log.Error("Failed to get book", err, map[string]interface{}{
			"isbn": isbn,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get book")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"book": book,
	})
}
