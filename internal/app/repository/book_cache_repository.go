package repository

import (
	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookFilter narrows title-path cache searches.
type BookFilter struct {
	TargetAudience string
	Genre          string
	PriceMin       *float64
	PriceMax       *float64
}

type BookCacheRepository interface {
	FindByISBN(isbn string) (*model.BookCache, error)
	SaveIfAbsent(book *model.BookCache) error
	SearchByText(query string, filter BookFilter, limit int) ([]model.BookCache, error)
	BulkCreate(books []model.BookCache, batchSize int) error
}

type bookCacheRepository struct {
	db *gorm.DB
}

func NewBookCacheRepository(db *gorm.DB) BookCacheRepository {
	return &bookCacheRepository{db: db}
}

func (r *bookCacheRepository) FindByISBN(isbn string) (*model.BookCache, error) {
	var book model.BookCache
	if err := r.db.Where("isbn = ?", isbn).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// SaveIfAbsent inserts a cache row unless one with the same ISBN already
// exists. Concurrent inserts of the same ISBN resolve via the unique
// constraint: the losing writer sees "already cached", not an error.
func (r *bookCacheRepository) SaveIfAbsent(book *model.BookCache) error {
	logger.Debug("Caching book metadata", map[string]interface{}{
		"isbn":  book.ISBN,
		"title": book.Title,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "isbn"}},
		DoNothing: true,
	}).Create(book).Error
	if err != nil {
		logger.Error("Failed to cache book metadata", err, map[string]interface{}{
			"isbn": book.ISBN,
		})
		return err
	}
	return nil
}

// BulkCreate inserts catalog rows in batches. Rows whose ISBN is already
// cached are skipped.
func (r *bookCacheRepository) BulkCreate(books []model.BookCache, batchSize int) error {
	logger.Info("Bulk inserting book cache rows", map[string]interface{}{
		"count":      len(books),
		"batch_size": batchSize,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "isbn"}},
		DoNothing: true,
	}).CreateInBatches(books, batchSize).Error
	if err != nil {
		logger.Error("Failed to bulk insert book cache rows", err, nil)
		return err
	}
	return nil
}

// SearchByText scans the cache for substring matches against title, author
// or publisher, optionally narrowed by filter predicates.
func (r *bookCacheRepository) SearchByText(query string, filter BookFilter, limit int) ([]model.BookCache, error) {
	pattern := "%" + query + "%"

	tx := r.db.Where(
		"title LIKE ? OR author LIKE ? OR publisher LIKE ?",
		pattern, pattern, pattern,
	)

	if filter.TargetAudience != "" {
		tx = tx.Where("target_audience = ?", filter.TargetAudience)
	}
	if filter.Genre != "" {
		tx = tx.Where("genre = ?", filter.Genre)
	}
	if filter.PriceMin != nil {
		tx = tx.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		tx = tx.Where("price <= ?", *filter.PriceMax)
	}

	var books []model.BookCache
	if err := tx.Limit(limit).Find(&books).Error; err != nil {
		logger.Error("Failed to search book cache", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}
	return books, nil
}
