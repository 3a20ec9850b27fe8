package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/pkg/catalog"
	"github.com/ktakagi/sensho-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBookNotFound = errors.New("book not found")
)

const (
	// maxSearchResults caps how many cache rows a title search returns.
	maxSearchResults = 20
	// cacheHitThreshold is the minimum number of cache hits below which a
	// title search is supplemented by the external catalog.
	cacheHitThreshold = 5
)

// CatalogClient is the external lookup surface of pkg/catalog, narrowed so
// tests can substitute a fake.
type CatalogClient interface {
	SearchByISBN(ctx context.Context, isbn string) ([]catalog.Book, error)
	SearchByTitle(ctx context.Context, query string) ([]catalog.Book, error)
}

type BookService interface {
	Search(ctx context.Context, query string, filter repository.BookFilter) ([]model.BookCache, error)
	GetByISBN(ctx context.Context, isbn string) (*model.BookCache, error)
}

type bookService struct {
	cacheRepo repository.BookCacheRepository
	catalog   CatalogClient
}

func NewBookService(cacheRepo repository.BookCacheRepository, catalogClient CatalogClient) BookService {
	return &bookService{
		cacheRepo: cacheRepo,
		catalog:   catalogClient,
	}
}

// NormalizeISBN strips hyphens from the query and reports whether the result
// is an ISBN: all digits, exactly 10 or 13 characters. Anything else is a
// title/keyword query.
func NormalizeISBN(query string) (string, bool) {
	stripped := strings.ReplaceAll(strings.TrimSpace(query), "-", "")
	if len(stripped) != 10 && len(stripped) != 13 {
		return "", false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return stripped, true
}

// Search resolves a free-text query or ISBN to book records, cache first.
func (s *bookService) Search(ctx context.Context, query string, filter repository.BookFilter) ([]model.BookCache, error) {
	query = strings.TrimSpace(query)

	if isbn, ok := NormalizeISBN(query); ok {
		logger.Debug("Query classified as ISBN", map[string]interface{}{
			"query": query,
			"isbn":  isbn,
		})

		book, err := s.lookupISBN(ctx, isbn)
		if err != nil {
			if errors.Is(err, ErrBookNotFound) {
				return []model.BookCache{}, nil
			}
			return nil, err
		}
		return []model.BookCache{*book}, nil
	}

	return s.searchByTitle(ctx, query, filter)
}

// GetByISBN returns a single book record, cache first with external
// fallback, or ErrBookNotFound.
func (s *bookService) GetByISBN(ctx context.Context, isbn string) (*model.BookCache, error) {
	normalized, ok := NormalizeISBN(isbn)
	if !ok {
		return nil, ErrBookNotFound
	}
	return s.lookupISBN(ctx, normalized)
}

// lookupISBN implements the ISBN path: exact cache hit wins outright; a miss
// falls through to the external catalog and writes the result back.
func (s *bookService) lookupISBN(ctx context.Context, isbn string) (*model.BookCache, error) {
	cached, err := s.cacheRepo.FindByISBN(isbn)
	if err == nil {
		logger.Debug("Book cache hit", map[string]interface{}{
			"isbn": isbn,
		})
		return cached, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	results, err := s.externalSearchByISBN(ctx, isbn)
	if err != nil || len(results) == 0 {
		return nil, ErrBookNotFound
	}

	record := cacheRecordFromCatalog(results[0])
	if record.ISBN == "" {
		// Some volumes come back without identifiers; key them by the
		// ISBN the caller searched for.
		record.ISBN = isbn
	}

	if err := s.cacheRepo.SaveIfAbsent(record); err != nil {
		// The lookup already succeeded; a cache write failure only costs
		// the next request an external call.
		logger.Warn("Failed to write book cache entry", map[string]interface{}{
			"isbn":  record.ISBN,
			"error": err.Error(),
		})
	}

	return record, nil
}

// searchByTitle implements the title path: cache substring scan, then an
// external supplement when the cache comes up short.
func (s *bookService) searchByTitle(ctx context.Context, query string, filter repository.BookFilter) ([]model.BookCache, error) {
	hits, err := s.cacheRepo.SearchByText(query, filter, maxSearchResults)
	if err != nil {
		return nil, err
	}

	if len(hits) >= cacheHitThreshold {
		logger.Debug("Title search satisfied from cache", map[string]interface{}{
			"query": query,
			"hits":  len(hits),
		})
		return hits, nil
	}

	external, err := s.externalSearchByTitle(ctx, query)
	if err != nil {
		return hits, nil
	}

	// External results are appended as-is, not deduplicated against cache
	// hits; every newly seen ISBN is cached opportunistically.
	for _, book := range external {
		record := cacheRecordFromCatalog(book)
		if record.ISBN != "" {
			if err := s.cacheRepo.SaveIfAbsent(record); err != nil {
				logger.Warn("Failed to write book cache entry", map[string]interface{}{
					"isbn":  record.ISBN,
					"error": err.Error(),
				})
			}
		}
		hits = append(hits, *record)
	}

	return hits, nil
}

// externalSearchByISBN queries the catalog, degrading any failure to an
// empty result set. Transport errors never reach the caller.
func (s *bookService) externalSearchByISBN(ctx context.Context, isbn string) ([]catalog.Book, error) {
	results, err := s.catalog.SearchByISBN(ctx, isbn)
	if err != nil {
		logger.Warn("External catalog lookup failed, degrading to empty result", map[string]interface{}{
			"isbn":  isbn,
			"error": err.Error(),
		})
		return nil, err
	}
	return results, nil
}

func (s *bookService) externalSearchByTitle(ctx context.Context, query string) ([]catalog.Book, error) {
	results, err := s.catalog.SearchByTitle(ctx, query)
	if err != nil {
		logger.Warn("External catalog search failed, degrading to cache hits only", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return nil, err
	}
	return results, nil
}

func cacheRecordFromCatalog(book catalog.Book) *model.BookCache {
	return &model.BookCache{
		ISBN:          book.ISBN,
		Title:         book.Title,
		Author:        book.Author,
		Publisher:     book.Publisher,
		PublishedDate: book.PublishedDate,
		Thumbnail:     book.Thumbnail,
		Description:   book.Description,
		VolumeCount:   1,
	}
}
