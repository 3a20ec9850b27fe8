package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/internal/db"
	"github.com/ktakagi/sensho-backend/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeCatalog substitutes the external volumes API in tests.
type fakeCatalog struct {
	isbnResults  map[string][]catalog.Book
	titleResults []catalog.Book
	err          error
	isbnCalls    int
	titleCalls   int
}

func (f *fakeCatalog) SearchByISBN(ctx context.Context, isbn string) ([]catalog.Book, error) {
	f.isbnCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.isbnResults[isbn], nil
}

func (f *fakeCatalog) SearchByTitle(ctx context.Context, query string) ([]catalog.Book, error) {
	f.titleCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.titleResults, nil
}

func setupBookServiceTest(t *testing.T) (BookService, *fakeCatalog, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	fake := &fakeCatalog{isbnResults: map[string][]catalog.Book{}}
	cacheRepo := repository.NewBookCacheRepository(testDB)
	bookService := NewBookService(cacheRepo, fake)

	return bookService, fake, testDB
}

func cachedBook(testDB *gorm.DB, isbn, title string, price *float64) model.BookCache {
	book := model.BookCache{
		ISBN:        isbn,
		Title:       title,
		Author:      "テスト著者",
		Publisher:   "テスト出版",
		Price:       price,
		VolumeCount: 1,
	}
	testDB.Create(&book)
	return book
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
		isISBN   bool
	}{
		{"13 digits", "9784055012345", "9784055012345", true},
		{"10 digits", "4055012349", "4055012349", true},
		{"hyphenated 13 digits", "978-4-05-501234-5", "9784055012345", true},
		{"10 digits of zeros", "0000000000", "0000000000", true},
		{"11 digits", "12345678901", "", false},
		{"contains letters", "97840550123AB", "", false},
		{"free text", "昆虫の図鑑", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isbn, ok := NormalizeISBN(tt.query)
			assert.Equal(t, tt.isISBN, ok)
			assert.Equal(t, tt.expected, isbn)
		})
	}
}

func TestBookService_Search_ISBNCacheHit(t *testing.T) {
	bookService, fake, testDB := setupBookServiceTest(t)

	price := 1500.0
	cachedBook(testDB, "9784055012345", "キャッシュ済みの本", &price)

	books, err := bookService.Search(context.Background(), "978-4-05-501234-5", repository.BookFilter{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "キャッシュ済みの本", books[0].Title)

	// A cache hit must not touch the external catalog.
	assert.Equal(t, 0, fake.isbnCalls)
}

func TestBookService_Search_ISBNCacheMissPopulatesCache(t *testing.T) {
	bookService, fake, testDB := setupBookServiceTest(t)

	fake.isbnResults["9784055012345"] = []catalog.Book{
		{ISBN: "9784055012345", Title: "外部の本", Author: "著者A", Publisher: "出版社A"},
	}

	books, err := bookService.Search(context.Background(), "9784055012345", repository.BookFilter{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "外部の本", books[0].Title)
	assert.Equal(t, 1, fake.isbnCalls)

	// The external result is now cached.
	var row model.BookCache
	err = testDB.Where("isbn = ?", "9784055012345").First(&row).Error
	require.NoError(t, err)
	assert.Equal(t, "外部の本", row.Title)

	// The second search is served from the cache.
	books, err = bookService.Search(context.Background(), "9784055012345", repository.BookFilter{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 1, fake.isbnCalls)
}

func TestBookService_Search_ISBNNotFoundAnywhere(t *testing.T) {
	bookService, _, _ := setupBookServiceTest(t)

	books, err := bookService.Search(context.Background(), "9784055099999", repository.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, books, 0)
}

func TestBookService_Search_ExternalFailureDegradesToEmpty(t *testing.T) {
	bookService, fake, _ := setupBookServiceTest(t)

	fake.err = errors.New("connection refused")

	books, err := bookService.Search(context.Background(), "9784055012345", repository.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, books, 0)
}

func TestBookService_Search_TitleSatisfiedFromCache(t *testing.T) {
	bookService, fake, testDB := setupBookServiceTest(t)

	for i := 0; i < 5; i++ {
		cachedBook(testDB, "978405501234"+string(rune('0'+i)), "こども図鑑", nil)
	}

	books, err := bookService.Search(context.Background(), "図鑑", repository.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, books, 5)
	assert.Equal(t, 0, fake.titleCalls)
}

func TestBookService_Search_TitleSupplementedExternally(t *testing.T) {
	bookService, fake, testDB := setupBookServiceTest(t)

	cachedBook(testDB, "9784055012340", "小さな図鑑", nil)
	fake.titleResults = []catalog.Book{
		{ISBN: "9784055099990", Title: "大きな図鑑", Author: "著者B", Publisher: "出版社B"},
		{ISBN: "9784055099991", Title: "海の図鑑", Author: "著者C", Publisher: "出版社C"},
	}

	books, err := bookService.Search(context.Background(), "図鑑", repository.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, books, 3)
	assert.Equal(t, 1, fake.titleCalls)

	// Supplemented ISBNs were cached opportunistically.
	var count int64
	testDB.Model(&model.BookCache{}).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestBookService_Search_AllDigitNonISBNLengthIsTitleQuery(t *testing.T) {
	bookService, fake, _ := setupBookServiceTest(t)

	// 11 digits is not a valid ISBN length, so this runs the title path.
	_, err := bookService.Search(context.Background(), "12345678901", repository.BookFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, fake.isbnCalls)
	assert.Equal(t, 1, fake.titleCalls)
}

func TestBookService_Search_TitleFilters(t *testing.T) {
	bookService, fake, testDB := setupBookServiceTest(t)

	low := 800.0
	high := 3000.0
	book1 := model.BookCache{ISBN: "9784055012341", Title: "科学図鑑", Genre: "科学", TargetAudience: "小学校低学年", Price: &low}
	book2 := model.BookCache{ISBN: "9784055012342", Title: "歴史図鑑", Genre: "歴史", TargetAudience: "小学校高学年", Price: &high}
	testDB.Create(&book1)
	testDB.Create(&book2)

	// Keep the external supplement quiet so only filter behavior shows.
	fake.titleResults = nil

	genre := repository.BookFilter{Genre: "科学"}
	books, err := bookService.Search(context.Background(), "図鑑", genre)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "科学図鑑", books[0].Title)

	max := 1000.0
	priceFilter := repository.BookFilter{PriceMax: &max}
	books, err = bookService.Search(context.Background(), "図鑑", priceFilter)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "科学図鑑", books[0].Title)
}

func TestBookService_GetByISBN(t *testing.T) {
	bookService, _, testDB := setupBookServiceTest(t)

	cachedBook(testDB, "9784055012345", "単品取得の本", nil)

	book, err := bookService.GetByISBN(context.Background(), "9784055012345")
	require.NoError(t, err)
	assert.Equal(t, "単品取得の本", book.Title)

	_, err = bookService.GetByISBN(context.Background(), "9784055099999")
	assert.ErrorIs(t, err, ErrBookNotFound)

	// Free text is not an ISBN.
	_, err = bookService.GetByISBN(context.Background(), "図鑑")
	assert.ErrorIs(t, err, ErrBookNotFound)
}
