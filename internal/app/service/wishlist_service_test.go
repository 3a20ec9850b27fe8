package service

import (
	"testing"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWishlistServiceTest(t *testing.T) (WishlistService, *model.Customer) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	customer := &model.Customer{Name: "山田 花子", Email: "hanako@example.com"}
	require.NoError(t, testDB.Create(customer).Error)

	wishlistRepo := repository.NewWishlistRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	return NewWishlistService(wishlistRepo, customerRepo), customer
}

func TestWishlistService_AddItem(t *testing.T) {
	svc, customer := setupWishlistServiceTest(t)

	item, err := svc.AddItem(customer.ID, WishlistItemInput{
		ISBN:      "9784055012345",
		Title:     "ほしい本",
		Author:    "著者A",
		Publisher: "出版社A",
		Thumbnail: "https://books.example.com/covers/9784055012345.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, item.CustomerID)
	assert.Equal(t, "ほしい本", item.Title)
	assert.Equal(t, "著者A", item.Author)
	assert.Equal(t, "出版社A", item.Publisher)
	assert.Equal(t, "https://books.example.com/covers/9784055012345.jpg", item.Thumbnail)

	t.Run("duplicate ISBN rejected", func(t *testing.T) {
		_, err := svc.AddItem(customer.ID, WishlistItemInput{
			ISBN:  "9784055012345",
			Title: "ほしい本",
		})
		assert.ErrorIs(t, err, ErrWishlistDuplicate)
	})

	t.Run("title required", func(t *testing.T) {
		_, err := svc.AddItem(customer.ID, WishlistItemInput{ISBN: "9784055099999"})
		assert.ErrorIs(t, err, ErrWishlistTitleMissing)
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := svc.AddItem(9999, WishlistItemInput{
			ISBN:  "9784055012346",
			Title: "誰の本でもない",
		})
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestWishlistService_GetCustomerWishlist(t *testing.T) {
	svc, customer := setupWishlistServiceTest(t)

	_, err := svc.AddItem(customer.ID, WishlistItemInput{ISBN: "9784055012345", Title: "一冊目"})
	require.NoError(t, err)
	_, err = svc.AddItem(customer.ID, WishlistItemInput{ISBN: "9784055012346", Title: "二冊目"})
	require.NoError(t, err)

	items, err := svc.GetCustomerWishlist(customer.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = svc.GetCustomerWishlist(9999)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestWishlistService_RemoveItem(t *testing.T) {
	svc, customer := setupWishlistServiceTest(t)

	item, err := svc.AddItem(customer.ID, WishlistItemInput{ISBN: "9784055012345", Title: "消す本"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(customer.ID, item.ID))

	err = svc.RemoveItem(customer.ID, item.ID)
	assert.ErrorIs(t, err, ErrWishlistItemNotFound)
}
