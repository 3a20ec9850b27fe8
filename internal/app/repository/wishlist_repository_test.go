package repository

import (
	"testing"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWishlistRepoTest(t *testing.T) (WishlistRepository, *model.Customer, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := NewWishlistRepository(testDB)

	customer := &model.Customer{Name: "山田 花子", Email: "hanako@example.com"}
	testDB.Create(customer)

	return repo, customer, testDB
}

func TestWishlistRepository_CreateAndFind(t *testing.T) {
	repo, customer, _ := setupWishlistRepoTest(t)

	item := &model.WishlistItem{CustomerID: customer.ID, ISBN: "9784055012345", Title: "ほしい本"}
	require.NoError(t, repo.Create(item))

	items, err := repo.FindByCustomerID(customer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ほしい本", items[0].Title)

	found, err := repo.FindByCustomerAndISBN(customer.ID, "9784055012345")
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)

	_, err = repo.FindByCustomerAndISBN(customer.ID, "9784055099999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWishlistRepository_DuplicateViolatesUniqueIndex(t *testing.T) {
	repo, customer, _ := setupWishlistRepoTest(t)

	require.NoError(t, repo.Create(&model.WishlistItem{CustomerID: customer.ID, ISBN: "9784055012345", Title: "本"}))
	err := repo.Create(&model.WishlistItem{CustomerID: customer.ID, ISBN: "9784055012345", Title: "本"})
	assert.Error(t, err)
}

func TestWishlistRepository_Delete(t *testing.T) {
	repo, customer, testDB := setupWishlistRepoTest(t)

	other := &model.Customer{Name: "佐藤 一郎", Email: "ichiro@example.com"}
	testDB.Create(other)

	item := &model.WishlistItem{CustomerID: customer.ID, ISBN: "9784055012345", Title: "本"}
	require.NoError(t, repo.Create(item))

	// Another customer cannot delete it.
	err := repo.Delete(item.ID, other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(item.ID, customer.ID))

	err = repo.Delete(item.ID, customer.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
