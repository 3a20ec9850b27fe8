package repository

import (
	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/pkg/logger"
	"gorm.io/gorm"
)

type WishlistRepository interface {
	Create(item *model.WishlistItem) error
	FindByCustomerID(customerID uint) ([]model.WishlistItem, error)
	FindByCustomerAndISBN(customerID uint, isbn string) (*model.WishlistItem, error)
	Delete(id, customerID uint) error
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Create(item *model.WishlistItem) error {
	logger.Debug("Creating wishlist item in database", map[string]interface{}{
		"customer_id": item.CustomerID,
		"isbn":        item.ISBN,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create wishlist item", err, map[string]interface{}{
			"customer_id": item.CustomerID,
			"isbn":        item.ISBN,
		})
		return err
	}
	return nil
}

func (r *wishlistRepository) FindByCustomerID(customerID uint) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	err := r.db.Where("customer_id = ?", customerID).
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to list wishlist items", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	return items, nil
}

func (r *wishlistRepository) FindByCustomerAndISBN(customerID uint, isbn string) (*model.WishlistItem, error) {
	var item model.WishlistItem
	err := r.db.Where("customer_id = ? AND isbn = ?", customerID, isbn).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *wishlistRepository) Delete(id, customerID uint) error {
	result := r.db.Where("id = ? AND customer_id = ?", id, customerID).
		Delete(&model.WishlistItem{})
	if result.Error != nil {
		logger.Error("Failed to delete wishlist item", result.Error, map[string]interface{}{
			"wishlist_item_id": id,
			"customer_id":      customerID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
