package service

import (
	"errors"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	apperrors "github.com/ktakagi/sensho-backend/internal/errors"
	"github.com/ktakagi/sensho-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWishlistDuplicate    = errors.New("book already in wishlist")
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
	ErrWishlistTitleMissing = errors.New("wishlist item requires isbn and title")
)

type WishlistItemInput struct {
	ISBN      string
	Title     string
	Author    string
	Publisher string
	Thumbnail string
}

type WishlistService interface {
	GetCustomerWishlist(customerID uint) ([]model.WishlistItem, error)
	AddItem(customerID uint, input WishlistItemInput) (*model.WishlistItem, error)
	RemoveItem(customerID, itemID uint) error
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	customerRepo repository.CustomerRepository
}

func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	customerRepo repository.CustomerRepository,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		customerRepo: customerRepo,
	}
}

func (s *wishlistService) GetCustomerWishlist(customerID uint) ([]model.WishlistItem, error) {
	if _, err := s.customerRepo.FindByID(customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return s.wishlistRepo.FindByCustomerID(customerID)
}

func (s *wishlistService) AddItem(customerID uint, input WishlistItemInput) (*model.WishlistItem, error) {
	if input.ISBN == "" || input.Title == "" {
		return nil, ErrWishlistTitleMissing
	}

	if _, err := s.customerRepo.FindByID(customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	_, err := s.wishlistRepo.FindByCustomerAndISBN(customerID, input.ISBN)
	if err == nil {
		return nil, ErrWishlistDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &model.WishlistItem{
		CustomerID: customerID,
		ISBN:       input.ISBN,
		Title:      input.Title,
		Author:     input.Author,
		Publisher:  input.Publisher,
		Thumbnail:  input.Thumbnail,
	}
	if err := s.wishlistRepo.Create(item); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrWishlistDuplicate
		}
		logger.Error("Failed to add wishlist item", err, map[string]interface{}{
			"customer_id": customerID,
			"isbn":        input.ISBN,
		})
		return nil, err
	}

	logger.Info("Wishlist item added", map[string]interface{}{
		"customer_id": customerID,
		"item_id":     item.ID,
	})
	return item, nil
}

func (s *wishlistService) RemoveItem(customerID, itemID uint) error {
	if err := s.wishlistRepo.Delete(itemID, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWishlistItemNotFound
		}
		return err
	}

	logger.Info("Wishlist item removed", map[string]interface{}{
		"customer_id": customerID,
		"item_id":     itemID,
	})
	return nil
}
