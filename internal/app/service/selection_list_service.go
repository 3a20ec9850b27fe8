package service

import (
	"errors"
	"time"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	apperrors "github.com/ktakagi/sensho-backend/internal/errors"
	"github.com/ktakagi/sensho-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrListNotFound     = errors.New("selection list not found")
	ErrListItemNotFound = errors.New("selection list item not found")
	ErrDuplicateItem    = errors.New("book already in selection list")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrListNameRequired = errors.New("list name is required")
	ErrItemTitleMissing = errors.New("item requires isbn and title")
)

type SelectionItemInput struct {
	ISBN        string
	Title       string
	Author      string
	Publisher   string
	Price       *float64
	VolumeCount int
	IsSetOnly   bool
	Thumbnail   string
	Quantity    int
}

// OrderSummary is the machine-readable pre-checkout rendition of a list:
// metadata, purchaser, aggregates and the full item collection.
type OrderSummary struct {
	ListID        uint                  `json:"list_id"`
	ListName      string                `json:"list_name"`
	Description   string                `json:"description"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Purchaser     OrderSummaryPurchaser `json:"purchaser"`
	ItemCount     int                   `json:"items_count"`
	TotalQuantity int                   `json:"total_quantity"`
	TotalAmount   float64               `json:"total_amount"`
	Items         []model.SelectionItem `json:"items"`
}

type OrderSummaryPurchaser struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

type SelectionListService interface {
	CreateList(userID uint, name, description string) (*model.SelectionList, error)
	GetUserLists(userID uint) ([]model.SelectionList, error)
	GetList(userID, listID uint) (*model.SelectionList, error)
	UpdateList(userID, listID uint, name, description string) (*model.SelectionList, error)
	DeleteList(userID, listID uint) error
	AddItem(userID, listID uint, input SelectionItemInput) (*model.SelectionItem, error)
	UpdateItemQuantity(userID, listID, itemID uint, quantity int) (*model.SelectionItem, error)
	RemoveItem(userID, listID, itemID uint) error
	BuildOrderSummary(userID, listID uint) (*OrderSummary, error)
}

type selectionListService struct {
	listRepo repository.SelectionListRepository
	userRepo repository.UserRepository
	db       *gorm.DB
}

func NewSelectionListService(
	listRepo repository.SelectionListRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
) SelectionListService {
	return &selectionListService{
		listRepo: listRepo,
		userRepo: userRepo,
		db:       db,
	}
}

func (s *selectionListService) CreateList(userID uint, name, description string) (*model.SelectionList, error) {
	if name == "" {
		return nil, ErrListNameRequired
	}

	list := &model.SelectionList{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := s.listRepo.Create(list); err != nil {
		return nil, err
	}

	logger.Info("Selection list created", map[string]interface{}{
		"list_id": list.ID,
		"user_id": userID,
	})
	return list, nil
}

func (s *selectionListService) GetUserLists(userID uint) ([]model.SelectionList, error) {
	return s.listRepo.FindByUserID(userID)
}

func (s *selectionListService) GetList(userID, listID uint) (*model.SelectionList, error) {
	return s.findOwnedList(userID, listID)
}

func (s *selectionListService) UpdateList(userID, listID uint, name, description string) (*model.SelectionList, error) {
	list, err := s.findOwnedList(userID, listID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		list.Name = name
	}
	list.Description = description

	if err := s.listRepo.Update(list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteList removes the list and all of its items in one transaction.
func (s *selectionListService) DeleteList(userID, listID uint) error {
	list, err := s.findOwnedList(userID, listID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", list.ID).Delete(&model.SelectionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.SelectionList{}, list.ID).Error
	})
	if err != nil {
		logger.Error("Failed to delete selection list", err, map[string]interface{}{
			"list_id": listID,
		})
		return err
	}

	logger.Info("Selection list deleted", map[string]interface{}{
		"list_id": listID,
		"user_id": userID,
	})
	return nil
}

// AddItem appends a book to the list. A book already on the list is
// rejected, never merged into the existing row.
func (s *selectionListService) AddItem(userID, listID uint, input SelectionItemInput) (*model.SelectionItem, error) {
	if input.ISBN == "" || input.Title == "" {
		return nil, ErrItemTitleMissing
	}

	list, err := s.findOwnedList(userID, listID)
	if err != nil {
		return nil, err
	}

	_, err = s.listRepo.FindItemByListAndISBN(list.ID, input.ISBN)
	if err == nil {
		logger.Warn("Duplicate selection item rejected", map[string]interface{}{
			"list_id": list.ID,
			"isbn":    input.ISBN,
		})
		return nil, ErrDuplicateItem
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	volumeCount := input.VolumeCount
	if volumeCount <= 0 {
		volumeCount = 1
	}

	item := &model.SelectionItem{
		ListID:      list.ID,
		ISBN:        input.ISBN,
		Title:       input.Title,
		Author:      input.Author,
		Publisher:   input.Publisher,
		Price:       input.Price,
		VolumeCount: volumeCount,
		IsSetOnly:   input.IsSetOnly,
		Thumbnail:   input.Thumbnail,
		Quantity:    quantity,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return s.touchList(tx, list.ID)
	})
	if err != nil {
		// The pre-check races with concurrent adds; the unique index on
		// (list_id, isbn) is the authority, so its violation is the same
		// duplicate as the sequential path.
		if apperrors.IsUniqueViolation(err) {
			logger.Warn("Duplicate selection item rejected", map[string]interface{}{
				"list_id": list.ID,
				"isbn":    input.ISBN,
			})
			return nil, ErrDuplicateItem
		}
		logger.Error("Failed to add selection item", err, map[string]interface{}{
			"list_id": list.ID,
			"isbn":    input.ISBN,
		})
		return nil, err
	}

	logger.Info("Selection item added", map[string]interface{}{
		"list_id": list.ID,
		"item_id": item.ID,
		"isbn":    item.ISBN,
	})
	return item, nil
}

func (s *selectionListService) UpdateItemQuantity(userID, listID, itemID uint, quantity int) (*model.SelectionItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	list, err := s.findOwnedList(userID, listID)
	if err != nil {
		return nil, err
	}

	item, err := s.listRepo.FindItemByIDAndListID(itemID, list.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListItemNotFound
		}
		return nil, err
	}

	item.Quantity = quantity
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return s.touchList(tx, list.ID)
	})
	if err != nil {
		logger.Error("Failed to update selection item quantity", err, map[string]interface{}{
			"item_id": itemID,
		})
		return nil, err
	}

	return item, nil
}

func (s *selectionListService) RemoveItem(userID, listID, itemID uint) error {
	list, err := s.findOwnedList(userID, listID)
	if err != nil {
		return err
	}

	item, err := s.listRepo.FindItemByIDAndListID(itemID, list.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListItemNotFound
		}
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.SelectionItem{}, item.ID).Error; err != nil {
			return err
		}
		return s.touchList(tx, list.ID)
	})
	if err != nil {
		logger.Error("Failed to remove selection item", err, map[string]interface{}{
			"item_id": itemID,
		})
		return err
	}

	logger.Info("Selection item removed", map[string]interface{}{
		"list_id": list.ID,
		"item_id": itemID,
	})
	return nil
}

func (s *selectionListService) BuildOrderSummary(userID, listID uint) (*OrderSummary, error) {
	list, err := s.findOwnedList(userID, listID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	agg := list.Aggregate()
	return &OrderSummary{
		ListID:      list.ID,
		ListName:    list.Name,
		Description: list.Description,
		CreatedAt:   list.CreatedAt,
		UpdatedAt:   list.UpdatedAt,
		Purchaser: OrderSummaryPurchaser{
			Name:         user.FullName,
			Organization: user.Organization,
			Email:        user.Email,
			Phone:        user.Phone,
		},
		ItemCount:     agg.ItemCount,
		TotalQuantity: agg.TotalQuantity,
		TotalAmount:   agg.TotalAmount,
		Items:         list.Items,
	}, nil
}

func (s *selectionListService) findOwnedList(userID, listID uint) (*model.SelectionList, error) {
	list, err := s.listRepo.FindByIDAndUserID(listID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return list, nil
}

// touchList bumps updated_at so item mutations surface on the parent list.
func (s *selectionListService) touchList(tx *gorm.DB, listID uint) error {
	return tx.Model(&model.SelectionList{}).
		Where("id = ?", listID).
		Update("updated_at", time.Now()).Error
}
