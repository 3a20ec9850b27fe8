package repository

import (
	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/pkg/logger"
	"gorm.io/gorm"
)

type SelectionListRepository interface {
	Create(list *model.SelectionList) error
	FindByUserID(userID uint) ([]model.SelectionList, error)
	FindByIDAndUserID(id, userID uint) (*model.SelectionList, error)
	Update(list *model.SelectionList) error
	FindItemByListAndISBN(listID uint, isbn string) (*model.SelectionItem, error)
	FindItemByIDAndListID(itemID, listID uint) (*model.SelectionItem, error)
}

type selectionListRepository struct {
	db *gorm.DB
}

func NewSelectionListRepository(db *gorm.DB) SelectionListRepository {
	return &selectionListRepository{db: db}
}

func (r *selectionListRepository) Create(list *model.SelectionList) error {
	logger.Debug("Creating selection list in database", map[string]interface{}{
		"user_id": list.UserID,
		"name":    list.Name,
	})

	if err := r.db.Create(list).Error; err != nil {
		logger.Error("Failed to create selection list", err, map[string]interface{}{
			"user_id": list.UserID,
		})
		return err
	}
	return nil
}

func (r *selectionListRepository) FindByUserID(userID uint) ([]model.SelectionList, error) {
	var lists []model.SelectionList
	err := r.db.Where("user_id = ?", userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("added_at ASC")
		}).
		Order("updated_at DESC").
		Find(&lists).Error
	if err != nil {
		logger.Error("Failed to list selection lists", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return lists, nil
}

// FindByIDAndUserID scopes lookup to the owning user; a foreign-owner ID
// behaves exactly like an unknown ID.
func (r *selectionListRepository) FindByIDAndUserID(id, userID uint) (*model.SelectionList, error) {
	var list model.SelectionList
	err := r.db.Where("id = ? AND user_id = ?", id, userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("added_at ASC")
		}).
		First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *selectionListRepository) Update(list *model.SelectionList) error {
	if err := r.db.Save(list).Error; err != nil {
		logger.Error("Failed to update selection list", err, map[string]interface{}{
			"list_id": list.ID,
		})
		return err
	}
	return nil
}

func (r *selectionListRepository) FindItemByListAndISBN(listID uint, isbn string) (*model.SelectionItem, error) {
	var item model.SelectionItem
	err := r.db.Where("list_id = ? AND isbn = ?", listID, isbn).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *selectionListRepository) FindItemByIDAndListID(itemID, listID uint) (*model.SelectionItem, error) {
	var item model.SelectionItem
	err := r.db.Where("id = ? AND list_id = ?", itemID, listID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
