package service

import (
	"errors"
	"fmt"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrOrderNoItems   = errors.New("order has no items")
	ErrOrderNoTitle   = errors.New("order item requires a title")
	ErrCustomerNoName = errors.New("customer name is required")
)

type OrderCustomerInput struct {
	Name         string
	Email        string
	Phone        string
	Organization string
}

type OrderItemInput struct {
	ISBN      string
	Title     string
	Author    string
	Publisher string
	Quantity  int
	Price     *float64
	Thumbnail string
}

type OrderService interface {
	CreateOrder(customer OrderCustomerInput, items []OrderItemInput, notes string) (*model.Order, error)
	GetOrders() ([]model.Order, error)
	GetOrderByID(orderID uint) (*model.Order, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	db           *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		db:           db,
	}
}

// CreateOrder finds-or-creates the customer by (name, email), then persists
// the order and its items in one transaction. total_items is a snapshot
// taken here and never recomputed.
func (s *orderService) CreateOrder(customer OrderCustomerInput, items []OrderItemInput, notes string) (*model.Order, error) {
	if customer.Name == "" {
		return nil, ErrCustomerNoName
	}
	if len(items) == 0 {
		return nil, ErrOrderNoItems
	}
	for _, item := range items {
		if item.Title == "" {
			return nil, ErrOrderNoTitle
		}
	}

	logger.Info("Creating order", map[string]interface{}{
		"customer_name": customer.Name,
		"item_count":    len(items),
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"customer_name": customer.Name,
			})
		}
	}()

	var cust model.Customer
	err := tx.Where("name = ? AND email = ?", customer.Name, customer.Email).
		First(&cust).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return nil, err
		}
		cust = model.Customer{
			Name:         customer.Name,
			Email:        customer.Email,
			Phone:        customer.Phone,
			Organization: customer.Organization,
		}
		if err := tx.Create(&cust).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to create customer during order creation", err, map[string]interface{}{
				"customer_name": customer.Name,
			})
			return nil, err
		}
	}

	order := &model.Order{
		CustomerID: cust.ID,
		Status:     model.OrderStatusPending,
		TotalItems: len(items),
		Notes:      notes,
	}
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"customer_id": cust.ID,
		})
		return nil, err
	}

	for _, input := range items {
		quantity := input.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		orderItem := model.OrderItem{
			OrderID:   order.ID,
			ISBN:      input.ISBN,
			Title:     input.Title,
			Author:    input.Author,
			Publisher: input.Publisher,
			Quantity:  quantity,
			Price:     input.Price,
			Thumbnail: input.Thumbnail,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to create order item", err, map[string]interface{}{
				"order_id": order.ID,
				"title":    input.Title,
			})
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": cust.ID,
		"total_items": order.TotalItems,
	})

	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) GetOrderByID(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
