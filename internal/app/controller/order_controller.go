package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ktakagi/sensho-backend/internal/app/service"
	apperrors "github.com/ktakagi/sensho-backend/internal/errors"
	"github.com/ktakagi/sensho-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CreateOrderRequest struct {
	Customer struct {
		Name         string `json:"name" binding:"required"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Organization string `json:"organization"`
	} `json:"customer" binding:"required"`
	Items []struct {
		ISBN      string   `json:"isbn"`
		Title     string   `json:"title" binding:"required"`
		Author    string   `json:"author"`
		Publisher string   `json:"publisher"`
		Price     *float64 `json:"price"`
		Quantity  int      `json:"quantity"`
	} `json:"items" binding:"required,min=1"`
	Notes string `json:"notes"`
}

// Create places a guest order
// POST /api/orders
func (ctrl *OrderController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "注文内容が正しくありません")
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{
			ISBN:      item.ISBN,
			Title:     item.Title,
			Author:    item.Author,
			Publisher: item.Publisher,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	order, err := ctrl.orderService.CreateOrder(service.OrderCustomerInput{
		Name:         req.Customer.Name,
		Email:        req.Customer.Email,
		Phone:        req.Customer.Phone,
		Organization: req.Customer.Organization,
	}, items, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrOrderNoItems) || errors.Is(err, service.ErrOrderNoTitle) ||
			errors.Is(err, service.ErrCustomerNoName) {
			log.Warn("Order validation failed", map[string]interface{}{
				"error": err.Error(),
			})
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "注文内容が正しくありません")
			return
		}
		log.Error("Failed to create order", err, map[string]interface{}{
			"customer_name": req.Customer.Name,
			"item_count":    len(req.Items),
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create order")
		return
	}

	log.Info("Order created", map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"total_items": order.TotalItems,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "注文を受け付けました",
		"order_id": order.ID,
		"order":    order,
	})
}

// List returns all orders
// GET /api/orders
func (ctrl *OrderController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orders, err := ctrl.orderService.GetOrders()
	if err != nil {
		log.Error("Failed to list orders", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// Get returns one order with customer and items
// GET /api/orders/:id
func (ctrl *OrderController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "注文IDが正しくありません")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "注文が見つかりません")
			return
		}
		log.Error("Failed to get order", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}
