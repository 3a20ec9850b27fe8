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

// WishlistController serves the legacy customer wishlist endpoints. These
// predate user accounts and stay keyed by customer ID.
type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
	}
}

type AddWishlistItemRequest struct {
	ISBN      string `json:"isbn" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Thumbnail string `json:"thumbnail"`
}

// List returns a customer's wishlist
// GET /api/customers/:customer_id/wishlist
func (ctrl *WishlistController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	customerID, ok := customerParam(c)
	if !ok {
		return
	}

	items, err := ctrl.wishlistService.GetCustomerWishlist(customerID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "顧客が見つかりません")
			return
		}
		log.Error("Failed to list wishlist", err, map[string]interface{}{
			"customer_id": customerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// Add puts a book on a customer's wishlist
// POST /api/customers/:customer_id/wishlist
func (ctrl *WishlistController) Add(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	customerID, ok := customerParam(c)
	if !ok {
		return
	}

	var req AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid wishlist request", map[string]interface{}{
			"customer_id": customerID,
			"error":       err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "ISBNと書名は必須です")
		return
	}

	item, err := ctrl.wishlistService.AddItem(customerID, service.WishlistItemInput{
		ISBN:      req.ISBN,
		Title:     req.Title,
		Author:    req.Author,
		Publisher: req.Publisher,
		Thumbnail: req.Thumbnail,
	})
	if err != nil {
		if errors.Is(err, service.ErrWishlistDuplicate) {
			apperrors.Conflict(c, apperrors.WishlistItemExists, "この本はすでに追加されています")
			return
		}
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "顧客が見つかりません")
			return
		}
		log.Error("Failed to add wishlist item", err, map[string]interface{}{
			"customer_id": customerID,
			"isbn":        req.ISBN,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add wishlist item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "ウィッシュリストに追加しました",
		"item":    item,
	})
}

// Remove deletes a wishlist item
// DELETE /api/customers/:customer_id/wishlist/:id
func (ctrl *WishlistController) Remove(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	customerID, ok := customerParam(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "アイテムIDが正しくありません")
		return
	}

	if err := ctrl.wishlistService.RemoveItem(customerID, uint(itemID)); err != nil {
		if errors.Is(err, service.ErrWishlistItemNotFound) {
			apperrors.NotFound(c, apperrors.WishlistItemNotFound, "アイテムが見つかりません")
			return
		}
		log.Error("Failed to remove wishlist item", err, map[string]interface{}{
			"customer_id": customerID,
			"item_id":     itemID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove wishlist item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "ウィッシュリストから削除しました",
	})
}

func customerParam(c *gin.Context) (uint, bool) {
	customerID, err := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "顧客IDが正しくありません")
		return 0, false
	}
	return uint(customerID), true
}
