package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ktakagi/sensho-backend/internal/app/service"
	apperrors "github.com/ktakagi/sensho-backend/internal/errors"
	"github.com/ktakagi/sensho-backend/internal/export"
	"github.com/ktakagi/sensho-backend/internal/middleware"
	"github.com/ktakagi/sensho-backend/pkg/logger"
)

type SelectionListController struct {
	listService service.SelectionListService
	pdfFontPath string
}

func NewSelectionListController(listService service.SelectionListService, pdfFontPath string) *SelectionListController {
	return &SelectionListController{
		listService: listService,
		pdfFontPath: pdfFontPath,
	}
}

type CreateListRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AddItemRequest struct {
	ISBN        string   `json:"isbn" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Author      string   `json:"author"`
	Publisher   string   `json:"publisher"`
	Price       *float64 `json:"price"`
	VolumeCount int      `json:"volume_count"`
	IsSetOnly   bool     `json:"is_set_only"`
	Thumbnail   string   `json:"thumbnail"`
	Quantity    int      `json:"quantity"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// Create makes a new selection list for the authenticated user
// POST /api/selection-lists
func (ctrl *SelectionListController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create list request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ListNameRequired, "リスト名を入力してください")
		return
	}

	list, err := ctrl.listService.CreateList(userID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrListNameRequired) {
			apperrors.BadRequest(c, apperrors.ListNameRequired, "リスト名を入力してください")
			return
		}
		log.Error("Failed to create selection list", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create selection list")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "選書リストを作成しました",
		"list":    list,
	})
}

// List returns all selection lists owned by the authenticated user
// GET /api/selection-lists
func (ctrl *SelectionListController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	lists, err := ctrl.listService.GetUserLists(userID)
	if err != nil {
		log.Error("Failed to list selection lists", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list selection lists")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lists": lists,
		"count": len(lists),
	})
}

// Get returns one selection list with items and aggregates
// GET /api/selection-lists/:id
func (ctrl *SelectionListController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, listID, ok := ctrl.listParams(c)
	if !ok {
		return
	}

	list, err := ctrl.listService.GetList(userID, listID)
	if err != nil {
		ctrl.respondListError(c, log, err, listID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"list":      list,
		"aggregate": list.Aggregate(),
	})
}

// Update renames a selection list
// PUT /api/selection-lists/:id
func (ctrl *SelectionListController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, listID, ok := ctrl.listParams(c)
	if !ok {
		return
	}

	var req UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容が正しくありません")
		return
	}

	list, err := ctrl.listService.UpdateList(userID, listID, req.Name, req.Description)
	if err != nil {
		ctrl.respondListError(c, log, err, listID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "選書リストを更新しました",
		"list":    list,
	})
}

// Delete removes a selection list and its items
// DELETE /api/selection-lists/:id
func (ctrl *SelectionListController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, listID, ok := ctrl.listParams(c)
	if !ok {
		return
	}

	if err := ctrl.listService.DeleteList(userID, listID); err != nil {
		ctrl.respondListError(c, log, err, listID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "選書リストを削除しました",
	})
}

// ListItems returns the items of a selection list
// GET /api/selection-lists/:id/items
func (ctrl *SelectionListController) ListItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, listID, ok := ctrl.listParams(c)
	if !ok {
		return
	}

	list, err := ctrl.listService.GetList(userID, listID)
	if err != nil {
		ctrl.respondListError(c, log, err, listID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     list.Items,
		"aggregate": list.Aggregate(),
	})
}

// AddItem adds a book to a selection list
// POST /api/selection-lists/:id/items
func (ctrl *SelectionListController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, listID, ok := ctrl.listParams(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add item request", map[string]interface{}{
			"list_id": listID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "ISBNと書名は必須です")
		return
	}

	item, err := ctrl.listService.AddItem(userID, listID, service.SelectionItemInput{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		Price:       req.Price,
		VolumeCount: req.VolumeCount,
		IsSetOnly:   req.IsSetOnly,
		Thumbnail:   req.Thumbnail,
		Quantity:    req.Quantity,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateItem) {
			apperrors.Conflict(c, apperrors.ListItemExists, "この本はすでにリストに追加されています")
			return
		}
		if errors.Is(err, service.ErrItemTitleMissing) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "ISBNと書名は必須です")
			return
		}
		ctrl.respondListError(c, log, err, listID)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "リストに追加しました",
		"item":    item,
	})
}

// UpdateItem changes an item's quantity
// PUT /api/selection-lists/:id/items/:item_id
func (ctrl *SelectionListController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, listID, ok := ctrl.listParams(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "アイテムIDが正しくありません")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ListInvalidQuantity, "数量は1以上で指定してください")
		return
	}

	item, err := ctrl.listService.UpdateItemQuantity(userID, listID, uint(itemID), req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			apperrors.BadRequest(c, apperrors.ListInvalidQuantity, "数量は1以上で指定してください")
			return
		}
		if errors.Is(err, service.ErrListItemNotFound) {
			apperrors.NotFound(c, apperrors.ListItemNotFound, "アイテムが見つかりません")
			return
		}
		ctrl.respondListError(c, log, err, listID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "数量を更新しました",
		"item":    item,
	})
}

// RemoveItem deletes an item from a selection list
// DELETE /api/selection-lists/:id/items/:item_id
func (ctrl *SelectionListController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, listID, ok := ctrl.listParams(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "アイテムIDが正しくありません")
		return
	}

	if err := ctrl.listService.RemoveItem(userID, listID, uint(itemID)); err != nil {
		if errors.Is(err, service.ErrListItemNotFound) {
			apperrors.NotFound(c, apperrors.ListItemNotFound, "アイテムが見つかりません")
			return
		}
		ctrl.respondListError(c, log, err, listID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "アイテムを削除しました",
	})
}

// Export renders a selection list in the requested format
// GET /api/selection-lists/:id/export/:format
func (ctrl *SelectionListController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, listID, ok := ctrl.listParams(c)
	if !ok {
		return
	}

	format := c.Param("format")

	summary, err := ctrl.listService.BuildOrderSummary(userID, listID)
	if err != nil {
		ctrl.respondListError(c, log, err, listID)
		return
	}

	if format == "order-data" {
		c.JSON(http.StatusOK, summary)
		return
	}

	list, err := ctrl.listService.GetList(userID, listID)
	if err != nil {
		ctrl.respondListError(c, log, err, listID)
		return
	}

	var (
		data        []byte
		contentType string
		ext         string
	)

	switch format {
	case "csv":
		data, err = export.SelectionListCSV(list)
		contentType = "text/csv; charset=utf-8"
		ext = "csv"
	case "excel":
		data, err = export.SelectionListExcel(list)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		ext = "xlsx"
	case "pdf":
		data, err = export.SelectionListPDF(list, export.Purchaser{
			Name:         summary.Purchaser.Name,
			Organization: summary.Purchaser.Organization,
			Email:        summary.Purchaser.Email,
			Phone:        summary.Purchaser.Phone,
		}, ctrl.pdfFontPath)
		contentType = "application/pdf"
		ext = "pdf"
	default:
		apperrors.BadRequest(c, apperrors.ExportInvalidFormat, "対応していない出力形式です")
		return
	}
	if err != nil {
		log.Error("Failed to export selection list", err, map[string]interface{}{
			"list_id": listID,
			"format":  format,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ExportFailed, "ファイルの生成に失敗しました")
		return
	}

	log.Info("Selection list exported", map[string]interface{}{
		"list_id": listID,
		"format":  format,
		"bytes":   len(data),
	})

	filename := fmt.Sprintf("selection-list-%d.%s", listID, ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}

func (ctrl *SelectionListController) listParams(c *gin.Context) (uint, uint, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return 0, 0, false
	}
	listID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "リストIDが正しくありません")
		return 0, 0, false
	}
	return userID, uint(listID), true
}

func (ctrl *SelectionListController) respondListError(c *gin.Context, log *logger.Logger, err error, listID uint) {
	if errors.Is(err, service.ErrListNotFound) {
		apperrors.NotFound(c, apperrors.ListNotFound, "選書リストが見つかりません")
		return
	}
	log.Error("Selection list operation failed", err, map[string]interface{}{
		"list_id": listID,
	})
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "selection list")
}
