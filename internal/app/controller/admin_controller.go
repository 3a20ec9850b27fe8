package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ktakagi/sensho-backend/internal/app/service"
	apperrors "github.com/ktakagi/sensho-backend/internal/errors"
	"github.com/ktakagi/sensho-backend/internal/export"
	"github.com/ktakagi/sensho-backend/internal/middleware"
)

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an admin and issues an admin-scoped token
// POST /api/admin/login
func (ctrl *AdminController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid admin login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容が正しくありません")
		return
	}

	admin, token, err := ctrl.adminService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Admin login failed: invalid credentials", map[string]interface{}{
				"username": req.Username,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "ユーザー名またはパスワードが正しくありません")
			return
		}
		log.Error("Admin login failed", err, map[string]interface{}{
			"username": req.Username,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "admin login")
		return
	}

	log.Info("Admin logged in", map[string]interface{}{
		"admin_id": admin.ID,
		"username": admin.Username,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "ログインしました",
		"admin": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
		},
		"token": token,
	})
}

// Logout revokes the presented admin token
// POST /api/admin/logout
func (ctrl *AdminController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token := bearerToken(c)
	if err := ctrl.adminService.Logout(c.Request.Context(), token); err != nil {
		log.Error("Failed to revoke admin token during logout", err, nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "ログアウトしました",
	})
}

// ListOrders returns every order with customer and items
// GET /api/admin/orders
func (ctrl *AdminController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orders, err := ctrl.adminService.ListOrders()
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

// ListCustomers returns every customer
// GET /api/admin/customers
func (ctrl *AdminController) ListCustomers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	customers, err := ctrl.adminService.ListCustomers()
	if err != nil {
		log.Error("Failed to list customers", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"count":     len(customers),
	})
}

// ListCustomerOrders returns one customer and their orders
// GET /api/admin/customers/:id/orders
func (ctrl *AdminController) ListCustomerOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	customerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "顧客IDが正しくありません")
		return
	}

	customer, orders, err := ctrl.adminService.ListCustomerOrders(uint(customerID))
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "顧客が見つかりません")
			return
		}
		log.Error("Failed to list customer orders", err, map[string]interface{}{
			"customer_id": customerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list customer orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
		"orders":   orders,
		"count":    len(orders),
	})
}

// Export renders all order lines as CSV or Excel
// GET /api/admin/export/:format
func (ctrl *AdminController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	format := c.Param("format")

	orders, err := ctrl.adminService.ListOrders()
	if err != nil {
		log.Error("Failed to load orders for export", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export orders")
		return
	}

	var (
		data        []byte
		contentType string
		ext         string
	)

	switch format {
	case "csv":
		data, err = export.OrderLinesCSV(orders)
		contentType = "text/csv; charset=utf-8"
		ext = "csv"
	case "excel":
		data, err = export.OrderLinesExcel(orders)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		ext = "xlsx"
	default:
		apperrors.BadRequest(c, apperrors.ExportInvalidFormat, "対応していない出力形式です")
		return
	}
	if err != nil {
		log.Error("Failed to export orders", err, map[string]interface{}{
			"format": format,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ExportFailed, "ファイルの生成に失敗しました")
		return
	}

	log.Info("Orders exported", map[string]interface{}{
		"format": format,
		"orders": len(orders),
		"bytes":  len(data),
	})

	filename := fmt.Sprintf("orders-%s.%s", time.Now().Format("20060102"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
