package service

import (
	"testing"
	"time"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/internal/db"
	"github.com/ktakagi/sensho-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminServiceTest(t *testing.T) (AdminService, OrderService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	adminRepo := repository.NewAdminRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	adminService := NewAdminService(adminRepo, orderRepo, customerRepo, testJWTSecret, time.Hour)
	orderService := NewOrderService(orderRepo, customerRepo, testDB)

	hash, err := util.HashPassword("admin-password")
	require.NoError(t, err)
	testDB.Create(&model.Admin{Username: "admin", PasswordHash: hash})

	return adminService, orderService, testDB
}

func TestAdminService_Login(t *testing.T) {
	adminService, _, _ := setupAdminServiceTest(t)

	admin, token, err := adminService.Login("admin", "admin-password")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	assert.NotEmpty(t, token)

	// The issued token carries the admin scope.
	claims, err := util.ValidateToken(token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, string(model.ScopeAdmin), claims.Scope)

	_, _, err = adminService.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = adminService.Login("nobody", "admin-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminService_ListOrders(t *testing.T) {
	adminService, orderService, _ := setupAdminServiceTest(t)

	orders, err := adminService.ListOrders()
	require.NoError(t, err)
	assert.Len(t, orders, 0)

	_, err = orderService.CreateOrder(
		OrderCustomerInput{Name: "山田 花子", Email: "hanako@example.com"},
		[]OrderItemInput{{Title: "本A", ISBN: "9784055012345"}},
		"",
	)
	require.NoError(t, err)

	orders, err = adminService.ListOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "山田 花子", orders[0].Customer.Name)
	require.Len(t, orders[0].Items, 1)
}

func TestAdminService_ListCustomers(t *testing.T) {
	adminService, orderService, _ := setupAdminServiceTest(t)

	_, err := orderService.CreateOrder(
		OrderCustomerInput{Name: "山田 花子"},
		[]OrderItemInput{{Title: "本"}},
		"",
	)
	require.NoError(t, err)
	_, err = orderService.CreateOrder(
		OrderCustomerInput{Name: "佐藤 一郎"},
		[]OrderItemInput{{Title: "本"}},
		"",
	)
	require.NoError(t, err)

	customers, err := adminService.ListCustomers()
	require.NoError(t, err)
	assert.Len(t, customers, 2)
}

func TestAdminService_ListCustomerOrders(t *testing.T) {
	adminService, orderService, _ := setupAdminServiceTest(t)

	order, err := orderService.CreateOrder(
		OrderCustomerInput{Name: "山田 花子"},
		[]OrderItemInput{{Title: "本A"}, {Title: "本B"}},
		"",
	)
	require.NoError(t, err)

	customer, orders, err := adminService.ListCustomerOrders(order.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "山田 花子", customer.Name)
	require.Len(t, orders, 1)
	assert.Equal(t, 2, orders[0].TotalItems)

	_, _, err = adminService.ListCustomerOrders(9999)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
