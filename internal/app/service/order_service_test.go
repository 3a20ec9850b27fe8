package service

import (
	"testing"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (OrderService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	orderService := NewOrderService(orderRepo, customerRepo, testDB)

	return orderService, testDB
}

func TestOrderService_CreateOrder(t *testing.T) {
	orderService, _ := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(
		OrderCustomerInput{
			Name:         "山田 花子",
			Email:        "hanako@example.com",
			Organization: "町立図書館",
		},
		[]OrderItemInput{
			{ISBN: "9784055012345", Title: "注文する本", Price: floatPtr(1500), Quantity: 2},
			{Title: "ISBNのない本"},
		},
		"納品は4月以降でお願いします",
	)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 2, order.TotalItems)
	assert.Equal(t, "納品は4月以降でお願いします", order.Notes)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	// Missing quantity defaults to 1.
	assert.Equal(t, 1, order.Items[1].Quantity)
	assert.Equal(t, "山田 花子", order.Customer.Name)
}

func TestOrderService_CreateOrder_FindsOrCreatesCustomer(t *testing.T) {
	orderService, testDB := setupOrderServiceTest(t)

	first, err := orderService.CreateOrder(
		OrderCustomerInput{Name: "山田 花子", Email: "hanako@example.com"},
		[]OrderItemInput{{Title: "一冊目"}},
		"",
	)
	require.NoError(t, err)

	second, err := orderService.CreateOrder(
		OrderCustomerInput{Name: "山田 花子", Email: "hanako@example.com"},
		[]OrderItemInput{{Title: "二冊目"}},
		"",
	)
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)

	var count int64
	testDB.Model(&model.Customer{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Same name, different email is a different customer.
	third, err := orderService.CreateOrder(
		OrderCustomerInput{Name: "山田 花子", Email: "other@example.com"},
		[]OrderItemInput{{Title: "三冊目"}},
		"",
	)
	require.NoError(t, err)
	assert.NotEqual(t, first.CustomerID, third.CustomerID)
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	orderService, testDB := setupOrderServiceTest(t)

	_, err := orderService.CreateOrder(
		OrderCustomerInput{Email: "noname@example.com"},
		[]OrderItemInput{{Title: "本"}},
		"",
	)
	assert.ErrorIs(t, err, ErrCustomerNoName)

	_, err = orderService.CreateOrder(
		OrderCustomerInput{Name: "山田 花子"},
		nil,
		"",
	)
	assert.ErrorIs(t, err, ErrOrderNoItems)

	_, err = orderService.CreateOrder(
		OrderCustomerInput{Name: "山田 花子"},
		[]OrderItemInput{{ISBN: "9784055012345"}},
		"",
	)
	assert.ErrorIs(t, err, ErrOrderNoTitle)

	// Nothing was persisted by the failed attempts.
	var orders int64
	testDB.Model(&model.Order{}).Count(&orders)
	assert.Equal(t, int64(0), orders)
	var customers int64
	testDB.Model(&model.Customer{}).Count(&customers)
	assert.Equal(t, int64(0), customers)
}

func TestOrderService_GetOrders(t *testing.T) {
	orderService, _ := setupOrderServiceTest(t)

	orders, err := orderService.GetOrders()
	require.NoError(t, err)
	assert.Len(t, orders, 0)

	_, err = orderService.CreateOrder(
		OrderCustomerInput{Name: "山田 花子"},
		[]OrderItemInput{{Title: "本"}},
		"",
	)
	require.NoError(t, err)

	orders, err = orderService.GetOrders()
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderService_GetOrderByID(t *testing.T) {
	orderService, _ := setupOrderServiceTest(t)

	created, err := orderService.CreateOrder(
		OrderCustomerInput{Name: "山田 花子"},
		[]OrderItemInput{{Title: "本", ISBN: "9784055012345"}},
		"",
	)
	require.NoError(t, err)

	order, err := orderService.GetOrderByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "山田 花子", order.Customer.Name)
	require.Len(t, order.Items, 1)

	_, err = orderService.GetOrderByID(9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
