package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/frutilize/internal/catalog"
	"github.com/vasiliy-maslov/frutilize/internal/checkout"
	"github.com/vasiliy-maslov/frutilize/internal/customer"
	"github.com/vasiliy-maslov/frutilize/internal/db"
	"github.com/vasiliy-maslov/frutilize/internal/order"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := db.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(database.Close)
	return database.DB
}

func testCustomer() customer.Customer {
	return customer.Customer{
		Name:         "Maria Silva",
		Phone:        "21999990000",
		Address:      "Rua das Laranjeiras, 10",
		Neighborhood: "Centro",
	}
}

func mangaEspada(t *testing.T) catalog.Product {
	t.Helper()
	p, ok := catalog.ByID("24")
	require.True(t, ok)
	require.Equal(t, 4.99, p.Price)
	return p
}

func TestPlaceOrder(t *testing.T) {
	conn := newTestDB(t)
	svc := checkout.NewService(conn)
	ctx := context.Background()

	items := []order.LineItem{{Product: mangaEspada(t), Quantity: 3}}
	conf, err := svc.PlaceOrder(ctx, testCustomer(), items, order.PaymentPix, nil)
	require.NoError(t, err)
	require.NotNil(t, conf)
	assert.Greater(t, conf.CustomerID, int64(0))
	assert.Greater(t, conf.OrderID, int64(0))
	assert.Equal(t, 14.97, conf.Total)

	got, err := order.NewRepository(conn).GetByID(ctx, conf.OrderID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, conf.CustomerID, got.CustomerID)
	assert.Equal(t, 14.97, got.Total)
	assert.Equal(t, order.StatusPending, got.Status)
	assert.Nil(t, got.ChangeFor)

	decoded, err := order.DecodeItems(got.Items)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "24", decoded[0].Product.ID)
	assert.Equal(t, 3.0, decoded[0].Quantity)

	cust, err := customer.NewRepository(conn).GetByPhone(ctx, "21999990000")
	require.NoError(t, err)
	require.NotNil(t, cust)
	assert.Equal(t, conf.CustomerID, cust.ID)
}

func TestPlaceOrder_ReusesCustomerByPhone(t *testing.T) {
	conn := newTestDB(t)
	svc := checkout.NewService(conn)
	ctx := context.Background()

	items := []order.LineItem{{Product: mangaEspada(t), Quantity: 1}}

	first, err := svc.PlaceOrder(ctx, testCustomer(), items, order.PaymentPix, nil)
	require.NoError(t, err)

	updated := testCustomer()
	updated.Address = "Rua Nova, 55"
	second, err := svc.PlaceOrder(ctx, updated, items, order.PaymentPix, nil)
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.NotEqual(t, first.OrderID, second.OrderID)

	var customerCount int
	require.NoError(t, conn.Get(&customerCount, "SELECT COUNT(*) FROM customers"))
	assert.Equal(t, 1, customerCount)

	var orderCount int
	require.NoError(t, conn.Get(&orderCount, "SELECT COUNT(*) FROM orders"))
	assert.Equal(t, 2, orderCount)

	got, err := customer.NewRepository(conn).GetByPhone(ctx, "21999990000")
	require.NoError(t, err)
	assert.Equal(t, "Rua Nova, 55", got.Address)
}

func TestPlaceOrder_ChangeForOnlyForCash(t *testing.T) {
	conn := newTestDB(t)
	svc := checkout.NewService(conn)
	ctx := context.Background()
	items := []order.LineItem{{Product: mangaEspada(t), Quantity: 1}}

	changeFor := 50.0
	conf, err := svc.PlaceOrder(ctx, testCustomer(), items, order.PaymentCash, &changeFor)
	require.NoError(t, err)

	got, err := order.NewRepository(conn).GetByID(ctx, conf.OrderID)
	require.NoError(t, err)
	require.NotNil(t, got.ChangeFor)
	assert.Equal(t, 50.0, *got.ChangeFor)

	conf, err = svc.PlaceOrder(ctx, testCustomer(), items, order.PaymentPix, &changeFor)
	require.NoError(t, err)

	got, err = order.NewRepository(conn).GetByID(ctx, conf.OrderID)
	require.NoError(t, err)
	assert.Nil(t, got.ChangeFor)
}

func TestPlaceOrder_Validation(t *testing.T) {
	conn := newTestDB(t)
	svc := checkout.NewService(conn)
	ctx := context.Background()
	valid := []order.LineItem{{Product: mangaEspada(t), Quantity: 1}}

	tests := []struct {
		name          string
		items         []order.LineItem
		paymentMethod order.PaymentMethod
		wantErrIs     error
	}{
		{
			name:          "empty_cart",
			items:         nil,
			paymentMethod: order.PaymentPix,
			wantErrIs:     checkout.ErrEmptyCart,
		},
		{
			name:          "zero_quantity",
			items:         []order.LineItem{{Product: mangaEspada(t), Quantity: 0}},
			paymentMethod: order.PaymentPix,
			wantErrIs:     checkout.ErrInvalidQuantity,
		},
		{
			name:          "negative_quantity",
			items:         []order.LineItem{{Product: mangaEspada(t), Quantity: -2}},
			paymentMethod: order.PaymentPix,
			wantErrIs:     checkout.ErrInvalidQuantity,
		},
		{
			name:          "unknown_payment_method",
			items:         valid,
			paymentMethod: order.PaymentMethod("bitcoin"),
			wantErrIs:     checkout.ErrInvalidPaymentMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := svc.PlaceOrder(ctx, testCustomer(), tt.items, tt.paymentMethod, nil)
			assert.Nil(t, conf)
			assert.True(t, errors.Is(err, tt.wantErrIs))
		})
	}

	// Nothing was written by any of the rejected attempts.
	var customerCount int
	require.NoError(t, conn.Get(&customerCount, "SELECT COUNT(*) FROM customers"))
	assert.Equal(t, 0, customerCount)
}

func TestPlaceOrder_RollsBackCustomerOnOrderFailure(t *testing.T) {
	conn := newTestDB(t)
	svc := checkout.NewService(conn)
	ctx := context.Background()

	// Sabotage the order insert after the customer upsert succeeds.
	_, err := conn.Exec("DROP TABLE orders")
	require.NoError(t, err)

	items := []order.LineItem{{Product: mangaEspada(t), Quantity: 1}}
	conf, err := svc.PlaceOrder(ctx, testCustomer(), items, order.PaymentPix, nil)
	assert.Error(t, err)
	assert.Nil(t, conf)

	var customerCount int
	require.NoError(t, conn.Get(&customerCount, "SELECT COUNT(*) FROM customers"))
	assert.Equal(t, 0, customerCount, "customer write must roll back with the failed order")
}
