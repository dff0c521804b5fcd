package report_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/frutilize/internal/catalog"
	"github.com/vasiliy-maslov/frutilize/internal/db"
	"github.com/vasiliy-maslov/frutilize/internal/order"
	"github.com/vasiliy-maslov/frutilize/internal/report"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := db.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(database.Close)
	return database.DB
}

func insertReportCustomer(t *testing.T, conn *sqlx.DB, name, phone string) int64 {
	t.Helper()
	res, err := conn.Exec(
		`INSERT INTO customers (name, phone, address, neighborhood, reference, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		name, phone, "Rua A, 10", "Centro", "", time.Now().UTC().Truncate(time.Second),
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func insertReportOrder(t *testing.T, conn *sqlx.DB, customerID int64, total float64, createdAt time.Time) int64 {
	t.Helper()
	items, err := order.EncodeItems([]order.LineItem{
		{Product: catalog.Product{Name: "Abobrinha", Price: 0.99, Unit: "kg"}, Quantity: 2},
	})
	require.NoError(t, err)

	res, err := conn.Exec(
		`INSERT INTO orders (customer_id, items, total, payment_method, change_for, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		customerID, items, total, "pix", nil, "pending", createdAt,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestGenerateDailyCSV_NoOrders(t *testing.T) {
	conn := newTestDB(t)
	gen := report.NewGenerator(conn, time.UTC)

	got, err := gen.GenerateDailyCSV(context.Background(), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, report.NoOrdersSentinel, got)
}

func TestGenerateDailyCSV(t *testing.T) {
	conn := newTestDB(t)
	gen := report.NewGenerator(conn, time.UTC)
	ctx := context.Background()

	customerID := insertReportCustomer(t, conn, "Maria Silva", "21999990000")
	insertReportOrder(t, conn, customerID, 1.98, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	// Orders on neighboring days must not leak in.
	insertReportOrder(t, conn, customerID, 99, time.Date(2025, 3, 9, 23, 59, 59, 0, time.UTC))
	insertReportOrder(t, conn, customerID, 99, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))

	got, err := gen.GenerateDailyCSV(ctx, time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "Data,Hora,ID Pedido,Cliente,Telefone,Itens do Pedido,Total,Forma de Pagamento", lines[0])
	assert.Equal(t, "10/03/2025,12:00:00,1,Maria Silva,21999990000,Abobrinha - 2kg - R$ 1.98,R$ 1.98,pix", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, `,,,,,,Total do Dia:,"R$ 1.98"`, lines[3])
	assert.Equal(t, ",,,,,,Total de Pedidos:,1", lines[4])
}

func TestGenerateDailyCSV_OrdersSortedOldestFirst(t *testing.T) {
	conn := newTestDB(t)
	gen := report.NewGenerator(conn, time.UTC)

	customerID := insertReportCustomer(t, conn, "Maria Silva", "21999990000")
	insertReportOrder(t, conn, customerID, 5, time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC))
	insertReportOrder(t, conn, customerID, 3, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))

	got, err := gen.GenerateDailyCSV(context.Background(), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	earlyPos := strings.Index(got, "08:00:00")
	latePos := strings.Index(got, "18:00:00")
	require.NotEqual(t, -1, earlyPos)
	require.NotEqual(t, -1, latePos)
	assert.Less(t, earlyPos, latePos)

	assert.Contains(t, got, ",,,,,,Total do Dia:,\"R$ 8.00\"")
	assert.Contains(t, got, ",,,,,,Total de Pedidos:,2")
}

func TestGenerateDailyCSV_QuotesFieldsWithCommas(t *testing.T) {
	conn := newTestDB(t)
	gen := report.NewGenerator(conn, time.UTC)

	customerID := insertReportCustomer(t, conn, `Silva, Maria "Mari"`, "21999990000")
	insertReportOrder(t, conn, customerID, 1.98, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	got, err := gen.GenerateDailyCSV(context.Background(), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, got, `"Silva, Maria ""Mari"""`)
}

func TestGenerateDailyCSV_MissingCustomerShowsNA(t *testing.T) {
	conn := newTestDB(t)
	gen := report.NewGenerator(conn, time.UTC)

	customerID := insertReportCustomer(t, conn, "", "")
	insertReportOrder(t, conn, customerID, 1.98, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	got, err := gen.GenerateDailyCSV(context.Background(), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, got, "10/03/2025,12:00:00,1,N/A,N/A,")
}

func TestFilename(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "relatorio_diario_20250310.csv", report.Filename(date))
}
