package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vasiliy-maslov/frutilize/internal/order"
)

// NoOrdersSentinel is returned instead of a CSV body when the requested day
// has no orders.
const NoOrdersSentinel = "Nenhum pedido encontrado para esta data."

const csvHeader = "Data,Hora,ID Pedido,Cliente,Telefone,Itens do Pedido,Total,Forma de Pagamento\n"

// Generator renders the daily orders CSV.
type Generator struct {
	db  sqlx.ExtContext
	loc *time.Location
}

func NewGenerator(db sqlx.ExtContext, loc *time.Location) *Generator {
	return &Generator{db: db, loc: loc}
}

type dailyRow struct {
	OrderID       int64     `db:"order_id"`
	OrderTotal    float64   `db:"order_total"`
	OrderItems    string    `db:"order_items"`
	PaymentMethod string    `db:"payment_method"`
	OrderDate     time.Time `db:"order_date"`
	CustomerName  string    `db:"customer_name"`
	CustomerPhone string    `db:"customer_phone"`
}

// GenerateDailyCSV renders one CSV row per order created on the given
// calendar date (evaluated in the generator's location), oldest first, with a
// trailing summary of the day's revenue and order count.
func (g *Generator) GenerateDailyCSV(ctx context.Context, date time.Time) (string, error) {
	local := date.In(g.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, g.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows := make([]dailyRow, 0)
	query := `
		SELECT
			orders.id AS order_id,
			orders.total AS order_total,
			orders.items AS order_items,
			orders.payment_method AS payment_method,
			orders.created_at AS order_date,
			COALESCE(customers.name, '') AS customer_name,
			COALESCE(customers.phone, '') AS customer_phone
		FROM orders
		LEFT JOIN customers ON orders.customer_id = customers.id
		WHERE orders.created_at >= ? AND orders.created_at < ?
		ORDER BY orders.created_at ASC, orders.id ASC
	`
	err := sqlx.SelectContext(ctx, g.db, &rows, query, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		return "", fmt.Errorf("report: failed to select daily orders: %w", err)
	}

	if len(rows) == 0 {
		return NoOrdersSentinel, nil
	}

	var b strings.Builder
	b.WriteString(csvHeader)

	dailyTotal := 0.0
	for _, row := range rows {
		createdAt := row.OrderDate.In(g.loc)

		name := row.CustomerName
		if name == "" {
			name = "N/A"
		}
		phone := row.CustomerPhone
		if phone == "" {
			phone = "N/A"
		}

		b.WriteString(escapeCSV(createdAt.Format("02/01/2006")))
		b.WriteString(",")
		b.WriteString(escapeCSV(createdAt.Format("15:04:05")))
		b.WriteString(",")
		b.WriteString(fmt.Sprintf("%d", row.OrderID))
		b.WriteString(",")
		b.WriteString(escapeCSV(name))
		b.WriteString(",")
		b.WriteString(escapeCSV(phone))
		b.WriteString(",")
		b.WriteString(escapeCSV(order.FormatItemsCSV(row.OrderItems)))
		b.WriteString(",")
		b.WriteString(fmt.Sprintf("R$ %.2f", row.OrderTotal))
		b.WriteString(",")
		b.WriteString(escapeCSV(row.PaymentMethod))
		b.WriteString("\n")

		dailyTotal += row.OrderTotal
	}

	b.WriteString(fmt.Sprintf("\n,,,,,,Total do Dia:,\"R$ %.2f\"", dailyTotal))
	b.WriteString(fmt.Sprintf("\n,,,,,,Total de Pedidos:,%d", len(rows)))

	return b.String(), nil
}

// Filename is the conventional report artifact name for a date.
func Filename(date time.Time) string {
	return fmt.Sprintf("relatorio_diario_%s.csv", date.Format("20060102"))
}

// escapeCSV applies standard CSV quoting: fields containing a comma, quote or
// newline are wrapped in double quotes with internal quotes doubled.
func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
