package order

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/vasiliy-maslov/frutilize/internal/catalog"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

func (os OrderStatus) String() string {
	return string(os)
}

type PaymentMethod string

const (
	PaymentPix     PaymentMethod = "pix"
	PaymentCredit  PaymentMethod = "credit"
	PaymentDebit   PaymentMethod = "debit"
	PaymentCash    PaymentMethod = "cash"
	PaymentVoucher PaymentMethod = "vr"
)

func (pm PaymentMethod) String() string {
	return string(pm)
}

func (pm PaymentMethod) Valid() bool {
	switch pm {
	case PaymentPix, PaymentCredit, PaymentDebit, PaymentCash, PaymentVoucher:
		return true
	}
	return false
}

// DisplayName returns the pt-BR label used in outbound messages.
func (pm PaymentMethod) DisplayName() string {
	switch pm {
	case PaymentCredit:
		return "Cartão de Crédito"
	case PaymentDebit:
		return "Cartão de Débito"
	case PaymentVoucher:
		return "Vale Refeição (VR)"
	case PaymentCash:
		return "Dinheiro"
	default:
		return string(pm)
	}
}

// LineItem is a (product, quantity) pair within a cart or order snapshot.
// Quantity is fractional for weight-based units.
type LineItem struct {
	Product  catalog.Product `json:"product"`
	Quantity float64         `json:"quantity"`
}

// Order is a persisted order. Items holds the JSON snapshot of the cart line
// items captured at submission time; ChangeFor is only meaningful for cash.
type Order struct {
	ID            int64         `json:"id" db:"id"`
	CustomerID    int64         `json:"customer_id" db:"customer_id"`
	Items         string        `json:"items" db:"items"`
	Total         float64       `json:"total" db:"total"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	ChangeFor     *float64      `json:"change_for,omitempty" db:"change_for"`
	Status        OrderStatus   `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// OrderWithCustomer is an order joined with its customer's contact fields.
// Customer fields are empty when the joined row is missing.
type OrderWithCustomer struct {
	Order
	CustomerName         string `json:"customer_name" db:"customer_name"`
	CustomerPhone        string `json:"customer_phone" db:"customer_phone"`
	CustomerAddress      string `json:"customer_address" db:"customer_address"`
	CustomerNeighborhood string `json:"customer_neighborhood" db:"customer_neighborhood"`
	CustomerReference    string `json:"customer_reference" db:"customer_reference"`
	FormattedItems       string `json:"formatted_items" db:"-"`
}

// Statistics aggregates orders excluding cancelled ones; the status breakdown
// covers every status present, cancelled included.
type Statistics struct {
	TotalOrders       int           `json:"total_orders" db:"total_orders"`
	TotalRevenue      float64       `json:"total_revenue" db:"total_revenue"`
	AverageOrderValue float64       `json:"average_order_value" db:"average_order_value"`
	UniqueCustomers   int           `json:"unique_customers" db:"unique_customers"`
	StatusBreakdown   []StatusCount `json:"status_breakdown" db:"-"`
}

type StatusCount struct {
	Status string `json:"status" db:"status"`
	Count  int    `json:"count" db:"count"`
}

// EncodeItems serializes line items to the storable JSON snapshot.
func EncodeItems(items []LineItem) (string, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to serialize order items: %w", err)
	}
	return string(raw), nil
}

// DecodeItems parses a stored items snapshot.
func DecodeItems(itemsJSON string) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return nil, fmt.Errorf("failed to parse order items: %w", err)
	}
	return items, nil
}

// ComputeTotal sums price×quantity over the line items, rounded to two
// decimals. An invalid result (NaN or infinite) is clamped to zero.
func ComputeTotal(items []LineItem) float64 {
	sum := 0.0
	for _, item := range items {
		sum += item.Product.Price * item.Quantity
	}
	return ValidateTotal(sum)
}

// ValidateTotal rounds a total to two decimals, substituting zero for
// non-numeric input.
func ValidateTotal(total float64) float64 {
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	return math.Round(total*100) / 100
}

// FormatItems renders a stored items snapshot for humans, one line per item.
// Weight-based items show "{qty}kg", count-based items a pluralized unit
// count, anything else "{qty}x".
func FormatItems(itemsJSON string) string {
	items, err := DecodeItems(itemsJSON)
	if err != nil {
		return "Itens inválidos"
	}

	out := ""
	for i, item := range items {
		if i > 0 {
			out += "\n"
		}
		out += item.Product.Name + " - " + describeQuantity(item)
	}
	return out
}

// FormatItemsCSV renders a stored items snapshot for the daily report:
// semicolon-joined, each item with its subtotal.
func FormatItemsCSV(itemsJSON string) string {
	items, err := DecodeItems(itemsJSON)
	if err != nil {
		return "Itens inválidos"
	}

	out := ""
	for i, item := range items {
		if i > 0 {
			out += "; "
		}
		subtotal := item.Product.Price * item.Quantity
		out += fmt.Sprintf("%s - %s - R$ %.2f", item.Product.Name, csvQuantity(item), subtotal)
	}
	return out
}

func describeQuantity(item LineItem) string {
	qty := formatQuantity(item.Quantity)
	switch item.Product.Unit {
	case "kg":
		return qty + "kg"
	case "un":
		if item.Quantity > 1 {
			return qty + " unidades"
		}
		return qty + " unidade"
	default:
		return qty + "x"
	}
}

func csvQuantity(item LineItem) string {
	qty := formatQuantity(item.Quantity)
	switch item.Product.Unit {
	case "kg":
		return qty + "kg"
	case "un":
		return qty + " un"
	default:
		return qty + "x"
	}
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
