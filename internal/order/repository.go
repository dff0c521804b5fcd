package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Insert(ctx context.Context, o *Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	GetAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Statistics(ctx context.Context) (*Statistics, error)
	ListWithCustomers(ctx context.Context) ([]OrderWithCustomer, error)
}

type sqliteRepository struct {
	db sqlx.ExtContext
}

// NewRepository returns an order repository bound to db, which may be a plain
// connection or an open transaction.
func NewRepository(db sqlx.ExtContext) Repository {
	return &sqliteRepository{db: db}
}

// Insert writes an order row and returns the assigned id. The provided total
// is re-validated (rounded to two decimals, invalid input substituted with
// zero) before the write.
func (r *sqliteRepository) Insert(ctx context.Context, o *Order) (int64, error) {
	if o.Status == "" {
		o.Status = StatusPending
	}
	o.Total = ValidateTotal(o.Total)

	createdAt := time.Now().UTC().Truncate(time.Second)
	query := `
		INSERT INTO orders (customer_id, items, total, payment_method, change_for, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		o.CustomerID,
		o.Items,
		o.Total,
		string(o.PaymentMethod),
		o.ChangeFor,
		string(o.Status),
		createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("repository: failed to read inserted order id: %w", err)
	}
	o.ID = id
	o.CreatedAt = createdAt
	return id, nil
}

// GetByID returns the order with the given id, or nil when there is none.
func (r *sqliteRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	var o Order
	query := `SELECT id, customer_id, items, total, payment_method, change_for, status, created_at FROM orders WHERE id = ?`
	err := sqlx.GetContext(ctx, r.db, &o, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to select order by id %d: %w", id, err)
	}
	return &o, nil
}

func (r *sqliteRepository) GetByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	orders := make([]Order, 0)
	query := `
		SELECT id, customer_id, items, total, payment_method, change_for, status, created_at
		FROM orders
		WHERE customer_id = ?
		ORDER BY created_at DESC, id DESC
	`
	err := sqlx.SelectContext(ctx, r.db, &orders, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to select orders for customer %d: %w", customerID, err)
	}
	return orders, nil
}

func (r *sqliteRepository) GetAll(ctx context.Context) ([]Order, error) {
	orders := make([]Order, 0)
	query := `
		SELECT id, customer_id, items, total, payment_method, change_for, status, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`
	err := sqlx.SelectContext(ctx, r.db, &orders, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to select orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus writes the status string verbatim. The storage layer does not
// enforce the status enum or check that the order exists; transition rules
// live in the service.
func (r *sqliteRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE orders SET status = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("repository: failed to update status of order %d: %w", id, err)
	}
	return nil
}

// Statistics aggregates with the store's native functions. Zero orders yield
// zeros, not an error; cancelled orders are excluded from everything but the
// per-status breakdown.
func (r *sqliteRepository) Statistics(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	query := `
		SELECT
			COUNT(*) AS total_orders,
			COALESCE(SUM(total), 0) AS total_revenue,
			COALESCE(AVG(total), 0) AS average_order_value,
			COUNT(DISTINCT customer_id) AS unique_customers
		FROM orders
		WHERE status != 'cancelled'
	`
	if err := sqlx.GetContext(ctx, r.db, &stats, query); err != nil {
		return nil, fmt.Errorf("repository: failed to compute order statistics: %w", err)
	}

	breakdown := make([]StatusCount, 0)
	breakdownQuery := `SELECT status, COUNT(*) AS count FROM orders GROUP BY status`
	if err := sqlx.SelectContext(ctx, r.db, &breakdown, breakdownQuery); err != nil {
		return nil, fmt.Errorf("repository: failed to compute status breakdown: %w", err)
	}
	stats.StatusBreakdown = breakdown

	return &stats, nil
}

// ListWithCustomers returns every order left-joined with its customer's
// contact fields, newest first, with a human-readable items rendering.
func (r *sqliteRepository) ListWithCustomers(ctx context.Context) ([]OrderWithCustomer, error) {
	rows := make([]OrderWithCustomer, 0)
	query := `
		SELECT
			orders.id, orders.customer_id, orders.items, orders.total,
			orders.payment_method, orders.change_for, orders.status, orders.created_at,
			COALESCE(customers.name, '') AS customer_name,
			COALESCE(customers.phone, '') AS customer_phone,
			COALESCE(customers.address, '') AS customer_address,
			COALESCE(customers.neighborhood, '') AS customer_neighborhood,
			COALESCE(customers.reference, '') AS customer_reference
		FROM orders
		LEFT JOIN customers ON orders.customer_id = customers.id
		ORDER BY orders.created_at DESC, orders.id DESC
	`
	err := sqlx.SelectContext(ctx, r.db, &rows, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to select orders with customers: %w", err)
	}

	for i := range rows {
		rows[i].FormattedItems = FormatItems(rows[i].Items)
	}
	return rows, nil
}
