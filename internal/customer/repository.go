package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	UpsertByPhone(ctx context.Context, c *Customer) (int64, error)
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
	GetMostRecent(ctx context.Context) (*Customer, error)
}

type sqliteRepository struct {
	db sqlx.ExtContext
}

// NewRepository returns a customer repository bound to db, which may be a
// plain connection or an open transaction.
func NewRepository(db sqlx.ExtContext) Repository {
	return &sqliteRepository{db: db}
}

// UpsertByPhone updates the contact fields of the row with the same phone
// number, or inserts a new row when none exists. It returns the row id either
// way. Field validation is the caller's responsibility.
func (r *sqliteRepository) UpsertByPhone(ctx context.Context, c *Customer) (int64, error) {
	existing, err := r.GetByPhone(ctx, c.Phone)
	if err != nil {
		return 0, err
	}

	if existing != nil {
		query := `
			UPDATE customers
			SET name = ?, address = ?, neighborhood = ?, reference = ?
			WHERE phone = ?
		`
		_, err := r.db.ExecContext(ctx, query, c.Name, c.Address, c.Neighborhood, c.Reference, c.Phone)
		if err != nil {
			return 0, fmt.Errorf("repository: failed to update customer by phone %s: %w", c.Phone, err)
		}
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		return existing.ID, nil
	}

	query := `
		INSERT INTO customers (name, phone, address, neighborhood, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	createdAt := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Phone, c.Address, c.Neighborhood, c.Reference, createdAt)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert customer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("repository: failed to read inserted customer id: %w", err)
	}
	c.ID = id
	c.CreatedAt = createdAt
	return id, nil
}

// GetByPhone returns the customer with the given phone, or nil when there is
// none. Not-found is not an error.
func (r *sqliteRepository) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	var c Customer
	query := `SELECT id, name, phone, address, neighborhood, reference, created_at FROM customers WHERE phone = ? LIMIT 1`
	err := sqlx.GetContext(ctx, r.db, &c, query, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to select customer by phone %s: %w", phone, err)
	}
	return &c, nil
}

// GetMostRecent returns the most recently created customer, or nil when the
// table is empty.
func (r *sqliteRepository) GetMostRecent(ctx context.Context) (*Customer, error) {
	var c Customer
	query := `SELECT id, name, phone, address, neighborhood, reference, created_at FROM customers ORDER BY created_at DESC, id DESC LIMIT 1`
	err := sqlx.GetContext(ctx, r.db, &c, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to select most recent customer: %w", err)
	}
	return &c, nil
}
