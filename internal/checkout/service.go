package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/frutilize/internal/customer"
	"github.com/vasiliy-maslov/frutilize/internal/order"
)

var (
	ErrEmptyCart            = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("line item quantity must be greater than zero")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidCustomerID    = errors.New("invalid customer id")
)

// Confirmation is what the caller gets back after a fully committed checkout.
type Confirmation struct {
	CustomerID int64   `json:"customer_id"`
	OrderID    int64   `json:"order_id"`
	Total      float64 `json:"total"`
}

type Service interface {
	PlaceOrder(ctx context.Context, cust customer.Customer, items []order.LineItem, paymentMethod order.PaymentMethod, changeFor *float64) (*Confirmation, error)
}

type service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) Service {
	return &service{db: db}
}

// PlaceOrder upserts the customer by phone and inserts the order inside one
// transaction: either both writes are durably visible or neither is. The
// total is computed here from the line items, never taken from the caller.
func (s *service) PlaceOrder(ctx context.Context, cust customer.Customer, items []order.LineItem, paymentMethod order.PaymentMethod, changeFor *float64) (conf *Confirmation, err error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, item.Product.ID)
		}
	}
	if !paymentMethod.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, paymentMethod)
	}
	if paymentMethod != order.PaymentCash {
		// Change only makes sense for cash payments.
		changeFor = nil
	}

	itemsJSON, err := order.EncodeItems(items)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	total := order.ComputeTotal(items)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("checkout: failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic_value", p).Msg("Panic recovered during checkout, rolling back")
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			log.Warn().Err(err).Msg("Checkout transaction failed, rolling back")
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback checkout transaction")
			}
		} else {
			if commitErr := tx.Commit(); commitErr != nil {
				log.Error().Err(commitErr).Msg("Failed to commit checkout transaction")
				err = fmt.Errorf("checkout: failed to commit transaction: %w", commitErr)
				conf = nil
			}
		}
	}()

	customerRepo := customer.NewRepository(tx)
	customerID, err := customerRepo.UpsertByPhone(ctx, &cust)
	if err != nil {
		return nil, fmt.Errorf("checkout: failed to save customer: %w", err)
	}

	// Logic-error guard, not user input validation: the repository must have
	// resolved a positive id by now.
	if customerID <= 0 {
		err = fmt.Errorf("%w: %d", ErrInvalidCustomerID, customerID)
		return nil, err
	}

	orderRepo := order.NewRepository(tx)
	o := &order.Order{
		CustomerID:    customerID,
		Items:         itemsJSON,
		Total:         total,
		PaymentMethod: paymentMethod,
		ChangeFor:     changeFor,
		Status:        order.StatusPending,
	}
	orderID, err := orderRepo.Insert(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("checkout: failed to save order: %w", err)
	}

	log.Info().Int64("customer_id", customerID).Int64("order_id", orderID).Float64("total", o.Total).Msg("Checkout committed")

	return &Confirmation{CustomerID: customerID, OrderID: orderID, Total: o.Total}, nil
}
