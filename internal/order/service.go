package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// The storage layer writes any status string verbatim; the transition rules
// are enforced here, at the layer the admin surface goes through.
var allowedTransitions = map[OrderStatus]map[OrderStatus]bool{
	StatusPending: {
		StatusPreparing: true,
		StatusCancelled: true,
	},
	StatusPreparing: {
		StatusDelivered: true,
		StatusCancelled: true,
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrUnknownStatus           = errors.New("unknown order status")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

type Service interface {
	GetOrderByID(ctx context.Context, id int64) (*Order, error)
	GetOrdersByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	ListOrders(ctx context.Context) ([]OrderWithCustomer, error)
	UpdateOrderStatus(ctx context.Context, id int64, newStatus OrderStatus) error
	Statistics(ctx context.Context) (*Statistics, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOrderByID(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to fetch order by id")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) GetOrdersByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	orders, err := s.repo.GetByCustomer(ctx, customerID)
	if err != nil {
		log.Error().Err(err).Int64("customer_id", customerID).Msg("service: failed to fetch customer orders")
		return nil, fmt.Errorf("service: failed to fetch customer orders: %w", err)
	}
	return orders, nil
}

func (s *service) ListOrders(ctx context.Context) ([]OrderWithCustomer, error) {
	orders, err := s.repo.ListWithCustomers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders with customers")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, id int64, newStatus OrderStatus) error {
	if _, known := allowedTransitions[newStatus]; !known {
		log.Warn().Int64("order_id", id).Str("new_status", string(newStatus)).Msg("service: unknown status requested")
		return fmt.Errorf("%w: %s", ErrUnknownStatus, newStatus)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("service: failed to get order for status update")
		return fmt.Errorf("service: failed to get order for status update: %w", err)
	}
	if current == nil {
		return ErrOrderNotFound
	}

	if current.Status == newStatus {
		log.Info().Int64("order_id", id).Stringer("status", newStatus).Msg("service: order status unchanged, no update needed")
		return nil
	}

	if !allowedTransitions[current.Status][newStatus] {
		log.Warn().
			Int64("order_id", id).
			Stringer("current_status", current.Status).
			Stringer("new_status", newStatus).
			Msg("service: invalid status transition attempt")
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, string(newStatus)); err != nil {
		log.Error().Err(err).Int64("order_id", id).Stringer("new_status", newStatus).Msg("service: failed to update order status")
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Int64("order_id", id).Stringer("old_status", current.Status).Stringer("new_status", newStatus).Msg("service: order status updated")
	return nil
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to compute statistics")
		return nil, fmt.Errorf("service: failed to compute statistics: %w", err)
	}
	return stats, nil
}
