package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/frutilize/internal/customer"
	"github.com/vasiliy-maslov/frutilize/internal/order"
)

// CustomerHandler serves customer lookups used to prefill the checkout form
// and the per-customer order history.
type CustomerHandler struct {
	customers customer.Repository
	orders    order.Service
}

func NewCustomerHandler(customers customer.Repository, orders order.Service) *CustomerHandler {
	return &CustomerHandler{customers: customers, orders: orders}
}

func (h *CustomerHandler) RegisterRoutes(router chi.Router) {
	router.Get("/customers/last", h.handleGetLastCustomer)
	router.Get("/customers/{phone}", h.handleGetCustomerByPhone)
	router.Get("/customers/{phone}/orders", h.handleGetCustomerOrders)
}

func (h *CustomerHandler) handleGetLastCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.customers.GetMostRecent(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get most recent customer")
		respondWithError(w, http.StatusInternalServerError, "Failed to get customer")
		return
	}
	if c == nil {
		respondWithError(w, http.StatusNotFound, "Customer not found")
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) handleGetCustomerByPhone(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	c, err := h.customers.GetByPhone(r.Context(), phone)
	if err != nil {
		log.Error().Err(err).Str("phone", phone).Msg("Failed to get customer by phone")
		respondWithError(w, http.StatusInternalServerError, "Failed to get customer")
		return
	}
	if c == nil {
		respondWithError(w, http.StatusNotFound, "Customer not found")
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) handleGetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	c, err := h.customers.GetByPhone(r.Context(), phone)
	if err != nil {
		log.Error().Err(err).Str("phone", phone).Msg("Failed to get customer by phone")
		respondWithError(w, http.StatusInternalServerError, "Failed to get customer orders")
		return
	}
	if c == nil {
		respondWithError(w, http.StatusNotFound, "Customer not found")
		return
	}

	orders, err := h.orders.GetOrdersByCustomer(r.Context(), c.ID)
	if err != nil {
		log.Error().Err(err).Int64("customer_id", c.ID).Msg("Failed to get customer orders")
		respondWithError(w, http.StatusInternalServerError, "Failed to get customer orders")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}
