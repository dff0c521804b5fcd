package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/frutilize/internal/cart"
	"github.com/vasiliy-maslov/frutilize/internal/catalog"
	"github.com/vasiliy-maslov/frutilize/internal/checkout"
	"github.com/vasiliy-maslov/frutilize/internal/customer"
	"github.com/vasiliy-maslov/frutilize/internal/order"
	"github.com/vasiliy-maslov/frutilize/internal/whatsapp"
)

type CheckoutCustomer struct {
	Name         string `json:"name" validate:"required,min=2"`
	Phone        string `json:"phone" validate:"required,min=8"`
	Address      string `json:"address" validate:"required"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	Reference    string `json:"reference,omitempty"`
}

type CheckoutItem struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	Customer      CheckoutCustomer `json:"customer" validate:"required"`
	Items         []CheckoutItem   `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string           `json:"payment_method" validate:"required"`
	ChangeFor     *float64         `json:"change_for,omitempty" validate:"omitempty,gt=0"`
}

type CheckoutResponse struct {
	CustomerID  int64   `json:"customer_id"`
	OrderID     int64   `json:"order_id"`
	Total       float64 `json:"total"`
	WhatsAppURL string  `json:"whatsapp_url"`
}

// CheckoutHandler drives the checkout transaction and hands the caller the
// WhatsApp deep link for the order.
type CheckoutHandler struct {
	service    checkout.Service
	carts      *cart.Store
	storePhone string
	loc        *time.Location
	validate   *validator.Validate
}

func NewCheckoutHandler(service checkout.Service, carts *cart.Store, storePhone string, loc *time.Location) *CheckoutHandler {
	return &CheckoutHandler{
		service:    service,
		carts:      carts,
		storePhone: storePhone,
		loc:        loc,
		validate:   validator.New(),
	}
}

func (h *CheckoutHandler) RegisterRoutes(router chi.Router) {
	router.Post("/checkout", h.handleCheckout)
}

func (h *CheckoutHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var requestPayload CheckoutRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode checkout payload")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationErrors(w, err)
		return
	}

	items := make([]order.LineItem, 0, len(requestPayload.Items))
	for _, reqItem := range requestPayload.Items {
		p, ok := catalog.ByID(reqItem.ProductID)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "Unknown product: "+reqItem.ProductID)
			return
		}
		items = append(items, order.LineItem{Product: p, Quantity: reqItem.Quantity})
	}

	cust := customer.Customer{
		Name:         requestPayload.Customer.Name,
		Phone:        requestPayload.Customer.Phone,
		Address:      requestPayload.Customer.Address,
		Neighborhood: requestPayload.Customer.Neighborhood,
		Reference:    requestPayload.Customer.Reference,
	}
	paymentMethod := order.PaymentMethod(requestPayload.PaymentMethod)

	conf, err := h.service.PlaceOrder(r.Context(), cust, items, paymentMethod, requestPayload.ChangeFor)
	if err != nil {
		log.Error().Err(err).Msg("Checkout failed")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to place order: "+err.Error())
		return
	}

	// The cart is a disposable cache: clear it and remember the customer for
	// the next checkout prefill.
	key := clientKey(r)
	h.carts.Clear(key)
	cust.ID = conf.CustomerID
	h.carts.SetCustomer(key, cust)

	url := whatsapp.OrderLink(h.storePhone, items, conf.Total, cust, paymentMethod, requestPayload.ChangeFor, time.Now().In(h.loc))

	respondWithJSON(w, http.StatusCreated, CheckoutResponse{
		CustomerID:  conf.CustomerID,
		OrderID:     conf.OrderID,
		Total:       conf.Total,
		WhatsAppURL: url,
	})
}
