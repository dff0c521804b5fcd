package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/frutilize/internal/cart"
	"github.com/vasiliy-maslov/frutilize/internal/catalog"
)

// clientKeyHeader identifies the device owning a cart. The cart is transient
// view state; losing it only empties the cart.
const clientKeyHeader = "X-Client-ID"

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type UpdateQuantityRequest struct {
	Quantity float64 `json:"quantity"`
}

type CartResponse struct {
	Items      []cartItemResponse `json:"items"`
	Total      float64            `json:"total"`
	TotalItems float64            `json:"total_items"`
}

type cartItemResponse struct {
	Product  catalog.Product `json:"product"`
	Quantity float64         `json:"quantity"`
}

// CartHandler exposes the per-client cart state.
type CartHandler struct {
	carts    *cart.Store
	validate *validator.Validate
}

func NewCartHandler(carts *cart.Store) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: validator.New(),
	}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Get("/cart", h.handleGetCart)
	router.Post("/cart/items", h.handleAddItem)
	router.Put("/cart/items/{productId}", h.handleUpdateQuantity)
	router.Delete("/cart/items/{productId}", h.handleRemoveItem)
	router.Delete("/cart", h.handleClearCart)
}

func (h *CartHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.cartResponse(clientKey(r)))
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var requestPayload AddItemRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode add-item payload")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationErrors(w, err)
		return
	}

	p, ok := catalog.ByID(requestPayload.ProductID)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if !p.Available {
		respondWithError(w, http.StatusConflict, "Product is not available")
		return
	}

	key := clientKey(r)
	h.carts.AddItem(key, p)
	respondWithJSON(w, http.StatusOK, h.cartResponse(key))
}

func (h *CartHandler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var requestPayload UpdateQuantityRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode update-quantity payload")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	key := clientKey(r)
	h.carts.UpdateQuantity(key, productID, requestPayload.Quantity)
	respondWithJSON(w, http.StatusOK, h.cartResponse(key))
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	key := clientKey(r)
	h.carts.RemoveItem(key, chi.URLParam(r, "productId"))
	respondWithJSON(w, http.StatusOK, h.cartResponse(key))
}

func (h *CartHandler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	h.carts.Clear(clientKey(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) cartResponse(key string) CartResponse {
	items := h.carts.Items(key)
	out := CartResponse{
		Items:      make([]cartItemResponse, 0, len(items)),
		Total:      h.carts.Total(key),
		TotalItems: h.carts.TotalItems(key),
	}
	for _, item := range items {
		out.Items = append(out.Items, cartItemResponse{Product: item.Product, Quantity: item.Quantity})
	}
	return out
}

func clientKey(r *http.Request) string {
	if key := r.Header.Get(clientKeyHeader); key != "" {
		return key
	}
	return "default"
}
