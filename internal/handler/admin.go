package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/frutilize/internal/order"
	"github.com/vasiliy-maslov/frutilize/internal/report"
)

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type DailyReportRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ReportGenerator is the slice of the report package the admin surface needs.
type ReportGenerator interface {
	GenerateDailyCSV(ctx context.Context, date time.Time) (string, error)
}

// AdminHandler serves the order management surface.
type AdminHandler struct {
	orders   order.Service
	reports  ReportGenerator
	loc      *time.Location
	validate *validator.Validate
}

func NewAdminHandler(orders order.Service, reports ReportGenerator, loc *time.Location) *AdminHandler {
	return &AdminHandler{
		orders:   orders,
		reports:  reports,
		loc:      loc,
		validate: validator.New(),
	}
}

func (h *AdminHandler) RegisterRoutes(router chi.Router) {
	router.Get("/admin/orders", h.handleListOrders)
	router.Get("/admin/orders/{id}", h.handleGetOrder)
	router.Patch("/admin/orders/{id}/status", h.handleUpdateStatus)
	router.Get("/admin/stats", h.handleStatistics)
	router.Post("/admin/reports/daily", h.handleDailyReport)
}

func (h *AdminHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders")
		respondWithError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	o, err := h.orders.GetOrderByID(r.Context(), id)
	if err != nil {
		clientMessage := "Failed to get order"
		if errors.Is(err, order.ErrOrderNotFound) {
			clientMessage = "Order not found"
		} else {
			log.Error().Err(err).Int64("order_id", id).Msg("Failed to get order")
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}
	respondWithJSON(w, http.StatusOK, o)
}

func (h *AdminHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var requestPayload UpdateStatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode status payload")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationErrors(w, err)
		return
	}

	err = h.orders.UpdateOrderStatus(r.Context(), id, order.OrderStatus(requestPayload.Status))
	if err != nil {
		clientMessage := "Failed to update order status"
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			clientMessage = "Order not found"
		case errors.Is(err, order.ErrUnknownStatus):
			clientMessage = "Unknown order status"
		case errors.Is(err, order.ErrInvalidStatusTransition):
			clientMessage = "Invalid status transition"
		default:
			log.Error().Err(err).Int64("order_id", id).Msg("Failed to update order status")
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.Statistics(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute statistics")
		respondWithError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	var requestPayload DailyReportRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode report payload")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationErrors(w, err)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", requestPayload.Date, h.loc)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date")
		return
	}

	csvData, err := h.reports.GenerateDailyCSV(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Str("date", requestPayload.Date).Msg("Failed to generate daily report")
		respondWithError(w, http.StatusInternalServerError, "Failed to generate daily report")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+report.Filename(date))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csvData)); err != nil {
		log.Error().Err(err).Msg("Failed to write report response")
	}
}

func parseOrderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
