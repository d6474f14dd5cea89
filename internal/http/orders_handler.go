package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amrtikande/shoop/internal/checkout"
	"github.com/amrtikande/shoop/internal/domain"
	"github.com/amrtikande/shoop/internal/store"
)

type OrdersHandler struct {
	checkout *checkout.Service
	orders   store.OrderStore
	timeout  time.Duration
	logger   *slog.Logger
}

func NewOrdersHandler(checkoutService *checkout.Service, orders store.OrderStore, timeout time.Duration, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		checkout: checkoutService,
		orders:   orders,
		timeout:  timeout,
		logger:   logger,
	}
}

type customerDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type orderItemDTO struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Emoji     string  `json:"emoji"`
	Image     string  `json:"image"`
}

// orderRequestDTO accepts both client payload shapes: the nested
// {customer: {...}} form and the flat {clientName, phone, ...} form.
type orderRequestDTO struct {
	Customer   *customerDTO   `json:"customer"`
	ClientName string         `json:"clientName"`
	Phone      string         `json:"phone"`
	Email      string         `json:"email"`
	Address    string         `json:"address"`
	Items      []orderItemDTO `json:"items"`
}

// toCart normalizes the request into the workflow's single cart shape.
func (dto *orderRequestDTO) toCart() (*domain.Cart, error) {
	cart := &domain.Cart{}

	if dto.Customer != nil {
		cart.Customer = domain.Customer{
			Name:    dto.Customer.Name,
			Phone:   dto.Customer.Phone,
			Email:   dto.Customer.Email,
			Address: dto.Customer.Address,
		}
	} else {
		cart.Customer = domain.Customer{
			Name:    dto.ClientName,
			Phone:   dto.Phone,
			Email:   dto.Email,
			Address: dto.Address,
		}
	}

	for _, item := range dto.Items {
		rawID := item.ID
		if rawID == "" {
			rawID = item.ProductID
		}

		productID, err := primitive.ObjectIDFromHex(rawID)
		if err != nil {
			return nil, &checkout.ValidationError{Reason: "invalid product id: " + rawID}
		}

		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			Name:      item.Name,
			Price:     item.Price,
			Emoji:     item.Emoji,
			Image:     item.Image,
		})
	}

	return cart, nil
}

// POST /api/orders
func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req orderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := req.toCart()
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	order, err := h.checkout.PlaceOrder(ctx, cart)
	if err != nil {
		h.logger.Warn("order placement failed",
			slog.String("request_id", getRequestID(r.Context())),
			slog.String("error", err.Error()))
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GET /api/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.ListOrders(ctx)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// GET /api/orders/{id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	order, err := h.orders.GetOrder(ctx, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

type updateStatusDTO struct {
	Status string `json:"status"`
}

// PUT /api/orders/{id}
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	var req updateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "status must be one of pending, processing, delivered, cancelled")
		return
	}

	order, err := h.orders.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// DELETE /api/orders/{id}
func (h *OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	if err := h.orders.DeleteOrder(ctx, id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}
