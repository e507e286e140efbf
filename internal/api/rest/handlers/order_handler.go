package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/CameronXie/digital-diner/internal/api/rest/response"
	"github.com/CameronXie/digital-diner/internal/domain"
	"github.com/CameronXie/digital-diner/internal/ordering"
)

// OrderService places, reads and progresses orders.
type OrderService interface {
	CreateOrder(ctx context.Context, req *ordering.CreateOrderRequest) (*domain.Order, error)
	LookupByPhone(ctx context.Context, phone string) ([]domain.Order, error)
	GetOrderDetails(ctx context.Context, rawID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, rawID string, status domain.OrderStatus) (int64, error)
}

// CreatedOrderItem is one line of a CreatedOrderResponse.
type CreatedOrderItem struct {
	MenuItemID          string                     `json:"menuItemId"`
	Quantity            int                        `json:"quantity"`
	SpecialInstructions *string                    `json:"specialInstructions"`
	Customizations      []domain.LineCustomization `json:"customizations"`
	MenuItemName        string                     `json:"menuItemName"`
	UnitPrice           decimal.Decimal            `json:"unitPrice"`
}

// CreatedOrderResponse is the checkout confirmation.
type CreatedOrderResponse struct {
	ID           int64              `json:"id"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	Status       domain.OrderStatus `json:"status"`
	ContactName  string             `json:"contactName"`
	ContactPhone string             `json:"contactPhone"`
	Items        []CreatedOrderItem `json:"items"`
	PickupTime   *time.Time         `json:"pickupTime"`
}

func newCreatedOrderResponse(o *domain.Order) CreatedOrderResponse {
	items := make([]CreatedOrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		customizations := it.Customizations
		if customizations == nil {
			customizations = []domain.LineCustomization{}
		}
		items = append(items, CreatedOrderItem{
			MenuItemID:          it.MenuItemID,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
			Customizations:      customizations,
			MenuItemName:        it.MenuItemName,
			UnitPrice:           it.UnitPrice,
		})
	}

	return CreatedOrderResponse{
		ID:           o.ID,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
		ContactName:  o.ContactName,
		ContactPhone: o.ContactPhone,
		Items:        items,
		PickupTime:   o.PickupTime,
	}
}

// UpdateStatusRequest is the body of PUT /orders/{id}/status.
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// OrderStatus confirms a status change.
type OrderStatus struct {
	ID     int64              `json:"id"`
	Status domain.OrderStatus `json:"status"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	service OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new OrderHandler instance
func NewOrderHandler(service OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: logger}
}

// CreateOrder handles POST /orders.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req ordering.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONResponse(w, http.StatusCreated, newCreatedOrderResponse(order))
}

// ListByPhone handles GET /orders/phone/{phone}.
func (h *OrderHandler) ListByPhone(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.LookupByPhone(r.Context(), pathParam(chi.URLParam(r, "phone")))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONResponse(w, http.StatusOK, orders)
}

// GetOrder handles GET /orders/{id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrderDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONResponse(w, http.StatusOK, order)
}

// UpdateStatus handles PUT /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	id, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONResponse(w, http.StatusOK, OrderStatus{ID: id, Status: req.Status})
}
