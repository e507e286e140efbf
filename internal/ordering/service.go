package ordering

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CameronXie/digital-diner/internal/domain"
	"github.com/CameronXie/digital-diner/internal/validation"
)

// RecentOrdersLimit is how many orders a user profile shows.
const RecentOrdersLimit = 5

// OrderStore persists orders and their items.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	ListOrdersByPhone(ctx context.Context, phone string) ([]domain.Order, error)
	ListRecentOrdersByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

// Recorder observes order outcomes, e.g. for metrics.
type Recorder interface {
	OrderCreated(lines int, total decimal.Decimal)
	OrderStatusUpdated(status domain.OrderStatus)
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items        []LineRequest `json:"items" validate:"required,min=1"`
	ContactName  string        `json:"contactName" validate:"required"`
	ContactPhone string        `json:"contactPhone" validate:"required"`
	UserID       *string       `json:"userId,omitempty"`
	PickupTime   *time.Time    `json:"pickupTime,omitempty"`
}

// Service places orders and serves order reads and status changes.
type Service struct {
	validator *Validator
	store     OrderStore
	recorder  Recorder
	logger    *slog.Logger
}

// NewService creates a new Service instance
func NewService(validator *Validator, store OrderStore, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{
		validator: validator,
		store:     store,
		recorder:  recorder,
		logger:    logger,
	}
}

// CreateOrder validates req and stores the order with status pending in one transaction.
// Nothing is written when validation fails.
func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*domain.Order, error) {
	req.ContactName = strings.TrimSpace(req.ContactName)
	req.ContactPhone = strings.TrimSpace(req.ContactPhone)

	if err := validation.Validate(req); err != nil {
		return nil, fromValidation(err)
	}

	items, total, err := s.validator.Validate(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:       nonEmpty(req.UserID),
		TotalAmount:  total,
		Status:       domain.OrderStatusPending,
		PickupTime:   req.PickupTime,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		Items:        items,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	s.recorder.OrderCreated(len(order.Items), order.TotalAmount)
	s.logger.Info(
		"order_created",
		"order_id", order.ID,
		"items", len(order.Items),
		"total_amount", order.TotalAmount.StringFixed(2),
	)

	return order, nil
}

// LookupByPhone returns the order headers placed with phone, newest first.
func (s *Service) LookupByPhone(ctx context.Context, phone string) ([]domain.Order, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, invalidInput("phone number is required")
	}

	orders, err := s.store.ListOrdersByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("lookup orders by phone: %w", err)
	}

	if orders == nil {
		orders = []domain.Order{}
	}

	return orders, nil
}

// GetOrderDetails returns an order with its items. rawID must be a positive integer.
func (s *Service) GetOrderDetails(ctx context.Context, rawID string) (*domain.Order, error) {
	id, err := ParseOrderID(rawID)
	if err != nil {
		return nil, err
	}

	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order details: %w", err)
	}

	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}

	return order, nil
}

// UpdateStatus sets the status of an order. Any status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, rawID string, status domain.OrderStatus) (int64, error) {
	id, err := ParseOrderID(rawID)
	if err != nil {
		return 0, err
	}

	if !status.IsValid() {
		return 0, invalidInput("valid status is required, one of " + strings.Join(domain.OrderStatusNames(), ", "))
	}

	if err := s.store.UpdateOrderStatus(ctx, id, status); err != nil {
		return 0, fmt.Errorf("update order status: %w", err)
	}

	s.recorder.OrderStatusUpdated(status)
	s.logger.Info("order_status_updated", "order_id", id, "status", status)

	return id, nil
}

// RecentOrdersForUser returns the newest orders placed by a signed-in user.
func (s *Service) RecentOrdersForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.store.ListRecentOrdersByUser(ctx, userID, RecentOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("recent orders for user: %w", err)
	}

	if orders == nil {
		orders = []domain.Order{}
	}

	return orders, nil
}

// ParseOrderID accepts only positive base-10 integers.
func ParseOrderID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidInput("valid order id is required")
	}
	return id, nil
}
