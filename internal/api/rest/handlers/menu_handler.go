package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/CameronXie/digital-diner/internal/api/rest/response"
	"github.com/CameronXie/digital-diner/internal/domain"
	"github.com/CameronXie/digital-diner/internal/validation"
)

// MenuStore reads and maintains the menu catalog.
type MenuStore interface {
	ListAvailable(ctx context.Context) ([]domain.MenuItem, error)
	ListByCategory(ctx context.Context, category domain.Category) ([]domain.MenuItem, error)
	Categories(ctx context.Context) ([]string, error)
	GetMenuItemByID(ctx context.Context, id string) (*domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, id string, update *domain.MenuItemUpdate) (*domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
}

// CreateMenuItemRequest is the body of POST /menu.
type CreateMenuItemRequest struct {
	Name           string                 `json:"name" validate:"required"`
	Description    string                 `json:"description" validate:"required"`
	Price          *decimal.Decimal       `json:"price" validate:"required"`
	Category       string                 `json:"category" validate:"required,menu_category"`
	ImageURL       string                 `json:"imageUrl"`
	Ingredients    []string               `json:"ingredients"`
	Dietary        *domain.Dietary        `json:"dietary"`
	SpicyLevel     *int                   `json:"spicyLevel" validate:"omitnil,min=0,max=5"`
	Popular        *bool                  `json:"popular"`
	Available      *bool                  `json:"available"`
	Customizations []domain.Customization `json:"customizations"`
}

// UpdateMenuItemRequest is the body of PUT /menu/item/{id}. Absent fields are left unchanged.
type UpdateMenuItemRequest struct {
	Name           *string                `json:"name" validate:"omitnil,min=1"`
	Description    *string                `json:"description" validate:"omitnil,min=1"`
	Price          *decimal.Decimal       `json:"price"`
	Category       *string                `json:"category" validate:"omitnil,menu_category"`
	ImageURL       *string                `json:"imageUrl"`
	Ingredients    []string               `json:"ingredients"`
	Dietary        *domain.Dietary        `json:"dietary"`
	SpicyLevel     *int                   `json:"spicyLevel" validate:"omitnil,min=0,max=5"`
	Popular        *bool                  `json:"popular"`
	Available      *bool                  `json:"available"`
	Customizations []domain.Customization `json:"customizations"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// MenuHandler serves the public menu and its admin maintenance routes.
type MenuHandler struct {
	store  MenuStore
	logger *slog.Logger
}

// NewMenuHandler creates a new MenuHandler instance
func NewMenuHandler(store MenuStore, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{store: store, logger: logger}
}

// ListAvailable handles GET /menu.
func (h *MenuHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAvailable(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONResponse(w, http.StatusOK, nonNilItems(items))
}

// Categories handles GET /menu/categories.
func (h *MenuHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.Categories(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if categories == nil {
		categories = []string{}
	}
	response.JSONResponse(w, http.StatusOK, categories)
}

// ListByCategory handles GET /menu/category/{category}.
func (h *MenuHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(pathParam(chi.URLParam(r, "category")))
	if !category.IsValid() {
		response.JSONErrorResponse(
			w,
			http.StatusBadRequest,
			"invalid category, must be one of "+strings.Join(domain.CategoryNames(), ", "),
		)
		return
	}

	items, err := h.store.ListByCategory(r.Context(), category)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONResponse(w, http.StatusOK, nonNilItems(items))
}

// GetItem handles GET /menu/item/{id}.
func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetMenuItemByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSONResponse(w, http.StatusOK, item)
}

// CreateItem handles POST /menu.
func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)

	if err := validation.Validate(&req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := checkPrice(req.Price); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	item := newMenuItem(&req)
	if err := h.store.CreateMenuItem(r.Context(), item); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "menu_item_created", "menu_item_id", item.ID)
	response.JSONResponse(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /menu/item/{id}.
func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateMenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		response.JSONErrorResponse(w, http.StatusBadRequest, invalidRequestBodyMessage)
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Price != nil {
		if err := checkPrice(req.Price); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}

	id := chi.URLParam(r, "id")
	item, err := h.store.UpdateMenuItem(r.Context(), id, newMenuItemUpdate(&req))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "menu_item_updated", "menu_item_id", id)
	response.JSONResponse(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /menu/item/{id}.
func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteMenuItem(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "menu_item_deleted", "menu_item_id", id)
	response.JSONResponse(w, http.StatusOK, MessageResponse{Message: "Menu item deleted successfully"})
}

// checkPrice validates the price as stored, rounded to cents.
func checkPrice(price *decimal.Decimal) error {
	if price.Round(2).IsPositive() {
		return nil
	}
	return &validation.Error{Fields: []validation.FieldError{
		{Field: "price", Message: "price must be greater than 0"},
	}}
}

func newMenuItem(req *CreateMenuItemRequest) *domain.MenuItem {
	item := &domain.MenuItem{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price.Round(2),
		Category:       domain.Category(req.Category),
		ImageURL:       strings.TrimSpace(req.ImageURL),
		Ingredients:    req.Ingredients,
		SpicyLevel:     domain.MinSpicyLevel,
		Available:      true,
		Customizations: req.Customizations,
	}

	if req.Dietary != nil {
		item.Dietary = *req.Dietary
	}
	if req.SpicyLevel != nil {
		item.SpicyLevel = *req.SpicyLevel
	}
	if req.Popular != nil {
		item.Popular = *req.Popular
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if item.Ingredients == nil {
		item.Ingredients = []string{}
	}
	if item.Customizations == nil {
		item.Customizations = []domain.Customization{}
	}

	return item
}

func newMenuItemUpdate(req *UpdateMenuItemRequest) *domain.MenuItemUpdate {
	update := &domain.MenuItemUpdate{
		Name:           req.Name,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Ingredients:    req.Ingredients,
		Dietary:        req.Dietary,
		SpicyLevel:     req.SpicyLevel,
		Popular:        req.Popular,
		Available:      req.Available,
		Customizations: req.Customizations,
	}

	if req.Price != nil {
		price := req.Price.Round(2)
		update.Price = &price
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		update.Category = &category
	}

	return update
}

func nonNilItems(items []domain.MenuItem) []domain.MenuItem {
	if items == nil {
		return []domain.MenuItem{}
	}
	return items
}
