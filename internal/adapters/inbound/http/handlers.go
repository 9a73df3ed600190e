package httpin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"restaurant_service/internal/core/codec"
	"restaurant_service/internal/core/domain"
	"restaurant_service/internal/ports/inbound"

	"go.uber.org/zap"
)

type Handlers struct {
	orders   inbound.OrderUseCase
	menu     inbound.MenuUseCase
	adminKey string
	logger   *zap.Logger
}

func NewHandlers(orders inbound.OrderUseCase, menu inbound.MenuUseCase, adminKey string, logger *zap.Logger) *Handlers {
	return &Handlers{orders: orders, menu: menu, adminKey: adminKey, logger: logger}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.health)
	mux.HandleFunc("/api/menu", h.menuCollection)
	mux.HandleFunc("/api/menu/", h.menuItem)
	mux.HandleFunc("/api/orders", h.orderCollection)
	mux.HandleFunc("/api/orders/", h.orderItem)
	mux.HandleFunc("/api/admin/sync-sequence", h.syncSequence)
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// menu

type menuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

func (h *Handlers) menuCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := h.menu.List(r.Context())
		if err != nil {
			h.internalError(w, "list menu", err)
			return
		}
		writeJSONText(w, renderMenu(items), http.StatusOK)
	case http.MethodPost:
		if !h.isAdmin(r) {
			writeError(w, http.StatusForbidden, "admin key required")
			return
		}
		var req menuItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		created, err := h.menu.Create(r.Context(), domain.MenuItem{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
		})
		if err != nil {
			h.internalError(w, "create menu item", err)
			return
		}
		writeJSONText(w, renderMenuItem(created), http.StatusCreated)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handlers) menuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := trailingID(r.URL.Path, "/api/menu/")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		if !h.isAdmin(r) {
			writeError(w, http.StatusForbidden, "admin key required")
			return
		}
		var req menuItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		err := h.menu.Update(r.Context(), domain.MenuItem{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
		})
		if errors.Is(err, domain.ErrMenuItemNotFound) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		if err != nil {
			h.internalError(w, "update menu item", err)
			return
		}
		writeJSONText(w, `{"updated":true}`, http.StatusOK)
	case http.MethodDelete:
		if !h.isAdmin(r) {
			writeError(w, http.StatusForbidden, "admin key required")
			return
		}
		err := h.menu.Delete(r.Context(), id)
		if errors.Is(err, domain.ErrMenuItemNotFound) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		if err != nil {
			h.internalError(w, "delete menu item", err)
			return
		}
		writeJSONText(w, codec.EncodeObject(codec.Int("deleted", id)), http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// orders

type orderItemRequest struct {
	MenuItemID int `json:"menuItemId"`
	Quantity   int `json:"quantity"`
}

type createOrderRequest struct {
	CustomerName string             `json:"customerName"`
	Items        []orderItemRequest `json:"items"`
}

func (h *Handlers) orderCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		orders, err := h.orders.List(r.Context())
		if err != nil {
			h.internalError(w, "list orders", err)
			return
		}
		writeJSONText(w, renderOrders(orders), http.StatusOK)
	case http.MethodPost:
		h.createOrder(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handlers) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Input validation lives here; the core trusts its callers.
	if strings.TrimSpace(req.CustomerName) == "" {
		writeError(w, http.StatusBadRequest, "customer name is required")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order must contain at least one item")
		return
	}
	items := make([]inbound.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			writeError(w, http.StatusBadRequest, "item quantity must be positive")
			return
		}
		items = append(items, inbound.ItemRequest{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
	}

	order, err := h.orders.Create(r.Context(), req.CustomerName, items)
	if err != nil {
		h.internalError(w, "create order", err)
		return
	}
	writeJSONText(w, renderOrder(order), http.StatusCreated)
}

// orderItem handles /api/orders/{id} and /api/orders/{id}/items.
func (h *Handlers) orderItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/orders/")

	if tail, found := strings.CutSuffix(rest, "/items"); found {
		id, err := strconv.Atoi(tail)
		if err != nil || id < 1 {
			writeError(w, http.StatusBadRequest, "invalid order id")
			return
		}
		h.appendOrderItem(w, r, id)
		return
	}

	id, err := strconv.Atoi(rest)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		order, err := h.orders.Get(r.Context(), id)
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		if err != nil {
			h.internalError(w, "get order", err)
			return
		}
		writeJSONText(w, renderOrder(order), http.StatusOK)
	case http.MethodDelete:
		err := h.orders.Delete(r.Context(), id)
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		if err != nil {
			h.internalError(w, "delete order", err)
			return
		}
		writeJSONText(w, codec.EncodeObject(codec.Int("deleted", id)), http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handlers) appendOrderItem(w http.ResponseWriter, r *http.Request, orderID int) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req orderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "item quantity must be positive")
		return
	}

	order, err := h.orders.AddItem(r.Context(), orderID, req.MenuItemID, req.Quantity)
	if errors.Is(err, domain.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		h.internalError(w, "append order item", err)
		return
	}
	writeJSONText(w, renderOrder(order), http.StatusOK)
}

func (h *Handlers) syncSequence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.isAdmin(r) {
		writeError(w, http.StatusForbidden, "admin key required")
		return
	}

	if err := h.orders.SyncIDSequence(r.Context()); err != nil {
		h.internalError(w, "sync id sequence", err)
		return
	}
	writeJSONText(w, `{"synced":true}`, http.StatusOK)
}

func (h *Handlers) isAdmin(r *http.Request) bool {
	return h.adminKey != "" && r.Header.Get("X-Admin-Key") == h.adminKey
}

func (h *Handlers) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op+" failed", zap.Error(err))
	if errors.Is(err, domain.ErrStorageUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSONText(w http.ResponseWriter, body string, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONText(w, codec.EncodeObject(codec.String("error", msg)), status)
}

func trailingID(path, prefix string) (int, bool) {
	raw := strings.TrimPrefix(path, prefix)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
