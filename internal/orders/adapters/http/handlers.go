package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/httpx"
	"github.com/example/storefront/internal/orders/app"
	"github.com/example/storefront/internal/orders/app/commands"
	"github.com/example/storefront/internal/orders/app/queries"
	"github.com/example/storefront/internal/orders/domain"
	"github.com/example/storefront/internal/orders/ports"
	"github.com/go-chi/chi/v5"
)

// Handler exposes HTTP endpoints for order operations.
type Handler struct {
	service *app.Service
	tokens  *auth.TokenService
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service, tokens *auth.TokenService) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// Register binds the order routes. User routes require a bearer token; the
// admin listing and status update additionally require the admin role.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/orders", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(h.tokens))
			r.Post("/", h.placeOrder)
			r.Get("/", h.listUserOrders)
			r.Get("/{id}", h.getOrder)
			r.Post("/{id}/cancel", h.cancelOrder)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(h.tokens))
			r.Get("/admin", h.listAllOrders)
			r.Put("/{id}/status", h.updateStatus)
		})
	})
}

type placeOrderRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	PaymentMethod   string `json:"payment_method"`
	Items           []struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	} `json:"items"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, _ := auth.ClaimsFromContext(ctx)

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Idempotency-Key header required")
		return
	}

	if stored, err := h.service.GetIdempotentResponse(ctx, idemKey); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	} else if stored != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(stored.StatusCode)
		_, _ = w.Write(stored.Body)
		return
	}

	var payload placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	cmd := commands.PlaceOrderCommand{
		UserID:          claims.UserID,
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		CustomerAddress: payload.CustomerAddress,
		PaymentMethod:   payload.PaymentMethod,
	}
	for _, item := range payload.Items {
		cmd.Lines = append(cmd.Lines, commands.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.service.PlaceOrder(ctx, cmd)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	body, err := json.Marshal(map[string]any{"order": order})
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	stored := ports.StoredResponse{
		StatusCode: http.StatusCreated,
		Body:       body,
		OrderID:    order.ID,
	}
	if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	// Owners see their own orders; admins see everything.
	if order.UserID != claims.UserID && claims.Role != auth.RoleAdmin {
		httpx.WriteError(w, http.StatusNotFound, "order not found")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	orders, err := h.service.ListUserOrders(r.Context(), claims.UserID)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	query := queries.ListOrdersQuery{}
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := domain.ParseStatus(statusParam)
		query.Status = &status
	}
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		if page, err := strconv.Atoi(pageParam); err == nil {
			query.Page = page
		}
	}
	if pageSizeParam := r.URL.Query().Get("page_size"); pageSizeParam != "" {
		if pageSize, err := strconv.Atoi(pageSizeParam); err == nil {
			query.PageSize = pageSize
		}
	}

	orders, err := h.service.ListOrders(r.Context(), query)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	order, err := h.service.CancelOrder(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"order": order})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var payload updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	order, err := h.service.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"order": order})
}
