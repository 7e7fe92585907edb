package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const sessionCookie = "cart_session"

// Handler exposes HTTP endpoints for cart management and checkout. Carts are
// anonymous, keyed by a session cookie; checkout requires a signed-in user.
type Handler struct {
	service *cart.Service
	tokens  *auth.TokenService
}

func NewHandler(service *cart.Service, tokens *auth.TokenService) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// Register binds the cart routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addItem)
		r.Put("/items/{productID}", h.updateItem)
		r.Delete("/items/{productID}", h.removeItem)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(h.tokens))
			r.Post("/checkout", h.checkout)
		})
	})
}

// sessionID reads the cart session cookie, minting one when absent.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
	return id
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCart(r.Context(), sessionID(w, r))
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	writeCart(w, http.StatusOK, c)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context(), sessionID(w, r)); err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var payload addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	c, err := h.service.AddItem(r.Context(), sessionID(w, r), payload.ProductID, payload.Quantity)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	writeCart(w, http.StatusOK, c)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathProductID(w, r)
	if !ok {
		return
	}

	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	c, err := h.service.UpdateItem(r.Context(), sessionID(w, r), productID, payload.Quantity)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	writeCart(w, http.StatusOK, c)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathProductID(w, r)
	if !ok {
		return
	}

	c, err := h.service.RemoveItem(r.Context(), sessionID(w, r), productID)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}
	writeCart(w, http.StatusOK, c)
}

type checkoutRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	PaymentMethod   string `json:"payment_method"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	var payload checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	order, err := h.service.Checkout(r.Context(), sessionID(w, r), cart.CheckoutRequest{
		UserID:          claims.UserID,
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		CustomerAddress: payload.CustomerAddress,
		PaymentMethod:   payload.PaymentMethod,
	})
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"order": order})
}

func writeCart(w http.ResponseWriter, status int, c *cart.Cart) {
	httpx.WriteJSON(w, status, map[string]any{
		"session_id": c.SessionID,
		"items":      c.Items(),
	})
}

func pathProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}
