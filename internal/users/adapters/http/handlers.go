package http

import (
	"encoding/json"
	"net/http"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/httpx"
	"github.com/example/storefront/internal/users/app"
	"github.com/example/storefront/internal/users/domain"
	"github.com/go-chi/chi/v5"
)

// Handler exposes HTTP endpoints for registration, login and profiles.
type Handler struct {
	service *app.Service
	tokens  *auth.TokenService
}

func NewHandler(service *app.Service, tokens *auth.TokenService) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// Register binds the auth and profile routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})
	r.Route("/v1/me", func(r chi.Router) {
		r.Use(auth.RequireUser(h.tokens))
		r.Get("/", h.profile)
		r.Put("/", h.updateProfile)
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := h.service.Register(r.Context(), domain.Registration{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		FullName: payload.FullName,
		Phone:    payload.Phone,
		Address:  payload.Address,
	})
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"user": user})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, token, err := h.service.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		// Bad credentials read as 401, not 400.
		if apperr.IsKind(err, apperr.KindValidation) {
			httpx.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}
		httpx.WriteAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	user, err := h.service.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	var payload updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), claims.UserID, app.ProfileUpdate{
		FullName: payload.FullName,
		Phone:    payload.Phone,
		Address:  payload.Address,
	})
	if err != nil {
		httpx.WriteAppError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}
