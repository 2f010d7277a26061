package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/gstbook/internal/auth"
)

type Handler struct {
	issuer *auth.Issuer
}

func NewHandler(issuer *auth.Issuer) *Handler {
	return &Handler{issuer: issuer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/token", h.token)
}

type tokenRequest struct {
	APIKey  string `json:"api_key"`
	Subject string `json:"subject"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Subject == "" {
		req.Subject = "api"
	}

	token, expires, err := h.issuer.Exchange(req.APIKey, req.Subject)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidAPIKey) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(tokenResponse{Token: token, ExpiresAt: expires}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
