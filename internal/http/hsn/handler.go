package hsn

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/gstbook/internal/hsn"
)

type Handler struct {
	svc *hsn.Service
}

func NewHandler(svc *hsn.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Description string `json:"description"`
	Code        string `json:"code"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	if desc == "" {
		http.Error(w, "description query parameter is required", http.StatusBadRequest)
		return
	}

	code, err := h.svc.Suggest(r.Context(), desc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(suggestResponse{
		Description: desc,
		Code:        code,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	RawPattern string `json:"raw_pattern"`
	Code       string `json:"code"`
}

type mappingResponse struct {
	ID         string `json:"id"`
	RawPattern string `json:"raw_pattern"`
	Code       string `json:"code"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.svc.Learn(r.Context(), req.RawPattern, req.Code)
	if err != nil {
		if errors.Is(err, hsn.ErrInvalidMapping) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(mappingResponse{
		ID:         m.ID.String(),
		RawPattern: m.RawPattern,
		Code:       m.Code,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
