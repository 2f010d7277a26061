package company

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gstbook/internal/company"
)

type Handler struct {
	svc *company.Service
}

func NewHandler(svc *company.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/gstin", h.updateGSTIN)
}

type companyResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	GSTIN         string     `json:"gstin,omitempty"`
	StateCode     string     `json:"state_code,omitempty"`
	TaxRegistered bool       `json:"tax_registered"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func toResponse(c *company.Company) companyResponse {
	return companyResponse{
		ID:            c.ID,
		Name:          c.Name,
		GSTIN:         c.GSTIN,
		StateCode:     c.StateCode,
		TaxRegistered: c.TaxRegistered(),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, company.ErrNotFound):
		http.Error(w, "company not found", http.StatusNotFound)
	case errors.Is(err, company.ErrInvalidName), errors.Is(err, company.ErrInvalidGSTIN):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("company request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type createCompanyRequest struct {
	Name  string `json:"name"`
	GSTIN string `json:"gstin"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Create(r.Context(), company.CreateParams{Name: req.Name, GSTIN: req.GSTIN})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(c)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companies, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]companyResponse, len(companies))
	for i, c := range companies {
		resp[i] = toResponse(c)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(c)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateGSTINRequest struct {
	GSTIN string `json:"gstin"`
}

func (h *Handler) updateGSTIN(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateGSTINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateGSTIN(r.Context(), id, req.GSTIN); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
