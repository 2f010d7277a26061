package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gstbook/internal/catalog"
	"github.com/MrJamesThe3rd/gstbook/internal/http/draft"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/line", h.seed)
}

type itemResponse struct {
	ID             uuid.UUID        `json:"id"`
	CompanyID      uuid.UUID        `json:"company_id"`
	Kind           catalog.Kind     `json:"kind"`
	Name           string           `json:"name"`
	Unit           string           `json:"unit,omitempty"`
	SellingPrice   decimal.Decimal  `json:"selling_price"`
	HSNCode        string           `json:"hsn_code,omitempty"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent,omitempty"`
}

func toResponse(item *catalog.Item) itemResponse {
	return itemResponse{
		ID:             item.ID,
		CompanyID:      item.CompanyID,
		Kind:           item.Kind,
		Name:           item.Name,
		Unit:           item.Unit,
		SellingPrice:   item.SellingPrice,
		HSNCode:        item.HSNCode,
		TaxRatePercent: item.TaxRatePercent,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		http.Error(w, "catalog item not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrInvalidItem):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("catalog request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type createItemRequest struct {
	CompanyID      uuid.UUID        `json:"company_id"`
	Kind           catalog.Kind     `json:"kind"`
	Name           string           `json:"name"`
	Unit           string           `json:"unit"`
	SellingPrice   decimal.Decimal  `json:"selling_price"`
	HSNCode        string           `json:"hsn_code"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.CompanyID == uuid.Nil {
		http.Error(w, "company_id is required", http.StatusBadRequest)
		return
	}

	item, err := h.svc.Create(r.Context(), catalog.CreateParams{
		CompanyID:      req.CompanyID,
		Kind:           req.Kind,
		Name:           req.Name,
		Unit:           req.Unit,
		SellingPrice:   req.SellingPrice,
		HSNCode:        req.HSNCode,
		TaxRatePercent: req.TaxRatePercent,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(item)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(r.URL.Query().Get("company_id"))
	if err != nil {
		http.Error(w, "company_id query parameter is required", http.StatusBadRequest)
		return
	}

	filter := catalog.ListFilter{CompanyID: companyID}

	if s := r.URL.Query().Get("kind"); s != "" {
		filter.Kind = new(catalog.Kind(s))
	}

	items, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]itemResponse, len(items))
	for i, item := range items {
		resp[i] = toResponse(item)
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

	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(item)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// seed returns the default line a form should insert for the item.
func (h *Handler) seed(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	line, err := h.svc.Seed(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(draft.FromLine(line)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
