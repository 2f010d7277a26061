package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gstbook/internal/company"
	"github.com/MrJamesThe3rd/gstbook/internal/http/draft"
	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/recompute", h.recompute)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}", h.update)
}

// writeError maps domain sentinels to status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, company.ErrNotFound):
		http.Error(w, "company not found", http.StatusBadRequest)
	case errors.Is(err, transaction.ErrInvalidType),
		errors.Is(err, transaction.ErrInvalidStatus),
		errors.Is(err, transaction.ErrNoLines),
		errors.Is(err, transaction.ErrInvalidLines),
		errors.Is(err, transaction.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("transaction request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type createTransactionRequest struct {
	CompanyID uuid.UUID              `json:"company_id"`
	Type      transaction.Type       `json:"type"`
	PartyName string                 `json:"party_name"`
	Date      time.Time              `json:"date"`
	Notes     string                 `json:"notes"`
	Lines     []draft.Line           `json:"lines"`
	Intents   map[int]lineitem.Field `json:"intents"`
	Amount    decimal.Decimal        `json:"amount"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.CompanyID == uuid.Nil {
		http.Error(w, "company_id is required", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		CompanyID: req.CompanyID,
		Type:      req.Type,
		PartyName: req.PartyName,
		Date:      req.Date,
		Notes:     req.Notes,
		Lines:     draft.ToLines(req.Lines),
		Intents:   req.Intents,
		Amount:    req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}

	if s := r.URL.Query().Get("company_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid company_id", http.StatusBadRequest)
			return
		}

		filter.CompanyID = &id
	}

	if s := r.URL.Query().Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	PartyName *string                `json:"party_name,omitempty"`
	Date      *time.Time             `json:"date,omitempty"`
	Notes     *string                `json:"notes,omitempty"`
	Lines     []draft.Line           `json:"lines,omitempty"`
	Intents   map[int]lineitem.Field `json:"intents,omitempty"`
	Amount    *decimal.Decimal       `json:"amount,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Update(r.Context(), id, transaction.UpdateParams{
		PartyName: req.PartyName,
		Date:      req.Date,
		Notes:     req.Notes,
		Lines:     draft.ToLines(req.Lines),
		Intents:   req.Intents,
		Amount:    req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateStatusRequest struct {
	Status transaction.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type editRequest struct {
	Line  int             `json:"line"`
	Field lineitem.Field  `json:"field"`
	Value decimal.Decimal `json:"value"`
}

// recomputeRequest carries a form's current state. The tax flag comes from
// company_id when set, otherwise from tax_enabled. An optional edit is
// applied before reconciling.
type recomputeRequest struct {
	CompanyID  *uuid.UUID             `json:"company_id,omitempty"`
	TaxEnabled bool                   `json:"tax_enabled"`
	Lines      []draft.Line           `json:"lines"`
	Intents    map[int]lineitem.Field `json:"intents"`
	Edit       *editRequest           `json:"edit,omitempty"`
}

func (h *Handler) recompute(w http.ResponseWriter, r *http.Request) {
	var req recomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	enabled := req.TaxEnabled

	if req.CompanyID != nil {
		var err error

		enabled, err = h.svc.TaxEnabled(r.Context(), *req.CompanyID)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	doc := &lineitem.Document{
		Lines:      draft.ToLines(req.Lines),
		Intents:    lineitem.IntentsFrom(req.Intents),
		TaxEnabled: enabled,
	}

	for i, l := range doc.Lines {
		if !lineitem.ValidRate(l.TaxRatePercent) {
			http.Error(w, fmt.Sprintf("line %d: tax rate must be between 0 and 100", i+1), http.StatusBadRequest)
			return
		}
	}

	var changes lineitem.Changes

	if req.Edit != nil {
		if req.Edit.Line < 0 || req.Edit.Line >= len(doc.Lines) {
			http.Error(w, "edit.line out of range", http.StatusBadRequest)
			return
		}

		if req.Edit.Field == lineitem.FieldTaxRatePercent && !lineitem.ValidRate(req.Edit.Value) {
			http.Error(w, "edit.value: tax rate must be between 0 and 100", http.StatusBadRequest)
			return
		}

		changes = doc.Edit(req.Edit.Line, req.Edit.Field, req.Edit.Value)
	}

	more, anomalies := h.svc.Preview(doc)
	changes = append(changes, more...)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(draft.FromDocument(doc, changes, anomalies)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
