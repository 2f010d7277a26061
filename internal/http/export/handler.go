package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gstbook/internal/export"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	CompanyID *uuid.UUID        `json:"company_id,omitempty"`
	Type      *transaction.Type `json:"type,omitempty"`
	StartDate *time.Time        `json:"start_date,omitempty"`
	EndDate   *time.Time        `json:"end_date,omitempty"`
}

func (req exportRequest) filter() transaction.ListFilter {
	return transaction.ListFilter{
		CompanyID: req.CompanyID,
		Type:      req.Type,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
}

type transactionResponse struct {
	ID           uuid.UUID        `json:"id"`
	Number       string           `json:"number"`
	Type         transaction.Type `json:"type"`
	PartyName    string           `json:"party_name"`
	Date         time.Time        `json:"date"`
	InvoiceTotal decimal.Decimal  `json:"invoice_total"`
}

type exportMetadataResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Summary      string                `json:"summary"`
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var register bytes.Buffer

	txs, err := h.svc.Export(r.Context(), req.filter(), &register)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := exportMetadataResponse{
		Transactions: make([]transactionResponse, 0, len(txs)),
		Summary:      h.svc.Summary(txs),
	}

	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, transactionResponse{
			ID:           tx.ID,
			Number:       tx.Number,
			Type:         tx.Type,
			PartyName:    tx.PartyName,
			Date:         tx.Date,
			InvoiceTotal: tx.Totals.InvoiceTotal,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// download streams a zip holding register.csv and summary.txt.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var register bytes.Buffer

	txs, err := h.svc.Export(r.Context(), req.filter(), &register)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"register_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	files := []struct {
		name string
		body []byte
	}{
		{name: "register.csv", body: register.Bytes()},
		{name: "summary.txt", body: []byte(h.svc.Summary(txs))},
	}

	for _, f := range files {
		zf, err := zipWriter.Create(f.name)
		if err != nil {
			slog.Error("failed to create zip entry", "name", f.name, "error", err)
			return
		}

		if _, err := zf.Write(f.body); err != nil {
			slog.Error("failed to write zip entry", "name", f.name, "error", err)
			return
		}
	}
}
