package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gstbook/internal/http/draft"
	"github.com/MrJamesThe3rd/gstbook/internal/importer"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

// importCSV parses an uploaded item sheet and returns it as a reconciled
// draft for the company's tax flag. Nothing is saved.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	companyID, err := uuid.Parse(r.FormValue("company_id"))
	if err != nil {
		http.Error(w, "company_id field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	doc, err := h.importSvc.Import(importer.Format(r.FormValue("format")), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	enabled, err := h.txSvc.TaxEnabled(r.Context(), companyID)
	if err != nil {
		slog.Error("failed to resolve tax flag", "company_id", companyID, "error", err)
		http.Error(w, "company not found", http.StatusBadRequest)

		return
	}

	doc.TaxEnabled = enabled
	changes, anomalies := h.txSvc.Preview(doc)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(draft.FromDocument(doc, changes, anomalies)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
