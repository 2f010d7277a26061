package transaction_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/gstbook/internal/http/draft"
	httptx "github.com/MrJamesThe3rd/gstbook/internal/http/transaction"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

func newRouter(svc *transaction.Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/transactions", httptx.NewHandler(svc).Routes)

	return r
}

func TestHandler_Recompute(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, doc draft.Document)
	}

	tests := []testCase{
		{
			name: "EditLineTotal",
			body: `{
				"tax_enabled": true,
				"lines": [{"item_type": "product", "quantity": "2", "price_per_unit": "100", "tax_rate_percent": "18"}],
				"edit": {"line": 0, "field": "line_total", "value": "118"}
			}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, doc draft.Document) {
				require.Len(t, doc.Lines, 1)
				assert.Equal(t, "100.00", doc.Lines[0].Amount.StringFixed(2))
				assert.Equal(t, "50.00", doc.Lines[0].PricePerUnit.StringFixed(2))
				assert.Equal(t, "18.00", doc.Lines[0].LineTax.StringFixed(2))
				assert.Equal(t, "118.00", doc.Totals.InvoiceTotal.StringFixed(2))
				assert.Equal(t, "line_total", string(doc.Intents[0]))
				assert.NotEmpty(t, doc.Changes)
				assert.Empty(t, doc.Anomalies)
			},
		},
		{
			name: "TaxDisabled",
			body: `{
				"tax_enabled": false,
				"lines": [{"item_type": "service", "amount": "1000", "tax_rate_percent": "18"}]
			}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, doc draft.Document) {
				assert.Equal(t, "1000.00", doc.Lines[0].LineTotal.StringFixed(2))
				assert.True(t, doc.Totals.TaxAmount.IsZero())
				assert.Equal(t, "18", doc.Lines[0].TaxRatePercent.String())
			},
		},
		{
			name: "ReportsAnomalies",
			body: `{
				"tax_enabled": true,
				"lines": [{"item_type": "service", "amount": "5", "line_total": "-10", "tax_rate_percent": "18"}],
				"intents": {"0": "line_total"}
			}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, doc draft.Document) {
				require.Len(t, doc.Anomalies, 2)
				assert.Equal(t, "line 1: amount must not be negative (got -8.47)", doc.Anomalies[0].Message)
			},
		},
		{
			name:       "EditOutOfRange",
			body:       `{"lines": [], "edit": {"line": 3, "field": "amount", "value": "1"}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "NegativeRateWithLineTotalEdit",
			body: `{
				"lines": [{"item_type": "service", "amount": "10", "tax_rate_percent": "-100"}],
				"edit": {"line": 0, "field": "line_total", "value": "10"}
			}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "EditRateAboveHundred",
			body: `{
				"lines": [{"item_type": "service", "amount": "10", "tax_rate_percent": "18"}],
				"edit": {"line": 0, "field": "tax_rate_percent", "value": "250"}
			}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedBody",
			body:       `{"lines": `,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := transaction.NewService(nil, nil, nil)

			req := httptest.NewRequest(http.MethodPost, "/transactions/recompute", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			newRouter(svc).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.check == nil {
				return
			}

			var doc draft.Document
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
			tt.check(t, doc)
		})
	}
}

func TestHandler_Recompute_CompanyFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	taxes := transaction.NewMockTaxSource(ctrl)
	svc := transaction.NewService(nil, taxes, nil)

	companyID := uuid.New()
	taxes.EXPECT().TaxEnabled(gomock.Any(), companyID).Return(false, nil)

	body := `{"company_id": "` + companyID.String() + `", "tax_enabled": true,
		"lines": [{"item_type": "service", "amount": "200", "tax_rate_percent": "18"}]}`

	req := httptest.NewRequest(http.MethodPost, "/transactions/recompute", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var doc draft.Document
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	assert.False(t, doc.TaxEnabled)
	assert.Equal(t, "200.00", doc.Totals.InvoiceTotal.StringFixed(2))
}

func TestHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, nil, nil)

	missing := uuid.New()
	repo.EXPECT().GetTransaction(gomock.Any(), missing).Return(nil, transaction.ErrNotFound)

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/"+missing.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Create_InvalidLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	taxes := transaction.NewMockTaxSource(ctrl)
	svc := transaction.NewService(transaction.NewMockRepository(ctrl), taxes, nil)

	companyID := uuid.New()
	taxes.EXPECT().TaxEnabled(gomock.Any(), companyID).Return(true, nil)

	body := `{"company_id": "` + companyID.String() + `", "type": "sale",
		"lines": [{"item_type": "service", "amount": "-50", "tax_rate_percent": "18"}]}`

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid line items")
}
