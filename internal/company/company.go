package company

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("company not found")
	ErrInvalidName  = errors.New("company name is required")
	ErrInvalidGSTIN = errors.New("invalid GSTIN")
)

// Company is the business issuing or receiving transactions.
type Company struct {
	ID        uuid.UUID
	Name      string
	GSTIN     string // empty when not registered for GST
	StateCode string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// TaxRegistered reports whether the company has a GSTIN, which is what
// enables tax on its transactions.
func (c *Company) TaxRegistered() bool {
	return strings.TrimSpace(c.GSTIN) != ""
}

// NormalizeGSTIN upper-cases and trims a GSTIN and checks its shape:
// 15 alphanumerics starting with the two-digit state code.
func NormalizeGSTIN(s string) (string, error) {
	gstin := strings.ToUpper(strings.TrimSpace(s))
	if gstin == "" {
		return "", nil
	}

	if len(gstin) != 15 {
		return "", ErrInvalidGSTIN
	}

	for i, r := range gstin {
		isDigit := r >= '0' && r <= '9'
		isUpper := r >= 'A' && r <= 'Z'

		if i < 2 && !isDigit {
			return "", ErrInvalidGSTIN
		}

		if !isDigit && !isUpper {
			return "", ErrInvalidGSTIN
		}
	}

	return gstin, nil
}
