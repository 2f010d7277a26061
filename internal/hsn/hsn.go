package hsn

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidMapping = errors.New("invalid hsn mapping")

// Mapping links a free-text pattern to an HSN (goods) or SAC (services) code.
type Mapping struct {
	ID         uuid.UUID
	RawPattern string
	Code       string
	CreatedAt  time.Time
}

// NormalizeCode strips spaces and dots from code and reports whether what is
// left is a 4, 6 or 8 digit HSN/SAC code.
func NormalizeCode(code string) (string, bool) {
	code = strings.NewReplacer(" ", "", ".", "").Replace(code)

	switch len(code) {
	case 4, 6, 8:
	default:
		return "", false
	}

	for _, r := range code {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	return code, true
}
