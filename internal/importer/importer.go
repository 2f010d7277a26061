package importer

import (
	"io"

	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

type Format string

const (
	FormatGeneric Format = "generic"
)

// Importer turns an uploaded sheet into an unreconciled draft document.
type Importer interface {
	Parse(r io.Reader) (*lineitem.Document, error)
}
