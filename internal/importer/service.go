package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/gstbook/internal/importer/itemcsv"
	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

type Service struct {
	itemImporter Importer
}

func NewService() *Service {
	return &Service{
		itemImporter: itemcsv.NewParser(),
	}
}

// Import parses r with the importer registered for format. An empty format
// means FormatGeneric.
func (s *Service) Import(format Format, r io.Reader) (*lineitem.Document, error) {
	var importer Importer

	switch format {
	case FormatGeneric, "":
		importer = s.itemImporter
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return importer.Parse(r)
}
