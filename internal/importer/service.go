package importer

import (
	"fmt"
	"io"

	"github.com/mmartins/centsible/internal/importer/generic"
	"github.com/mmartins/centsible/internal/transaction"
)

type Service struct {
	generic Importer
}

func NewService() *Service {
	return &Service{
		generic: generic.NewParser(),
	}
}

// Import parses a statement export into ingestion params. The account
// name is stamped on every parsed transaction.
func (s *Service) Import(source Source, account string, r io.Reader) ([]transaction.IngestParams, error) {
	var importer Importer

	switch source {
	case SourceGeneric:
		importer = s.generic
	default:
		return nil, fmt.Errorf("unknown import source: %s", source)
	}

	return importer.Parse(r, account)
}
