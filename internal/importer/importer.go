package importer

import (
	"io"

	"github.com/mmartins/centsible/internal/transaction"
)

type Source string

const (
	// SourceGeneric auto-detects the statement layout from its header.
	SourceGeneric Source = "generic"
)

type Importer interface {
	Parse(r io.Reader, account string) ([]transaction.IngestParams, error)
}
