package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmartins/centsible/internal/importer"
	"github.com/mmartins/centsible/internal/transaction"
)

func TestService_Import(t *testing.T) {
	svc := importer.NewService()

	csv := strings.Join([]string{
		"Date,Description,Amount",
		"10/24/2025,HY-VEE 1234,-78.40",
		"10/25/2025,PAYROLL ACME CORP,2500.00",
	}, "\n")

	params, err := svc.Import(importer.SourceGeneric, "checking", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "HY-VEE 1234", params[0].RawDescriptor)
	assert.Equal(t, int64(7840), params[0].AmountCents)
	assert.Equal(t, transaction.DirectionDebit, params[0].Direction)
	assert.Equal(t, "checking", params[0].SourceAccount)

	assert.Equal(t, transaction.DirectionCredit, params[1].Direction)
	assert.Equal(t, int64(250000), params[1].AmountCents)
}

func TestService_Import_UnknownSource(t *testing.T) {
	svc := importer.NewService()

	_, err := svc.Import("wire", "checking", strings.NewReader("Date,Description,Amount\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown import source")
}
