package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmartins/centsible/internal/transaction"
)

func TestComputeHash(t *testing.T) {
	date := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)

	h1 := transaction.ComputeHash(date, 784, "TST* STARBUCKS 1234", "amex")
	h2 := transaction.ComputeHash(date, 784, "TST* STARBUCKS 1234", "amex")
	h3 := transaction.ComputeHash(date, 785, "TST* STARBUCKS 1234", "amex")

	assert.Equal(t, h1, h2, "hash must be deterministic")
	assert.NotEqual(t, h1, h3, "amount change must change the hash")
	assert.Len(t, h1, 64)
}

func TestService_Ingest(t *testing.T) {
	date := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name       string
		params     transaction.IngestParams
		setupMocks func(repo *transaction.MockRepository, norm *transaction.MockNormalizer)
		wantErr    error
		check      func(t *testing.T, tx *transaction.Transaction)
	}

	tests := []testCase{
		{
			name: "Success",
			params: transaction.IngestParams{
				Date:          date,
				AmountCents:   784,
				Direction:     transaction.DirectionDebit,
				RawDescriptor: "TST* STARBUCKS 1234",
				SourceAccount: "amex",
			},
			setupMocks: func(repo *transaction.MockRepository, norm *transaction.MockNormalizer) {
				norm.EXPECT().Normalize(gomock.Any(), "TST* STARBUCKS 1234").Return("Starbucks")
				repo.EXPECT().
					UpsertByHash(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = 42
						return nil
					})
			},
			check: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, int64(42), tx.ID)
				assert.Equal(t, "Starbucks", tx.CanonicalVendor)
				assert.Equal(t, transaction.StatusIngested, tx.Status)
				assert.Equal(t, "USD", tx.Currency)
				assert.Equal(t,
					transaction.ComputeHash(date, 784, "TST* STARBUCKS 1234", "amex"),
					tx.HashID)
			},
		},
		{
			name: "ExplicitHashPreserved",
			params: transaction.IngestParams{
				Date:          date,
				AmountCents:   1500,
				Currency:      "EUR",
				Direction:     transaction.DirectionCredit,
				RawDescriptor: "PAYROLL",
				SourceAccount: "checking",
				HashID:        "precomputed",
			},
			setupMocks: func(repo *transaction.MockRepository, norm *transaction.MockNormalizer) {
				norm.EXPECT().Normalize(gomock.Any(), "PAYROLL").Return("")
				repo.EXPECT().
					UpsertByHash(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = 7
						return nil
					})
			},
			check: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, "precomputed", tx.HashID)
				assert.Equal(t, "EUR", tx.Currency)
				assert.Empty(t, tx.CanonicalVendor)
			},
		},
		{
			name: "InvalidDirection",
			params: transaction.IngestParams{
				Date:          date,
				AmountCents:   100,
				Direction:     "transfer",
				RawDescriptor: "X",
				SourceAccount: "amex",
			},
			wantErr: transaction.ErrInvalidDirection,
		},
		{
			name: "RepoError",
			params: transaction.IngestParams{
				Date:          date,
				AmountCents:   100,
				Direction:     transaction.DirectionDebit,
				RawDescriptor: "X",
				SourceAccount: "amex",
			},
			setupMocks: func(repo *transaction.MockRepository, norm *transaction.MockNormalizer) {
				norm.EXPECT().Normalize(gomock.Any(), "X").Return("")
				repo.EXPECT().
					UpsertByHash(gomock.Any(), gomock.Any()).
					Return(errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			norm := transaction.NewMockNormalizer(ctrl)

			if tt.setupMocks != nil {
				tt.setupMocks(repo, norm)
			}

			svc := transaction.NewService(repo, norm)
			tx, err := svc.Ingest(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, tx)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, tx)

			if tt.check != nil {
				tt.check(t, tx)
			}
		})
	}
}

// Re-ingesting the same content tuple must resolve to the existing row id.
func TestService_Ingest_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	norm := transaction.NewMockNormalizer(ctrl)
	svc := transaction.NewService(repo, norm)

	date := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	params := transaction.IngestParams{
		Date:          date,
		AmountCents:   784,
		Direction:     transaction.DirectionDebit,
		RawDescriptor: "HY-VEE 1234",
		SourceAccount: "amex",
	}

	seen := map[string]int64{}
	nextID := int64(1)

	norm.EXPECT().Normalize(gomock.Any(), "HY-VEE 1234").Return("Hy-Vee").Times(2)
	repo.EXPECT().
		UpsertByHash(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			if id, ok := seen[tx.HashID]; ok {
				tx.ID = id
				return nil
			}
			seen[tx.HashID] = nextID
			tx.ID = nextID
			nextID++
			return nil
		}).
		Times(2)

	first, err := svc.Ingest(context.Background(), params)
	require.NoError(t, err)

	second, err := svc.Ingest(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, seen, 1)
}

func TestService_Finalize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, transaction.NewMockNormalizer(ctrl))

	repo.EXPECT().
		UpdateCategorization(gomock.Any(), int64(9), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, params transaction.CategorizationParams) error {
			assert.Equal(t, "Dining", params.Category)
			assert.Equal(t, "Coffee", params.Subcategory)
			assert.True(t, params.Confidence.Equal(decimal.NewFromInt(1)))
			assert.Equal(t, transaction.StatusFinalized, params.Status)
			assert.Nil(t, params.CanonicalVendor)
			return nil
		})

	require.NoError(t, svc.Finalize(context.Background(), 9, "Dining", "Coffee"))
}

func TestService_UpdateReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, transaction.NewMockNormalizer(ctrl))

	repo.EXPECT().
		UpdateReceiptURL(gomock.Any(), int64(5), "https://drive.example.com/receipts/abc").
		Return(nil)

	require.NoError(t, svc.UpdateReceipt(context.Background(), 5, "https://drive.example.com/receipts/abc"))

	repo.EXPECT().
		UpdateReceiptURL(gomock.Any(), int64(404), gomock.Any()).
		Return(transaction.ErrNotFound)

	err := svc.UpdateReceipt(context.Background(), 404, "https://drive.example.com/receipts/xyz")
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}
