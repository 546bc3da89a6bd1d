package vendor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/mmartins/centsible/internal/vendors"
)

func TestNormalizer_Clean(t *testing.T) {
	type testCase struct {
		name       string
		descriptor string
		want       string
	}

	tests := []testCase{
		{"ToastPrefix", "TST* STARBUCKS 1234", "STARBUCKS"},
		{"SquarePrefix", "SQ *BLUE BOTTLE COFFEE", "BLUE BOTTLE COFFEE"},
		{"PayPalPrefix", "PP*SPOTIFY", "SPOTIFY"},
		{"ShopifyPrefix", "SP * ALLBIRDS", "ALLBIRDS"},
		{"HashNumber", "WHOLEFDS #10272", "WHOLEFDS"},
		{"StoreNumber", "WALMART STORE 123", "WALMART"},
		{"TrailingDigits", "TRADER JOES 552", "TRADER JOES"},
		{"ShortTrailingDigitsKept", "LEVEL 42", "LEVEL 42"},
		{"WhitespaceCollapse", "UBER   TRIP  HELP.UBER.COM", "UBER TRIP HELP.UBER.COM"},
		{"Lowercase", "netflix.com", "NETFLIX.COM"},
		{"AlreadyClean", "STARBUCKS", "STARBUCKS"},
		{"Empty", "", ""},
	}

	n := vendor.NewNormalizer(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Clean(tt.descriptor))
		})
	}
}

func TestNormalizer_Normalize_ExactName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := vendor.NewMockRepository(ctrl)
	repo.EXPECT().FindByName(gomock.Any(), "Starbucks").
		Return(&vendor.Vendor{CanonicalName: "Starbucks"}, nil)

	n := vendor.NewNormalizer(repo)
	assert.Equal(t, "Starbucks", n.Normalize(context.Background(), "Starbucks"))
}

func TestNormalizer_Normalize_CleanedName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := vendor.NewMockRepository(ctrl)
	repo.EXPECT().FindByName(gomock.Any(), "TST* STARBUCKS 1234").Return(nil, nil)
	repo.EXPECT().FindByNameFold(gomock.Any(), "TST* STARBUCKS 1234").Return(nil, nil)
	repo.EXPECT().FindByNameFold(gomock.Any(), "STARBUCKS").
		Return(&vendor.Vendor{CanonicalName: "Starbucks"}, nil)

	n := vendor.NewNormalizer(repo)
	assert.Equal(t, "Starbucks", n.Normalize(context.Background(), "TST* STARBUCKS 1234"))
}

func TestNormalizer_Normalize_CleanedAlias(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := vendor.NewMockRepository(ctrl)
	repo.EXPECT().FindByName(gomock.Any(), gomock.Any()).Return(nil, nil)
	repo.EXPECT().FindByNameFold(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	repo.EXPECT().ListVendors(gomock.Any()).Return([]*vendor.Vendor{
		{CanonicalName: "Whole Foods", Aliases: []string{"WHOLEFDS"}},
	}, nil)

	n := vendor.NewNormalizer(repo)
	assert.Equal(t, "Whole Foods", n.Normalize(context.Background(), "WHOLEFDS #10272"))
}

func TestNormalizer_Normalize_Fuzzy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := vendor.NewMockRepository(ctrl)
	repo.EXPECT().FindByName(gomock.Any(), gomock.Any()).Return(nil, nil)
	repo.EXPECT().FindByNameFold(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	repo.EXPECT().ListVendors(gomock.Any()).Return([]*vendor.Vendor{
		{CanonicalName: "STARBUCKS"},
	}, nil)

	n := vendor.NewNormalizer(repo)
	assert.Equal(t, "STARBUCKS", n.Normalize(context.Background(), "TST* STARBUCKS RESERVE"))
}

func TestNormalizer_Normalize_NoMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := vendor.NewMockRepository(ctrl)
	repo.EXPECT().FindByName(gomock.Any(), gomock.Any()).Return(nil, nil)
	repo.EXPECT().FindByNameFold(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	repo.EXPECT().ListVendors(gomock.Any()).Return(nil, nil)

	n := vendor.NewNormalizer(repo)
	assert.Empty(t, n.Normalize(context.Background(), "TST* MYSTERY SHOP"))
}

func TestNormalizer_Normalize_EmptyDescriptor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No repo expectations: an empty descriptor must not hit storage.
	repo := vendor.NewMockRepository(ctrl)

	n := vendor.NewNormalizer(repo)
	assert.Empty(t, n.Normalize(context.Background(), ""))
}

func TestNormalizer_Normalize_RepoErrorSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := vendor.NewMockRepository(ctrl)
	repo.EXPECT().FindByName(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	n := vendor.NewNormalizer(repo)
	assert.Empty(t, n.Normalize(context.Background(), "STARBUCKS"))
}

func TestNormalizer_DefaultCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := vendor.NewMockRepository(ctrl)
	repo.EXPECT().FindByName(gomock.Any(), "Starbucks").
		Return(&vendor.Vendor{
			CanonicalName:      "Starbucks",
			DefaultCategory:    "Dining",
			DefaultSubcategory: "Coffee",
		}, nil)
	repo.EXPECT().FindByName(gomock.Any(), "Unknown").Return(nil, nil)

	n := vendor.NewNormalizer(repo)

	category, subcategory := n.DefaultCategory(context.Background(), "Starbucks")
	assert.Equal(t, "Dining", category)
	assert.Equal(t, "Coffee", subcategory)

	category, subcategory = n.DefaultCategory(context.Background(), "Unknown")
	assert.Empty(t, category)
	assert.Empty(t, subcategory)
}
