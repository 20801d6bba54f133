package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminaspa/booking-cart/internal/domain/promotion"
)

func TestFileSource_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundles.json.gz")

	in := []promotion.Bundle{
		{
			PromotionID:     1,
			Code:            "GLOW",
			DiscountPercent: decimal.NewFromInt(20),
			Treatments: []promotion.TreatmentRef{
				{TreatmentID: 1, Name: "Facial", Price: decimal.NewFromInt(1000)},
			},
		},
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteSnapshot(f, in))
	require.NoError(t, f.Close())

	out, err := NewFileSource(path).Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].PromotionID)
	require.Len(t, out[0].Treatments, 1)
	assert.True(t, decimal.NewFromInt(1000).Equal(out[0].Treatments[0].Price))
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json.gz")).Fetch(context.Background())
	require.Error(t, err)
}

func TestFileSource_NotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"promotions": []}`), 0o600))

	_, err := NewFileSource(path).Fetch(context.Background())
	require.Error(t, err)
}
