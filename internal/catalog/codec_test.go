package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminaspa/booking-cart/internal/domain/promotion"
)

const samplePayload = `{
  "promotions": [
    {
      "promotion_id": 7,
      "code": "GLOW20",
      "name": "Glow Duo",
      "description": "Facial + massage",
      "discount_percent": 20,
      "treatments": [
        {"treatment_id": 1, "name": "Signature Facial", "category": "Facial", "price": 1000},
        {"treatment_id": 2, "name": "Aroma Massage", "category": "Body", "price": 500.5}
      ]
    },
    {
      "promotion_id": 8,
      "code": null,
      "name": null,
      "description": null,
      "discount_percent": 15.5,
      "treatments": []
    }
  ],
  "total": 2
}`

func TestDecodeBundles_SamplePayload(t *testing.T) {
	bundles, err := DecodeBundles([]byte(samplePayload))

	require.NoError(t, err)
	require.Len(t, bundles, 2)

	b := bundles[0]
	assert.Equal(t, int64(7), b.PromotionID)
	assert.Equal(t, "GLOW20", b.Code)
	assert.Equal(t, "Glow Duo", b.Name)
	assert.True(t, decimal.NewFromInt(20).Equal(b.DiscountPercent))
	require.Len(t, b.Treatments, 2)
	assert.Equal(t, int64(2), b.Treatments[1].TreatmentID)
	assert.True(t, decimal.NewFromFloat(500.5).Equal(b.Treatments[1].Price))

	// Nullable fields degrade to zero values.
	assert.Empty(t, bundles[1].Code)
	assert.Empty(t, bundles[1].Treatments)
}

func TestDecodeBundles_NullPriceAndUnknownFields(t *testing.T) {
	payload := `{
	  "promotions": [{
	    "promotion_id": 1,
	    "discount_percent": 10,
	    "experimental": {"nested": [1, 2, 3]},
	    "treatments": [{"treatment_id": 4, "name": "Scrub", "price": null, "tags": ["a"]}]
	  }]
	}`

	bundles, err := DecodeBundles([]byte(payload))

	require.NoError(t, err)
	require.Len(t, bundles, 1)
	require.Len(t, bundles[0].Treatments, 1)
	assert.True(t, bundles[0].Treatments[0].Price.IsZero())
}

func TestDecodeBundles_ClampsDiscountPercent(t *testing.T) {
	payload := `{"promotions": [
	  {"promotion_id": 1, "discount_percent": -5, "treatments": []},
	  {"promotion_id": 2, "discount_percent": 250, "treatments": []}
	]}`

	bundles, err := DecodeBundles([]byte(payload))

	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.True(t, bundles[0].DiscountPercent.IsZero())
	assert.True(t, decimal.NewFromInt(100).Equal(bundles[1].DiscountPercent))
}

func TestDecodeBundles_MissingPromotionsKey(t *testing.T) {
	bundles, err := DecodeBundles([]byte(`{"total": 0}`))

	require.NoError(t, err)
	assert.Empty(t, bundles)
}

func TestDecodeBundles_InvalidJSON(t *testing.T) {
	_, err := DecodeBundles([]byte(`{"promotions": [`))
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []promotion.Bundle{
		{
			PromotionID:     3,
			Code:            "DUO",
			Name:            "Duo",
			Description:     "Two for less",
			DiscountPercent: decimal.NewFromInt(25),
			Treatments: []promotion.TreatmentRef{
				{TreatmentID: 1, Name: "Facial", Price: decimal.NewFromInt(1000)},
				{TreatmentID: 2, Name: "Massage", Price: decimal.RequireFromString("500.50")},
			},
		},
	}

	out, err := DecodeBundles(EncodeBundles(in))

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0].PromotionID, out[0].PromotionID)
	assert.Equal(t, in[0].Code, out[0].Code)
	assert.True(t, in[0].DiscountPercent.Equal(out[0].DiscountPercent))
	require.Len(t, out[0].Treatments, 2)
	assert.True(t, in[0].Treatments[1].Price.Equal(out[0].Treatments[1].Price))
}
