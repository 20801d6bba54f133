package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminaspa/booking-cart/internal/domain/promotion"
)

type fakeSource struct {
	bundles []promotion.Bundle
	err     error
	calls   int
}

func (f *fakeSource) Fetch(_ context.Context) ([]promotion.Bundle, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.bundles, nil
}

func sampleBundle(id int64) promotion.Bundle {
	return promotion.Bundle{
		PromotionID:     id,
		Code:            "GLOW",
		DiscountPercent: decimal.NewFromInt(20),
		Treatments: []promotion.TreatmentRef{
			{TreatmentID: 1, Name: "Facial", Price: decimal.NewFromInt(1000)},
		},
	}
}

// testClock lets the tests move cache time forward deterministically.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time         { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(src Source, ttl time.Duration) (*Cache, *testClock) {
	clock := &testClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := NewCache(src, ttl)
	c.now = clock.now
	return c, clock
}

func TestCache_FetchesOnceWithinTTL(t *testing.T) {
	src := &fakeSource{bundles: []promotion.Bundle{sampleBundle(1)}}
	c, _ := newTestCache(src, time.Minute)

	first := c.Bundles(context.Background())
	second := c.Bundles(context.Background())

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, 1, src.calls, "second call within TTL must be served from cache")
}

func TestCache_RefreshesAfterTTL(t *testing.T) {
	src := &fakeSource{bundles: []promotion.Bundle{sampleBundle(1)}}
	c, clock := newTestCache(src, time.Minute)

	c.Bundles(context.Background())
	clock.advance(2 * time.Minute)

	src.bundles = []promotion.Bundle{sampleBundle(1), sampleBundle(2)}
	got := c.Bundles(context.Background())

	assert.Equal(t, 2, src.calls)
	assert.Len(t, got, 2)
}

func TestCache_FailureDegradesToEmpty(t *testing.T) {
	src := &fakeSource{err: errors.New("backend down")}
	c, _ := newTestCache(src, time.Minute)

	got := c.Bundles(context.Background())

	assert.Empty(t, got, "a failing source must look like an empty catalog")
}

func TestCache_FailureServesLastKnownSnapshot(t *testing.T) {
	src := &fakeSource{bundles: []promotion.Bundle{sampleBundle(1)}}
	c, clock := newTestCache(src, time.Minute)

	c.Bundles(context.Background())

	clock.advance(2 * time.Minute)
	src.err = errors.New("backend down")
	got := c.Bundles(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].PromotionID)
}

func TestCache_FailureBackoffLimitsRetries(t *testing.T) {
	src := &fakeSource{err: errors.New("backend down")}
	c, _ := newTestCache(src, time.Minute)

	c.Bundles(context.Background())
	c.Bundles(context.Background())
	c.Bundles(context.Background())

	assert.Equal(t, 1, src.calls, "retries within the backoff window must be suppressed")
}

func TestCache_InvalidateForcesRefetch(t *testing.T) {
	src := &fakeSource{bundles: []promotion.Bundle{sampleBundle(1)}}
	c, _ := newTestCache(src, time.Hour)

	c.Bundles(context.Background())
	c.Invalidate()
	c.Bundles(context.Background())

	assert.Equal(t, 2, src.calls)
}

func TestCache_InvalidateClearsFailureBackoff(t *testing.T) {
	src := &fakeSource{err: errors.New("backend down")}
	c, _ := newTestCache(src, time.Minute)

	c.Bundles(context.Background())
	src.err = nil
	src.bundles = []promotion.Bundle{sampleBundle(1)}

	c.Invalidate()
	got := c.Bundles(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, 2, src.calls)
}
