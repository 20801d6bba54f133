package booking

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/luminaspa/booking-cart/internal/domain/cart"
	"github.com/luminaspa/booking-cart/internal/domain/promotion"
)

// Service runs the shared quote pipeline and the checkout flow. Both the
// cart view and the booking confirmation go through this one instance, so
// the two surfaces always price identically.
type Service struct {
	catalog   Catalog
	submitter Submitter
	now       func() time.Time
}

// NewService creates a booking Service.
func NewService(catalog Catalog, submitter Submitter) *Service {
	return &Service{
		catalog:   catalog,
		submitter: submitter,
		now:       time.Now,
	}
}

// Quote runs allocation and pricing over the given cart snapshot and the
// current catalog snapshot.
func (s *Service) Quote(ctx context.Context, items []cart.LineItem) promotion.Quote {
	return promotion.ComputeQuote(items, s.catalog.Bundles(ctx))
}

// Checkout quotes the cart, submits the booking to the backend, and on
// success clears the cart and invalidates the catalog cache. A failed
// submission leaves the cart untouched so the customer can retry.
func (s *Service) Checkout(ctx context.Context, store *cart.Store, cust Customer) (*Receipt, error) {
	items := store.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	q := promotion.ComputeQuote(items, s.catalog.Bundles(ctx))
	sub := BuildSubmission(items, q, cust, s.now())

	invoiceNo, err := s.submitter.SubmitBooking(ctx, sub)
	if err != nil {
		return nil, errors.Wrap(err, "submit booking")
	}

	store.Clear()
	s.catalog.Invalidate()

	return &Receipt{
		InvoiceNo: invoiceNo,
		Quote:     q,
	}, nil
}
