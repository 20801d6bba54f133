// Package booking turns a quoted cart into a booking submission for the
// clinic backend and owns the checkout flow.
package booking

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/luminaspa/booking-cart/internal/domain/cart"
	"github.com/luminaspa/booking-cart/internal/domain/promotion"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// Customer holds the booking details collected on the confirmation screen.
type Customer struct {
	Name        string
	CustomerID  *int64
	SessionDate string // YYYY-MM-DD; defaults to today when empty
	SessionTime string // HH:MM; defaults to opening time when empty
	Note        string
}

// TreatmentLine is one cart row in the submission payload.
type TreatmentLine struct {
	TreatmentID int64
	Price       decimal.Decimal
	Quantity    int
}

// Submission is the payload posted to the backend's booking endpoint.
// TotalAmount carries the cart's original (pre-discount) total; the
// backend re-derives and validates the discount itself.
type Submission struct {
	Treatments   []TreatmentLine
	Promotions   []int64
	CustomerName string
	CustomerID   *int64
	SessionDate  string
	SessionTime  string
	Note         string
	TotalAmount  decimal.Decimal
}

// Receipt is the outcome of a successful checkout: the backend's invoice
// number plus the quote that was submitted, for the confirmation screen.
type Receipt struct {
	InvoiceNo string
	Quote     promotion.Quote
}

// Submitter delivers a submission to the clinic backend.
type Submitter interface {
	SubmitBooking(ctx context.Context, sub Submission) (invoiceNo string, err error)
}

// Catalog is the shared promotion catalog consumed by the quote pipeline.
type Catalog interface {
	Bundles(ctx context.Context) []promotion.Bundle
	Invalidate()
}

const (
	defaultCustomerName = "Guest"
	defaultSessionTime  = "10:00"
)

// BuildSubmission assembles the backend payload from a cart snapshot, its
// quote, and the customer details, filling the same defaults the booking
// screen applies.
func BuildSubmission(items []cart.LineItem, q promotion.Quote, cust Customer, now time.Time) Submission {
	lines := make([]TreatmentLine, len(items))
	for i, it := range items {
		lines[i] = TreatmentLine{
			TreatmentID: it.TreatmentID,
			Price:       it.Price,
			Quantity:    it.Quantity,
		}
	}

	promos := make([]int64, len(q.Applied))
	for i, a := range q.Applied {
		promos[i] = a.Bundle.PromotionID
	}

	name := cust.Name
	if name == "" {
		name = defaultCustomerName
	}
	date := cust.SessionDate
	if date == "" {
		date = now.Format("2006-01-02")
	}
	sessionTime := cust.SessionTime
	if sessionTime == "" {
		sessionTime = defaultSessionTime
	}

	return Submission{
		Treatments:   lines,
		Promotions:   promos,
		CustomerName: name,
		CustomerID:   cust.CustomerID,
		SessionDate:  date,
		SessionTime:  sessionTime,
		Note:         cust.Note,
		TotalAmount:  q.Pricing.OriginalTotal,
	}
}
