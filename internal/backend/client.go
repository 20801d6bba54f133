// Package backend is the HTTP client for the clinic backend API: booking
// submission and the health endpoint used by the readiness probe.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"

	"github.com/luminaspa/booking-cart/internal/domain/booking"
)

var _ booking.Submitter = (*Client)(nil)

// RejectedError indicates the backend processed the booking request but
// refused it (validation, stock, schedule conflicts).
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("booking rejected: %s", e.Message)
}

// Client talks to the clinic backend.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a Client for the given backend base URL. A nil http
// client falls back to http.DefaultClient.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// bookingRequest mirrors the payload the booking screen posts. Nullable
// fields are sent as explicit JSON nulls, matching the backend contract.
type bookingRequest struct {
	Treatments   []bookingTreatment `json:"treatments"`
	Promotions   []int64            `json:"promotions"`
	CustomerName string             `json:"customer_name"`
	CustomerID   *int64             `json:"customer_id"`
	SessionDate  string             `json:"session_date"`
	SessionTime  string             `json:"session_time"`
	Note         *string            `json:"note"`
	TotalAmount  float64            `json:"total_amount"`
}

type bookingTreatment struct {
	TreatmentID int64   `json:"treatment_id"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type bookingResponse struct {
	Success   bool   `json:"success"`
	InvoiceNo string `json:"invoice_no"`
	Message   string `json:"message"`
}

// SubmitBooking posts the submission to the backend and returns the
// invoice number on success.
func (c *Client) SubmitBooking(ctx context.Context, sub booking.Submission) (string, error) {
	treatments := make([]bookingTreatment, len(sub.Treatments))
	for i, t := range sub.Treatments {
		treatments[i] = bookingTreatment{
			TreatmentID: t.TreatmentID,
			Price:       t.Price.InexactFloat64(),
			Quantity:    t.Quantity,
		}
	}

	promotions := sub.Promotions
	if promotions == nil {
		promotions = []int64{}
	}

	var note *string
	if sub.Note != "" {
		note = &sub.Note
	}

	body, err := json.Marshal(bookingRequest{
		Treatments:   treatments,
		Promotions:   promotions,
		CustomerName: sub.CustomerName,
		CustomerID:   sub.CustomerID,
		SessionDate:  sub.SessionDate,
		SessionTime:  sub.SessionTime,
		Note:         note,
		TotalAmount:  sub.TotalAmount.InexactFloat64(),
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal booking request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/booking", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "post booking")
	}
	defer func() { _ = resp.Body.Close() }()

	var result bookingResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return "", errors.Wrapf(err, "decode booking response (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		msg := result.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", &RejectedError{Message: msg}
	}

	return result.InvoiceNo, nil
}

// Ping checks the backend's health endpoint. Used as a readiness check.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "backend health")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.Errorf("backend health: status %d", resp.StatusCode)
	}
	return nil
}
