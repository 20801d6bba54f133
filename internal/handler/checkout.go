package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/luminaspa/booking-cart/internal/backend"
	"github.com/luminaspa/booking-cart/internal/domain/booking"
)

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	store, _, ok := h.cart(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.booking.Checkout(r.Context(), store, booking.Customer{
		Name:        req.CustomerName,
		CustomerID:  req.CustomerID,
		SessionDate: req.SessionDate,
		SessionTime: req.SessionTime,
		Note:        req.Note,
	})
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}

	if h.checkouts != nil {
		h.checkouts.Add(r.Context(), 1)
	}

	writeJSON(w, http.StatusOK, checkoutResponse{
		InvoiceNo: receipt.InvoiceNo,
		Quote:     toQuoteDTO(receipt.Quote),
	})
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var rejected *backend.RejectedError

	switch {
	case errors.Is(err, booking.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "cart is empty")
	case errors.As(err, &rejected):
		writeError(w, http.StatusUnprocessableEntity, rejected.Message)
	default:
		zctx.From(r.Context()).Error("checkout failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "checkout failed")
	}
}
