package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/imtiaz478/Sellora-full/internal/models"
)

// CreateTransactionRequest is the body of POST /api/transactions.
// Pointer fields distinguish a missing key from a zero value.
type CreateTransactionRequest struct {
	Source         *string  `json:"source"`
	UserOrMerchant *string  `json:"user_or_merchant"`
	Product        *string  `json:"product"`
	TotalPrice     *float64 `json:"total_price"`
	BuyDate        *string  `json:"buy_date"`
	SellDate       *string  `json:"sell_date"`
}

// Transaction validates the request and builds the record owned by ownerID.
func (r CreateTransactionRequest) Transaction(ownerID int64) (models.Transaction, error) {
	errs := fieldErrors{}
	tx := models.Transaction{
		UserID:         ownerID,
		Source:         requireText(errs, "source", r.Source, maxNameLength),
		UserOrMerchant: requireText(errs, "user_or_merchant", r.UserOrMerchant, maxNameLength),
		Product:        requireText(errs, "product", r.Product, maxProductLength),
	}

	switch {
	case r.TotalPrice == nil:
		errs.add("total_price", "is required")
	case *r.TotalPrice < 0:
		errs.add("total_price", "must not be negative")
	default:
		tx.TotalPrice = *r.TotalPrice
	}

	if r.BuyDate == nil || strings.TrimSpace(*r.BuyDate) == "" {
		errs.add("buy_date", "is required")
	} else if d, err := models.ParseDate(strings.TrimSpace(*r.BuyDate)); err != nil {
		errs.add("buy_date", "must be a date in YYYY-MM-DD format")
	} else {
		tx.BuyDate = d
	}

	if r.SellDate != nil && strings.TrimSpace(*r.SellDate) != "" {
		d, err := models.ParseDate(strings.TrimSpace(*r.SellDate))
		if err != nil {
			errs.add("sell_date", "must be a date in YYYY-MM-DD format")
		} else {
			tx.SellDate = &d
		}
	}

	if err := errs.err(); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// NullableString records whether a JSON key was present and whether it was null.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// UpdateTransactionRequest is the body of PUT /api/transactions/{id}. Absent keys keep their
// stored value; "sell_date": null or "" clears the sell date.
type UpdateTransactionRequest struct {
	Source         *string        `json:"source"`
	UserOrMerchant *string        `json:"user_or_merchant"`
	Product        *string        `json:"product"`
	TotalPrice     *float64       `json:"total_price"`
	BuyDate        *string        `json:"buy_date"`
	SellDate       NullableString `json:"sell_date"`
}

// Patch validates the supplied fields and converts them into a models.TransactionPatch.
func (r UpdateTransactionRequest) Patch() (models.TransactionPatch, error) {
	errs := fieldErrors{}
	var patch models.TransactionPatch

	patch.Source = optionalText(errs, "source", r.Source, maxNameLength)
	patch.UserOrMerchant = optionalText(errs, "user_or_merchant", r.UserOrMerchant, maxNameLength)
	patch.Product = optionalText(errs, "product", r.Product, maxProductLength)

	if r.TotalPrice != nil {
		if *r.TotalPrice < 0 {
			errs.add("total_price", "must not be negative")
		} else {
			price := *r.TotalPrice
			patch.TotalPrice = &price
		}
	}

	if r.BuyDate != nil {
		d, err := models.ParseDate(strings.TrimSpace(*r.BuyDate))
		if err != nil {
			errs.add("buy_date", "must be a date in YYYY-MM-DD format")
		} else {
			patch.BuyDate = &d
		}
	}

	if r.SellDate.Set {
		if r.SellDate.Value == nil || strings.TrimSpace(*r.SellDate.Value) == "" {
			patch.ClearSellDate = true
		} else if d, err := models.ParseDate(strings.TrimSpace(*r.SellDate.Value)); err != nil {
			errs.add("sell_date", "must be a date in YYYY-MM-DD format")
		} else {
			patch.SellDate = &d
		}
	}

	if err := errs.err(); err != nil {
		return models.TransactionPatch{}, err
	}
	return patch, nil
}

// TransactionResponse is the wire form of a transaction, including the computed holding period.
type TransactionResponse struct {
	ID             int64        `json:"id"`
	Source         string       `json:"source"`
	UserOrMerchant string       `json:"user_or_merchant"`
	Product        string       `json:"product"`
	TotalPrice     float64      `json:"total_price"`
	BuyDate        models.Date  `json:"buy_date"`
	SellDate       *models.Date `json:"sell_date"`
	DateDiffDays   *int         `json:"date_diff_days"`
	CreatedAt      time.Time    `json:"created_at"`
}

func NewTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		Source:         t.Source,
		UserOrMerchant: t.UserOrMerchant,
		Product:        t.Product,
		TotalPrice:     t.TotalPrice,
		BuyDate:        t.BuyDate,
		SellDate:       t.SellDate,
		DateDiffDays:   t.DateDiffDays(),
		CreatedAt:      t.CreatedAt,
	}
}

// NewTransactionList converts records for the list endpoint; an empty input yields an empty slice.
func NewTransactionList(items []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(items))
	for _, t := range items {
		out = append(out, NewTransactionResponse(t))
	}
	return out
}
