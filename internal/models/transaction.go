package models

import "time"

// Transaction is a single buy/sell record owned by one user.
type Transaction struct {
	ID             int64
	UserID         int64
	Source         string
	UserOrMerchant string
	Product        string
	TotalPrice     float64
	BuyDate        Date
	SellDate       *Date
	CreatedAt      time.Time
}

// DateDiffDays is the holding period in days, or nil while the product is unsold.
// A sell date before the buy date yields a negative count.
func (t Transaction) DateDiffDays() *int {
	if t.SellDate == nil {
		return nil
	}
	days := t.BuyDate.DaysUntil(*t.SellDate)
	return &days
}

// TransactionPatch holds the fields of a partial update. Nil fields are left untouched.
// ClearSellDate removes the sell date and takes precedence over SellDate.
type TransactionPatch struct {
	Source         *string
	UserOrMerchant *string
	Product        *string
	TotalPrice     *float64
	BuyDate        *Date
	SellDate       *Date
	ClearSellDate  bool
}

// Apply copies the supplied patch fields onto t.
func (t *Transaction) Apply(p TransactionPatch) {
	if p.Source != nil {
		t.Source = *p.Source
	}
	if p.UserOrMerchant != nil {
		t.UserOrMerchant = *p.UserOrMerchant
	}
	if p.Product != nil {
		t.Product = *p.Product
	}
	if p.TotalPrice != nil {
		t.TotalPrice = *p.TotalPrice
	}
	if p.BuyDate != nil {
		t.BuyDate = *p.BuyDate
	}
	switch {
	case p.ClearSellDate:
		t.SellDate = nil
	case p.SellDate != nil:
		sell := *p.SellDate
		t.SellDate = &sell
	}
}
