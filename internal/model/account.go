package model

import "github.com/shopspring/decimal"

// Account is the balance state for one client.
//
// Available + Held == Total() at every observable point, and neither side
// ever goes negative; the engine rejects any transition that would break
// either property.
type Account struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// Total returns available + held.
func (a Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}
