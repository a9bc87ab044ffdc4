package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction record in the input stream.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind parses a kind token from the input. Matching is case-insensitive
// and whitespace-tolerant.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Funding reports whether the kind moves new money and carries an amount.
// Only funding transactions (deposit, withdrawal) are retained in the
// registry and can be referenced by a later dispute.
func (k Kind) Funding() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Transaction is one parsed input record.
//
// Amount is present only for funding kinds. Disputed is meaningful only once
// a funding transaction has been stored in the registry.
type Transaction struct {
	ID       uint32
	Kind     Kind
	Client   uint16
	Amount   decimal.Decimal
	Disputed bool
}
