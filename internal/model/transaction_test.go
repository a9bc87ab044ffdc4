package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"deposit", KindDeposit},
		{"withdrawal", KindWithdrawal},
		{"dispute", KindDispute},
		{"resolve", KindResolve},
		{"chargeback", KindChargeback},
		{"DEPOSIT", KindDeposit},
		{"Chargeback", KindChargeback},
		{"  resolve  ", KindResolve},
	}

	for _, tc := range tests {
		got, err := ParseKind(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseKindUnknown(t *testing.T) {
	for _, in := range []string{"", "transfer", "deposits", "with drawal"} {
		_, err := ParseKind(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestFunding(t *testing.T) {
	assert.True(t, KindDeposit.Funding())
	assert.True(t, KindWithdrawal.Funding())
	assert.False(t, KindDispute.Funding())
	assert.False(t, KindResolve.Funding())
	assert.False(t, KindChargeback.Funding())
}

func TestAccountTotal(t *testing.T) {
	a := Account{
		Client:    1,
		Available: decimal.RequireFromString("1.5"),
		Held:      decimal.RequireFromString("2.25"),
	}
	assert.True(t, a.Total().Equal(decimal.RequireFromString("3.75")))
}
