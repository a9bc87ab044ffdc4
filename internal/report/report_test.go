package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settled-dev/settled/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWrite(t *testing.T) {
	accounts := []model.Account{
		{Client: 1, Available: dec("3.5"), Held: dec("0")},
		{Client: 2, Available: dec("0"), Held: dec("5"), Locked: true},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, accounts, DefaultPlaces))

	want := "client,available,held,total,locked\n" +
		"1,3.5000,0.0000,3.5000,false\n" +
		"2,0.0000,5.0000,5.0000,true\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, DefaultPlaces))
	assert.Equal(t, Header+"\n", buf.String())
}

func TestMarshalAccountPlaces(t *testing.T) {
	acct := model.Account{Client: 7, Available: dec("1.5"), Held: dec("0.25")}

	row := MarshalAccount(acct, 2)
	assert.Equal(t, []string{"7", "1.50", "0.25", "1.75", "false"}, row)

	row = MarshalAccount(acct, 0)
	assert.Equal(t, "2", row[1]) // 1.5 rounds half away from zero
}

func TestVerifyCleanSnapshot(t *testing.T) {
	accounts := []model.Account{
		{Client: 1, Available: dec("3.5")},
		{Client: 2, Held: dec("5"), Locked: true},
	}
	assert.Empty(t, Verify(accounts))
}

func TestVerifyFlagsNegatives(t *testing.T) {
	accounts := []model.Account{
		{Client: 1, Available: dec("-0.01")},
		{Client: 2, Held: dec("-5")},
	}

	errs := Verify(accounts)
	require.Len(t, errs, 2)
	assert.Equal(t, uint16(1), errs[0].Client)
	assert.True(t, strings.Contains(errs[0].Error(), "available"))
	assert.Equal(t, uint16(2), errs[1].Client)
	assert.True(t, strings.Contains(errs[1].Error(), "held"))
}
