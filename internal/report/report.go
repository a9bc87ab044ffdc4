// Package report renders a finalized ledger snapshot as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/settled-dev/settled/internal/model"
)

// Header is the CSV header for the account report.
const Header = "client,available,held,total,locked"

// DefaultPlaces is the default number of fractional digits in rendered
// amounts.
const DefaultPlaces = 4

// Write emits one row per account, amounts rendered with places fractional
// digits and locked as a lowercase boolean token. Accounts are written in
// the order given; ledger snapshots arrive sorted by client id.
func Write(w io.Writer, accounts []model.Account, places int32) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct, places)); err != nil {
			return fmt.Errorf("writing account %d: %w", acct.Client, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account, places int32) []string {
	return []string{
		strconv.FormatUint(uint64(acct.Client), 10),
		acct.Available.StringFixed(places),
		acct.Held.StringFixed(places),
		acct.Total().StringFixed(places),
		strconv.FormatBool(acct.Locked),
	}
}
