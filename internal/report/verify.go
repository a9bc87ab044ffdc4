package report

import (
	"fmt"

	"github.com/settled-dev/settled/internal/model"
)

// InvariantError describes a single balance invariant violation.
type InvariantError struct {
	Client      uint16
	Description string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("client %d: %s", e.Client, e.Description)
}

// Verify checks the balance invariants over a final snapshot: available and
// held must be non-negative for every account. Total is derived from the
// pair, so the available+held identity holds by construction; the sides are
// checked individually. The engine's preconditions make violations
// unreachable; Verify exists to catch a transition bug before it reaches
// the report.
func Verify(accounts []model.Account) []InvariantError {
	var errs []InvariantError
	for _, acct := range accounts {
		if acct.Available.IsNegative() {
			errs = append(errs, InvariantError{
				Client:      acct.Client,
				Description: fmt.Sprintf("available funds are negative (%s)", acct.Available),
			})
		}
		if acct.Held.IsNegative() {
			errs = append(errs, InvariantError{
				Client:      acct.Client,
				Description: fmt.Sprintf("held funds are negative (%s)", acct.Held),
			})
		}
	}
	return errs
}
