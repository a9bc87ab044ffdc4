package store

import (
	"sort"
	"sync"

	"github.com/settled-dev/settled/internal/model"
)

// Ledger holds per-client account state. Accounts are created lazily on first
// reference and never removed during a run.
//
// Reads return value copies; callers mutate through Update so a reader never
// observes a half-applied transition.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[uint16]model.Account
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[uint16]model.Account)}
}

// GetOrCreate returns a copy of the client's account, creating a zeroed,
// unlocked account on first reference.
func (l *Ledger) GetOrCreate(client uint16) model.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[client]
	if !ok {
		acct = model.Account{Client: client}
		l.accounts[client] = acct
	}
	return acct
}

// Get returns a copy of the client's account without creating it.
func (l *Ledger) Get(client uint16) (model.Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acct, ok := l.accounts[client]
	return acct, ok
}

// Update applies mutate to the client's account under the ledger lock,
// creating the account first if the client is unseen.
func (l *Ledger) Update(client uint16, mutate func(*model.Account)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[client]
	if !ok {
		acct = model.Account{Client: client}
	}
	mutate(&acct)
	l.accounts[client] = acct
}

// Snapshot returns all accounts sorted ascending by client id. The ordering
// is stable for a given ledger state.
func (l *Ledger) Snapshot() []model.Account {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Account, 0, len(l.accounts))
	for _, acct := range l.accounts {
		out = append(out, acct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}

// Len returns the number of accounts.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.accounts)
}
