// Package engine applies the transaction state machine against the registry
// and ledger. It is the sole mutator of both stores.
package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/settled-dev/settled/internal/model"
	"github.com/settled-dev/settled/internal/store"
)

// Policy controls the discretionary corners of the state machine.
type Policy struct {
	// DepositsOnly restricts disputes to deposit transactions. The default
	// allows disputing any registered funding transaction.
	DepositsOnly bool

	// StrictClient rejects dispute/resolve/chargeback records whose client
	// field differs from the referenced transaction's owner. When relaxed,
	// the record is applied against the stored owner's account instead.
	StrictClient bool
}

// DefaultPolicy returns the documented default policy: any funding
// transaction is disputable, client fields must match.
func DefaultPolicy() Policy {
	return Policy{StrictClient: true}
}

// AuditSink receives skip-and-continue decisions for out-of-band auditing.
type AuditSink interface {
	Record(stage, reason, kind string, client uint16, tx uint32)
}

// Engine consumes transactions in arrival order and transitions account
// state. One Engine may be shared by sharded consumers as long as no two
// consumers process the same client concurrently.
type Engine struct {
	registry *store.Registry
	ledger   *store.Ledger
	policy   Policy
	log      zerolog.Logger
	audit    AuditSink
}

// New creates an Engine over the given stores. audit may be nil.
func New(registry *store.Registry, ledger *store.Ledger, policy Policy, log zerolog.Logger, audit AuditSink) *Engine {
	return &Engine{
		registry: registry,
		ledger:   ledger,
		policy:   policy,
		log:      log,
		audit:    audit,
	}
}

// Run drains ch, applying each transaction in order. Rejections are logged
// and dropped; Run returns once the channel is closed.
func (e *Engine) Run(ch <-chan model.Transaction) {
	for txn := range ch {
		if err := e.Apply(txn); err != nil {
			e.log.Warn().
				Str("kind", string(txn.Kind)).
				Uint16("client", txn.Client).
				Uint32("tx", txn.ID).
				Msg(err.Error())
			if e.audit != nil {
				e.audit.Record("engine", err.Error(), string(txn.Kind), txn.Client, txn.ID)
			}
		}
	}
}

// Apply runs one transaction through the state machine. A non-nil error
// means the transaction was rejected and no balance changed.
//
// The account named by the record's client id is created on first reference,
// before dispatch, whatever the kind.
func (e *Engine) Apply(txn model.Transaction) error {
	e.ledger.GetOrCreate(txn.Client)

	switch txn.Kind {
	case model.KindDeposit:
		return e.deposit(txn)
	case model.KindWithdrawal:
		return e.withdraw(txn)
	case model.KindDispute:
		return e.dispute(txn)
	case model.KindResolve:
		return e.resolve(txn)
	case model.KindChargeback:
		return e.chargeback(txn)
	default:
		return fmt.Errorf("unhandled transaction kind %q", txn.Kind)
	}
}

func (e *Engine) deposit(txn model.Transaction) error {
	if txn.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	acct := e.ledger.GetOrCreate(txn.Client)
	if acct.Locked {
		return ErrAccountLocked
	}
	if !e.registry.InsertIfAbsent(txn) {
		return ErrDuplicateTransaction
	}
	e.ledger.Update(txn.Client, func(a *model.Account) {
		a.Available = a.Available.Add(txn.Amount)
	})
	return nil
}

func (e *Engine) withdraw(txn model.Transaction) error {
	if txn.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	acct := e.ledger.GetOrCreate(txn.Client)
	if acct.Locked {
		return ErrAccountLocked
	}
	if acct.Available.LessThan(txn.Amount) {
		return ErrInsufficientFunds
	}
	if !e.registry.InsertIfAbsent(txn) {
		return ErrDuplicateTransaction
	}
	e.ledger.Update(txn.Client, func(a *model.Account) {
		a.Available = a.Available.Sub(txn.Amount)
	})
	return nil
}

// dispute moves the referenced amount from available to held and flags the
// stored transaction. Lock state does not block disputes.
func (e *Engine) dispute(txn model.Transaction) error {
	ref, err := e.reference(txn)
	if err != nil {
		return err
	}
	if e.policy.DepositsOnly && ref.Kind != model.KindDeposit {
		return ErrNotDisputable
	}
	if ref.Disputed {
		return ErrAlreadyDisputed
	}

	acct := e.ledger.GetOrCreate(ref.Client)
	if acct.Available.LessThan(ref.Amount) {
		return ErrNegativeBalance
	}

	e.registry.Update(ref.ID, func(t *model.Transaction) { t.Disputed = true })
	e.ledger.Update(ref.Client, func(a *model.Account) {
		a.Available = a.Available.Sub(ref.Amount)
		a.Held = a.Held.Add(ref.Amount)
	})
	return nil
}

// resolve releases held funds back to available and clears the dispute flag.
func (e *Engine) resolve(txn model.Transaction) error {
	ref, err := e.reference(txn)
	if err != nil {
		return err
	}
	if !ref.Disputed {
		return ErrNotDisputed
	}

	acct := e.ledger.GetOrCreate(ref.Client)
	if acct.Held.LessThan(ref.Amount) {
		return ErrNegativeBalance
	}

	e.registry.Update(ref.ID, func(t *model.Transaction) { t.Disputed = false })
	e.ledger.Update(ref.Client, func(a *model.Account) {
		a.Held = a.Held.Sub(ref.Amount)
		a.Available = a.Available.Add(ref.Amount)
	})
	return nil
}

// chargeback permanently removes held funds and locks the account.
func (e *Engine) chargeback(txn model.Transaction) error {
	ref, err := e.reference(txn)
	if err != nil {
		return err
	}
	if !ref.Disputed {
		return ErrNotDisputed
	}

	acct := e.ledger.GetOrCreate(ref.Client)
	if acct.Held.LessThan(ref.Amount) {
		return ErrNegativeBalance
	}

	e.registry.Update(ref.ID, func(t *model.Transaction) { t.Disputed = false })
	e.ledger.Update(ref.Client, func(a *model.Account) {
		a.Held = a.Held.Sub(ref.Amount)
		a.Locked = true
	})
	return nil
}

// reference resolves the transaction a dispute/resolve/chargeback points at
// and enforces the client ownership policy.
func (e *Engine) reference(txn model.Transaction) (model.Transaction, error) {
	ref, ok := e.registry.Get(txn.ID)
	if !ok {
		return model.Transaction{}, ErrUnknownTransaction
	}
	if e.policy.StrictClient && ref.Client != txn.Client {
		return model.Transaction{}, ErrClientMismatch
	}
	return ref, nil
}
