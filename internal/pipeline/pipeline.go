// Package pipeline wires the record source, transport channel, engine
// consumers and reporter into one run.
package pipeline

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/settled-dev/settled/internal/auditlog"
	"github.com/settled-dev/settled/internal/engine"
	"github.com/settled-dev/settled/internal/model"
	"github.com/settled-dev/settled/internal/report"
	"github.com/settled-dev/settled/internal/source"
	"github.com/settled-dev/settled/internal/store"
)

// Options configure a single pipeline run. Zero values fall back to the
// documented defaults.
type Options struct {
	Policy  engine.Policy
	Buffer  int
	Workers int
	Places  int32
	Audit   *auditlog.Log
}

const (
	defaultBuffer = 100
	defaultPlaces = report.DefaultPlaces
)

// Run drains the input stream through the engine and writes the final
// account report to out. Each run owns a fresh registry and ledger, so
// independent runs never share state.
//
// With Workers > 1, transactions are sharded by id of the client named on
// the record across FIFO channels; a client's transactions are never
// processed concurrently, which keeps dispute ordering intact. That routing
// only serializes per account under the strict client policy: a relaxed
// dispute mutates the referenced owner's account, which may live on another
// shard. Sharded runs therefore require Policy.StrictClient.
func Run(in io.Reader, out io.Writer, log zerolog.Logger, opts Options) error {
	if opts.Buffer < 1 {
		opts.Buffer = defaultBuffer
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Workers > 1 && !opts.Policy.StrictClient {
		return errors.New("sharded workers require the strict client policy")
	}
	if opts.Places == 0 {
		opts.Places = defaultPlaces
	}

	registry := store.NewRegistry()
	ledger := store.NewLedger()

	var srcSink source.AuditSink
	var engSink engine.AuditSink
	if opts.Audit != nil {
		srcSink = opts.Audit
		engSink = opts.Audit
	}

	producer := source.New(log, srcSink)
	eng := engine.New(registry, ledger, opts.Policy, log, engSink)

	records := make(chan model.Transaction, opts.Buffer)

	g := new(errgroup.Group)
	g.Go(func() error {
		log.Info().Msg("producer started")
		err := producer.Stream(in, records)
		log.Info().Msg("producer finished")
		return err
	})

	if opts.Workers == 1 {
		g.Go(func() error {
			eng.Run(records)
			return nil
		})
	} else {
		shards := make([]chan model.Transaction, opts.Workers)
		for i := range shards {
			shards[i] = make(chan model.Transaction, opts.Buffer)
			ch := shards[i]
			g.Go(func() error {
				eng.Run(ch)
				return nil
			})
		}
		// Shard by client id: same client, same worker, same order.
		g.Go(func() error {
			for txn := range records {
				shards[int(txn.Client)%len(shards)] <- txn
			}
			for _, ch := range shards {
				close(ch)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	accounts := ledger.Snapshot()
	for _, verr := range report.Verify(accounts) {
		log.Error().Uint16("client", verr.Client).Msg(verr.Description)
	}
	log.Info().
		Int("accounts", len(accounts)).
		Int("transactions", registry.Len()).
		Msg("stream drained")

	return report.Write(out, accounts, opts.Places)
}
