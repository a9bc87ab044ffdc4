// Package source turns a raw CSV stream into an ordered sequence of parsed
// transactions. Rows that fail structural validation are dropped with a
// warning; only an unreadable input stream is fatal.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/model"
)

const (
	colKind   = 0
	colClient = 1
	colTx     = 2
	colAmount = 3

	minFields = 3

	// Input amounts are normalized to four fractional digits before they
	// reach the stores.
	amountPlaces = 4
)

// AuditSink receives dropped-row notifications for out-of-band auditing.
type AuditSink interface {
	Record(stage, reason, kind string, client uint16, tx uint32)
}

// Producer reads `type,client,tx,amount` rows and emits transactions in
// input order.
type Producer struct {
	log   zerolog.Logger
	audit AuditSink
}

// New creates a Producer. audit may be nil.
func New(log zerolog.Logger, audit AuditSink) *Producer {
	return &Producer{log: log, audit: audit}
}

// Stream parses rows from r and sends each valid transaction to out,
// preserving input order. The channel is closed when the stream ends, so the
// consumer drains naturally on either exhaustion or failure. A returned
// error means the underlying reader failed; per-row problems never abort
// the stream.
func (p *Producer) Stream(r io.Reader, out chan<- model.Transaction) error {
	defer close(out)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	// Header row.
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("reading header: %w", err)
	}

	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++

		var perr *csv.ParseError
		if errors.As(err, &perr) {
			p.drop(line, rec, err)
			continue
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		txn, err := ParseRow(rec)
		if err != nil {
			p.drop(line, rec, err)
			continue
		}
		out <- txn
	}
}

func (p *Producer) drop(line int, rec []string, err error) {
	p.log.Warn().Int("line", line).Msgf("dropping row: %v", err)
	if p.audit != nil {
		kind := ""
		if len(rec) > colKind {
			kind = strings.TrimSpace(rec[colKind])
		}
		p.audit.Record("parse", err.Error(), kind, 0, 0)
	}
}

// ParseRow converts one CSV record into a Transaction. Fields are
// whitespace-tolerant; the amount column is required, non-negative and
// rounded to four places for funding kinds, and ignored otherwise.
func ParseRow(rec []string) (model.Transaction, error) {
	if len(rec) < minFields {
		return model.Transaction{}, fmt.Errorf("expected at least %d fields, got %d", minFields, len(rec))
	}

	kind, err := model.ParseKind(rec[colKind])
	if err != nil {
		return model.Transaction{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(rec[colClient]), 10, 16)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing client %q: %w", rec[colClient], err)
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(rec[colTx]), 10, 32)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing tx %q: %w", rec[colTx], err)
	}

	txn := model.Transaction{
		ID:     uint32(tx),
		Kind:   kind,
		Client: uint16(client),
	}

	if kind.Funding() {
		if len(rec) <= colAmount || strings.TrimSpace(rec[colAmount]) == "" {
			return model.Transaction{}, fmt.Errorf("%s requires an amount", kind)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[colAmount]))
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[colAmount], err)
		}
		if amount.IsNegative() {
			return model.Transaction{}, fmt.Errorf("amount %s is negative", amount)
		}
		txn.Amount = amount.Round(amountPlaces)
	}

	return txn, nil
}
