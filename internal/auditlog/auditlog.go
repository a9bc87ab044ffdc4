// Package auditlog appends skip-and-continue decisions to a CSV file so a
// processing run can be audited after the fact.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp time.Time
	Stage     string // "parse" or "engine"
	Reason    string
	Kind      string
	Client    uint16
	Tx        uint32
}

// Header is the CSV header for the audit log.
const Header = "timestamp,stage,reason,kind,client,tx"

const (
	numFields    = 6
	colTimestamp = 0
	colStage     = 1
	colReason    = 2
	colKind      = 3
	colClient    = 4
	colTx        = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colStage] = e.Stage
	row[colReason] = e.Reason
	row[colKind] = e.Kind
	row[colClient] = strconv.FormatUint(uint64(e.Client), 10)
	row[colTx] = strconv.FormatUint(uint64(e.Tx), 10)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	client, err := strconv.ParseUint(record[colClient], 10, 16)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing client %q: %w", record[colClient], err)
	}

	tx, err := strconv.ParseUint(record[colTx], 10, 32)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing tx %q: %w", record[colTx], err)
	}

	return Entry{
		Timestamp: ts,
		Stage:     record[colStage],
		Reason:    record[colReason],
		Kind:      record[colKind],
		Client:    uint16(client),
		Tx:        uint32(tx),
	}, nil
}

// Log streams entries to a CSV file. Record is safe for concurrent use by
// the producer and engine workers.
type Log struct {
	mu sync.Mutex
	cw *csv.Writer
	f  *os.File
}

// Open creates (or truncates) an audit log at path and writes the header.
func Open(path string) (*Log, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}

	return &Log{cw: cw, f: f}, nil
}

// Record appends one entry stamped with the current time. Write errors are
// deferred to Close.
func (l *Log) Record(stage, reason, kind string, client uint16, tx uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.cw.Write(MarshalEntry(Entry{
		Timestamp: time.Now().UTC(),
		Stage:     stage,
		Reason:    reason,
		Kind:      kind,
		Client:    client,
		Tx:        tx,
	}))
}

// Close flushes buffered rows and closes the file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cw.Flush()
	werr := l.cw.Error()
	cerr := l.f.Close()
	if werr != nil {
		return fmt.Errorf("flushing audit log: %w", werr)
	}
	return cerr
}

// Read returns all entries from an audit log reader.
func Read(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
