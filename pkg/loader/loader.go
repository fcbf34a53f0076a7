// Package loader runs journal queries and decodes their output.
package loader

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ccollicutt/journalview/pkg/journal"
	"github.com/ccollicutt/journalview/pkg/metrics"
	"github.com/ccollicutt/journalview/pkg/runner"
)

// PrivilegeHint is appended to every load failure; the journal is often
// readable only by root or members of systemd-journal/adm.
const PrivilegeHint = "Try again with --sudo or as root."

// LoadError is the single failure reported for a load operation.
type LoadError struct {
	// Op is the operation that failed (see the metrics.Op* constants).
	Op  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v. %s", e.Err, PrivilegeHint)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader issues journal queries through a Runner and decodes the results.
// A Loader holds no per-load state, so loads may run concurrently.
type Loader struct {
	runner  runner.Runner
	logger  *log.Logger
	metrics *metrics.Metrics
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for per-line decode diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithMetrics records load outcomes and decode counts in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(ld *Loader) {
		ld.metrics = m
	}
}

// New creates a Loader that runs queries with r.
func New(r runner.Runner, opts ...Option) *Loader {
	ld := &Loader{
		runner: r,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// LoadByLineCount loads the most recent n entries. An n that is not an
// unsigned integer is replaced by journal.DefaultLineCount.
func (ld *Loader) LoadByLineCount(ctx context.Context, n string) ([]journal.LogRecord, error) {
	return ld.loadRecords(ctx, metrics.OpLineCount, journal.LineCountArgs(n))
}

// LoadByBootSelector loads every entry of one boot ("0" is the current boot).
func (ld *Loader) LoadByBootSelector(ctx context.Context, selector string) ([]journal.LogRecord, error) {
	return ld.loadRecords(ctx, metrics.OpBoot, journal.BootArgs(selector))
}

// LoadBootList loads the list of recorded boots.
func (ld *Loader) LoadBootList(ctx context.Context) ([]journal.BootSession, error) {
	start := time.Now()

	out, err := ld.runner.Run(ctx, journal.BootListArgs())
	if err != nil {
		ld.record(metrics.OpBootList, start, err)
		return nil, &LoadError{Op: metrics.OpBootList, Err: err}
	}

	sessions := journal.ParseBootList(out)
	ld.record(metrics.OpBootList, start, nil)
	if ld.metrics != nil {
		ld.metrics.SetBootSessions(len(sessions))
	}

	return sessions, nil
}

func (ld *Loader) loadRecords(ctx context.Context, op string, args []string) ([]journal.LogRecord, error) {
	start := time.Now()

	out, err := ld.runner.Run(ctx, args)
	if err != nil {
		ld.record(op, start, err)
		return nil, &LoadError{Op: op, Err: err}
	}

	records := journal.DecodeRecords(out, func(e *journal.DecodeError) {
		ld.logger.Printf("skipping %v", e)
		if ld.metrics != nil {
			ld.metrics.RecordDecodeFailure()
		}
	})

	ld.record(op, start, nil)
	if ld.metrics != nil {
		ld.metrics.RecordDecoded(len(records))
	}

	return records, nil
}

func (ld *Loader) record(op string, start time.Time, err error) {
	if ld.metrics != nil {
		ld.metrics.RecordLoad(op, time.Since(start), err)
	}
}
