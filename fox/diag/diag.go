// Package diag carries diagnostic events from the lexer and parser to
// whoever renders them. Nothing here formats file positions.
package diag

import (
	"fmt"

	"github.com/dhamidi/fox/fox/source"
	"github.com/tliron/commonlog"
)

type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

var severityNames = map[Severity]string{
	SeverityNote:    "note",
	SeverityWarning: "warning",
	SeverityError:   "error",
	SeverityFatal:   "fatal",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Diagnostic is one reported event. Args fill the message template of ID.
type Diagnostic struct {
	ID       ID
	Severity Severity
	Range    source.Range
	Args     []any
}

func (d Diagnostic) Message() string {
	return Message(d)
}

// Consumer receives every diagnostic that passes through an Engine.
type Consumer interface {
	Consume(d Diagnostic)
}

type ConsumerFunc func(d Diagnostic)

func (f ConsumerFunc) Consume(d Diagnostic) {
	f(d)
}

// Collector keeps diagnostics in the order they were reported.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Consume(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// IDs returns the IDs of the collected diagnostics, in order.
func (c *Collector) IDs() []ID {
	ids := make([]ID, len(c.Diagnostics))
	for i, d := range c.Diagnostics {
		ids[i] = d.ID
	}
	return ids
}

// Engine counts diagnostics and forwards them to a Consumer.
type Engine struct {
	consumer   Consumer
	log        commonlog.Logger
	counts     map[Severity]int
	errorLimit int
	ignoreAll  bool
	limitHit   bool
}

type EngineOption func(*Engine)

// WithErrorLimit stops forwarding after n errors. Zero means no limit.
func WithErrorLimit(n int) EngineOption {
	return func(e *Engine) {
		e.errorLimit = n
	}
}

func WithLogger(log commonlog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}

func NewEngine(consumer Consumer, opts ...EngineOption) *Engine {
	e := &Engine{
		consumer: consumer,
		log:      commonlog.GetLogger("fox.diag"),
		counts:   make(map[Severity]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report emits id at r with its default severity.
func (e *Engine) Report(id ID, r source.Range, args ...any) {
	e.ReportWithSeverity(id, id.Severity(), r, args...)
}

func (e *Engine) ReportWithSeverity(id ID, sev Severity, r source.Range, args ...any) {
	if e.ignoreAll || e.limitHit {
		return
	}
	if e.errorLimit > 0 && sev >= SeverityError && e.counts[SeverityError]+e.counts[SeverityFatal] >= e.errorLimit {
		e.limitHit = true
		e.emit(Diagnostic{ID: TooManyErrors, Severity: SeverityFatal, Range: r, Args: []any{e.errorLimit}})
		return
	}
	e.emit(Diagnostic{ID: id, Severity: sev, Range: r, Args: args})
}

func (e *Engine) emit(d Diagnostic) {
	e.counts[d.Severity]++
	e.log.Debugf("%s %s at %s", d.Severity, d.ID, d.Range)
	if e.consumer != nil {
		e.consumer.Consume(d)
	}
}

// SetIgnoreAll drops every subsequent diagnostic while set.
func (e *Engine) SetIgnoreAll(ignore bool) {
	e.ignoreAll = ignore
}

func (e *Engine) ErrorCount() int {
	return e.counts[SeverityError] + e.counts[SeverityFatal]
}

func (e *Engine) WarningCount() int {
	return e.counts[SeverityWarning]
}

func (e *Engine) HadErrors() bool {
	return e.ErrorCount() > 0
}

// Count returns how many diagnostics of severity s were emitted.
func (e *Engine) Count(s Severity) int {
	return e.counts[s]
}

func (e *Engine) String() string {
	return fmt.Sprintf("%d error(s), %d warning(s)", e.ErrorCount(), e.WarningCount())
}
