// Package model defines the data structures for level analysis and cleanup.
package model

import "fmt"

// Severity classifies a diagnostic entry.
type Severity string

const (
	// SeverityInfo marks progress and bookkeeping messages.
	SeverityInfo Severity = "info"
	// SeverityWarning marks recoverable oddities (duplicate keys, dangling references).
	SeverityWarning Severity = "warning"
	// SeverityError marks per-file failures that did not stop the run.
	SeverityError Severity = "error"
)

// Diagnostic is one entry of the audit trail for an operation.
type Diagnostic struct {
	Severity Severity
	Message  string
}

// DiagnosticLog is an ordered, append-only diagnostic collection. Duplicate
// messages within one run are suppressed by exact match so retried paths do
// not flood the audit trail.
type DiagnosticLog struct {
	entries  []Diagnostic
	seen     map[string]struct{}
	observer func(Diagnostic)
}

// NewDiagnosticLog creates an empty log.
func NewDiagnosticLog() *DiagnosticLog {
	return &DiagnosticLog{seen: make(map[string]struct{})}
}

// Observe registers fn to be called for every newly recorded entry, making
// the log the single emission path for diagnostics: whoever produces one only
// appends, and display fans out from here. Suppressed duplicates are not
// delivered. At most one observer is supported.
func (l *DiagnosticLog) Observe(fn func(Diagnostic)) {
	l.observer = fn
}

// Append adds an entry unless an identical message was already recorded.
// It reports whether the entry was kept.
func (l *DiagnosticLog) Append(severity Severity, message string) bool {
	if _, dup := l.seen[message]; dup {
		return false
	}

	l.seen[message] = struct{}{}

	entry := Diagnostic{Severity: severity, Message: message}
	l.entries = append(l.entries, entry)

	if l.observer != nil {
		l.observer(entry)
	}

	return true
}

// Appendf formats and appends an entry.
func (l *DiagnosticLog) Appendf(severity Severity, format string, args ...any) bool {
	return l.Append(severity, fmt.Sprintf(format, args...))
}

// Entries returns the recorded diagnostics in append order.
func (l *DiagnosticLog) Entries() []Diagnostic {
	return l.entries
}

// Filter returns the entries matching the given severity, in order.
func (l *DiagnosticLog) Filter(severity Severity) []Diagnostic {
	var out []Diagnostic

	for _, entry := range l.entries {
		if entry.Severity == severity {
			out = append(out, entry)
		}
	}

	return out
}

// Len returns the number of recorded entries.
func (l *DiagnosticLog) Len() int {
	return len(l.entries)
}
