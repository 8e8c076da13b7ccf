package parser

import (
	"errors"
	"fmt"
)

// SpendRecord holds one advertiser's totals from an Ad Library spend report.
type SpendRecord struct {
	PageName       string `json:"pageName"`
	AmountSpentMXN int64  `json:"amountSpentMXN"`
	NumberOfAds    int    `json:"numberOfAds"`
}

// DiagnosticKind classifies why a row or line group was dropped.
type DiagnosticKind string

const (
	KindMissingColumn DiagnosticKind = "missing-column"
	KindMalformedRow  DiagnosticKind = "malformed-row"
	KindMissingLabel  DiagnosticKind = "missing-label"
	KindEmptyName     DiagnosticKind = "empty-name"
	KindInvalidAmount DiagnosticKind = "invalid-amount"
	KindInvalidCount  DiagnosticKind = "invalid-count"
)

// Diagnostic is a non-fatal note about input that did not become a record.
// Line is the 1-based source line (or sheet row); 0 means the whole input.
type Diagnostic struct {
	Line    int            `json:"line"`
	Kind    DiagnosticKind `json:"kind"`
	Field   string         `json:"field,omitempty"`
	Value   string         `json:"value,omitempty"`
	Message string         `json:"message"`
}

func (d Diagnostic) Error() string {
	prefix := string(d.Kind)
	if d.Line > 0 {
		prefix = fmt.Sprintf("line %d: %s", d.Line, d.Kind)
	}
	if d.Field != "" {
		return fmt.Sprintf("%s: %s: %s", prefix, d.Field, d.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, d.Message)
}

// Result is the outcome of normalizing one input. Records keep source order.
type Result struct {
	Records  []SpendRecord `json:"records"`
	Warnings []Diagnostic  `json:"warnings"`
	// Dropped counts rejected rows or line groups. One row may produce
	// several warnings; header problems produce warnings but drop nothing.
	Dropped int `json:"dropped"`
}

// OK reports whether every row of the input became a record.
func (r Result) OK() bool {
	return len(r.Warnings) == 0
}

// Err joins all warnings into a single error, or returns nil when there are
// none. Callers that treat dropped rows as fatal can return it directly.
func (r Result) Err() error {
	if len(r.Warnings) == 0 {
		return nil
	}
	errs := make([]error, len(r.Warnings))
	for i, w := range r.Warnings {
		errs[i] = w
	}
	return errors.Join(errs...)
}

func (r *Result) warn(d ...Diagnostic) {
	r.Warnings = append(r.Warnings, d...)
}

// drop records one rejected row or group and its diagnostics.
func (r *Result) drop(d ...Diagnostic) {
	r.warn(d...)
	r.Dropped++
}
