// Package diag collects non-fatal findings made while building a book:
// merged duplicates, skipped records, unresolved references.
package diag

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Kind classifies a diagnostic.
type Kind string

const (
	KindDuplicate      Kind = "duplicate"
	KindMalformed      Kind = "malformed"
	KindUnresolved     Kind = "unresolved"
	KindUnsupported    Kind = "unsupported"
	KindUnbalanced     Kind = "unbalanced"
	KindComputeFailure Kind = "compute-failure"
)

// Diagnostic is one finding.
type Diagnostic struct {
	Kind    Kind
	Subject string // ID of the record concerned
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s]: %s", d.Kind, d.Subject, d.Message)
}

// Recorder keeps diagnostics and logs each one as a warning.
// A nil *Recorder discards everything.
type Recorder struct {
	log   zerolog.Logger
	items []Diagnostic
}

// NewRecorder returns a Recorder that logs through log.
func NewRecorder(log zerolog.Logger) *Recorder {
	return &Recorder{log: log}
}

// Warn records a diagnostic.
func (r *Recorder) Warn(kind Kind, subject, format string, args ...any) {
	if r == nil {
		return
	}
	d := Diagnostic{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
	r.items = append(r.items, d)
	r.log.Warn().Str("kind", string(kind)).Str("subject", subject).Msg(d.Message)
}

// All returns the recorded diagnostics in order.
func (r *Recorder) All() []Diagnostic {
	if r == nil {
		return nil
	}
	return append([]Diagnostic(nil), r.items...)
}

// ByKind returns the diagnostics of one kind.
func (r *Recorder) ByKind(kind Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.All() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of diagnostics.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// Header is the CSV header written by WriteCSV.
const Header = "kind,subject,message"

const (
	numFields  = 3
	colKind    = 0
	colSubject = 1
	colMessage = 2
)

// MarshalDiagnostic converts a Diagnostic to a CSV row.
func MarshalDiagnostic(d Diagnostic) []string {
	row := make([]string, numFields)
	row[colKind] = string(d.Kind)
	row[colSubject] = d.Subject
	row[colMessage] = d.Message
	return row
}

// UnmarshalDiagnostic converts a CSV row to a Diagnostic.
func UnmarshalDiagnostic(record []string) (Diagnostic, error) {
	if len(record) != numFields {
		return Diagnostic{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	return Diagnostic{
		Kind:    Kind(record[colKind]),
		Subject: record[colSubject],
		Message: record[colMessage],
	}, nil
}

// WriteCSV writes diagnostics with a header row.
func WriteCSV(w io.Writer, items []Diagnostic) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, d := range items {
		if err := cw.Write(MarshalDiagnostic(d)); err != nil {
			return fmt.Errorf("writing diagnostic %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads diagnostics written by WriteCSV.
func ReadCSV(r io.Reader) ([]Diagnostic, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading diagnostics CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var items []Diagnostic
	for i, rec := range records[1:] {
		d, err := UnmarshalDiagnostic(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		items = append(items, d)
	}
	return items, nil
}
