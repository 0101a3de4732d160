package settings

import (
	"encoding/json"
)

// Source records where a field's applied value came from.
type Source string

const (
	// SourceLink means the value was read from the link.
	SourceLink Source = "link"
	// SourceDefault means the key was absent (or empty where empty means
	// unset) and the default was installed.
	SourceDefault Source = "default"
	// SourceFallback means the key was present but unusable as a whole and
	// the default was installed instead.
	SourceFallback Source = "fallback"
)

// FieldTrace captures provenance for one field of one decode pass.
type FieldTrace struct {
	Field   string `json:"field" yaml:"field"`
	Key     string `json:"key" yaml:"key"`
	Present bool   `json:"present" yaml:"present"`
	Raw     string `json:"raw,omitempty" yaml:"raw,omitempty"`
	Source  Source `json:"source" yaml:"source"`
	Applied bool   `json:"applied" yaml:"applied"`
}

// Diagnostic is a non-fatal problem found while decoding. Err is usually
// a *ParseError.
type Diagnostic struct {
	Field string
	Err   error
}

// Report summarises one decode pass.
type Report struct {
	PassID      string
	Fields      []FieldTrace
	Diagnostics []Diagnostic
}

// Field returns the trace for field, if it ran.
func (r Report) Field(field string) (FieldTrace, bool) {
	for _, trace := range r.Fields {
		if trace.Field == field {
			return trace, true
		}
	}
	return FieldTrace{}, false
}

// FieldNames lists the fields that ran, in order.
func (r Report) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for _, trace := range r.Fields {
		names = append(names, trace.Field)
	}
	return names
}

// DiagnosticsFor returns the diagnostics raised by field.
func (r Report) DiagnosticsFor(field string) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Field == field {
			out = append(out, d)
		}
	}
	return out
}

type reportJSON struct {
	PassID      string           `json:"pass_id"`
	Fields      []FieldTrace     `json:"fields"`
	Diagnostics []diagnosticJSON `json:"diagnostics,omitempty"`
}

type diagnosticJSON struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ToJSON serialises the report for logging or transport helpers.
func (r Report) ToJSON() ([]byte, error) {
	out := reportJSON{PassID: r.PassID, Fields: r.Fields}
	for _, d := range r.Diagnostics {
		msg := ""
		if d.Err != nil {
			msg = d.Err.Error()
		}
		out.Diagnostics = append(out.Diagnostics, diagnosticJSON{Field: d.Field, Error: msg})
	}
	return json.Marshal(out)
}
