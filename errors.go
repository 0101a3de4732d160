package settings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTargetKind marks a target descriptor whose kind is neither
	// "f" nor "r". It is the only error that aborts a decode pass.
	ErrUnknownTargetKind = errors.New("settings: unknown target kind")
	// ErrLegacyPriority marks a priority value in the older unweighted
	// encoding.
	ErrLegacyPriority = errors.New("settings: legacy priority encoding")
	// ErrInvalidNumber marks numeric text that is not an exact rational or
	// integer, or is outside the field's accepted range.
	ErrInvalidNumber = errors.New("settings: invalid number")
	// ErrUnresolvedKey marks a key the catalog does not know.
	ErrUnresolvedKey = errors.New("settings: unresolved key")
	// ErrMalformedEntry marks an entry with the wrong number of parts.
	ErrMalformedEntry = errors.New("settings: malformed entry")
	// ErrUnknownValue marks a value outside an enumerated table.
	ErrUnknownValue = errors.New("settings: unknown value")
	// ErrRuleFailed marks a configured rule that evaluated to false.
	ErrRuleFailed = errors.New("settings: rule failed")
)

// ParseError describes why a field value, or one entry inside it, could
// not be used.
type ParseError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("settings: field ")
	b.WriteString(e.Field)
	if e.Value != "" {
		fmt.Fprintf(&b, " value=%q", e.Value)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(strings.TrimPrefix(e.Err.Error(), "settings: "))
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsFatal reports whether err aborts a decode pass.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnknownTargetKind)
}

func parseErrorf(field, value string, sentinel error, format string, args ...any) *ParseError {
	return &ParseError{
		Field:  field,
		Value:  value,
		Reason: fmt.Sprintf(format, args...),
		Err:    sentinel,
	}
}

func withField(field string, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if parseErr.Field == "" {
			parseErr.Field = field
		}
		return parseErr
	}
	return &ParseError{Field: field, Err: err}
}

// Evaluation phases reported by EvaluationError.
const (
	PhaseCompile = "compile"
	PhaseRun     = "run"
)

// EvaluationError reports an expression that failed to compile or run.
type EvaluationError struct {
	Engine string
	Phase  string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("settings: %s %s %q: %v", e.Engine, e.Phase, e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// evaluationError wraps err with engine details. Errors that already carry
// them are returned unchanged.
func evaluationError(engine, phase, expr string, err error) error {
	if err == nil {
		return nil
	}
	var existing *EvaluationError
	if errors.As(err, &existing) {
		return err
	}
	return &EvaluationError{Engine: engine, Phase: phase, Expr: expr, Err: err}
}
