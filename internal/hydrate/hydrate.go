// Package hydrate decodes catalog documents from loosely shaped JSON. The
// raw object passes through rewrite stages, is decoded into T and then
// validated by checks.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// Stage rewrites the raw payload in place.
type Stage func(payload map[string]any) error

// Check validates or completes a decoded document.
type Check[T any] func(doc *T) error

// Error reports which step failed for which source.
type Error struct {
	Source string
	Step   string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("hydrate: %s: %s: %v", e.Source, e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Pipeline decodes payloads into T.
type Pipeline[T any] struct {
	stages []Stage
	checks []Check[T]
	strict bool
}

// Option configures a Pipeline.
type Option[T any] func(*Pipeline[T])

// Rewrite appends a payload stage.
func Rewrite[T any](stage Stage) Option[T] {
	return func(p *Pipeline[T]) {
		if stage != nil {
			p.stages = append(p.stages, stage)
		}
	}
}

// Validate appends a check run after decoding.
func Validate[T any](check Check[T]) Option[T] {
	return func(p *Pipeline[T]) {
		if check != nil {
			p.checks = append(p.checks, check)
		}
	}
}

// Strict rejects payload keys T does not declare.
func Strict[T any]() Option[T] {
	return func(p *Pipeline[T]) {
		p.strict = true
	}
}

// New returns a pipeline built from opts.
func New[T any](opts ...Option[T]) *Pipeline[T] {
	p := &Pipeline[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// JSON decodes one JSON object from data. Comments and trailing commas are
// accepted.
func (p *Pipeline[T]) JSON(source string, data []byte) (T, error) {
	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		var zero T
		return zero, &Error{Source: source, Step: "parse", Err: err}
	}
	return p.run(source, payload)
}

// Map decodes payload. The caller's map is not modified.
func (p *Pipeline[T]) Map(source string, payload map[string]any) (T, error) {
	return p.run(source, deepCopy(payload).(map[string]any))
}

func (p *Pipeline[T]) run(source string, payload map[string]any) (T, error) {
	var doc T
	if payload == nil {
		return doc, &Error{Source: source, Step: "parse", Err: fmt.Errorf("payload is not an object")}
	}
	for _, stage := range p.stages {
		if err := stage(payload); err != nil {
			return doc, &Error{Source: source, Step: "rewrite", Err: err}
		}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return doc, &Error{Source: source, Step: "decode", Err: err}
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	if p.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&doc); err != nil {
		return doc, &Error{Source: source, Step: "decode", Err: err}
	}

	for _, check := range p.checks {
		if err := check(&doc); err != nil {
			return doc, &Error{Source: source, Step: "validate", Err: err}
		}
	}
	return doc, nil
}

// RenameKeys returns a stage that moves top-level keys to their canonical
// names. Setting both an alias and its canonical key is an error.
func RenameKeys(aliases map[string]string) Stage {
	return func(payload map[string]any) error {
		for alias, canonical := range aliases {
			value, ok := payload[alias]
			if !ok {
				continue
			}
			if _, clash := payload[canonical]; clash {
				return fmt.Errorf("both %q and %q are set", alias, canonical)
			}
			payload[canonical] = value
			delete(payload, alias)
		}
		return nil
	}
}

func deepCopy(value any) any {
	switch v := value.(type) {
	case map[string]any:
		if v == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
