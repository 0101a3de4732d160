package settings

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrFunctionExists is returned when a name is registered twice.
	ErrFunctionExists = errors.New("settings: function already registered")
	// ErrFunctionNotFound is returned by Call for unknown names.
	ErrFunctionNotFound = errors.New("settings: function not registered")
	// ErrFunctionName is returned for names that are not identifiers or
	// that shadow an evaluator binding.
	ErrFunctionName = errors.New("settings: invalid function name")
)

// Function is a helper callable from rules and queries.
type Function func(args ...any) (any, error)

// FunctionRegistry holds the helpers exposed to every engine. Names are
// case-insensitive and stored lowercased. It is safe for concurrent use.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]Function{}}
}

// Register adds fn under name. Names must be identifiers and must not be
// one of now, args, metadata or call.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key, err := functionKey(name)
	if err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("settings: function %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("%w: %q", ErrFunctionExists, name)
	}
	if r.functions == nil {
		r.functions = map[string]Function{}
	}
	r.functions[key] = fn
	return nil
}

// MustRegister is Register for package-level setup. It panics on error.
func (r *FunctionRegistry) MustRegister(name string, fn Function) *FunctionRegistry {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
	return r
}

// Call runs the function registered as name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	fn := r.lookup(name)
	if fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}
	return fn(args...)
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	return r.lookup(name) != nil
}

// Names returns the registered names, sorted.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.functions))
}

// Clone returns an independent copy.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{functions: maps.Clone(r.functions)}
}

func (r *FunctionRegistry) lookup(name string) Function {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.functions[strings.ToLower(strings.TrimSpace(name))]
}

func functionKey(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == "call" || reservedVariable(key) {
		return "", fmt.Errorf("%w: %q", ErrFunctionName, name)
	}
	for i, c := range key {
		letter := c == '_' || (c >= 'a' && c <= 'z')
		digit := c >= '0' && c <= '9'
		if !letter && !(digit && i > 0) {
			return "", fmt.Errorf("%w: %q", ErrFunctionName, name)
		}
	}
	return key, nil
}

// WithFunctionRegistry exposes the functions in registry to rules and
// queries.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *decoderConfig) {
		if registry != nil {
			cfg.functions = registry.Clone()
		}
	}
}

// WithCustomFunction registers fn as name for rules and queries. Invalid
// or duplicate names are ignored.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *decoderConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
