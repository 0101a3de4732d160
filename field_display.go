package settings

import (
	"net/url"
	"slices"
	"strconv"
	"unicode/utf8"
)

// Scalar fields treat a present but empty value the same as an absent one.

// ParseTitle percent-decodes a title. "+" is kept literally and the decoded
// bytes must form valid UTF-8.
func ParseTitle(value string) (string, error) {
	title, err := url.PathUnescape(value)
	if err != nil {
		return "", parseErrorf(KeyTitle, value, ErrMalformedEntry, "%v", err)
	}
	if !utf8.ValidString(title) {
		return "", parseErrorf(KeyTitle, value, ErrMalformedEntry, "invalid UTF-8")
	}
	return title, nil
}

// ParseRateUnit validates a rate unit key.
func ParseRateUnit(value string) (string, error) {
	if _, ok := RateUnits[value]; !ok {
		return "", parseErrorf(KeyRate, value, ErrUnknownValue, "rate unit")
	}
	return value, nil
}

// ParsePrecision parses a non-negative decimal integer.
func ParsePrecision(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, parseErrorf(key, value, ErrInvalidNumber, "precision must be a non-negative integer")
	}
	return n, nil
}

// ParseValueFormat maps "d" and "r" to their formats.
func ParseValueFormat(value string) (ValueFormat, error) {
	format, ok := valueFormats[value]
	if !ok {
		return "", parseErrorf(KeyFormat, value, ErrUnknownValue, "value format")
	}
	return format, nil
}

// ParseVisualizer validates a "vt" or "vr" value against allowed.
func ParseVisualizer(key, value string, allowed []string) (string, error) {
	if !slices.Contains(allowed, value) {
		return "", parseErrorf(key, value, ErrUnknownValue, "visualizer setting")
	}
	return value, nil
}

func applyTitle(p *pass) (Source, error) {
	value, present := p.raw.Get(KeyTitle)
	if !present {
		p.cfg.Display.Title = ""
		return SourceDefault, nil
	}
	title, err := ParseTitle(value)
	if err != nil {
		p.diagnose(err)
		p.cfg.Display.Title = value
		return SourceFallback, nil
	}
	p.cfg.Display.Title = title
	return SourceLink, nil
}

func applyRate(p *pass) (Source, error) {
	p.cfg.Display.RateUnit = DefaultRateUnit
	return p.scalar(KeyRate, func(value string) error {
		unit, err := ParseRateUnit(value)
		if err == nil {
			p.cfg.Display.RateUnit = unit
		}
		return err
	}), nil
}

func applyPrecisions(p *pass) (Source, error) {
	p.cfg.Display.RatePrecision = DefaultRatePrecision
	p.cfg.Display.CountPrecision = DefaultCountPrecision
	rate := p.scalar(KeyRatePrec, func(value string) error {
		n, err := ParsePrecision(KeyRatePrec, value)
		if err == nil {
			p.cfg.Display.RatePrecision = n
		}
		return err
	})
	count := p.scalar(KeyCountPrec, func(value string) error {
		n, err := ParsePrecision(KeyCountPrec, value)
		if err == nil {
			p.cfg.Display.CountPrecision = n
		}
		return err
	})
	return combineSources(rate, count), nil
}

func applyValueFormat(p *pass) (Source, error) {
	p.cfg.Display.Format = DefaultFormat
	return p.scalar(KeyFormat, func(value string) error {
		format, err := ParseValueFormat(value)
		if err == nil {
			p.cfg.Display.Format = format
		}
		return err
	}), nil
}

// applyColorScheme leaves the current scheme in place when the key does
// not resolve.
func applyColorScheme(p *pass) (Source, error) {
	key, fromLink := p.raw.value(KeyColor)
	if !fromLink {
		key = DefaultColorScheme
	}
	scheme, ok := p.catalog.ColorScheme(key)
	if !ok {
		if fromLink {
			p.diagnose(parseErrorf(KeyColor, key, ErrUnresolvedKey, "color scheme, keeping %q", p.cfg.Display.ColorScheme.Key))
			return SourceFallback, nil
		}
		return SourceDefault, nil
	}
	p.cfg.Display.ColorScheme = scheme
	if fromLink {
		return SourceLink, nil
	}
	return SourceDefault, nil
}

func applyBelts(p *pass) (Source, error) {
	defaults := p.catalog.Defaults()
	belt := resolveWithDefault(p, KeyBelt, defaults.Belt, p.catalog.Belt)
	pipe := resolveWithDefault(p, KeyPipe, defaults.Pipe, p.catalog.Pipe)
	p.cfg.Display.Belt = belt.value
	p.cfg.Display.Pipe = pipe.value
	return combineSources(belt.source, pipe.source), nil
}

type resolved[T any] struct {
	value  T
	source Source
}

func resolveWithDefault[T any](p *pass, key, defaultKey string, lookup func(string) (T, bool)) resolved[T] {
	if value, ok := p.raw.value(key); ok {
		if found, ok := lookup(value); ok {
			return resolved[T]{value: found, source: SourceLink}
		}
		p.diagnose(parseErrorf(key, value, ErrUnresolvedKey, "using default %q", defaultKey))
		found, _ := lookup(defaultKey)
		return resolved[T]{value: found, source: SourceFallback}
	}
	found, ok := lookup(defaultKey)
	if !ok && defaultKey != "" {
		p.diagnose(parseErrorf(key, defaultKey, ErrUnresolvedKey, "catalog default"))
	}
	return resolved[T]{value: found, source: SourceDefault}
}

func applyVisualizer(p *pass) (Source, error) {
	p.cfg.Display.VisualizerType = DefaultVisualizerType
	p.cfg.Display.VisualizerRender = DefaultVisualizerRender
	vt := p.scalar(KeyVisType, func(value string) error {
		v, err := ParseVisualizer(KeyVisType, value, VisualizerTypes)
		if err == nil {
			p.cfg.Display.VisualizerType = v
		}
		return err
	})
	vr := p.scalar(KeyVisRender, func(value string) error {
		v, err := ParseVisualizer(KeyVisRender, value, VisualizerRenders)
		if err == nil {
			p.cfg.Display.VisualizerRender = v
		}
		return err
	})
	return combineSources(vt, vr), nil
}

// applyDebug looks at key presence only; the value is ignored.
func applyDebug(p *pass) (Source, error) {
	p.cfg.Display.Debug = p.raw.Has(KeyDebug)
	if p.cfg.Display.Debug {
		return SourceLink, nil
	}
	return SourceDefault, nil
}

func applyTab(p *pass) (Source, error) {
	value, ok := p.raw.value(KeyTab)
	if !ok {
		p.cfg.Display.Tab = DefaultTab
		return SourceDefault, nil
	}
	p.cfg.Display.Tab = value
	return SourceLink, nil
}

// scalar runs set for a present, non-empty key. A rejected value leaves
// the already installed default and records a diagnostic.
func (p *pass) scalar(key string, set func(string) error) Source {
	value, ok := p.raw.value(key)
	if !ok {
		return SourceDefault
	}
	if err := set(value); err != nil {
		p.diagnose(err)
		return SourceFallback
	}
	return SourceLink
}

// combineSources reports the weakest outcome of a multi-key field.
func combineSources(sources ...Source) Source {
	out := SourceDefault
	for _, s := range sources {
		switch s {
		case SourceFallback:
			return SourceFallback
		case SourceLink:
			out = SourceLink
		}
	}
	return out
}
