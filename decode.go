package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-factory-settings/catalog"
	"github.com/goliatone/go-factory-settings/rational"
)

// Field names used in reports, diagnostics and log events.
const (
	FieldTitle      = "title"
	FieldIgnore     = "ignore"
	FieldOverclock  = "overclock"
	FieldAmplifiers = "amplifiers"
	FieldRate       = "rate"
	FieldPrecision  = "precision"
	FieldFormat     = "format"
	FieldColor      = "color"
	FieldBelts      = "belts"
	FieldVisualizer = "visualizer"
	FieldMiners     = "miners"
	FieldPriority   = "priority"
	FieldDisable    = "disable"
	FieldItems      = "items"
	FieldDebug      = "debug"
	FieldTab        = "tab"

	fieldRules    = "rules"
	fieldActivity = "activity"
)

// ErrNilConfiguration is returned by Apply when cfg is nil.
var ErrNilConfiguration = errors.New("settings: nil configuration")

type fieldDecoder struct {
	name  string
	keys  []string
	apply func(*pass) (Source, error)
}

// decodeOrder is the fixed order fields are applied in. Later fields may
// read what earlier ones installed, and a fatal error in one field leaves
// every later field untouched.
func decodeOrder() []fieldDecoder {
	return []fieldDecoder{
		{name: FieldTitle, keys: []string{KeyTitle}, apply: applyTitle},
		{name: FieldIgnore, keys: []string{KeyIgnore}, apply: applyIgnore},
		{name: FieldOverclock, keys: []string{KeyOverclock}, apply: applyOverclock},
		{name: FieldAmplifiers, keys: []string{KeyAmplifiers}, apply: applyAmplifiers},
		{name: FieldRate, keys: []string{KeyRate}, apply: applyRate},
		{name: FieldPrecision, keys: []string{KeyRatePrec, KeyCountPrec}, apply: applyPrecisions},
		{name: FieldFormat, keys: []string{KeyFormat}, apply: applyValueFormat},
		{name: FieldColor, keys: []string{KeyColor}, apply: applyColorScheme},
		{name: FieldBelts, keys: []string{KeyBelt, KeyPipe}, apply: applyBelts},
		{name: FieldVisualizer, keys: []string{KeyVisType, KeyVisRender}, apply: applyVisualizer},
		{name: FieldMiners, keys: []string{KeyMiners}, apply: applyMiners},
		{name: FieldPriority, keys: []string{KeyPriority}, apply: applyPriority},
		{name: FieldDisable, keys: []string{KeyDisable}, apply: applyDisabled},
		{name: FieldItems, keys: []string{KeyItems}, apply: applyTargets},
		{name: FieldDebug, keys: []string{KeyDebug}, apply: applyDebug},
		{name: FieldTab, keys: []string{KeyTab}, apply: applyTab},
	}
}

// FieldOrder returns the field names in decode order.
func FieldOrder() []string {
	fields := decodeOrder()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// pass is the state of one decode pass.
type pass struct {
	id      string
	cfg     *Configuration
	catalog Catalog
	raw     RawSettings
	report  *Report
	field   string
}

// diagnose records non-fatal problems against the running field.
func (p *pass) diagnose(errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		p.report.Diagnostics = append(p.report.Diagnostics, Diagnostic{
			Field: p.field,
			Err:   withField(p.field, err),
		})
	}
}

// Decode builds a fresh Configuration from raw. On a fatal error it
// returns a nil Configuration along with the partial report.
func (d *Decoder) Decode(ctx context.Context, raw RawSettings) (*Configuration, Report, error) {
	cfg := NewConfiguration()
	report, err := d.Apply(ctx, cfg, raw)
	if err != nil {
		return nil, report, err
	}
	return cfg, report, nil
}

// DecodeFragment parses link with ParseFragment and decodes it.
func (d *Decoder) DecodeFragment(ctx context.Context, link string) (*Configuration, Report, error) {
	return d.Decode(ctx, ParseFragment(link))
}

// Apply decodes raw into cfg, one field at a time in decode order. Every
// collection cfg owns is rebuilt, so applying the same raw settings twice
// yields the same state. Non-fatal problems are reported as diagnostics.
// A fatal error stops the pass: fields before the failing one stay
// applied and later fields keep their previous values.
func (d *Decoder) Apply(ctx context.Context, cfg *Configuration, raw RawSettings) (Report, error) {
	if cfg == nil {
		return Report{}, ErrNilConfiguration
	}
	if ctx == nil {
		ctx = context.Background()
	}
	report := Report{PassID: d.cfg.newID()}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	cfg.ensureCollections()

	p := &pass{
		id:      report.PassID,
		cfg:     cfg,
		catalog: d.catalog,
		raw:     raw,
		report:  &report,
	}
	start := time.Now()
	for _, field := range d.fields {
		if err := d.runField(p, field); err != nil {
			err = withField(field.name, err)
			d.cfg.logger.LogDecode(DecodeLogEvent{
				PassID:      report.PassID,
				Duration:    time.Since(start),
				Diagnostics: len(report.Diagnostics),
				Err:         err,
			})
			d.emitPass(ctx, report, err)
			return report, err
		}
	}
	d.checkRules(cfg, p)
	d.cfg.logger.LogDecode(DecodeLogEvent{
		PassID:      report.PassID,
		Duration:    time.Since(start),
		Diagnostics: len(report.Diagnostics),
	})
	d.emitPass(ctx, report, nil)
	return report, nil
}

func (d *Decoder) runField(p *pass, field fieldDecoder) error {
	p.field = field.name
	before := len(p.report.Diagnostics)
	trace := FieldTrace{Field: field.name, Key: strings.Join(field.keys, ",")}
	trace.Present, trace.Raw = rawFor(p.raw, field.keys)

	start := time.Now()
	source, err := field.apply(p)
	trace.Source = source
	trace.Applied = err == nil
	p.report.Fields = append(p.report.Fields, trace)

	d.cfg.logger.LogDecode(DecodeLogEvent{
		PassID:      p.id,
		Field:       field.name,
		Source:      source,
		Duration:    time.Since(start),
		Diagnostics: len(p.report.Diagnostics) - before,
		Err:         err,
	})
	return err
}

// rawFor reports whether any key is present and the raw text seen. A
// single key yields its value; several keys yield "key=value" pairs joined
// with "&".
func rawFor(raw RawSettings, keys []string) (bool, string) {
	if len(keys) == 1 {
		value, ok := raw.Get(keys[0])
		return ok, value
	}
	var (
		present bool
		parts   []string
	)
	for _, key := range keys {
		if value, ok := raw.Get(key); ok {
			present = true
			parts = append(parts, key+"="+value)
		}
	}
	return present, strings.Join(parts, "&")
}

// ensureCollections allocates any nil map so a zero Configuration can be
// passed to Apply.
func (c *Configuration) ensureCollections() {
	if c.Ignore == nil {
		c.Ignore = map[string]catalog.Item{}
	}
	if c.Overclock == nil {
		c.Overclock = map[string]rational.Value{}
	}
	if c.Amplifiers == nil {
		c.Amplifiers = map[string]rational.Value{}
	}
	if c.Miners == nil {
		c.Miners = map[string]MinerSetting{}
	}
	if c.Disabled == nil {
		c.Disabled = map[string]catalog.Recipe{}
	}
}
