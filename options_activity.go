package settings

import (
	"context"

	"github.com/goliatone/go-factory-settings/pkg/activity"
)

// WithActivityHooks attaches activity hooks notified after each decode
// pass. Nil entries are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := hooks.Clone()
	return func(cfg *decoderConfig) {
		cfg.activityHooks = normalized
	}
}

// ActivityHooks returns a copy of the configured hooks.
func (d *Decoder) ActivityHooks() activity.Hooks {
	if d == nil {
		return nil
	}
	return d.cfg.activityHooks.Clone()
}

// emitPass reports a finished pass. Hook errors are logged and never change
// the decode result.
func (d *Decoder) emitPass(ctx context.Context, report Report, err error) {
	if !d.activity.Enabled() {
		return
	}
	input := activity.SettingsEventInput{
		ActorID:     d.cfg.actorID,
		PassID:      report.PassID,
		Fields:      report.FieldNames(),
		Diagnostics: len(report.Diagnostics),
		Err:         err,
	}
	notify := d.activity.Decoded
	if err != nil {
		notify = d.activity.DecodeFailed
	}
	if notifyErr := notify(ctx, input); notifyErr != nil {
		d.cfg.logger.LogDecode(DecodeLogEvent{PassID: report.PassID, Field: fieldActivity, Err: notifyErr})
	}
}
