package settings

import (
	"go.uber.org/zap"
)

// ZapLogger adapts a *zap.Logger to DecodeLogger and EvaluatorLogger.
// Field steps log at debug, fallbacks and diagnostics at warn, failures
// at error.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger wraps logger. A nil logger yields a no-op zap logger.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger.Named("settings")}
}

// LogDecode implements DecodeLogger.
func (z *ZapLogger) LogDecode(event DecodeLogEvent) {
	fields := []zap.Field{
		zap.String("pass_id", event.PassID),
		zap.Duration("duration", event.Duration),
	}
	if event.Field == "" {
		fields = append(fields, zap.Int("diagnostics", event.Diagnostics))
		if event.Err != nil {
			z.logger.Error("decode pass aborted", append(fields, zap.Error(event.Err))...)
			return
		}
		z.logger.Info("decode pass finished", fields...)
		return
	}

	fields = append(fields, zap.String("field", event.Field), zap.String("source", string(event.Source)))
	switch {
	case event.Err != nil:
		z.logger.Error("field decode failed", append(fields, zap.Error(event.Err))...)
	case event.Source == SourceFallback || event.Diagnostics > 0:
		z.logger.Warn("field decoded with fallbacks", append(fields, zap.Int("diagnostics", event.Diagnostics))...)
	default:
		z.logger.Debug("field decoded", fields...)
	}
}

// LogEvaluation implements EvaluatorLogger.
func (z *ZapLogger) LogEvaluation(event EvaluatorLogEvent) {
	fields := []zap.Field{
		zap.String("engine", event.Engine),
		zap.String("expr", event.Expr),
		zap.Duration("duration", event.Duration),
	}
	if event.Rule != "" {
		fields = append(fields, zap.String("rule", event.Rule))
	}
	if event.Err != nil {
		fields = append(fields, zap.String("phase", event.Phase), zap.Error(event.Err))
		z.logger.Warn("evaluation failed", fields...)
		return
	}
	z.logger.Debug("evaluation finished", fields...)
}
