package settings

import "time"

// DecodeLogEvent describes one field step, or a whole pass when Field is
// empty.
type DecodeLogEvent struct {
	PassID      string
	Field       string
	Source      Source
	Duration    time.Duration
	Diagnostics int
	Err         error
}

// DecodeLogger records decode events.
type DecodeLogger interface {
	LogDecode(DecodeLogEvent)
}

// DecodeLoggerFunc adapts a function to DecodeLogger.
type DecodeLoggerFunc func(DecodeLogEvent)

// LogDecode implements DecodeLogger.
func (f DecodeLoggerFunc) LogDecode(event DecodeLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopDecodeLogger struct{}

func (noopDecodeLogger) LogDecode(DecodeLogEvent) {}

// EvaluatorLogEvent describes one expression evaluation. Rule is set for
// configured rules and empty for ad hoc queries. Phase is set on failure.
type EvaluatorLogEvent struct {
	Engine   string
	Rule     string
	Expr     string
	Phase    string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluations.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation calls f.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// WithDecodeLogger receives one event per field step and one per pass. Nil
// disables decode logging.
func WithDecodeLogger(logger DecodeLogger) Option {
	return func(cfg *decoderConfig) {
		cfg.logger = logger
		if logger == nil {
			cfg.logger = noopDecodeLogger{}
		}
	}
}

// WithEvaluatorLogger receives one event per rule or query evaluation. Nil
// disables evaluation logging.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *decoderConfig) {
		cfg.evalLogger = logger
		if logger == nil {
			cfg.evalLogger = noopEvaluatorLogger{}
		}
	}
}
