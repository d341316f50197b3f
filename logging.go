package caps

import "time"

// ComposeLogEvent describes a composition step for logging.
type ComposeLogEvent struct {
	Op        string
	Composite string
	Provider  string
	Member    string
	Duration  time.Duration
	Err       error
}

// ComposeLogger records composition events.
type ComposeLogger interface {
	LogCompose(ComposeLogEvent)
}

// ComposeLoggerFunc adapts a function to ComposeLogger.
type ComposeLoggerFunc func(ComposeLogEvent)

// LogCompose implements ComposeLogger.
func (f ComposeLoggerFunc) LogCompose(event ComposeLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopComposeLogger struct{}

func (noopComposeLogger) LogCompose(ComposeLogEvent) {}

// WithComposeLogger attaches a logger to the composition.
func WithComposeLogger(logger ComposeLogger) Option {
	return func(cfg *composeConfig) {
		if logger == nil {
			cfg.logger = noopComposeLogger{}
			return
		}
		cfg.logger = logger
	}
}
