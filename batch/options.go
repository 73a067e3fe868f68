package batch

import "log/slog"

// Option is a functional option for configuring a Processor via New.
type Option func(*Processor)

// WithLogger routes the processor's progress logging through logger instead
// of the process-wide default.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}
