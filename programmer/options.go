package programmer

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avrprog/stk500v1/progress"
	"github.com/avrprog/stk500v1/session"
)

// Option customizes a Programmer at construction time.
type Option func(*Programmer)

// WithPort overrides the target's Port field, e.g. after the CLI's
// auto-detection or an explicit --serial flag resolves one.
func WithPort(port string) Option {
	return func(p *Programmer) { p.params = p.params.WithPort(port) }
}

// WithBaud overrides the target's configured baud rate.
func WithBaud(baud int) Option {
	return func(p *Programmer) {
		if baud > 0 {
			p.params = p.params.WithBaud(baud)
		}
	}
}

// WithVerifyAfterProgramming sets the initial verify-after-programming
// mode, equivalent to calling SetVerifyAfterProgramming before the
// first ProgramHexFile. Default true.
func WithVerifyAfterProgramming(verify bool) Option {
	return func(p *Programmer) { p.verify = verify }
}

// WithProgressBar enables the built-in terminal progress bar at
// construction time, equivalent to calling SetProgressBar(true).
func WithProgressBar(enabled bool) Option {
	return func(p *Programmer) { p.useBar = enabled }
}

// WithProgressSink registers a custom progress sink. Superseded by
// the built-in bar whenever SetProgressBar(true) is in effect.
func WithProgressSink(sink progress.Sink) Option {
	return func(p *Programmer) {
		if sink != nil {
			p.sink = sink
		}
	}
}

// WithLogger forwards a logrus logger down to the underlying session.
func WithLogger(logger *logrus.Logger) Option {
	return func(p *Programmer) {
		p.sessOpts = append(p.sessOpts, session.WithLogger(logger))
	}
}

// WithSyncAttempts forwards a GET_SYNC attempt-count override down to
// the underlying session.
func WithSyncAttempts(n int) Option {
	return func(p *Programmer) {
		p.sessOpts = append(p.sessOpts, session.WithSyncAttempts(n))
	}
}

// WithCommandTimeout forwards a per-command timeout override down to
// the underlying session.
func WithCommandTimeout(timeout time.Duration) Option {
	return func(p *Programmer) {
		p.sessOpts = append(p.sessOpts, session.WithCommandTimeout(timeout))
	}
}
