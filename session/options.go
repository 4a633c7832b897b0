package session

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avrprog/stk500v1/progress"
)

// Options configures one Session. The zero value is never used
// directly — construct via defaultOptions and Option functions.
type Options struct {
	VerifyAfterProgramming bool
	Sink                   progress.Sink
	Logger                 *logrus.Logger
	SyncAttempts           int
	SyncGap                time.Duration
	CommandTimeout         time.Duration
	ResetPulse             time.Duration
}

func defaultOptions() Options {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return Options{
		VerifyAfterProgramming: true,
		Sink:                   progress.NopSink{},
		Logger:                 logger,
		SyncAttempts:           5,
		SyncGap:                100 * time.Millisecond,
		CommandTimeout:         500 * time.Millisecond,
		ResetPulse:             50 * time.Millisecond,
	}
}

// Option customizes Options during session construction.
type Option func(*Options)

// WithVerifyAfterProgramming enables or disables the read-back verify
// pass after all pages have been written. Default true.
func WithVerifyAfterProgramming(verify bool) Option {
	return func(o *Options) { o.VerifyAfterProgramming = verify }
}

// WithProgressSink registers the capability that receives a
// progress.Event after every page operation.
func WithProgressSink(sink progress.Sink) Option {
	return func(o *Options) {
		if sink != nil {
			o.Sink = sink
		}
	}
}

// WithLogger overrides the logrus logger used for session diagnostics
// (sync retries, swallowed teardown errors).
func WithLogger(logger *logrus.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithSyncAttempts overrides the number of GET_SYNC attempts before
// giving up with SyncTimeoutError. Default 5.
func WithSyncAttempts(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.SyncAttempts = n
		}
	}
}

// WithCommandTimeout overrides the per-command STK500v1 response
// timeout. Default 500ms.
func WithCommandTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.CommandTimeout = timeout
		}
	}
}
