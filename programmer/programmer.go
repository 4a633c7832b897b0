// Package programmer is the stable entry point external callers use:
// construct one from a board identifier or explicit target.Params,
// then hand it a HEX file to program. It wires hexfile.Decode ->
// flashpage.Paginate -> session.Session.Run and owns nothing beyond
// that single call.
package programmer

import (
	"context"
	"fmt"
	"sync"

	"github.com/avrprog/stk500v1/boards"
	"github.com/avrprog/stk500v1/flashpage"
	"github.com/avrprog/stk500v1/hexfile"
	"github.com/avrprog/stk500v1/progress"
	"github.com/avrprog/stk500v1/session"
	"github.com/avrprog/stk500v1/target"
)

// ErrUnknownBoard reports that NewFromBoard was given an id absent
// from the board table.
type ErrUnknownBoard struct {
	ID string
}

func (e *ErrUnknownBoard) Error() string {
	return fmt.Sprintf("programmer: unknown board %q", e.ID)
}

// ErrMissingFirmware reports a request with no firmware path.
var ErrMissingFirmware = fmt.Errorf("programmer: a firmware path is required")

// ErrMissingTarget reports a request naming neither a board id nor an
// explicit port to fall back on.
var ErrMissingTarget = fmt.Errorf("programmer: a board id or an explicit port is required")

// ErrInvalidTarget reports a target.Params with no usable page size,
// e.g. one built without going through a board lookup.
var ErrInvalidTarget = fmt.Errorf("programmer: target has no positive page size")

// Programmer is the facade for one target device. It is good for
// exactly one ProgramHexFile call; re-use after any outcome, success
// or failure, requires constructing a fresh Programmer.
type Programmer struct {
	params target.Params

	mu        sync.Mutex
	used      bool
	verify   bool
	sink     progress.Sink
	barSink  *progress.BarSink
	useBar   bool
	sessOpts []session.Option
}

// New constructs a Programmer for an explicit target.Params.
func New(params target.Params, opts ...Option) *Programmer {
	p := &Programmer{
		params: params,
		verify: true,
		sink:   progress.NopSink{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromBoard resolves id against the board table and constructs a
// Programmer for it. The caller must still set the port, via WithPort
// or SetPort, before ProgramHexFile will succeed.
func NewFromBoard(id string, opts ...Option) (*Programmer, error) {
	params, ok := boards.Lookup(id)
	if !ok {
		return nil, &ErrUnknownBoard{ID: id}
	}
	return New(params, opts...), nil
}

// Params returns the target configuration this Programmer was
// constructed with, e.g. for a caller's own port auto-detection.
func (p *Programmer) Params() target.Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// SetPort overrides the target's port, e.g. once a caller's own
// auto-detection (or an explicit --serial flag) resolves one.
func (p *Programmer) SetPort(port string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.params = p.params.WithPort(port)
}

// SetBaud overrides the target's configured baud rate. A non-positive
// baud is ignored, leaving the board table's default in place.
func (p *Programmer) SetBaud(baud int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if baud > 0 {
		p.params = p.params.WithBaud(baud)
	}
}

// SetProgressBar enables or disables the built-in terminal progress
// bar. Enabling it overrides any sink registered via WithProgressSink
// for the duration it stays enabled. Disabling it with a registered
// custom sink still in effect restores that sink.
func (p *Programmer) SetProgressBar(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.useBar = enabled
}

// SetVerifyAfterProgramming enables or disables the read-back verify
// pass that runs after all pages have been written.
func (p *Programmer) SetVerifyAfterProgramming(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verify = enabled
}

// ProgramHexFile decodes path, paginates it against this target's
// page size, and runs one programming session. It may be called once
// per Programmer; a second call, regardless of the first call's
// outcome, returns ErrAlreadyUsed.
func (p *Programmer) ProgramHexFile(path string) error {
	return p.ProgramHexFileContext(context.Background(), path)
}

// ErrAlreadyUsed reports a second ProgramHexFile call on a Programmer
// that has already run one session.
var ErrAlreadyUsed = fmt.Errorf("programmer: already used; construct a new Programmer to retry")

// ProgramHexFileContext is ProgramHexFile with an explicit context,
// checked cooperatively between page operations by the session.
func (p *Programmer) ProgramHexFileContext(ctx context.Context, path string) error {
	p.mu.Lock()
	if p.used {
		p.mu.Unlock()
		return ErrAlreadyUsed
	}
	p.used = true
	verify := p.verify
	sink := p.resolveSink()
	extraOpts := append([]session.Option(nil), p.sessOpts...)
	p.mu.Unlock()

	if p.params.PageSize <= 0 {
		return ErrInvalidTarget
	}

	img, err := hexfile.Decode(path)
	if err != nil {
		return err
	}

	writes := flashpage.Paginate(img, p.params.PageSize)

	opts := append([]session.Option{
		session.WithVerifyAfterProgramming(verify),
		session.WithProgressSink(sink),
	}, extraOpts...)

	sess := session.New(p.params, opts...)
	return sess.Run(ctx, writes)
}

// resolveSink picks the bar sink when enabled, else the registered
// sink (or the silent default). Must be called with p.mu held.
func (p *Programmer) resolveSink() progress.Sink {
	if p.useBar {
		if p.barSink == nil {
			p.barSink = progress.NewBarSink()
		}
		return p.barSink
	}
	return p.sink
}
