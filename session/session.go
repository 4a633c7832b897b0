package session

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avrprog/stk500v1/flashpage"
	"github.com/avrprog/stk500v1/progress"
	"github.com/avrprog/stk500v1/serialport"
	"github.com/avrprog/stk500v1/stk500"
	"github.com/avrprog/stk500v1/target"
)

// Session drives one programming run against a single target. It
// exclusively owns the serial link for the lifetime of Run and
// releases it on every exit path.
type Session struct {
	params target.Params
	opts   Options

	// openLink is overridable in tests; production code always uses
	// serialport.Open.
	openLink func(port string, baud int) (serialport.Link, error)
}

// New constructs a Session for params, applying opts over the defaults.
func New(params target.Params, opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Session{params: params, opts: o, openLink: serialport.Open}
}

// Run executes the full sync -> enter progmode -> write pages ->
// (optional) verify -> leave progmode sequence against writes, in
// page-index order, and always tears down the link before returning.
func (s *Session) Run(ctx context.Context, writes []flashpage.Write) error {
	link, err := s.openLink(s.params.Port, s.params.Baud)
	if err != nil {
		return err
	}

	if err := s.pulseReset(link); err != nil {
		_ = link.Close()
		return fmt.Errorf("session: reset pulse: %w", err)
	}
	link.DrainInput()

	codec := stk500.New(link).WithTimeout(s.opts.CommandTimeout)

	entered := false
	defer s.teardown(link, codec, &entered)

	if err := s.sync(codec, link); err != nil {
		return err
	}

	if err := s.checkSignature(codec); err != nil {
		return err
	}

	if _, err := codec.Send(stk500.SetDevice, buildSetDeviceBody(s.params), 0); err != nil {
		return fmt.Errorf("session: set device: %w", err)
	}
	if _, err := codec.Send(stk500.SetDeviceExt, buildSetDeviceExtBody(), 0); err != nil {
		return fmt.Errorf("session: set device ext: %w", err)
	}
	if _, err := codec.Send(stk500.EnterProgMode, nil, 0); err != nil {
		return fmt.Errorf("session: enter progmode: %w", err)
	}
	entered = true

	total := len(writes)
	for i, w := range writes {
		if err := ctx.Err(); err != nil {
			return &CancelledError{Page: w.PageIndex}
		}
		if err := s.writePage(codec, w); err != nil {
			return err
		}
		if s.opts.Sink.OnEvent(progress.Event{
			Phase:      progress.Programming,
			PagesDone:  i + 1,
			PagesTotal: total,
		}) == progress.Cancel {
			return &CancelledError{Page: w.PageIndex}
		}
	}

	if s.opts.VerifyAfterProgramming {
		for i, w := range writes {
			if err := ctx.Err(); err != nil {
				return &CancelledError{Page: w.PageIndex}
			}
			if err := s.verifyPage(codec, w); err != nil {
				return err
			}
			if s.opts.Sink.OnEvent(progress.Event{
				Phase:      progress.Verifying,
				PagesDone:  i + 1,
				PagesTotal: total,
			}) == progress.Cancel {
				return &CancelledError{Page: w.PageIndex}
			}
		}
	}

	return nil
}

func (s *Session) pulseReset(link serialport.Link) error {
	if err := link.SetDataTerminalReady(false); err != nil {
		return err
	}
	time.Sleep(s.opts.ResetPulse)
	if err := link.SetDataTerminalReady(true); err != nil {
		return err
	}
	time.Sleep(s.opts.ResetPulse)
	return nil
}

func (s *Session) sync(codec *stk500.Codec, link serialport.Link) error {
	for attempt := 1; attempt <= s.opts.SyncAttempts; attempt++ {
		link.DrainInput()
		if _, err := codec.Send(stk500.GetSync, nil, 0); err == nil {
			return nil
		} else {
			s.opts.Logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"error":   err,
			}).Debug("stk500 sync attempt failed")
		}
		if attempt < s.opts.SyncAttempts {
			time.Sleep(s.opts.SyncGap)
		}
	}
	return &SyncTimeoutError{Attempts: s.opts.SyncAttempts}
}

func (s *Session) checkSignature(codec *stk500.Codec) error {
	sig, err := codec.Send(stk500.ReadSign, nil, 3)
	if err != nil {
		return fmt.Errorf("session: read signature: %w", err)
	}
	var got [3]byte
	copy(got[:], sig)
	if got != s.params.DeviceSignature {
		return &SignatureMismatchError{Expected: s.params.DeviceSignature, Got: got}
	}
	return nil
}

func (s *Session) writePage(codec *stk500.Codec, w flashpage.Write) error {
	word, err := stk500.LoadAddressWord(w.ByteAddress)
	if err != nil {
		return &WriteFailedError{Page: w.PageIndex, Cause: err}
	}
	if _, err := codec.Send(stk500.LoadAddress, word, 0); err != nil {
		return &WriteFailedError{Page: w.PageIndex, Cause: err}
	}
	body := stk500.ProgPageBody(stk500.MemTypeFlash, w.Payload)
	if _, err := codec.Send(stk500.ProgPage, body, 0); err != nil {
		return &WriteFailedError{Page: w.PageIndex, Cause: err}
	}
	return nil
}

func (s *Session) verifyPage(codec *stk500.Codec, w flashpage.Write) error {
	word, err := stk500.LoadAddressWord(w.ByteAddress)
	if err != nil {
		return fmt.Errorf("session: verify page %d: %w", w.PageIndex, err)
	}
	if _, err := codec.Send(stk500.LoadAddress, word, 0); err != nil {
		return fmt.Errorf("session: verify page %d: %w", w.PageIndex, err)
	}
	got, err := codec.Send(stk500.ReadPage, stk500.ReadPageBody(stk500.MemTypeFlash, len(w.Payload)), len(w.Payload))
	if err != nil {
		return fmt.Errorf("session: verify page %d: %w", w.PageIndex, err)
	}
	for i := range w.Payload {
		if got[i] != w.Payload[i] {
			return &VerifyMismatchError{
				Page:                 w.PageIndex,
				FirstDifferingOffset: i,
				Expected:             w.Payload[i],
				Got:                  got[i],
			}
		}
	}
	return nil
}

// teardown attempts LEAVE_PROGMODE (if entered) and always closes the
// link. Teardown errors are logged, never returned, so they can't mask
// the error that caused the session to unwind.
func (s *Session) teardown(link serialport.Link, codec *stk500.Codec, entered *bool) {
	if *entered {
		if _, err := codec.Send(stk500.LeaveProgMode, nil, 0); err != nil {
			s.opts.Logger.WithError(err).Warn("leave progmode failed during teardown")
		}
	}
	if err := link.Close(); err != nil {
		s.opts.Logger.WithError(err).Warn("close serial link failed during teardown")
	}
}
