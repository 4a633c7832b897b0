// Package mockserial provides a scripted, in-memory serialport.Link for
// exercising the STK500v1 codec and session state machine without a
// real device attached.
package mockserial

import (
	"sync"
	"time"

	"github.com/avrprog/stk500v1/serialport"
)

// Responder computes the bytes to queue for the next reads, given the
// bytes the host just wrote. Returning nil means "don't answer" —
// useful for simulating a silent bootloader (sync timeout scenarios).
type Responder func(written []byte) []byte

// Link is a serialport.Link driven by a fixed script of responders,
// one per WriteAll call. Once the script is exhausted, further writes
// go unanswered.
type Link struct {
	mu      sync.Mutex
	script  []Responder
	calls   int
	pending []byte

	Writes   [][]byte // every frame the host wrote, in order
	DTRLevels []bool
	Closed   bool
}

// New builds a Link that answers successive WriteAll calls with the
// given responders in order.
func New(script ...Responder) *Link {
	return &Link{script: script}
}

// WriteAll records the frame and, if the script has a responder for
// this call index, queues its return value for subsequent reads.
func (l *Link) WriteAll(data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.Writes = append(l.Writes, append([]byte{}, data...))
	if l.calls < len(l.script) {
		if resp := l.script[l.calls]; resp != nil {
			if out := resp(data); out != nil {
				l.pending = append(l.pending, out...)
			}
		}
	}
	l.calls++
	return nil
}

// ReadExact returns the next n queued bytes, or serialport.ErrTimeout
// if fewer than n are available — there is no real clock here, so
// "timeout" just means the script didn't queue enough.
func (l *Link) ReadExact(n int, timeout time.Duration) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.pending) < n {
		return nil, serialport.ErrTimeout
	}
	out := l.pending[:n]
	l.pending = l.pending[n:]
	return out, nil
}

func (l *Link) SetDataTerminalReady(level bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.DTRLevels = append(l.DTRLevels, level)
	return nil
}

func (l *Link) DrainInput() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = nil
}

func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Closed = true
	return nil
}

// CallCount reports how many WriteAll calls have been made so far.
func (l *Link) CallCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

var _ serialport.Link = (*Link)(nil)
