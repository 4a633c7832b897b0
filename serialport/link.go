// Package serialport is a thin, blocking byte-stream abstraction over a
// host serial device, built on go.bug.st/serial. The rest of the
// programming engine programs against the Link interface only, so it
// can be exercised against a mock in tests without a real port.
package serialport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Link is the byte-stream contract the session state machine drives.
type Link interface {
	WriteAll(data []byte) error
	ReadExact(n int, timeout time.Duration) ([]byte, error)
	SetDataTerminalReady(level bool) error
	DrainInput()
	Close() error
}

// PortError wraps a failure to open or configure the underlying device.
type PortError struct {
	Port string
	Err  error
}

func (e *PortError) Error() string {
	return fmt.Sprintf("serial: open %s: %v", e.Port, e.Err)
}

func (e *PortError) Unwrap() error { return e.Err }

// ErrTimeout is returned by ReadExact when fewer than n bytes arrive
// within the requested timeout.
var ErrTimeout = errors.New("serial: read timeout")

type hostLink struct {
	port serial.Port
}

// Open configures 8 data bits, no parity, 1 stop bit at baud, and
// returns a Link backed by the named host device.
func Open(port string, baud int) (Link, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, &PortError{Port: port, Err: err}
	}
	return &hostLink{port: p}, nil
}

func (l *hostLink) WriteAll(data []byte) error {
	_, err := l.port.Write(data)
	if err != nil {
		return fmt.Errorf("serial: write: %w", err)
	}
	return nil
}

func (l *hostLink) ReadExact(n int, timeout time.Duration) ([]byte, error) {
	buf := make([]byte, n)
	read := 0
	deadline := time.Now().Add(timeout)
	for read < n {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrTimeout
		}
		if err := l.port.SetReadTimeout(remaining); err != nil {
			return nil, fmt.Errorf("serial: set read timeout: %w", err)
		}
		k, err := l.port.Read(buf[read:])
		if err != nil {
			return nil, fmt.Errorf("serial: read: %w", err)
		}
		if k == 0 {
			// go.bug.st/serial returns (0, nil) on a read-timeout expiry
			// rather than io.EOF; treat it the same way.
			return nil, ErrTimeout
		}
		read += k
	}
	return buf, nil
}

func (l *hostLink) SetDataTerminalReady(level bool) error {
	if err := l.port.SetDTR(level); err != nil {
		return fmt.Errorf("serial: set DTR: %w", err)
	}
	return nil
}

func (l *hostLink) DrainInput() {
	_ = l.port.ResetInputBuffer()
	// ResetInputBuffer only discards the driver-side buffer; also pull
	// anything already sitting in the OS read queue.
	_ = l.port.SetReadTimeout(10 * time.Millisecond)
	buf := make([]byte, 256)
	for {
		n, err := l.port.Read(buf)
		if err != nil || n == 0 {
			return
		}
	}
}

func (l *hostLink) Close() error {
	return l.port.Close()
}

var _ io.Closer = (*hostLink)(nil)
