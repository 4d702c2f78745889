// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package uftp

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Endpoint is the byte stream a Transport frames. A real serial.Port
// satisfies it directly; so does the WebSocket bridge in cmd/connection.go,
// or any io.ReadWriteCloser a test supplies.
type Endpoint io.ReadWriteCloser

// readPollInterval is the native per-read timeout set on a real serial
// port at open. Reads on a real port return at this granularity even when
// idle, which is how Transport enforces an overall deadline without a
// polling goroutine.
const readPollInterval = 100 * time.Millisecond

// Transport owns one Endpoint and the receive accumulator: the invariant
// it maintains is that the accumulator never holds a 0x00 delimiter byte —
// every complete frame is extracted and returned before the next read.
type Transport struct {
	conn    Endpoint
	baud    int
	ptyMode bool
	accum   []byte
}

// OpenSerial opens a real serial port in raw 8-N-1 mode at baud, with
// optional RTS/CTS flow control, and wraps it in a Transport. pty reports
// whether the endpoint is a pseudo-terminal (as opposed to a real UART),
// which governs how ReadFrame enforces its deadline: a real port gets a
// native per-read timeout; a pty's VTIME-equivalent is unreliable, so its
// reads are bounded by a goroutine/channel wait instead.
func OpenSerial(port string, baud int, rtscts bool, pty bool) (*Transport, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailed, port, err)
	}

	if rtscts {
		if err := p.SetRTS(true); err != nil {
			p.Close()
			return nil, fmt.Errorf("%w: set RTS: %v", ErrOpenFailed, err)
		}
	}

	if !pty {
		if err := p.SetReadTimeout(readPollInterval); err != nil {
			p.Close()
			return nil, fmt.Errorf("%w: set read timeout: %v", ErrOpenFailed, err)
		}
	}

	return NewTransport(p, baud, pty), nil
}

// NewTransport wraps an already-open Endpoint, for the WebSocket bridge and
// for tests that supply an in-memory pipe. Endpoints from this constructor
// are always treated as pty-like (bounded-wait reads), since they cannot
// offer a native per-read timeout.
func NewTransport(conn Endpoint, baud int, pty bool) *Transport {
	return &Transport{conn: conn, baud: baud, ptyMode: pty}
}

// Close releases the underlying endpoint.
func (t *Transport) Close() error { return t.conn.Close() }

// WriteFrame stuffs payload, appends the delimiter, writes it, and blocks
// long enough for the far end's UART buffering to drain before returning —
// 2x the nominal byte-time for the frame, at the configured baud rate.
func (t *Transport) WriteFrame(payload []byte) error {
	frame := append(Encode(payload), Delimiter)

	if _, err := t.conn.Write(frame); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	time.Sleep(transmissionDelay(len(frame), t.baud))
	return nil
}

// transmissionDelay returns 2 * (byteCount * 10 / baud) seconds: ten bit
// times per byte (8 data bits, start, stop), doubled for margin.
func transmissionDelay(byteCount, baud int) time.Duration {
	if baud <= 0 {
		return 0
	}
	seconds := 2 * float64(byteCount) * 10 / float64(baud)
	return time.Duration(seconds * float64(time.Second))
}

// ReadFrame returns the next complete, COBS-decoded frame, consuming
// exactly that frame's bytes (plus its delimiter) from the accumulator and
// retaining any remainder for the next call. It never blocks past
// deadline, reporting ErrReadTimeout if no full frame arrives in time.
func (t *Transport) ReadFrame(deadline time.Time) ([]byte, error) {
	for {
		if idx := indexByte(t.accum, Delimiter); idx >= 0 {
			raw := t.accum[:idx]
			t.accum = t.accum[idx+1:]
			return Decode(raw)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrReadTimeout
		}

		chunk, err := t.readChunk(remaining)
		if err != nil {
			return nil, err
		}
		t.accum = append(t.accum, chunk...)
	}
}

// readChunk reads whatever is available within at most wait, never
// blocking longer than that regardless of which endpoint kind backs the
// transport.
func (t *Transport) readChunk(wait time.Duration) ([]byte, error) {
	if !t.ptyMode {
		buf := make([]byte, 256)
		n, err := t.conn.Read(buf)
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: endpoint closed", ErrReadFailed)
			}
			return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
		}
		return buf[:n], nil
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		buf := make([]byte, 256)
		n, err := t.conn.Read(buf)
		done <- result{data: buf[:n], err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if r.err == io.EOF {
				return nil, fmt.Errorf("%w: endpoint closed", ErrReadFailed)
			}
			return nil, fmt.Errorf("%w: %v", ErrReadFailed, r.err)
		}
		return r.data, nil
	case <-time.After(wait):
		return nil, nil
	}
}

// RawWrite bypasses stuffing/framing entirely, for tests exercising the
// codec boundary directly.
func (t *Transport) RawWrite(b []byte) error {
	_, err := t.conn.Write(b)
	return err
}

// ResetAccumulator discards any partially-accumulated bytes, for tests and
// for Session.Resync after a desync.
func (t *Transport) ResetAccumulator() {
	t.accum = nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
