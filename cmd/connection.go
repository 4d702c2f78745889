// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ndoto/uftpc/pkg/uftp"
)

// ErrConnectionClosed is returned when reading from a closed bridge connection.
var ErrConnectionClosed = fmt.Errorf("bridge connection closed")

// bridgeConn adapts a gorilla/websocket binary-message stream to the
// io.ReadWriteCloser a Transport expects, for the supplemental bridge
// transport (bench rigs and CI without a physical serial link).
type bridgeConn struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
	closed    bool
}

func (w *bridgeConn) Read(p []byte) (int, error) {
	if w.closed {
		return 0, ErrConnectionClosed
	}
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.closed = true
			return 0, err
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		w.buf = data
		w.bufOffset = 0
		n := copy(p, w.buf)
		w.bufOffset = n
		return n, nil
	}
}

func (w *bridgeConn) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *bridgeConn) Close() error { return w.conn.Close() }

func dialBridge(url string) (*bridgeConn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("bridge dial failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("bridge dial failed: %w", err)
	}
	return &bridgeConn{conn: conn}, nil
}

// openSession opens a Session per the persistent flags: a bridge connection
// if --bridge-url is set, otherwise a real serial port at --port.
func openSession(ctx context.Context) (*uftp.Session, string, error) {
	if bridgeURL != "" {
		conn, err := dialBridge(bridgeURL)
		if err != nil {
			return nil, "", err
		}
		s, err := uftp.OpenWith(ctx, conn, requestTimeout())
		if err != nil {
			return nil, "", err
		}
		return s, fmt.Sprintf("bridge: %s", bridgeURL), nil
	}

	if portName == "" {
		return nil, "", fmt.Errorf("either --port or --bridge-url must be specified")
	}

	s, err := uftp.Open(ctx, uftp.Config{
		Port:    portName,
		Baud:    baudRate,
		RTSCTS:  rtscts,
		PTY:     ptyMode,
		Timeout: requestTimeout(),
	})
	if err != nil {
		return nil, "", err
	}
	return s, fmt.Sprintf("serial: %s @ %d baud", portName, baudRate), nil
}
