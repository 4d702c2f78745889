// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package uftp

import (
	"context"
	"time"
)

// Session owns one Transport/Engine pair for the lifetime of one caller.
// It is not safe for concurrent use — exactly what the protocol's
// single-outstanding-request discipline requires, and what the Engine's
// ErrBusy guard enforces at the next layer down.
type Session struct {
	t *Transport
	e *Engine

	timeout time.Duration
}

// Config bundles what Open needs beyond the endpoint itself.
type Config struct {
	Port    string
	Baud    int
	RTSCTS  bool
	PTY     bool
	Timeout time.Duration
}

// Open opens a real serial endpoint, syncs against the device beacon, and
// returns a ready Session.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	t, err := OpenSerial(cfg.Port, cfg.Baud, cfg.RTSCTS, cfg.PTY)
	if err != nil {
		return nil, err
	}

	s := &Session{t: t, e: NewEngine(t, cfg.Timeout), timeout: cfg.Timeout}
	if err := s.syncWithContext(ctx); err != nil {
		t.Close()
		return nil, err
	}
	return s, nil
}

// OpenWith wraps an already-connected Endpoint (the WebSocket bridge, or a
// test fake) instead of opening a real serial port.
func OpenWith(ctx context.Context, conn Endpoint, timeout time.Duration) (*Session, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := NewTransport(conn, 0, true)
	s := &Session{t: t, e: NewEngine(t, timeout), timeout: timeout}
	if err := s.syncWithContext(ctx); err != nil {
		t.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) syncWithContext(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- s.t.Sync(s.timeout) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Resync discards the accumulator and re-runs the Sync Detector, the
// caller-invoked recovery path for a session that has lost frame
// alignment (spec'd recovery policy: the core never resyncs on its own).
func (s *Session) Resync() error {
	return s.t.Sync(s.timeout)
}

// Close releases the underlying endpoint.
func (s *Session) Close() error { return s.t.Close() }

func (s *Session) Cd(path string) error              { return Cd(s.e, path) }
func (s *Session) Ls(path string) ([]DirEntry, error) { return Ls(s.e, path) }
func (s *Session) Rm(path string) error              { return Rm(s.e, path) }
func (s *Session) Reboot() error                     { return Reboot(s.e) }
func (s *Session) Put(local, remote string, o TransferOptions) error {
	return Put(s.e, local, remote, o)
}
func (s *Session) Get(remote, local string, o TransferOptions) error {
	return Get(s.e, remote, local, o)
}
func (s *Session) Transfer(dir, local, remote string, o TransferOptions) error {
	return Transfer(s.e, dir, local, remote, o)
}
