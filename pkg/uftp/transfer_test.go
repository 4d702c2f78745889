// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package uftp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestPut_StreamsInChunks(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "local.bin")
	content := bytes.Repeat([]byte{0x5A}, 2500)
	if err := os.WriteFile(local, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var received []byte
	var sawFinalEmpty bool

	e := newEngineWithFakeDevice(t, func(code byte, meta map[string]any, bin []byte) (map[string]any, []byte) {
		if code != CodePut {
			t.Errorf("code = %#x, want CodePut", code)
		}
		if len(bin) == 0 {
			sawFinalEmpty = true
		} else {
			received = append(received, bin...)
		}
		return map[string]any{"ok": true}, nil
	})

	if err := Put(e, local, "/remote.bin", TransferOptions{ChunkSize: 1000}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !bytes.Equal(received, content) {
		t.Fatalf("device received %d bytes, want %d matching content", len(received), len(content))
	}
	if !sawFinalEmpty {
		t.Fatalf("device never saw the empty EOF-signaling chunk")
	}
}

func TestPut_RemoteRejection(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "local.bin")
	os.WriteFile(local, []byte("hello"), 0o644)

	e := newEngineWithFakeDevice(t, func(code byte, meta map[string]any, bin []byte) (map[string]any, []byte) {
		return map[string]any{"ok": false, "err": "disk_full"}, nil
	})

	err := Put(e, local, "/remote.bin", TransferOptions{})
	var remoteErr *RemoteError
	if !asRemoteError(err, &remoteErr) {
		t.Fatalf("err = %v, want *RemoteError", err)
	}
	if remoteErr.Message != "disk_full" {
		t.Fatalf("remoteErr.Message = %q", remoteErr.Message)
	}
}

func TestGet_StreamsUntilEOF(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "out.bin")
	content := bytes.Repeat([]byte{0x7B}, 3000)

	var off int
	e := newEngineWithFakeDevice(t, func(code byte, meta map[string]any, bin []byte) (map[string]any, []byte) {
		if code != CodeGet {
			t.Errorf("code = %#x, want CodeGet", code)
		}
		count := 1000
		end := off + count
		eof := false
		if end >= len(content) {
			end = len(content)
			eof = true
		}
		chunk := content[off:end]
		off = end
		return map[string]any{"ok": true, "eof": eof}, chunk
	})

	if err := Get(e, "/remote.bin", local, TransferOptions{ChunkSize: 1000}); err != nil {
		t.Fatalf("Get: %v", err)
	}

	got, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("got %d bytes, want %d", len(got), len(content))
	}
}

func TestGet_LeavesZeroByteFileOnImmediateFailure(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "out.bin")

	e := newEngineWithFakeDevice(t, func(code byte, meta map[string]any, bin []byte) (map[string]any, []byte) {
		return map[string]any{"ok": false, "err": "no such file"}, nil
	})

	err := Get(e, "/missing", local, TransferOptions{})
	if err == nil {
		t.Fatalf("Get: want error, got nil")
	}

	info, statErr := os.Stat(local)
	if statErr != nil {
		t.Fatalf("expected the zero-byte file to remain: %v", statErr)
	}
	if info.Size() != 0 {
		t.Fatalf("size = %d, want 0", info.Size())
	}
}

func TestGet_UnlinkOnFailureRemovesFile(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "out.bin")

	e := newEngineWithFakeDevice(t, func(code byte, meta map[string]any, bin []byte) (map[string]any, []byte) {
		return map[string]any{"ok": false, "err": "no such file"}, nil
	})

	err := Get(e, "/missing", local, TransferOptions{UnlinkOnFailure: true})
	if err == nil {
		t.Fatalf("Get: want error, got nil")
	}
	if _, statErr := os.Stat(local); !os.IsNotExist(statErr) {
		t.Fatalf("expected file to be removed, stat err = %v", statErr)
	}
}

func asRemoteError(err error, target **RemoteError) bool {
	re, ok := err.(*RemoteError)
	if !ok {
		return false
	}
	*target = re
	return true
}
