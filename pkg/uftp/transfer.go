// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package uftp

import (
	"io"
	"os"
)

// TransferOptions configures a Put/Get beyond the default chunk size.
type TransferOptions struct {
	// ChunkSize overrides DefaultChunkSize when non-zero.
	ChunkSize int

	// UnlinkOnFailure removes the local destination file if a Get fails
	// partway through, instead of leaving the partially-written (or
	// zero-byte, if the failure was immediate) file behind.
	UnlinkOnFailure bool
}

func (o TransferOptions) chunkSize() int {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return DefaultChunkSize
}

// Put streams local to remotePath in fixed-size chunks. Each chunk is one
// PUT request carrying that chunk's bytes and its offset; the final
// request carries zero binary bytes to signal EOF and commit the write.
func Put(e *Engine, localPath, remotePath string, opts TransferOptions) error {
	f, err := os.Open(localPath)
	if err != nil {
		return &LocalIOError{Op: "put", Path: localPath, Err: err}
	}
	defer f.Close()

	buf := make([]byte, opts.chunkSize())
	var off int64

	for {
		n, rerr := f.Read(buf)
		if rerr != nil && rerr != io.EOF {
			return &LocalIOError{Op: "put", Path: localPath, Err: rerr}
		}

		chunk := buf[:n]
		meta, _, err := e.Request(CodePut, map[string]any{
			"path": remotePath,
			"off":  off,
		}, chunk)
		if err != nil {
			return err
		}
		if ok, _ := meta["ok"].(bool); !ok {
			return &RemoteError{Op: "put", Message: remoteErrMessage(meta)}
		}

		off += int64(n)
		if rerr == io.EOF || n == 0 {
			if n > 0 {
				// Final short read still needs the EOF-signaling empty
				// request to commit the write.
				if _, _, err := e.Request(CodePut, map[string]any{
					"path": remotePath,
					"off":  off,
				}, nil); err != nil {
					return err
				}
			}
			return nil
		}
	}
}

// Get streams remotePath to local in fixed-size chunks, stopping when the
// response's meta.eof is truthy. A zero-byte local file may exist after a
// failed Get (the file is created before the first successful chunk
// arrives); set UnlinkOnFailure to remove it instead.
func Get(e *Engine, remotePath, localPath string, opts TransferOptions) error {
	f, err := os.Create(localPath)
	if err != nil {
		return &LocalIOError{Op: "get", Path: localPath, Err: err}
	}

	fail := func(err error) error {
		f.Close()
		if opts.UnlinkOnFailure {
			os.Remove(localPath)
		}
		return err
	}

	chunk := opts.chunkSize()
	var off int64

	for {
		meta, bin, err := e.Request(CodeGet, map[string]any{
			"path":  remotePath,
			"off":   off,
			"count": chunk,
		}, nil)
		if err != nil {
			return fail(err)
		}
		if ok, _ := meta["ok"].(bool); !ok {
			return fail(&RemoteError{Op: "get", Message: remoteErrMessage(meta)})
		}

		if len(bin) > 0 {
			if _, err := f.Write(bin); err != nil {
				return fail(&LocalIOError{Op: "get", Path: localPath, Err: err})
			}
			off += int64(len(bin))
		}

		if truthy(meta["eof"]) {
			return f.Close()
		}
	}
}

func remoteErrMessage(meta map[string]any) string {
	if s, ok := meta["err"].(string); ok {
		return s
	}
	return ""
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
