// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package uftp

import "fmt"

// DirEntry is one entry of an Ls response.
type DirEntry struct {
	Name string `json:"n"`
	Type string `json:"t"` // "f" or "d"
	Size int64  `json:"s"`
}

// Cd changes the device's working directory.
func Cd(e *Engine, path string) error {
	meta, _, err := e.Request(CodeCd, map[string]any{"path": path}, nil)
	if err != nil {
		return err
	}
	return okOrRemoteErr("cd", meta)
}

// Ls lists the contents of path on the device.
func Ls(e *Engine, path string) ([]DirEntry, error) {
	meta, _, err := e.Request(CodeLs, map[string]any{"path": path}, nil)
	if err != nil {
		return nil, err
	}
	if err := okOrRemoteErr("ls", meta); err != nil {
		return nil, err
	}

	raw, _ := meta["entries"].([]any)
	entries := make([]DirEntry, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["n"].(string)
		typ, _ := m["t"].(string)
		size, _ := m["s"].(float64)
		entries = append(entries, DirEntry{Name: name, Type: typ, Size: int64(size)})
	}
	return entries, nil
}

// Rm removes a file on the device.
func Rm(e *Engine, path string) error {
	meta, _, err := e.Request(CodeRm, map[string]any{"path": path}, nil)
	if err != nil {
		return err
	}
	return okOrRemoteErr("rm", meta)
}

// Reboot restarts the device. No response is expected for this code;
// callers that want confirmation resync afterward.
func Reboot(e *Engine) error {
	meta, _, err := e.Request(CodeReboot, map[string]any{}, nil)
	if err != nil {
		return err
	}
	return okOrRemoteErr("reboot", meta)
}

// Transfer dispatches a chunked upload ("up") or download ("down") between
// local and remote.
func Transfer(e *Engine, direction, local, remote string, opts TransferOptions) error {
	switch direction {
	case "up":
		return Put(e, local, remote, opts)
	case "down":
		return Get(e, remote, local, opts)
	default:
		return fmt.Errorf("%w: transfer direction %q", ErrInvalidArgument, direction)
	}
}

func okOrRemoteErr(op string, meta map[string]any) error {
	if truthy(meta["ok"]) {
		return nil
	}
	return &RemoteError{Op: op, Message: remoteErrMessage(meta)}
}
