// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package uftp

import (
	"bytes"
	"time"
)

// Sync scans the endpoint for the device's beacon substring before any
// request is sent, so a session that opens mid-stream (or after a prior
// session left bytes in flight) doesn't mistake beacon or garbage bytes for
// a response frame. It discards the accumulator first: beacons are plain
// ASCII, never framed, so nothing queued there can be a partial beacon
// worth keeping. It sends nothing — this is passive detection only.
func (t *Transport) Sync(timeout time.Duration) error {
	t.ResetAccumulator()

	var window []byte
	for attempt := 0; attempt < syncRetries; attempt++ {
		deadline := time.Now().Add(timeout)
		for time.Now().Before(deadline) {
			chunk, err := t.readChunk(time.Until(deadline))
			if err != nil {
				return err
			}
			if len(chunk) == 0 {
				continue
			}

			window = append(window, chunk...)
			if len(window) > syncWindowSize {
				window = window[len(window)-syncWindowSize:]
			}
			if bytes.Contains(window, []byte(Beacon)) {
				t.ResetAccumulator()
				return nil
			}
		}

		if attempt < syncRetries-1 {
			time.Sleep(syncRetryDelay)
		}
	}

	return ErrSyncFailed
}
