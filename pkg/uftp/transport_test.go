// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package uftp

import (
	"bytes"
	"net"
	"testing"
	"time"
)

func pipeTransports() (*Transport, *Transport) {
	a, b := net.Pipe()
	return NewTransport(a, 115200, true), NewTransport(b, 115200, true)
}

func TestTransport_WriteReadFrameRoundTrip(t *testing.T) {
	client, device := pipeTransports()
	defer client.Close()
	defer device.Close()

	payload := []byte{0x00, 0xFF, 0x0D, 0x0A, 0x1A, 0x01, 0x02}

	go func() {
		_ = client.WriteFrame(payload)
	}()

	got, err := device.ReadFrame(time.Now().Add(2 * time.Second))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %x, want %x", got, payload)
	}
}

func TestTransport_ReadFrame_Timeout(t *testing.T) {
	_, device := pipeTransports()
	defer device.Close()

	_, err := device.ReadFrame(time.Now().Add(50 * time.Millisecond))
	if err != ErrReadTimeout {
		t.Fatalf("err = %v, want ErrReadTimeout", err)
	}
}

func TestTransport_MultipleFramesInOneRead(t *testing.T) {
	client, device := pipeTransports()
	defer client.Close()
	defer device.Close()

	go func() {
		_ = client.WriteFrame([]byte("first"))
		_ = client.WriteFrame([]byte("second"))
	}()

	deadline := time.Now().Add(2 * time.Second)
	first, err := device.ReadFrame(deadline)
	if err != nil {
		t.Fatalf("ReadFrame first: %v", err)
	}
	if string(first) != "first" {
		t.Fatalf("first = %q", first)
	}

	second, err := device.ReadFrame(deadline)
	if err != nil {
		t.Fatalf("ReadFrame second: %v", err)
	}
	if string(second) != "second" {
		t.Fatalf("second = %q", second)
	}
}

func TestTransport_AccumulatorNeverHoldsDelimiter(t *testing.T) {
	client, device := pipeTransports()
	defer client.Close()
	defer device.Close()

	go func() {
		_ = client.WriteFrame([]byte("abc"))
	}()

	if _, err := device.ReadFrame(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if bytes.IndexByte(device.accum, Delimiter) != -1 {
		t.Fatalf("accumulator retained a delimiter: %x", device.accum)
	}
}

func TestTransport_ResetAccumulator(t *testing.T) {
	_, device := pipeTransports()
	defer device.Close()

	device.accum = []byte{1, 2, 3}
	device.ResetAccumulator()
	if len(device.accum) != 0 {
		t.Fatalf("accum = %x, want empty", device.accum)
	}
}

func TestTransport_RawWrite(t *testing.T) {
	client, device := pipeTransports()
	defer client.Close()
	defer device.Close()

	// RawWrite bypasses WriteFrame's stuffing, but ReadFrame always
	// COBS-decodes what it pulls off the wire (the Engine relies on this),
	// so the raw bytes must already be a valid stuffed frame.
	stuffed := append(Encode([]byte{0x41, 0x42}), Delimiter)
	go func() {
		_ = client.RawWrite(stuffed)
	}()

	got, err := device.ReadFrame(time.Now().Add(2 * time.Second))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, []byte{0x41, 0x42}) {
		t.Fatalf("got %x", got)
	}
}

func TestTransmissionDelay(t *testing.T) {
	d := transmissionDelay(115, 115200)
	if d <= 0 || d > 50*time.Millisecond {
		t.Fatalf("transmissionDelay = %v, out of expected range", d)
	}
	if transmissionDelay(10, 0) != 0 {
		t.Fatalf("transmissionDelay with baud=0 should be 0")
	}
}
