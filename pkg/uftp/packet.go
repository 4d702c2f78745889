// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package uftp

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// BuildPacket lays out code, the JSON-encoded meta, and an optional binary
// region into the wire format, trailing a CRC-32 over every byte from code
// through the end of bin: code:u8 | json_len:u16be | json | bin? | crc32:u32be.
func BuildPacket(code byte, meta any, bin []byte) ([]byte, error) {
	js, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("uftp: marshal meta: %w", err)
	}
	if len(js) > maxJSONLen {
		return nil, ErrOversizedJSON
	}

	body := make([]byte, 0, 1+2+len(js)+len(bin)+4)
	body = append(body, code)
	body = binary.BigEndian.AppendUint16(body, uint16(len(js)))
	body = append(body, js...)
	body = append(body, bin...)

	crc := checksum(body)
	body = binary.BigEndian.AppendUint32(body, crc)
	return body, nil
}

// ParsePacket validates and decomposes a packet body (the frame's payload,
// after delimiter stripping and COBS decoding). A CRC failure is returned
// as ErrCRCMismatch; a body shorter than the fixed header+trailer is
// ErrShortFrame. A JSON parse failure after a good CRC is not an error —
// it is reported to the caller as a synthesized {"ok":false,"err":"bad_json"}
// meta map, since the frame itself was transported correctly.
func ParsePacket(body []byte) (code byte, meta map[string]any, bin []byte, err error) {
	if len(body) < 1+2+4 {
		return 0, nil, nil, ErrShortFrame
	}

	want := binary.BigEndian.Uint32(body[len(body)-4:])
	got := checksum(body[:len(body)-4])
	if got != want {
		return 0, nil, nil, ErrCRCMismatch
	}

	code = body[0]
	jsonLen := int(binary.BigEndian.Uint16(body[1:3]))
	rest := body[3 : len(body)-4]
	if jsonLen > len(rest) {
		return 0, nil, nil, ErrShortFrame
	}

	js := rest[:jsonLen]
	bin = rest[jsonLen:]

	if jerr := json.Unmarshal(js, &meta); jerr != nil {
		return code, map[string]any{"ok": false, "err": "bad_json"}, bin, nil
	}
	return code, meta, bin, nil
}
