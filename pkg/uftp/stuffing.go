// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package uftp

// Encode applies Consistent Overhead Byte Stuffing to src, producing a
// delimiter-free representation: every embedded zero byte is removed and
// replaced by a length prefix. A block is a non-zero code byte c in
// [1,255] followed by c-1 literal bytes; c records the distance to the
// next zero in the source, or 0xFF if 254 literal bytes elapsed without
// one. Empty input encodes as a single 0x01 byte.
func Encode(src []byte) []byte {
	if len(src) == 0 {
		return []byte{0x01}
	}

	dst := make([]byte, 0, len(src)+len(src)/254+2)
	codeIdx := 0
	dst = append(dst, 0)
	code := byte(1)
	openedByCap := false

	for _, b := range src {
		if b == 0 {
			dst[codeIdx] = code
			codeIdx = len(dst)
			dst = append(dst, 0)
			code = 1
			openedByCap = false
			continue
		}

		dst = append(dst, b)
		code++
		if code == 0xFF {
			dst[codeIdx] = code
			codeIdx = len(dst)
			dst = append(dst, 0)
			code = 1
			openedByCap = true
		}
	}

	if code == 1 && openedByCap {
		// The run ended exactly at the 254-byte cap with nothing left to
		// say: the 0xFF code already means "block full, no zero follows,"
		// so the empty block this would otherwise leave open is redundant.
		dst = dst[:codeIdx]
	} else {
		dst[codeIdx] = code
	}
	return dst
}

// Decode reverses Encode. It rejects an embedded zero used as a code byte
// and a code byte whose run would extend past the end of src, both as
// ErrMalformedFrame.
func Decode(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, ErrMalformedFrame
	}

	dst := make([]byte, 0, len(src))
	i := 0
	for i < len(src) {
		code := src[i]
		if code == 0 {
			return nil, ErrMalformedFrame
		}
		i++

		n := int(code) - 1
		if i+n > len(src) {
			return nil, ErrMalformedFrame
		}
		dst = append(dst, src[i:i+n]...)
		i += n

		if code != 0xFF && i < len(src) {
			dst = append(dst, 0)
		}
	}
	return dst, nil
}
