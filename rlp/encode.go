// Package rlp implements the canonical RLP wire format used for block
// access list commitments.
//
// Only explicit, append-style primitives are exposed. Entities that need a
// canonical encoding write their fields by hand in a fixed order; there is
// deliberately no reflection-driven front door, since the commitment's
// correctness must not depend on a framework's default field handling.
package rlp

import (
	"math/bits"

	"github.com/holiman/uint256"
)

const (
	// EmptyString is the encoding of a zero-length string (and of the
	// scalar zero).
	EmptyString = 0x80
	// EmptyList is the encoding of a zero-length list.
	EmptyList = 0xc0
)

// AppendUint appends the canonical scalar encoding of v to buf: minimal
// big-endian bytes as an RLP string, with zero encoding to EmptyString.
func AppendUint(buf []byte, v uint64) []byte {
	switch {
	case v == 0:
		return append(buf, EmptyString)
	case v < 0x80:
		return append(buf, byte(v))
	default:
		n := (bits.Len64(v) + 7) / 8
		buf = append(buf, byte(0x80+n))
		for i := n - 1; i >= 0; i-- {
			buf = append(buf, byte(v>>(8*uint(i))))
		}
		return buf
	}
}

// AppendUint256 appends the canonical scalar encoding of v: the minimal
// big-endian representation as an RLP string. A nil or zero value encodes
// to EmptyString.
func AppendUint256(buf []byte, v *uint256.Int) []byte {
	if v == nil || v.IsZero() {
		return append(buf, EmptyString)
	}
	return AppendBytes(buf, v.Bytes())
}

// AppendBytes appends the RLP string encoding of b to buf. A single byte
// below 0x80 encodes as itself; everything else gets a length prefix.
func AppendBytes(buf, b []byte) []byte {
	if len(b) == 1 && b[0] < EmptyString {
		return append(buf, b[0])
	}
	buf = appendStringHeader(buf, len(b))
	return append(buf, b...)
}

// AppendListHeader appends a list header for a payload of size bytes.
// The payload itself must be appended by the caller immediately after.
func AppendListHeader(buf []byte, size int) []byte {
	if size <= 55 {
		return append(buf, byte(EmptyList+size))
	}
	n := intSize(uint64(size))
	buf = append(buf, byte(0xf7+n))
	return appendBigEndian(buf, uint64(size), n)
}

// AppendList appends a complete list: header followed by the already
// encoded payload.
func AppendList(buf, payload []byte) []byte {
	buf = AppendListHeader(buf, len(payload))
	return append(buf, payload...)
}

// ListHeaderSize returns the encoded size of a list header for a payload
// of size bytes. Useful for pre-sizing buffers.
func ListHeaderSize(size int) int {
	if size <= 55 {
		return 1
	}
	return 1 + intSize(uint64(size))
}

func appendStringHeader(buf []byte, size int) []byte {
	if size <= 55 {
		return append(buf, byte(EmptyString+size))
	}
	n := intSize(uint64(size))
	buf = append(buf, byte(0xb7+n))
	return appendBigEndian(buf, uint64(size), n)
}

func appendBigEndian(buf []byte, v uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		buf = append(buf, byte(v>>(8*uint(i))))
	}
	return buf
}

// intSize returns the number of bytes in the minimal big-endian
// representation of v. Zero takes one byte.
func intSize(v uint64) int {
	if v == 0 {
		return 1
	}
	return (bits.Len64(v) + 7) / 8
}
