package rlp

import "github.com/holiman/uint256"

// Kind represents the type of an RLP value.
type Kind int

const (
	// Byte is a single byte in [0x00, 0x7f], encoded as itself.
	Byte Kind = iota
	// String is an RLP string (including the empty string).
	String
	// List is an RLP list.
	List
)

// Peek reports the kind of the next item in b without consuming it.
func Peek(b []byte) (Kind, error) {
	if len(b) == 0 {
		return 0, ErrUnexpectedEOF
	}
	switch {
	case b[0] < 0x80:
		return Byte, nil
	case b[0] < 0xc0:
		return String, nil
	default:
		return List, nil
	}
}

// SplitString splits b into the payload of its leading RLP string and the
// remaining input. Single bytes below 0x80 yield a one-byte payload.
// Non-canonical size encodings are rejected.
func SplitString(b []byte) (payload, rest []byte, err error) {
	if len(b) == 0 {
		return nil, nil, ErrUnexpectedEOF
	}
	prefix := b[0]
	switch {
	case prefix < 0x80:
		return b[:1], b[1:], nil

	case prefix <= 0xb7:
		size := int(prefix - 0x80)
		if len(b) < 1+size {
			return nil, nil, ErrUnexpectedEOF
		}
		if size == 1 && b[1] < 0x80 {
			// Must have been encoded as the byte itself.
			return nil, nil, ErrCanonSize
		}
		return b[1 : 1+size], b[1+size:], nil

	case prefix <= 0xbf:
		payload, rest, err := splitLong(b, prefix-0xb7)
		if err != nil {
			return nil, nil, err
		}
		if len(payload) <= 55 {
			return nil, nil, ErrCanonSize
		}
		return payload, rest, nil

	default:
		return nil, nil, ErrExpectedString
	}
}

// SplitList splits b into the payload of its leading RLP list and the
// remaining input.
func SplitList(b []byte) (payload, rest []byte, err error) {
	if len(b) == 0 {
		return nil, nil, ErrUnexpectedEOF
	}
	prefix := b[0]
	switch {
	case prefix < 0xc0:
		return nil, nil, ErrExpectedList

	case prefix <= 0xf7:
		size := int(prefix - 0xc0)
		if len(b) < 1+size {
			return nil, nil, ErrUnexpectedEOF
		}
		return b[1 : 1+size], b[1+size:], nil

	default:
		payload, rest, err := splitLong(b, prefix-0xf7)
		if err != nil {
			return nil, nil, err
		}
		if len(payload) <= 55 {
			return nil, nil, ErrCanonSize
		}
		return payload, rest, nil
	}
}

// SplitUint decodes the leading scalar of b as a uint64 and returns the
// remaining input. Leading zeros and oversized values are rejected.
func SplitUint(b []byte) (v uint64, rest []byte, err error) {
	payload, rest, err := SplitString(b)
	if err != nil {
		return 0, nil, err
	}
	if err := checkCanonInt(payload); err != nil {
		return 0, nil, err
	}
	if len(payload) > 8 {
		return 0, nil, ErrUint64Range
	}
	for _, c := range payload {
		v = v<<8 | uint64(c)
	}
	return v, rest, nil
}

// SplitUint256 decodes the leading scalar of b as a 256-bit integer and
// returns the remaining input.
func SplitUint256(b []byte) (*uint256.Int, []byte, error) {
	payload, rest, err := SplitString(b)
	if err != nil {
		return nil, nil, err
	}
	if err := checkCanonInt(payload); err != nil {
		return nil, nil, err
	}
	if len(payload) > 32 {
		return nil, nil, ErrUint64Range
	}
	return new(uint256.Int).SetBytes(payload), rest, nil
}

func splitLong(b []byte, lenOfLen byte) (payload, rest []byte, err error) {
	n := int(lenOfLen)
	if len(b) < 1+n {
		return nil, nil, ErrUnexpectedEOF
	}
	sizeBytes := b[1 : 1+n]
	if sizeBytes[0] == 0 {
		return nil, nil, ErrCanonSize
	}
	var size uint64
	for _, c := range sizeBytes {
		size = size<<8 | uint64(c)
	}
	if size > uint64(len(b)) {
		return nil, nil, ErrUnexpectedEOF
	}
	start := 1 + n
	end := start + int(size)
	if end > len(b) {
		return nil, nil, ErrUnexpectedEOF
	}
	return b[start:end], b[end:], nil
}

func checkCanonInt(payload []byte) error {
	if len(payload) > 0 && payload[0] == 0 {
		return ErrCanonInt
	}
	return nil
}
