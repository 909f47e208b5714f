// Package types defines the primitive value types shared by the block
// access list core: fixed-size account addresses and 32-byte hashes.
package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

const (
	// HashLength is the byte length of a Hash.
	HashLength = 32
	// AddressLength is the byte length of an Address.
	AddressLength = 20
)

// Hash represents a 32-byte value, typically a Keccak256 digest or a
// storage slot key.
type Hash [HashLength]byte

// Address represents the 20-byte address of an account.
type Address [AddressLength]byte

// BytesToHash converts bytes to Hash, left-padding if shorter than 32 bytes.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash converts a hex string to Hash.
func HexToHash(s string) Hash {
	return BytesToHash(fromHex(s))
}

// Bytes returns the byte representation of the hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the hex string representation of the hash.
func (h Hash) Hex() string { return fmt.Sprintf("0x%x", h[:]) }

// SetBytes sets the hash from a byte slice, left-padding if necessary.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// IsZero returns whether the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Cmp compares two hashes lexicographically, returning -1, 0 or 1.
func (h Hash) Cmp(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// BytesToAddress converts bytes to Address, left-padding if shorter than 20 bytes.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress converts a hex string to Address.
func HexToAddress(s string) Address {
	return BytesToAddress(fromHex(s))
}

// Bytes returns the byte representation of the address.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the hex string representation of the address.
func (a Address) Hex() string { return fmt.Sprintf("0x%x", a[:]) }

// SetBytes sets the address from a byte slice.
func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// IsZero returns whether the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Cmp compares two addresses lexicographically, returning -1, 0 or 1.
// Ascending address order is the canonical account order of a block
// access list.
func (a Address) Cmp(other Address) int {
	return bytes.Compare(a[:], other[:])
}

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// fromHex decodes a hex string with optional 0x prefix. Invalid input
// yields nil, which the To conversions treat as all zeros.
func fromHex(s string) []byte {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}
