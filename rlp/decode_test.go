package rlp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestSplitStringRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		{0x00},
		{0x7f},
		{0x80},
		[]byte("dog"),
		bytes.Repeat([]byte{0xab}, 55),
		bytes.Repeat([]byte{0xab}, 56),
		bytes.Repeat([]byte{0xab}, 300),
	}
	for _, in := range inputs {
		enc := AppendBytes(nil, in)
		payload, rest, err := SplitString(enc)
		if err != nil {
			t.Fatalf("SplitString(%x): %v", enc, err)
		}
		if !bytes.Equal(payload, in) {
			t.Fatalf("payload mismatch: got %x, want %x", payload, in)
		}
		if len(rest) != 0 {
			t.Fatalf("unexpected rest: %x", rest)
		}
	}
}

func TestSplitStringRejectsList(t *testing.T) {
	if _, _, err := SplitString([]byte{0xc0}); !errors.Is(err, ErrExpectedString) {
		t.Fatalf("got %v, want ErrExpectedString", err)
	}
}

func TestSplitStringNonCanonicalSingleByte(t *testing.T) {
	// 0x7f must encode as itself, not as 0x81 0x7f.
	if _, _, err := SplitString([]byte{0x81, 0x7f}); !errors.Is(err, ErrCanonSize) {
		t.Fatalf("got %v, want ErrCanonSize", err)
	}
}

func TestSplitStringNonCanonicalLongForm(t *testing.T) {
	// 3-byte payload must use the short form.
	in := append([]byte{0xb8, 0x03}, 1, 2, 3)
	if _, _, err := SplitString(in); !errors.Is(err, ErrCanonSize) {
		t.Fatalf("got %v, want ErrCanonSize", err)
	}
}

func TestSplitStringTruncated(t *testing.T) {
	if _, _, err := SplitString([]byte{0x83, 'd', 'o'}); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("got %v, want ErrUnexpectedEOF", err)
	}
	if _, _, err := SplitString(nil); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("got %v, want ErrUnexpectedEOF", err)
	}
}

func TestSplitListRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		{0x01, 0x02},
		bytes.Repeat([]byte{0x01}, 60),
	}
	for _, p := range payloads {
		enc := AppendList(nil, p)
		payload, rest, err := SplitList(enc)
		if err != nil {
			t.Fatalf("SplitList(%x): %v", enc, err)
		}
		if !bytes.Equal(payload, p) {
			t.Fatalf("payload mismatch: got %x, want %x", payload, p)
		}
		if len(rest) != 0 {
			t.Fatalf("unexpected rest: %x", rest)
		}
	}
}

func TestSplitListRejectsString(t *testing.T) {
	if _, _, err := SplitList([]byte{0x83, 'd', 'o', 'g'}); !errors.Is(err, ErrExpectedList) {
		t.Fatalf("got %v, want ErrExpectedList", err)
	}
}

func TestSplitListLeavesRest(t *testing.T) {
	enc := AppendList(nil, []byte{0x01})
	enc = append(enc, 0xff)
	payload, rest, err := SplitList(enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(payload, []byte{0x01}) || !bytes.Equal(rest, []byte{0xff}) {
		t.Fatalf("payload %x rest %x", payload, rest)
	}
}

func TestSplitUint(t *testing.T) {
	values := []uint64{0, 1, 0x7f, 0x80, 0xff, 0x100, 1 << 32, 0xffffffffffffffff}
	for _, v := range values {
		enc := AppendUint(nil, v)
		got, rest, err := SplitUint(enc)
		if err != nil {
			t.Fatalf("SplitUint(%x): %v", enc, err)
		}
		if got != v || len(rest) != 0 {
			t.Fatalf("got %d rest %x, want %d", got, rest, v)
		}
	}
}

func TestSplitUintRejectsLeadingZero(t *testing.T) {
	if _, _, err := SplitUint([]byte{0x82, 0x00, 0x01}); !errors.Is(err, ErrCanonInt) {
		t.Fatalf("got %v, want ErrCanonInt", err)
	}
	// Scalar zero is the empty string, never the byte 0x00.
	if _, _, err := SplitUint([]byte{0x00}); !errors.Is(err, ErrCanonInt) {
		t.Fatalf("got %v, want ErrCanonInt", err)
	}
}

func TestSplitUintOverflow(t *testing.T) {
	in := append([]byte{0x89, 0x01}, make([]byte, 8)...)
	if _, _, err := SplitUint(in); !errors.Is(err, ErrUint64Range) {
		t.Fatalf("got %v, want ErrUint64Range", err)
	}
}

func TestSplitUint256RoundTrip(t *testing.T) {
	values := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(100),
		uint256.NewInt(1 << 40),
		new(uint256.Int).Lsh(uint256.NewInt(1), 255),
	}
	for _, v := range values {
		enc := AppendUint256(nil, v)
		got, rest, err := SplitUint256(enc)
		if err != nil {
			t.Fatalf("SplitUint256(%x): %v", enc, err)
		}
		if !got.Eq(v) || len(rest) != 0 {
			t.Fatalf("got %s, want %s", got, v)
		}
	}
}

func TestSplitUint256TooLarge(t *testing.T) {
	in := append([]byte{0xa1, 0x01}, make([]byte, 32)...)
	if _, _, err := SplitUint256(in); err == nil {
		t.Fatal("expected error for 33-byte scalar")
	}
}

func TestPeek(t *testing.T) {
	tests := []struct {
		in   []byte
		want Kind
	}{
		{[]byte{0x00}, Byte},
		{[]byte{0x7f}, Byte},
		{[]byte{0x80}, String},
		{[]byte{0xb8, 60}, String},
		{[]byte{0xc0}, List},
		{[]byte{0xf8, 60}, List},
	}
	for _, tt := range tests {
		got, err := Peek(tt.in)
		if err != nil {
			t.Fatalf("Peek(%x): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Peek(%x) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := Peek(nil); !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("Peek(nil): got %v, want ErrUnexpectedEOF", err)
	}
}
