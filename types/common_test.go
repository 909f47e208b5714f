package types

import "testing"

func TestBytesToHashPadding(t *testing.T) {
	h := BytesToHash([]byte{0x01, 0x02})
	if h[31] != 0x02 || h[30] != 0x01 {
		t.Fatalf("expected right-aligned bytes, got %x", h)
	}
	for i := 0; i < 30; i++ {
		if h[i] != 0 {
			t.Fatalf("expected zero padding at %d, got %x", i, h[i])
		}
	}
}

func TestBytesToHashTruncation(t *testing.T) {
	b := make([]byte, 40)
	for i := range b {
		b[i] = byte(i)
	}
	h := BytesToHash(b)
	// Keeps the rightmost 32 bytes.
	if h[0] != 8 || h[31] != 39 {
		t.Fatalf("unexpected truncation result: %x", h)
	}
}

func TestHexToHashRoundTrip(t *testing.T) {
	in := "0x00000000000000000000000000000000000000000000000000000000000000ff"
	h := HexToHash(in)
	if h.Hex() != in {
		t.Fatalf("got %s, want %s", h.Hex(), in)
	}
}

func TestHexToAddressRoundTrip(t *testing.T) {
	in := "0x1234567890123456789012345678901234567890"
	a := HexToAddress(in)
	if a.Hex() != in {
		t.Fatalf("got %s, want %s", a.Hex(), in)
	}
}

func TestHexShortInput(t *testing.T) {
	a := HexToAddress("0x1")
	if a[AddressLength-1] != 0x01 {
		t.Fatalf("expected odd-length hex to parse right-aligned, got %x", a)
	}
}

func TestIsZero(t *testing.T) {
	if !(Hash{}).IsZero() {
		t.Fatal("zero hash should report IsZero")
	}
	if !(Address{}).IsZero() {
		t.Fatal("zero address should report IsZero")
	}
	if HexToHash("0x01").IsZero() {
		t.Fatal("nonzero hash should not report IsZero")
	}
}

func TestAddressCmp(t *testing.T) {
	a := HexToAddress("0x1111111111111111111111111111111111111111")
	b := HexToAddress("0x2222222222222222222222222222222222222222")
	if a.Cmp(b) >= 0 {
		t.Fatalf("expected %s < %s", a, b)
	}
	if b.Cmp(a) <= 0 {
		t.Fatalf("expected %s > %s", b, a)
	}
	if a.Cmp(a) != 0 {
		t.Fatal("expected equal addresses to compare as 0")
	}
}

func TestHashCmp(t *testing.T) {
	a := HexToHash("0x01")
	b := HexToHash("0x02")
	if a.Cmp(b) >= 0 || b.Cmp(a) <= 0 || a.Cmp(a) != 0 {
		t.Fatal("hash comparison is not lexicographic")
	}
}
