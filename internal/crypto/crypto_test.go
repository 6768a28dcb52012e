package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestClearBytes(t *testing.T) {
	b := []byte("sensitive key material")
	ClearBytes(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not cleared: %d", i, v)
		}
	}

	// Clearing nil or empty slices must not panic
	ClearBytes(nil)
	ClearBytes([]byte{})
}

func TestClearAll(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5}
	ClearAll(a, nil, b)
	if !bytes.Equal(a, []byte{0, 0, 0}) || !bytes.Equal(b, []byte{0, 0}) {
		t.Errorf("ClearAll left data behind: %v %v", a, b)
	}
}

func TestConstantTimeCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"equal", []byte("abcdef"), []byte("abcdef"), true},
		{"empty", []byte{}, []byte{}, true},
		{"first byte differs", []byte("xbcdef"), []byte("abcdef"), false},
		{"last byte differs", []byte("abcdex"), []byte("abcdef"), false},
		{"single bit", []byte{0x80}, []byte{0x00}, false},
		{"all bits", []byte{0xff, 0xff}, []byte{0x00, 0x00}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConstantTimeCompare(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ConstantTimeCompare(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestConstantTimeCompareEveryPosition(t *testing.T) {
	ref := bytes.Repeat([]byte{0x5a}, 64)
	for pos := range ref {
		other := append([]byte(nil), ref...)
		other[pos] ^= 0x01
		if ok, _ := ConstantTimeCompare(ref, other); ok {
			t.Fatalf("mismatch at position %d not detected", pos)
		}
	}
	if ok, _ := ConstantTimeCompare(ref, append([]byte(nil), ref...)); !ok {
		t.Fatal("identical buffers compared unequal")
	}
}

func TestConstantTimeCompareLengthMismatch(t *testing.T) {
	ok, err := ConstantTimeCompare([]byte("abc"), []byte("abcd"))
	if !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
	if ok {
		t.Error("length mismatch must not compare equal")
	}
	if Equal([]byte("abc"), []byte("abcd")) {
		t.Error("Equal should be false on length mismatch")
	}
}

// Run with -bench: ns/op must not depend on where the first mismatch is.
func BenchmarkConstantTimeCompare(b *testing.B) {
	const size = 4096
	ref := bytes.Repeat([]byte{0x5a}, size)

	for _, bc := range []struct {
		name string
		pos  int
	}{
		{"equal", -1},
		{"first-byte", 0},
		{"middle-byte", size / 2},
		{"last-byte", size - 1},
	} {
		other := append([]byte(nil), ref...)
		if bc.pos >= 0 {
			other[bc.pos] ^= 0xff
		}
		b.Run(bc.name, func(b *testing.B) {
			b.SetBytes(size)
			for i := 0; i < b.N; i++ {
				if _, err := ConstantTimeCompare(ref, other); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
