//go:build unix

package arena

import (
	"testing"
)

func TestMapAnonymous(t *testing.T) {
	data, release, err := Map(1 << 16)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(data) != 1<<16 {
		t.Fatalf("len mismatch: got %d want %d", len(data), 1<<16)
	}
	for i := 0; i < len(data); i += 4096 {
		if data[i] != 0 {
			t.Fatalf("byte %d not zero-filled: 0x%x", i, data[i])
		}
	}
	data[0] = 0xAA
	data[len(data)-1] = 0x55
	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	// A second release must be a no-op.
	if err := release(); err != nil {
		t.Fatalf("double release: %v", err)
	}
}

func TestMapZeroLength(t *testing.T) {
	data, release, err := Map(0)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected zero-length region, got %d", len(data))
	}
	if release == nil {
		t.Fatalf("expected release function")
	}
	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}
}

func TestMapNegative(t *testing.T) {
	if _, _, err := Map(-1); err == nil {
		t.Fatalf("expected error for negative size")
	}
}
