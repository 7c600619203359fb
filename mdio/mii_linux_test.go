//go:build linux && !baremetal

package mdio

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/soypat/rtlphy"
)

func TestMIIRequestLayout(t *testing.T) {
	// struct ifreq is 40 bytes on Linux: 16 byte name and a 24 byte union.
	if sz := unsafe.Sizeof(miireq{}); sz != 40 {
		t.Fatalf("miireq size=%d, want 40", sz)
	}
	if off := unsafe.Offsetof(miireq{}.data); off != 16 {
		t.Fatalf("mii data offset=%d, want 16", off)
	}
}

func TestMIIPHYID(t *testing.T) {
	tests := []struct {
		phy, dev uint8
		want     uint16
	}{
		{phy: 1, dev: 0, want: 1},
		{phy: 31, dev: 0, want: 31},
		{phy: 1, dev: 7, want: 0x8000 | 1<<5 | 7},
		{phy: 3, dev: 1, want: 0x8000 | 3<<5 | 1},
	}
	for _, tt := range tests {
		if got := miiPHYID(tt.phy, tt.dev); got != tt.want {
			t.Errorf("miiPHYID(%d,%d)=%#x, want %#x", tt.phy, tt.dev, got, tt.want)
		}
	}
}

func TestOpenMIIBadName(t *testing.T) {
	_, err := OpenMII("")
	if !errors.Is(err, rtlphy.ErrInvalidConfig) {
		t.Fatalf("want invalid config error, got %v", err)
	}
	_, err = OpenMII("an-interface-name-too-long")
	if !errors.Is(err, rtlphy.ErrInvalidConfig) {
		t.Fatalf("want invalid config error, got %v", err)
	}
}
