package phy

import (
	"errors"
	"testing"

	"github.com/soypat/rtlphy"
	"github.com/soypat/rtlphy/internal/phytest"
)

func newDevice(t *testing.T, id uint32) (*Device, *phytest.Chip) {
	t.Helper()
	chip := phytest.NewChip(1, id)
	var d Device
	if err := d.Configure(chip, 1, nil); err != nil {
		t.Fatal(err)
	}
	return &d, chip
}

func TestConfigure(t *testing.T) {
	var d Device
	if err := d.Configure(nil, 1, nil); !errors.Is(err, rtlphy.ErrInvalidConfig) {
		t.Fatalf("nil bus: got %v", err)
	}
	if err := d.Configure(phytest.NewChip(0, 0), 32, nil); !errors.Is(err, rtlphy.ErrInvalidAddr) {
		t.Fatalf("bad address: got %v", err)
	}
}

func TestDeviceID(t *testing.T) {
	d, _ := newDevice(t, 0x001cc915)
	id, err := d.ID()
	if err != nil {
		t.Fatal(err)
	}
	if id != 0x001cc915 {
		t.Fatalf("id=%#x, want 0x001cc915", id)
	}
}

func TestSuspendResumePreservesControl(t *testing.T) {
	d, chip := newDevice(t, 0)
	const ctl = uint16(BMCRANEnable | BMCRFullDuplex | BMCRSpeed1000)
	chip.Set(0, AddrBMCR, ctl)
	if err := d.Suspend(); err != nil {
		t.Fatal(err)
	}
	if got := chip.Get(0, AddrBMCR); got != ctl|uint16(BMCRPowerDown) {
		t.Fatalf("suspended BMCR=%#x", got)
	}
	chip.ResetLog()
	if err := d.Suspend(); err != nil {
		t.Fatal(err)
	}
	if n := len(chip.Writes()); n != 0 {
		t.Fatalf("repeated suspend wrote %d times", n)
	}
	if err := d.Resume(); err != nil {
		t.Fatal(err)
	}
	if got := chip.Get(0, AddrBMCR); got != ctl {
		t.Fatalf("resumed BMCR=%#x, want %#x", got, ctl)
	}
}

func TestBusErrorWrapping(t *testing.T) {
	d, chip := newDevice(t, 0)
	chip.FailReg(rtlphy.OpRead, 0, AddrBMSR, nil)
	_, err := d.BasicStatus()
	var be *rtlphy.BusError
	if !errors.As(err, &be) {
		t.Fatalf("want BusError, got %T %v", err, err)
	}
	if be.Op != rtlphy.OpRead || be.Reg != AddrBMSR {
		t.Errorf("unexpected bus error fields %+v", be)
	}
	if !errors.Is(err, phytest.ErrInjected) {
		t.Error("transport error not reachable through Unwrap")
	}
}

func TestReadLinkStatus(t *testing.T) {
	tests := []struct {
		name     string
		features Features
		bmcr     BMCR
		bmsr     BMSR
		anar     ANAR
		anlpar   ANAR
		gbcr     GBCR
		gbsr     GBSR
		want     LinkStatus
	}{
		{
			name:     "down",
			features: FeaturesGigabit,
			bmsr:     BMSRANCap,
			want:     LinkStatus{},
		},
		{
			name:     "forced 100 full",
			features: FeaturesBasic,
			bmcr:     BMCRSpeed100 | BMCRFullDuplex,
			bmsr:     BMSRLinkStatus,
			want:     LinkStatus{Up: true, Mode: Link100FDX},
		},
		{
			name:     "autoneg gigabit",
			features: FeaturesGigabit,
			bmcr:     BMCRANEnable,
			bmsr:     BMSRLinkStatus | BMSRANComplete,
			anar:     ANAR100Full | ANAR10Full,
			anlpar:   ANAR100Full,
			gbcr:     GBCR1000Full,
			gbsr:     GBSRPartner1000Full,
			want:     LinkStatus{Up: true, AutoNegotiated: true, Mode: Link1000FDX},
		},
		{
			name:     "autoneg gigabit partner 100 only",
			features: FeaturesGigabit,
			bmcr:     BMCRANEnable,
			bmsr:     BMSRLinkStatus | BMSRANComplete,
			anar:     ANAR100Full | ANAR100Half,
			anlpar:   ANAR100Half,
			gbcr:     GBCR1000Full,
			want:     LinkStatus{Up: true, AutoNegotiated: true, Mode: Link100HDX},
		},
		{
			name:     "autoneg in progress",
			features: FeaturesBasic,
			bmcr:     BMCRANEnable,
			bmsr:     BMSRLinkStatus,
			want:     LinkStatus{Up: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, chip := newDevice(t, 0)
			chip.Set(0, AddrBMCR, uint16(tt.bmcr))
			chip.Set(0, AddrBMSR, uint16(tt.bmsr))
			chip.Set(0, AddrANAR, uint16(tt.anar))
			chip.Set(0, AddrANLPAR, uint16(tt.anlpar))
			chip.Set(0, AddrGBCR, uint16(tt.gbcr))
			chip.Set(0, AddrGBSR, uint16(tt.gbsr))
			got, err := d.ReadLinkStatus(tt.features)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMMDIndirectAccess(t *testing.T) {
	d, chip := newDevice(t, 0)
	err := d.WriteMMD(7, 0x3c, 0x0006)
	if err != nil {
		t.Fatal(err)
	}
	w := chip.Writes()
	want := []struct{ reg, val uint16 }{
		{AddrMMDCTL, 0x0007},
		{AddrMMDAAD, 0x003c},
		{AddrMMDCTL, 0x4007},
		{AddrMMDAAD, 0x0006},
	}
	if len(w) != len(want) {
		t.Fatalf("got %d writes, want %d", len(w), len(want))
	}
	for i := range want {
		if w[i].Reg != want[i].reg || w[i].Value != want[i].val {
			t.Errorf("write %d: reg=%#x val=%#x, want reg=%#x val=%#x", i, w[i].Reg, w[i].Value, want[i].reg, want[i].val)
		}
	}
}

func TestFindClause22PHYs(t *testing.T) {
	chip := phytest.NewChip(3, 0x001cc916)
	chip.Set(0, AddrBMSR, 0x796d)
	var addrs [32]uint8
	n, err := FindClause22PHYs(chip, addrs[:])
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || addrs[0] != 3 {
		t.Fatalf("found %v", addrs[:n])
	}
	_, err = FindClause22PHYs(phytest.NewChip(3, 0), addrs[:])
	if !errors.Is(err, rtlphy.ErrNotFound) {
		t.Fatalf("empty bus: got %v", err)
	}
}

func TestParseInterfaceMode(t *testing.T) {
	for mode := InterfaceNA; mode < interfaceModeEnd; mode++ {
		got, err := ParseInterfaceMode(mode.String())
		if err != nil || got != mode {
			t.Errorf("ParseInterfaceMode(%q)=%v,%v", mode.String(), got, err)
		}
	}
	if got, _ := ParseInterfaceMode(" RGMII-ID "); got != InterfaceRGMIIID {
		t.Errorf("case and space insensitive parse failed: %v", got)
	}
	if _, err := ParseInterfaceMode("sgmii"); !errors.Is(err, rtlphy.ErrInvalidConfig) {
		t.Errorf("unknown mode accepted: %v", err)
	}
	if !InterfaceRGMIITXID.IsRGMII() || InterfaceRMII.IsRGMII() {
		t.Error("IsRGMII misclassifies")
	}
}

func TestResetPHY(t *testing.T) {
	d, chip := newDevice(t, 0x001cc916)
	chip.Set(0, AddrBMCR, uint16(BMCRANEnable))
	chip.SelfClear(0, AddrBMCR, uint16(BMCRReset))
	if err := d.ResetPHY(); err != nil {
		t.Fatal(err)
	}
	w := chip.Writes()
	if len(w) != 1 || w[0].Reg != AddrBMCR || w[0].Value != uint16(BMCRReset) {
		t.Fatalf("got writes %+v", w)
	}
}

func TestResetPHYTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the reset timeout")
	}
	d, _ := newDevice(t, 0x001cc916)
	if err := d.ResetPHY(); err == nil {
		t.Fatal("expected timeout with reset bit stuck")
	}
}

func TestRestartAutoNeg(t *testing.T) {
	d, chip := newDevice(t, 0)
	chip.Set(0, AddrBMCR, uint16(BMCRIsolate|BMCRFullDuplex))
	if err := d.RestartAutoNeg(); err != nil {
		t.Fatal(err)
	}
	want := uint16(BMCRFullDuplex | BMCRANEnable | BMCRANRestart)
	if got := chip.Get(0, AddrBMCR); got != want {
		t.Fatalf("BMCR=%#x, want %#x", got, want)
	}
}
