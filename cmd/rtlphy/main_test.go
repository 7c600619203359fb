package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/soypat/rtlphy"
	"github.com/soypat/rtlphy/internal/phytest"
	"github.com/soypat/rtlphy/mdio"
	"github.com/soypat/rtlphy/phy"
	"github.com/soypat/rtlphy/realtek"
)

const (
	testAddr   = 4
	id8211F    = 0x001cc916
	pageTiming = 0x0d08
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func chipOpener(chip *phytest.Chip) busOpener {
	return func(iface string) (mdio.Bus, func() (uint8, error), io.Closer, error) {
		return chip, func() (uint8, error) { return testAddr, nil }, nopCloser{}, nil
	}
}

func runCmd(t *testing.T, chip *phytest.Chip, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out, io.Discard, chipOpener(chip))
	return out.String(), err
}

func TestParseArgs(t *testing.T) {
	opts, rest, err := parseArgs([]string{"-v", "-i", "eth0", "-a", "0x3", "-mode", "rgmii-id", "page", "0xd08", "0x11"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.iface != "eth0" || opts.addr != 3 || opts.mode != phy.InterfaceRGMIIID {
		t.Fatalf("got %+v", opts)
	}
	if len(rest) != 3 || rest[0] != "page" {
		t.Fatalf("got rest %q", rest)
	}

	_, _, err = parseArgs([]string{"-a", "32", "probe"})
	if !errors.Is(err, rtlphy.ErrInvalidAddr) {
		t.Fatalf("bad address: got %v", err)
	}
	_, _, err = parseArgs([]string{"-mode", "sgmii", "init"})
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
	_, _, err = parseArgs([]string{"-i", "eth0"})
	if err == nil {
		t.Fatal("expected usage error without command")
	}
}

func TestRunProbe(t *testing.T) {
	chip := phytest.NewChip(testAddr, id8211F)
	out, err := runCmd(t, chip, "-m", "Pine64 Rock64", "probe")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "family=RTL8211F") || !strings.Contains(out, "addr=4") {
		t.Fatalf("got %q", out)
	}

	chip = phytest.NewChip(testAddr, 0x00221556)
	_, err = runCmd(t, chip, "probe")
	if !errors.Is(err, rtlphy.ErrNotFound) {
		t.Fatalf("foreign PHY: got %v", err)
	}
}

func TestRunScan(t *testing.T) {
	chip := phytest.NewChip(testAddr, id8211F)
	chip.Set(0, phy.AddrBMSR, 0x7949)
	out, err := runCmd(t, chip, "scan")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "RTL8211F Gigabit Ethernet") {
		t.Fatalf("got %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("want a single PHY, got %q", out)
	}
}

func TestRunInit(t *testing.T) {
	chip := phytest.NewChip(testAddr, id8211F)
	out, err := runCmd(t, chip, "-m", "Pine64 Rock64", "-mode", "rgmii-id", "init")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "led-control=0x2360 led-aux=0x000e") {
		t.Fatalf("got %q", out)
	}
	if chip.Get(pageTiming, 0x11)&(1<<8) == 0 {
		t.Fatal("TX delay not enabled")
	}
	if chip.Page() != 0 {
		t.Fatalf("page left at %#x", chip.Page())
	}
}

func TestRunPage(t *testing.T) {
	chip := phytest.NewChip(testAddr, id8211F)
	if _, err := runCmd(t, chip, "page", "0xd08", "0x11", "0x109"); err != nil {
		t.Fatal(err)
	}
	out, err := runCmd(t, chip, "page", "0xd08", "0x11")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "0x0109" {
		t.Fatalf("got %q", out)
	}
	if _, err = runCmd(t, chip, "page", "0xd08", "0x20"); !errors.Is(err, rtlphy.ErrInvalidConfig) {
		t.Fatalf("out of range register: got %v", err)
	}
	if _, err = runCmd(t, chip, "page", "0xd08"); err == nil {
		t.Fatal("expected usage error")
	}
}

func TestRunIRQ(t *testing.T) {
	chip := phytest.NewChip(testAddr, id8211F)
	if _, err := runCmd(t, chip, "irq", "on"); err != nil {
		t.Fatal(err)
	}
	if chip.Get(0x0a42, 0x12) != 0x10 {
		t.Fatal("interrupt not enabled")
	}
	if _, err := runCmd(t, chip, "irq", "maybe"); err == nil {
		t.Fatal("expected usage error")
	}
	chip.Set(0x0a43, 0x1d, 0x10)
	out, err := runCmd(t, chip, "ack")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "status=0x0010" {
		t.Fatalf("got %q", out)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	chip := phytest.NewChip(testAddr, id8211F)
	if _, err := runCmd(t, chip, "reboot"); err == nil {
		t.Fatal("expected error")
	}
	if n := len(chip.Log()); n != 0 {
		t.Fatalf("unknown command touched the bus %d times", n)
	}
}

func TestWatch(t *testing.T) {
	chip := phytest.NewChip(testAddr, 0x001cc915) // RTL8211E reports link through PHYSR.
	chip.Set(0, 0x11, 1<<15|1<<13|1<<11|1<<10)
	chip.Set(0, 0x13, 1<<10)
	chip.ClearOnRead(0, 0x13)
	p, err := realtek.Probe(chip, testAddr, realtek.Config{})
	if err != nil {
		t.Fatal(err)
	}
	reg := prometheus.NewRegistry()
	lm := newLinkMetrics(reg)
	var out bytes.Buffer
	e := &env{out: &out, opts: options{interval: time.Millisecond}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := watch(ctx, e, p, lm); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(lm.up.WithLabelValues("4")); got != 1 {
		t.Errorf("link_up = %v", got)
	}
	if got := testutil.ToFloat64(lm.speed.WithLabelValues("4")); got != 1000 {
		t.Errorf("link_speed_mbps = %v", got)
	}
	if got := testutil.ToFloat64(lm.interrupts.WithLabelValues("4")); got != 1 {
		t.Errorf("interrupts_total = %v", got)
	}
	// Link state did not change so it is printed once.
	if strings.Count(out.String(), "link up") != 1 {
		t.Errorf("got output %q", out.String())
	}
}

func TestRunLogWriter(t *testing.T) {
	chip := phytest.NewChip(testAddr, id8211F)
	var out, logs bytes.Buffer
	err := run(context.Background(), []string{"probe"}, &out, &logs, chipOpener(chip))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "rtl:probe") {
		t.Fatalf("probe not logged to log writer: %q", logs.String())
	}
	if strings.Contains(out.String(), "rtl:probe") {
		t.Fatal("log records written to command output")
	}
}

func TestRunResetAneg(t *testing.T) {
	chip := phytest.NewChip(testAddr, id8211F)
	chip.Set(0, phy.AddrBMCR, uint16(phy.BMCRIsolate))
	chip.SelfClear(0, phy.AddrBMCR, uint16(phy.BMCRReset|phy.BMCRANRestart))
	if _, err := runCmd(t, chip, "reset"); err != nil {
		t.Fatal(err)
	}
	if chip.Get(0, phy.AddrBMCR)&uint16(phy.BMCRReset) != 0 {
		t.Fatal("reset bit left set")
	}
	chip.Set(0, phy.AddrBMCR, uint16(phy.BMCRIsolate))
	if _, err := runCmd(t, chip, "aneg"); err != nil {
		t.Fatal(err)
	}
	if got := chip.Get(0, phy.AddrBMCR); got != uint16(phy.BMCRANEnable) {
		t.Fatalf("BMCR=%#x after aneg", got)
	}
	if _, err := runCmd(t, chip, "reset", "now"); err == nil {
		t.Fatal("expected usage error")
	}
}

func TestWatchLogsDisableFailure(t *testing.T) {
	chip := phytest.NewChip(testAddr, 0x001cc915)
	// ID reads, interrupt enable, status read, PHYSR read, then the disable write.
	chip.FailNth(5, nil)
	var out, logs bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := &env{
		ctx:         ctx,
		out:         &out,
		log:         slog.New(slog.NewTextHandler(&logs, nil)),
		opts:        options{addr: -1, interval: time.Millisecond},
		bus:         chip,
		defaultAddr: func() (uint8, error) { return testAddr, nil },
	}
	if err := cmdWatch(e, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "watch:irq-disable") {
		t.Fatalf("disable failure not logged: %q", logs.String())
	}
	if chip.Get(0, 0x12) == 0 {
		t.Fatal("interrupt enable register should keep its value after the failed disable")
	}
}
