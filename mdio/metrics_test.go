package mdio

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type flakyBus struct {
	regs    [32]uint16
	failReg uint16
}

var errFlaky = errors.New("flaky bus")

func (b *flakyBus) Read(phyAddr, devAddr uint8, regAddr uint16) (uint16, error) {
	if regAddr == b.failReg {
		return 0xffff, errFlaky
	}
	return b.regs[regAddr&MaxC22Reg], nil
}

func (b *flakyBus) Write(phyAddr, devAddr uint8, regAddr, value uint16) error {
	if regAddr == b.failReg {
		return errFlaky
	}
	b.regs[regAddr&MaxC22Reg] = value
	return nil
}

func TestInstrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	raw := &flakyBus{failReg: 0x13}
	bus := Instrument(raw, m)
	if err := bus.Write(1, 0, 0x12, 0x10); err != nil {
		t.Fatal(err)
	}
	v, err := bus.Read(1, 0, 0x12)
	if err != nil {
		t.Fatal(err)
	} else if v != 0x10 {
		t.Fatalf("read back %#x, want 0x10", v)
	}
	_, err = bus.Read(1, 0, 0x13)
	if !errors.Is(err, errFlaky) {
		t.Fatalf("transport error not forwarded verbatim: %v", err)
	}

	if got := testutil.ToFloat64(m.Transactions.WithLabelValues("read", "1")); got != 2 {
		t.Errorf("read transactions=%v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Transactions.WithLabelValues("write", "1")); got != 1 {
		t.Errorf("write transactions=%v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Errors.WithLabelValues("read", "1")); got != 1 {
		t.Errorf("read errors=%v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.Errors); n != 1 {
		t.Errorf("error series=%d, want 1", n)
	}
}

func TestNewMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewMetrics(reg); err != nil {
		t.Fatal(err)
	}
	_, err := NewMetrics(reg)
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		t.Fatalf("want AlreadyRegisteredError, got %v", err)
	}
}

func TestInstrumentNilMetrics(t *testing.T) {
	raw := &flakyBus{}
	if Instrument(raw, nil) != Bus(raw) {
		t.Fatal("nil metrics should return the bus unchanged")
	}
}
