package mdio

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts MDIO transactions per PHY address. A single Metrics value
// may be shared by several instrumented buses.
type Metrics struct {
	Transactions *prometheus.CounterVec
	Errors       *prometheus.CounterVec
}

// NewMetrics creates the transaction counters and registers them with reg.
// A nil reg leaves the counters unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rtlphy",
				Subsystem: "mdio",
				Name:      "transactions_total",
				Help:      "Number of MDIO register transactions issued",
			},
			[]string{"op", "phy"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rtlphy",
				Subsystem: "mdio",
				Name:      "errors_total",
				Help:      "Number of MDIO register transactions that failed",
			},
			[]string{"op", "phy"},
		),
	}
	if reg != nil {
		if err := reg.Register(m.Transactions); err != nil {
			return nil, err
		}
		if err := reg.Register(m.Errors); err != nil {
			reg.Unregister(m.Transactions)
			return nil, err
		}
	}
	return m, nil
}

// Instrument returns a Bus that forwards every transaction to bus and
// accounts for it in m.
func Instrument(bus Bus, m *Metrics) Bus {
	if m == nil {
		return bus
	}
	return &instrumented{bus: bus, m: m}
}

type instrumented struct {
	bus Bus
	m   *Metrics
}

func (ib *instrumented) Read(phyAddr, devAddr uint8, regAddr uint16) (uint16, error) {
	v, err := ib.bus.Read(phyAddr, devAddr, regAddr)
	ib.observe("read", phyAddr, err)
	return v, err
}

func (ib *instrumented) Write(phyAddr, devAddr uint8, regAddr, value uint16) error {
	err := ib.bus.Write(phyAddr, devAddr, regAddr, value)
	ib.observe("write", phyAddr, err)
	return err
}

func (ib *instrumented) observe(op string, phyAddr uint8, err error) {
	phy := strconv.Itoa(int(phyAddr))
	ib.m.Transactions.WithLabelValues(op, phy).Inc()
	if err != nil {
		ib.m.Errors.WithLabelValues(op, phy).Inc()
	}
}
