package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soypat/rtlphy/internal"
	"github.com/soypat/rtlphy/mdio"
	"github.com/soypat/rtlphy/phy"
	"github.com/soypat/rtlphy/realtek"
)

type linkMetrics struct {
	up         *prometheus.GaugeVec
	speed      *prometheus.GaugeVec
	interrupts *prometheus.CounterVec
}

func newLinkMetrics(reg prometheus.Registerer) *linkMetrics {
	m := &linkMetrics{
		up: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rtlphy",
			Name:      "link_up",
			Help:      "Whether the PHY reports link up",
		}, []string{"phy"}),
		speed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rtlphy",
			Name:      "link_speed_mbps",
			Help:      "Resolved link speed in Mbps, 0 when down or unresolved",
		}, []string{"phy"}),
		interrupts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rtlphy",
			Name:      "interrupts_total",
			Help:      "Number of polls that found a pending PHY interrupt",
		}, []string{"phy"}),
	}
	reg.MustRegister(m.up, m.speed, m.interrupts)
	return m
}

func (m *linkMetrics) observe(addr uint8, st phy.LinkStatus) {
	label := strconv.Itoa(int(addr))
	var up float64
	if st.Up {
		up = 1
	}
	m.up.WithLabelValues(label).Set(up)
	m.speed.WithLabelValues(label).Set(float64(st.Mode.SpeedMbps()))
}

func cmdWatch(e *env, args []string) error {
	if err := noArgs("watch", args); err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	busMetrics, err := mdio.NewMetrics(reg)
	if err != nil {
		return err
	}
	lm := newLinkMetrics(reg)
	p, err := e.probe(mdio.Instrument(e.bus, busMetrics))
	if err != nil {
		return err
	}
	if p.Profile().HasInterrupt() {
		if err = p.ConfigureInterrupts(true); err != nil {
			return err
		}
		defer func() {
			err := p.ConfigureInterrupts(false)
			if err != nil {
				internal.LogAttrs(e.log, slog.LevelError, "watch:irq-disable", slog.String("err", err.Error()))
			}
		}()
	}
	ctx, cancel := context.WithCancel(e.ctx)
	defer cancel()
	if e.opts.listen != "" {
		srv := &http.Server{
			Addr:    e.opts.listen,
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
		go func() {
			<-ctx.Done()
			srv.Close()
		}()
		go func() {
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				internal.LogAttrs(e.log, slog.LevelError, "watch:serve", slog.String("err", err.Error()))
				cancel()
			}
		}()
		internal.LogAttrs(e.log, slog.LevelInfo, "watch:serve", slog.String("listen", e.opts.listen))
	}
	return watch(ctx, e, p, lm)
}

// watch polls the PHY every interval until ctx is done, acknowledging
// interrupts and logging link transitions.
func watch(ctx context.Context, e *env, p *realtek.PHY, lm *linkMetrics) error {
	ticker := time.NewTicker(e.opts.interval)
	defer ticker.Stop()
	var last phy.LinkStatus
	first := true
	for {
		status, err := p.InterruptStatus()
		if err != nil {
			return err
		}
		if status != 0 {
			lm.interrupts.WithLabelValues(strconv.Itoa(int(p.Addr()))).Inc()
		}
		st, err := p.LinkStatus()
		if err != nil {
			return err
		}
		lm.observe(p.Addr(), st)
		if first || st != last {
			internal.LogAttrs(e.log, slog.LevelInfo, "watch:link",
				slog.Bool("up", st.Up),
				slog.String("mode", st.Mode.String()),
				slog.Bool("autoneg", st.AutoNegotiated),
			)
			printLink(e.out, st)
			last, first = st, false
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
