package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/soypat/rtlphy"
	"github.com/soypat/rtlphy/mdio"
	"github.com/soypat/rtlphy/phy"
	"github.com/soypat/rtlphy/platform"
	"github.com/soypat/rtlphy/realtek"
)

type env struct {
	ctx         context.Context
	out         io.Writer
	log         *slog.Logger
	opts        options
	bus         mdio.Bus
	defaultAddr func() (uint8, error)
	platform    platform.Provider
}

var commands = map[string]func(e *env, args []string) error{
	"scan":    cmdScan,
	"probe":   cmdProbe,
	"init":    cmdInit,
	"irq":     cmdIRQ,
	"ack":     cmdAck,
	"status":  cmdStatus,
	"suspend": cmdSuspend,
	"resume":  cmdResume,
	"reset":   cmdReset,
	"aneg":    cmdAneg,
	"page":    cmdPage,
	"watch":   cmdWatch,
}

func (e *env) addr() (uint8, error) {
	if e.opts.addr >= 0 {
		return uint8(e.opts.addr), nil
	}
	if e.defaultAddr == nil {
		return 0, fmt.Errorf("%w: no -a given", rtlphy.ErrInvalidAddr)
	}
	return e.defaultAddr()
}

func (e *env) probe(bus mdio.Bus) (*realtek.PHY, error) {
	addr, err := e.addr()
	if err != nil {
		return nil, err
	}
	p, err := realtek.Probe(bus, addr, realtek.Config{Platform: e.platform, Logger: e.log})
	if errors.Is(err, rtlphy.ErrNotFound) {
		return nil, fmt.Errorf("PHY at address %d is not a supported Realtek PHY: %w", addr, err)
	}
	return p, err
}

func noArgs(name string, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%s takes no arguments", name)
	}
	return nil
}

func cmdScan(e *env, args []string) error {
	if err := noArgs("scan", args); err != nil {
		return err
	}
	var addrs [mdio.MaxPHYAddr + 1]uint8
	n, err := phy.FindClause22PHYs(e.bus, addrs[:])
	if err != nil {
		return err
	}
	for _, addr := range addrs[:n] {
		var dev phy.Device
		if err := dev.Configure(e.bus, addr, e.log); err != nil {
			return err
		}
		id, err := dev.ID()
		if err != nil {
			return err
		}
		name := "unknown"
		if prof, err := realtek.Resolve(id); err == nil {
			name = prof.Name
		}
		fmt.Fprintf(e.out, "%2d  %#08x  %s\n", addr, id, name)
	}
	return nil
}

func cmdProbe(e *env, args []string) error {
	if err := noArgs("probe", args); err != nil {
		return err
	}
	p, err := e.probe(e.bus)
	if err != nil {
		return err
	}
	prof := p.Profile()
	fmt.Fprintf(e.out, "addr=%d id=%#08x name=%q family=%s features=%s interrupt=%t\n",
		p.Addr(), prof.ID, prof.Name, prof.Family, prof.Features, prof.HasInterrupt())
	return nil
}

func cmdInit(e *env, args []string) error {
	if err := noArgs("init", args); err != nil {
		return err
	}
	p, err := e.probe(e.bus)
	if err != nil {
		return err
	}
	err = p.Init(e.opts.mode)
	if err != nil {
		return err
	}
	led := p.LEDConfig()
	fmt.Fprintf(e.out, "mode=%s led-control=%#04x led-aux=%#04x\n", e.opts.mode, led.Control, led.Aux)
	if lerr := p.LEDError(); lerr != nil {
		fmt.Fprintf(e.out, "led setup failed: %v\n", lerr)
	}
	return nil
}

func cmdIRQ(e *env, args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return errors.New("usage: irq on|off")
	}
	p, err := e.probe(e.bus)
	if err != nil {
		return err
	}
	return p.ConfigureInterrupts(args[0] == "on")
}

func cmdAck(e *env, args []string) error {
	if err := noArgs("ack", args); err != nil {
		return err
	}
	p, err := e.probe(e.bus)
	if err != nil {
		return err
	}
	status, err := p.InterruptStatus()
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "status=%#04x\n", status)
	return nil
}

func cmdStatus(e *env, args []string) error {
	if err := noArgs("status", args); err != nil {
		return err
	}
	p, err := e.probe(e.bus)
	if err != nil {
		return err
	}
	st, err := p.LinkStatus()
	if err != nil {
		return err
	}
	printLink(e.out, st)
	return nil
}

func printLink(w io.Writer, st phy.LinkStatus) {
	if !st.Up {
		fmt.Fprintln(w, "link down")
		return
	}
	fmt.Fprintf(w, "link up %s autoneg=%t\n", st.Mode, st.AutoNegotiated)
}

func cmdSuspend(e *env, args []string) error {
	if err := noArgs("suspend", args); err != nil {
		return err
	}
	p, err := e.probe(e.bus)
	if err != nil {
		return err
	}
	return p.Suspend()
}

func cmdResume(e *env, args []string) error {
	if err := noArgs("resume", args); err != nil {
		return err
	}
	p, err := e.probe(e.bus)
	if err != nil {
		return err
	}
	return p.Resume()
}

func cmdReset(e *env, args []string) error {
	if err := noArgs("reset", args); err != nil {
		return err
	}
	p, err := e.probe(e.bus)
	if err != nil {
		return err
	}
	return p.Reset()
}

func cmdAneg(e *env, args []string) error {
	if err := noArgs("aneg", args); err != nil {
		return err
	}
	p, err := e.probe(e.bus)
	if err != nil {
		return err
	}
	return p.RestartAutoNeg()
}

func cmdPage(e *env, args []string) error {
	if len(args) != 2 && len(args) != 3 {
		return errors.New("usage: page PAGE REG [VALUE]")
	}
	var vals [3]uint16
	for i, s := range args {
		v, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return fmt.Errorf("%w: %q", rtlphy.ErrInvalidConfig, s)
		}
		vals[i] = uint16(v)
	}
	if vals[1] > mdio.MaxC22Reg {
		return fmt.Errorf("%w: register %#x", rtlphy.ErrInvalidConfig, vals[1])
	}
	p, err := e.probe(e.bus)
	if err != nil {
		return err
	}
	if len(args) == 3 {
		return p.WritePaged(vals[0], vals[1], vals[2])
	}
	v, err := p.ReadPaged(vals[0], vals[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%#04x\n", v)
	return nil
}
