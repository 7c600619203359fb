// Command rtlphy inspects and configures Realtek Ethernet PHYs through the
// Linux MII ioctl interface of a network device.
//
//	rtlphy [-v|-vv] -i IFACE [-a ADDR] [-m MODEL] [-mode MODE] COMMAND [ARGS...]
//
// Commands:
//
//	scan                   list PHYs responding on the bus
//	probe                  identify the PHY and its Realtek profile
//	init                   configure LEDs and RGMII delay for -mode
//	irq on|off             enable or disable the link interrupt
//	ack                    read and clear pending interrupts
//	status                 print link state
//	suspend, resume        enter or leave power down
//	reset                  software reset, waiting for completion
//	aneg                   restart auto-negotiation
//	page PAGE REG [VALUE]  read or write a paged register
//	watch                  poll link state and serve metrics on -listen
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"

	"github.com/soypat/rtlphy"
	"github.com/soypat/rtlphy/internal"
	"github.com/soypat/rtlphy/mdio"
	"github.com/soypat/rtlphy/phy"
	"github.com/soypat/rtlphy/platform"
)

const usage = "usage: rtlphy [-v|-vv] -i IFACE [-a ADDR] [-m MODEL] [-mode MODE] [-listen HOST:PORT] [-interval DURATION] COMMAND [ARGS...]"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, openMII)
	if err != nil {
		log.Fatalln("rtlphy:", err)
	}
}

type options struct {
	iface    string
	addr     int // -1 asks the network driver.
	model    string
	mode     phy.InterfaceMode
	listen   string
	interval time.Duration
	level    slog.Level
}

func parseArgs(args []string) (opts options, rest []string, err error) {
	flag, args := flags.New(args, "-v", "-vv")
	parm, args := parms.New(args, "-i", "-a", "-m", "-mode", "-listen", "-interval")
	opts = options{
		iface:    parm.ByName["-i"],
		addr:     -1,
		model:    parm.ByName["-m"],
		mode:     phy.InterfaceRGMII,
		listen:   parm.ByName["-listen"],
		interval: time.Second,
		level:    slog.LevelInfo,
	}
	switch {
	case flag.ByName["-vv"]:
		opts.level = internal.LevelTrace
	case flag.ByName["-v"]:
		opts.level = slog.LevelDebug
	}
	if s := parm.ByName["-a"]; s != "" {
		a, err := strconv.ParseUint(s, 0, 8)
		if err != nil || a > mdio.MaxPHYAddr {
			return opts, nil, fmt.Errorf("%w: -a %q", rtlphy.ErrInvalidAddr, s)
		}
		opts.addr = int(a)
	}
	if s := parm.ByName["-mode"]; s != "" {
		opts.mode, err = phy.ParseInterfaceMode(s)
		if err != nil {
			return opts, nil, err
		}
	}
	if s := parm.ByName["-interval"]; s != "" {
		opts.interval, err = time.ParseDuration(s)
		if err != nil || opts.interval <= 0 {
			return opts, nil, fmt.Errorf("%w: -interval %q", rtlphy.ErrInvalidConfig, s)
		}
	}
	if len(args) == 0 {
		return opts, nil, errors.New(usage)
	}
	return opts, args, nil
}

// busOpener opens the MDIO bus of a network interface. defaultAddr returns
// the PHY address the driver is attached to.
type busOpener func(iface string) (bus mdio.Bus, defaultAddr func() (uint8, error), closer io.Closer, err error)

func openMII(iface string) (mdio.Bus, func() (uint8, error), io.Closer, error) {
	if iface == "" {
		return nil, nil, nil, fmt.Errorf("%w: missing -i interface", rtlphy.ErrInvalidConfig)
	}
	mii, err := mdio.OpenMII(iface)
	if err != nil {
		return nil, nil, nil, err
	}
	return mii, mii.PHYAddr, mii, nil
}

// run executes one command. Results go to stdout, log records to logw.
func run(ctx context.Context, args []string, stdout, logw io.Writer, open busOpener) error {
	opts, args, err := parseArgs(args)
	if err != nil {
		return err
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
	lg := slog.New(slog.NewTextHandler(logw, &slog.HandlerOptions{Level: opts.level}))
	bus, defaultAddr, closer, err := open(opts.iface)
	if err != nil {
		return err
	}
	defer closer.Close()

	var plat platform.Provider = platform.Default()
	if opts.model != "" {
		plat = platform.Static(opts.model)
	}
	e := &env{
		ctx:         ctx,
		out:         stdout,
		log:         lg,
		opts:        opts,
		bus:         bus,
		defaultAddr: defaultAddr,
		platform:    plat,
	}
	return cmd(e, args[1:])
}
