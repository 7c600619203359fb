// Package realtek implements register protocols of Realtek Ethernet PHYs:
// profile resolution by PHY identifier, paged register access, interrupt
// configuration, board specific LED setup, RGMII delay and suspend/resume.
//
// A [PHY] serializes all operations on one chip, so paged sequences are never
// interleaved. Operations a family does not specialize fall back to the
// generic [phy.Device] behavior.
package realtek

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/soypat/rtlphy"
	"github.com/soypat/rtlphy/internal"
	"github.com/soypat/rtlphy/mdio"
	"github.com/soypat/rtlphy/phy"
	"github.com/soypat/rtlphy/platform"
)

// Config holds optional collaborators of a PHY.
type Config struct {
	// Platform supplies the board model used to pick LED settings.
	// A nil Platform leaves LEDs at hardware defaults.
	Platform platform.Provider
	Logger   *slog.Logger
}

// PHY is a Realtek PHY bound to a profile. All methods are safe for concurrent use.
type PHY struct {
	mu         sync.Mutex
	dev        phy.Device
	profile    Profile
	platform   platform.Provider
	log        logger
	irqEnabled bool
	ledDone    bool
	led        LEDConfig
	ledErr     error
}

// New binds the PHY at addr on bus to profile.
func New(bus mdio.Bus, addr uint8, profile Profile, cfg Config) (*PHY, error) {
	if profile.Family == 0 {
		return nil, rtlphy.ErrInvalidConfig
	}
	p := &PHY{
		profile:  profile,
		platform: cfg.Platform,
		log:      logger{log: cfg.Logger},
	}
	err := p.dev.Configure(bus, addr, cfg.Logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Probe reads the identifier of the PHY at addr and binds it to the matching profile.
// It returns [rtlphy.ErrNotFound] if no profile matches, meaning the PHY should be
// left to another driver.
func Probe(bus mdio.Bus, addr uint8, cfg Config) (*PHY, error) {
	var dev phy.Device
	err := dev.Configure(bus, addr, cfg.Logger)
	if err != nil {
		return nil, err
	}
	id, err := dev.ID()
	if err != nil {
		return nil, err
	}
	profile, err := Resolve(id)
	if err != nil {
		internal.LogAttrs(cfg.Logger, slog.LevelDebug, "rtl:probe-nomatch", internal.SlogID("id", id), slog.Uint64("addr", uint64(addr)))
		return nil, err
	}
	internal.LogAttrs(cfg.Logger, slog.LevelInfo, "rtl:probe", slog.String("name", profile.Name), internal.SlogID("id", id), slog.Uint64("addr", uint64(addr)))
	return New(bus, addr, profile, cfg)
}

// Profile returns the profile the PHY is bound to.
func (p *PHY) Profile() Profile { return p.profile }

// Addr returns the PHY address on the MDIO bus.
func (p *PHY) Addr() uint8 { return p.dev.Addr() }

// Read reads a register on the default page.
func (p *PHY) Read(reg uint16) (uint16, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dev.Read(reg)
}

// Write writes a register on the default page.
func (p *PHY) Write(reg, value uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dev.Write(reg, value)
}

// ReadMMD reads a Clause 45 MMD register through the Clause 22 indirect registers.
// RTL8211B does not implement MMD access and returns [rtlphy.ErrUnsupported].
func (p *PHY) ReadMMD(devAddr uint8, reg uint16) (uint16, error) {
	if p.profile.Family.mmdUnsupported() {
		return 0, rtlphy.ErrUnsupported
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dev.ReadMMD(devAddr, reg)
}

// WriteMMD writes a Clause 45 MMD register through the Clause 22 indirect registers.
// RTL8211B does not implement MMD access and returns [rtlphy.ErrUnsupported].
func (p *PHY) WriteMMD(devAddr uint8, reg, value uint16) error {
	if p.profile.Family.mmdUnsupported() {
		return rtlphy.ErrUnsupported
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dev.WriteMMD(devAddr, reg, value)
}

// Init configures the PHY for the MAC interface mode. It sets up board LEDs
// on families that support it and the RGMII TX delay on RTL8211F.
// LED failures do not fail Init; they are logged and reported by [PHY.LEDError].
func (p *PHY) Init(mode phy.InterfaceMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.debug("rtl:init", slog.String("family", p.profile.Family.String()), slog.String("mode", mode.String()))
	if p.profile.Family.hasLED() {
		p.ledErr = p.setupLED()
		if p.ledErr != nil {
			p.log.error("rtl:led-setup", slog.String("err", p.ledErr.Error()))
		}
	}
	return p.configureTiming(mode)
}

// LEDConfig returns the LED configuration resolved for the board during [PHY.Init].
// The zero value means hardware defaults were kept.
func (p *PHY) LEDConfig() LEDConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.led
}

// LEDError returns the error of the last LED setup attempted by [PHY.Init].
func (p *PHY) LEDError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledErr
}

// Suspend puts the PHY in low power mode.
func (p *PHY) Suspend() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suspend()
}

// Resume takes the PHY out of low power mode. Interrupt configuration is left untouched.
func (p *PHY) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resume()
}

// RestartAutoNeg enables and restarts auto-negotiation.
func (p *PHY) RestartAutoNeg() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dev.RestartAutoNeg()
}

// Reset performs a software reset and waits for it to complete. Registers
// return to hardware defaults, so [PHY.Init] and [PHY.ConfigureInterrupts]
// must be called again.
func (p *PHY) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.dev.ResetPHY()
	if err != nil {
		return err
	}
	p.irqEnabled = false
	return nil
}

// LinkStatus reads the current link state. RTL8211B/DN/E report speed and duplex
// through their PHY specific status register; other families use the generic registers.
func (p *PHY) LinkStatus() (phy.LinkStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.profile.Family.hasPHYSR() {
		return p.dev.ReadLinkStatus(p.profile.Features)
	}
	var st phy.LinkStatus
	sr, err := p.dev.Read(regPHYSR)
	if err != nil {
		return st, err
	}
	st.Up = sr&physrLinkRealtime != 0
	if !st.Up || sr&physrResolved == 0 {
		return st, nil
	}
	ctl, err := p.dev.BasicControl()
	if err != nil {
		return st, err
	}
	st.AutoNegotiated = ctl&phy.BMCRANEnable != 0
	full := sr&physrDuplex != 0
	switch sr & physrSpeedMask {
	case physrSpeed10:
		st.Mode = pickDuplex(full, phy.Link10FDX, phy.Link10HDX)
	case physrSpeed100:
		st.Mode = pickDuplex(full, phy.Link100FDX, phy.Link100HDX)
	case physrSpeed1000:
		st.Mode = pickDuplex(full, phy.Link1000FDX, phy.Link1000HDX)
	default:
		return st, errors.New("rtl: reserved PHYSR speed")
	}
	return st, nil
}

func pickDuplex(full bool, fdx, hdx phy.LinkMode) phy.LinkMode {
	if full {
		return fdx
	}
	return hdx
}

type logger struct {
	log *slog.Logger
}

func (l logger) error(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.log, slog.LevelError, msg, attrs...)
}
func (l logger) info(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.log, slog.LevelInfo, msg, attrs...)
}
func (l logger) debug(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.log, slog.LevelDebug, msg, attrs...)
}
func (l logger) trace(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(l.log, internal.LevelTrace, msg, attrs...)
}
