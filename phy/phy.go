// Package phy provides generic IEEE 802.3 Clause 22 Ethernet PHY management
// over an MDIO bus. It implements the behavior shared by all PHYs: identity,
// basic control and status, generic suspend/resume, auto-negotiation restart,
// link status and indirect MMD access. Vendor packages build on [Device] and
// fall back to it for any operation they do not specialize.
package phy

import (
	"errors"
	"log/slog"
	"time"

	"github.com/soypat/rtlphy"
	"github.com/soypat/rtlphy/internal"
	"github.com/soypat/rtlphy/mdio"
)

// Features is the set of link modes a PHY family supports.
type Features uint8

const (
	FeaturesBasic   Features = iota + 1 // 10/100
	FeaturesGigabit                     // 10/100/1000
)

func (f Features) String() string {
	switch f {
	case FeaturesBasic:
		return "basic"
	case FeaturesGigabit:
		return "gigabit"
	}
	return "none"
}

// FindClause22PHYs scans the bus and writes the address of every responding PHY to dst.
// Returns an error only if no PHY is found.
func FindClause22PHYs(bus mdio.Bus, dst []uint8) (n int, err error) {
	if len(dst) < mdio.MaxPHYAddr+1 {
		return -1, errors.New("phy: short buffer")
	}
	for addr := uint8(0); addr <= mdio.MaxPHYAddr; addr++ {
		val, err := bus.Read(addr, 0, AddrBMSR)
		if err != nil {
			continue
		}
		// Floating or pulled-down MDIO lines read all ones or all zeros.
		if val != 0xffff && val != 0x0000 {
			dst[n] = addr
			n++
		}
	}
	if n <= 0 {
		err = rtlphy.ErrNotFound
	}
	return n, err
}

// Device is a Clause 22 PHY at a fixed address on an MDIO bus.
// Device performs no locking; callers serialize access to one PHY.
type Device struct {
	bus  mdio.Bus
	addr uint8
	log  *slog.Logger
}

// Configure resets all state of the device. Does not do a software reset.
func (d *Device) Configure(bus mdio.Bus, phyAddr uint8, log *slog.Logger) error {
	if phyAddr > mdio.MaxPHYAddr {
		return rtlphy.ErrInvalidAddr
	} else if bus == nil {
		return rtlphy.ErrInvalidConfig
	}
	*d = Device{bus: bus, addr: phyAddr, log: log}
	return nil
}

// Addr returns the PHY address on the MDIO bus (0-31).
func (d *Device) Addr() uint8 { return d.addr }

// Read reads a register on the currently selected page.
// Transport failures are returned as [*rtlphy.BusError].
func (d *Device) Read(reg uint16) (uint16, error) {
	v, err := d.bus.Read(d.addr, 0, reg)
	if err != nil {
		d.logerr("phy:read", internal.SlogReg("reg", reg), slog.String("err", err.Error()))
		return v, &rtlphy.BusError{Op: rtlphy.OpRead, Reg: reg, Err: err}
	}
	d.trace("phy:read", internal.SlogReg("reg", reg), internal.SlogReg("val", v))
	return v, nil
}

// Write writes a register on the currently selected page.
// Transport failures are returned as [*rtlphy.BusError].
func (d *Device) Write(reg, value uint16) error {
	err := d.bus.Write(d.addr, 0, reg, value)
	if err != nil {
		d.logerr("phy:write", internal.SlogReg("reg", reg), slog.String("err", err.Error()))
		return &rtlphy.BusError{Op: rtlphy.OpWrite, Reg: reg, Err: err}
	}
	d.trace("phy:write", internal.SlogReg("reg", reg), internal.SlogReg("val", value))
	return nil
}

// Modify performs a read-modify-write clearing the bits in mask and setting
// the bits in set. The write is skipped if the register already holds the result.
func (d *Device) Modify(reg, mask, set uint16) error {
	v, err := d.Read(reg)
	if err != nil {
		return err
	}
	nv := v&^mask | set
	if nv == v {
		return nil
	}
	return d.Write(reg, nv)
}

// ID reads PHYID1 and PHYID2 and returns the 32-bit PHY identifier.
func (d *Device) ID() (uint32, error) {
	id1, err := d.Read(AddrPHYID1)
	if err != nil {
		return 0, err
	}
	id2, err := d.Read(AddrPHYID2)
	if err != nil {
		return 0, err
	}
	return uint32(id1)<<16 | uint32(id2), nil
}

// BasicControl reads the Basic Mode Control Register.
func (d *Device) BasicControl() (BMCR, error) {
	ctl, err := d.Read(AddrBMCR)
	return BMCR(ctl), err
}

// BasicStatus reads the Basic Mode Status Register.
func (d *Device) BasicStatus() (BMSR, error) {
	stat, err := d.Read(AddrBMSR)
	return BMSR(stat), err
}

// Suspend powers down the PHY by setting the BMCR power-down bit.
func (d *Device) Suspend() error {
	d.debug("phy:suspend", slog.Uint64("addr", uint64(d.addr)))
	return d.Modify(AddrBMCR, 0, uint16(BMCRPowerDown))
}

// Resume clears the BMCR power-down bit.
func (d *Device) Resume() error {
	d.debug("phy:resume", slog.Uint64("addr", uint64(d.addr)))
	return d.Modify(AddrBMCR, uint16(BMCRPowerDown), 0)
}

// RestartAutoNeg enables auto-negotiation and restarts it.
func (d *Device) RestartAutoNeg() error {
	ctl, err := d.BasicControl()
	if err != nil {
		return err
	}
	ctl |= BMCRANEnable | BMCRANRestart
	ctl &^= BMCRIsolate
	return d.Write(AddrBMCR, uint16(ctl))
}

// ResetPHY performs a software reset and waits for the self-clearing reset bit.
// IEEE 802.3 allows the reset up to 500ms.
func (d *Device) ResetPHY() (err error) {
	err = d.Write(AddrBMCR, uint16(BMCRReset))
	if err != nil {
		return err
	}
	const resetTimeout = 500 * time.Millisecond
	backoff := internal.NewBackoff(internal.BackoffRegisterPoll)
	var ctl BMCR
	for waited := time.Duration(0); waited < resetTimeout; {
		waited += backoff.Miss()
		ctl, err = d.BasicControl()
		if err != nil {
			continue
		}
		if ctl&BMCRReset == 0 {
			return nil
		}
	}
	if err != nil {
		return err
	}
	return errors.New("phy: reset timeout")
}

// LinkStatus is the link state resolved from the generic registers.
type LinkStatus struct {
	Up             bool
	AutoNegotiated bool
	Mode           LinkMode
}

// ReadLinkStatus resolves link state from BMSR, BMCR and the advertisement
// registers. Gigabit devices additionally consult 1000BASE-T control and status.
func (d *Device) ReadLinkStatus(features Features) (st LinkStatus, err error) {
	// First read clears the latched-low link bit.
	if _, err = d.BasicStatus(); err != nil {
		return st, err
	}
	bmsr, err := d.BasicStatus()
	if err != nil {
		return st, err
	}
	st.Up = bmsr.LinkUp()
	if !st.Up {
		return st, nil
	}
	bmcr, err := d.BasicControl()
	if err != nil {
		return st, err
	}
	if bmcr&BMCRANEnable == 0 {
		st.Mode = bmcr.ForcedMode()
		return st, nil
	}
	if !bmsr.AutoNegotiationComplete() {
		return st, nil
	}
	st.AutoNegotiated = true
	if features == FeaturesGigabit {
		gbcr, err := d.Read(AddrGBCR)
		if err != nil {
			return st, err
		}
		gbsr, err := d.Read(AddrGBSR)
		if err != nil {
			return st, err
		}
		if mode := GBSR(gbsr).Common(GBCR(gbcr)); mode != LinkDown {
			st.Mode = mode
			return st, nil
		}
	}
	anar, err := d.Read(AddrANAR)
	if err != nil {
		return st, err
	}
	anlpar, err := d.Read(AddrANLPAR)
	if err != nil {
		return st, err
	}
	st.Mode = (ANAR(anar) & ANAR(anlpar)).LinkMode()
	return st, nil
}

// ReadMMD reads an MMD register through the Clause 22 indirect access registers 0x0d/0x0e.
func (d *Device) ReadMMD(devAddr uint8, reg uint16) (uint16, error) {
	if err := d.selectMMD(devAddr, reg); err != nil {
		return 0, err
	}
	return d.Read(AddrMMDAAD)
}

// WriteMMD writes an MMD register through the Clause 22 indirect access registers 0x0d/0x0e.
func (d *Device) WriteMMD(devAddr uint8, reg, value uint16) error {
	if err := d.selectMMD(devAddr, reg); err != nil {
		return err
	}
	return d.Write(AddrMMDAAD, value)
}

func (d *Device) selectMMD(devAddr uint8, reg uint16) error {
	dev := uint16(devAddr & 0x1f)
	if err := d.Write(AddrMMDCTL, mmdFuncAddr|dev); err != nil {
		return err
	}
	if err := d.Write(AddrMMDAAD, reg); err != nil {
		return err
	}
	return d.Write(AddrMMDCTL, mmdFuncData|dev)
}

func (d *Device) debug(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(d.log, slog.LevelDebug, msg, attrs...)
}

func (d *Device) trace(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(d.log, internal.LevelTrace, msg, attrs...)
}

func (d *Device) logerr(msg string, attrs ...slog.Attr) {
	internal.LogAttrs(d.log, slog.LevelError, msg, attrs...)
}
