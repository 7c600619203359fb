package realtek

import (
	"log/slog"

	"github.com/soypat/rtlphy/internal"
)

// irqRegs locates the interrupt enable and status registers of a family.
// A zero page means the register lives on the default page.
type irqRegs struct {
	enablePage uint16
	enableReg  uint16
	enableMask uint16
	statusPage uint16
	statusReg  uint16
}

// irq returns the interrupt registers of the family. ok is false for
// families that leave interrupt handling to the generic PHY layer.
func (f Family) irq() (r irqRegs, ok bool) {
	switch f {
	case FamilyRTL8201F:
		return irqRegs{enablePage: pageExt, enableReg: regIER, enableMask: ierRTL8201FEnable, statusReg: regISR}, true
	case FamilyRTL8211B:
		return irqRegs{enableReg: regINER, enableMask: inerRTL8211BInit, statusReg: regINSR}, true
	case FamilyRTL8211DN, FamilyRTL8211E:
		return irqRegs{enableReg: regINER, enableMask: inerRTL8211ELink, statusReg: regINSR}, true
	case FamilyRTL8211F:
		return irqRegs{enablePage: pageFINER, enableReg: regINER, enableMask: inerRTL8211FLink, statusPage: pageFINSR, statusReg: regFINSR}, true
	}
	return irqRegs{}, false
}

// ConfigureInterrupts enables or disables the PHY link interrupt. Families
// without interrupt registers return nil without touching the bus.
// The enabled state only changes if the write succeeds.
func (p *PHY) ConfigureInterrupts(enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.profile.Family.irq()
	if !ok {
		return nil
	}
	var val uint16
	if enabled {
		val = r.enableMask
	}
	var err error
	if r.enablePage != pageDefault {
		err = p.writePaged(r.enablePage, r.enableReg, val)
	} else {
		err = p.dev.Write(r.enableReg, val)
	}
	if err != nil {
		return err
	}
	p.irqEnabled = enabled
	p.log.debug("rtl:irq-config", slog.Bool("enabled", enabled), internal.SlogReg("val", val))
	return nil
}

// InterruptsEnabled returns the interrupt state last applied by [PHY.ConfigureInterrupts].
func (p *PHY) InterruptsEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.irqEnabled
}

// AckInterrupt clears pending interrupts by reading the interrupt status register.
// A nil error means the register was read, not that an interrupt was pending.
func (p *PHY) AckInterrupt() error {
	_, err := p.InterruptStatus()
	return err
}

// InterruptStatus reads and thereby clears the interrupt status register,
// returning the pending bits. Families without interrupt registers return 0.
func (p *PHY) InterruptStatus() (uint16, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.profile.Family.irq()
	if !ok {
		return 0, nil
	}
	var v uint16
	var err error
	if r.statusPage != pageDefault {
		v, err = p.readPaged(r.statusPage, r.statusReg)
	} else {
		v, err = p.dev.Read(r.statusReg)
	}
	if err != nil {
		return 0, err
	}
	if v != 0 {
		p.log.trace("rtl:irq-status", internal.SlogReg("status", v))
	}
	return v, nil
}
