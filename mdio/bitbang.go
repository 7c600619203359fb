package mdio

import (
	"errors"
)

var _ Bus = (*BitBang)(nil)

// MDIO frame opcodes. Clause 22 frames start with 01, Clause 45 with 00.
const (
	opC22Read  = 0b10
	opC22Write = 0b01
	c45Frame   = 1 << 15
	opC45Addr  = c45Frame | 0b00
	opC45Read  = c45Frame | 0b11
	opC45Write = c45Frame | 0b01
)

var errNoTurnaround = errors.New("mdio: PHY did not drive turnaround low")

// Pins is the pin-level HAL needed by [BitBang]. MDC is the clock line and MDIO the data line.
type Pins interface {
	// SendBit drives data then pulses MDC high and low.
	SendBit(bit bool)
	// GetBit pulses MDC high, samples MDIO and drives MDC low.
	GetBit() bool
	// SetOutput configures the MDIO pin direction. Releasing the
	// line (output=false) lets the PHY drive it.
	SetOutput(output bool)
}

// BitBang is a software defined MDIO management station.
// Frame layout follows IEEE 802.3 Clause 22.2.4.5 and Clause 45.3.
// A TinyGo Pins implementation typically looks like:
//
//	const mdioDelay = 340 * time.Nanosecond // MDIO max turnaround time.
//	func (p *pins) SendBit(bit bool) {
//		if bit {
//			p.mdio.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
//		} else {
//			p.mdio.Low()
//			p.mdio.Configure(machine.PinConfig{Mode: machine.PinOutput})
//		}
//		time.Sleep(mdioDelay)
//		p.mdc.High()
//		time.Sleep(mdioDelay)
//		p.mdc.Low()
//	}
type BitBang struct {
	pins Pins
}

// Configure binds the bit-bang station to its pins and releases the bus.
func (bb *BitBang) Configure(pins Pins) {
	if pins == nil {
		panic("nil pins")
	}
	bb.pins = pins
	bb.pins.SetOutput(true)
}

// Read reads a PHY register. Uses Clause 45 framing if devAddr is non-zero.
func (bb *BitBang) Read(phyAddr, devAddr uint8, regAddr uint16) (uint16, error) {
	if devAddr != 0 {
		bb.addressCycle(phyAddr, devAddr, regAddr)
		bb.header(opC45Read, phyAddr, devAddr)
	} else {
		bb.header(opC22Read, phyAddr, uint8(regAddr))
	}
	bb.pins.SetOutput(false)
	if bb.pins.GetBit() {
		// Flush whatever the PHY thinks it is sending.
		for i := 0; i < 32; i++ {
			bb.pins.GetBit()
		}
		return 0xffff, errNoTurnaround
	}
	v := bb.recv(16)
	bb.pins.GetBit() // idle.
	return v, nil
}

// Write writes a value to a PHY register. Uses Clause 45 framing if devAddr is non-zero.
func (bb *BitBang) Write(phyAddr, devAddr uint8, regAddr, value uint16) error {
	if devAddr != 0 {
		bb.addressCycle(phyAddr, devAddr, regAddr)
		bb.header(opC45Write, phyAddr, devAddr)
	} else {
		bb.header(opC22Write, phyAddr, uint8(regAddr))
	}
	bb.turnaround()
	bb.send(value, 16)
	bb.pins.SetOutput(false)
	bb.pins.GetBit()
	return nil
}

// addressCycle latches a Clause 45 register address in the MMD.
func (bb *BitBang) addressCycle(phyAddr, devAddr uint8, regAddr uint16) {
	bb.header(opC45Addr, phyAddr, devAddr)
	bb.turnaround()
	bb.send(regAddr, 16)
	bb.pins.SetOutput(false)
	bb.pins.GetBit()
}

func (bb *BitBang) header(op uint16, phyAddr, reg uint8) {
	bb.pins.SetOutput(true)
	for i := 0; i < 32; i++ {
		bb.pins.SendBit(true) // preamble.
	}
	bb.pins.SendBit(false)
	bb.pins.SendBit(op&c45Frame == 0)
	bb.pins.SendBit(op&0b10 != 0)
	bb.pins.SendBit(op&0b01 != 0)
	bb.send(uint16(phyAddr), 5)
	bb.send(uint16(reg), 5)
}

func (bb *BitBang) turnaround() {
	bb.pins.SendBit(true)
	bb.pins.SendBit(false)
}

func (bb *BitBang) send(v uint16, bits int) {
	for i := bits - 1; i >= 0; i-- {
		bb.pins.SendBit(v>>i&1 != 0)
	}
}

func (bb *BitBang) recv(bits int) (v uint16) {
	for i := 0; i < bits; i++ {
		v <<= 1
		if bb.pins.GetBit() {
			v |= 1
		}
	}
	return v
}
