// Package phytest simulates a paged Realtek-style PHY register file on an
// MDIO bus so register protocols can be tested without hardware.
package phytest

import (
	"errors"

	"github.com/soypat/rtlphy"
)

const (
	regPageSelect = 0x1f
	regExtPageSel = 0x1e
	extPage       = 0x0007
)

// ErrInjected is the default error returned by injected faults.
var ErrInjected = errors.New("phytest: injected bus fault")

// Transaction is one bus access as seen by the chip.
type Transaction struct {
	Op    rtlphy.BusOp
	Page  uint16 // Page selected when the access arrived.
	Ext   uint16 // Extended page, only meaningful when Page is 0x0007.
	Reg   uint16
	Value uint16 // Value written, or value returned by a read.
	Err   error
}

type regKey struct {
	page, ext, reg uint16
}

type fault struct {
	nth      int // Fail the nth transaction (0 based), -1 to match by register.
	op       rtlphy.BusOp
	page     uint16
	reg      uint16
	err      error
	oneshot  bool
	consumed bool
}

// Chip is a Clause 22 PHY with a page-select register at 0x1f and, on page
// 0x0007, an extended page-select register at 0x1e. Unwritten registers read 0.
// Chip implements mdio.Bus and answers only to its own address;
// other addresses read 0xffff like a floating bus.
type Chip struct {
	addr       uint8
	regs       map[regKey]uint16
	clearOnRd  map[regKey]bool
	selfClear  map[regKey]uint16
	page       uint16
	ext        uint16
	faults     []fault
	log        []Transaction
	n          int
	pageWrites int
}

// NewChip returns a simulated PHY at addr reporting the 32-bit identifier id.
func NewChip(addr uint8, id uint32) *Chip {
	c := &Chip{
		addr:      addr,
		regs:      make(map[regKey]uint16),
		clearOnRd: make(map[regKey]bool),
		selfClear: make(map[regKey]uint16),
	}
	c.Set(0, 0x02, uint16(id>>16))
	c.Set(0, 0x03, uint16(id))
	return c
}

// Set presets a register on page without logging a transaction.
func (c *Chip) Set(page, reg, v uint16) { c.regs[regKey{page: page, reg: reg}] = v }

// Get returns the register value on page without logging a transaction.
func (c *Chip) Get(page, reg uint16) uint16 { return c.regs[regKey{page: page, reg: reg}] }

// SetExt presets a register on extended page ext (reached through page 0x0007).
func (c *Chip) SetExt(ext, reg, v uint16) {
	c.regs[regKey{page: extPage, ext: ext, reg: reg}] = v
}

// GetExt returns a register on extended page ext.
func (c *Chip) GetExt(ext, reg uint16) uint16 {
	return c.regs[regKey{page: extPage, ext: ext, reg: reg}]
}

// ClearOnRead makes a register reset to zero after every read, like interrupt status registers.
func (c *Chip) ClearOnRead(page, reg uint16) { c.clearOnRd[regKey{page: page, reg: reg}] = true }

// SelfClear makes the bits in mask of a register clear immediately after a
// write, like a software reset bit.
func (c *Chip) SelfClear(page, reg, mask uint16) {
	c.selfClear[regKey{page: page, reg: reg}] = mask
}

// Page returns the currently selected page.
func (c *Chip) Page() uint16 { return c.page }

// FailNth makes the nth transaction from now (0 based) fail with err.
// A nil err means [ErrInjected].
func (c *Chip) FailNth(nth int, err error) {
	c.faults = append(c.faults, fault{nth: c.n + nth, err: orInjected(err), oneshot: true})
}

// FailReg makes every op access to reg on page fail with err until [Chip.ClearFaults].
func (c *Chip) FailReg(op rtlphy.BusOp, page, reg uint16, err error) {
	c.faults = append(c.faults, fault{nth: -1, op: op, page: page, reg: reg, err: orInjected(err)})
}

// ClearFaults removes all injected faults.
func (c *Chip) ClearFaults() { c.faults = c.faults[:0] }

// Log returns the transactions seen so far.
func (c *Chip) Log() []Transaction { return c.log }

// Writes returns the successful write transactions seen so far.
func (c *Chip) Writes() (w []Transaction) {
	for _, tx := range c.log {
		if tx.Op == rtlphy.OpWrite && tx.Err == nil {
			w = append(w, tx)
		}
	}
	return w
}

// ResetLog discards the transaction log.
func (c *Chip) ResetLog() {
	c.log = c.log[:0]
	c.pageWrites = 0
}

// PageWrites returns how many writes to the page-select register succeeded since the last ResetLog.
func (c *Chip) PageWrites() int { return c.pageWrites }

func (c *Chip) Read(phyAddr, devAddr uint8, regAddr uint16) (uint16, error) {
	if phyAddr != c.addr {
		return 0xffff, nil
	} else if devAddr != 0 {
		return 0xffff, rtlphy.ErrUnsupported
	}
	tx := c.begin(rtlphy.OpRead, regAddr)
	if tx.Err == nil {
		tx.Value = c.load(regAddr)
	}
	c.log = append(c.log, tx)
	return tx.Value, tx.Err
}

func (c *Chip) Write(phyAddr, devAddr uint8, regAddr, value uint16) error {
	if phyAddr != c.addr {
		return nil
	} else if devAddr != 0 {
		return rtlphy.ErrUnsupported
	}
	tx := c.begin(rtlphy.OpWrite, regAddr)
	tx.Value = value
	if tx.Err == nil {
		c.store(regAddr, value)
	}
	c.log = append(c.log, tx)
	return tx.Err
}

func (c *Chip) begin(op rtlphy.BusOp, reg uint16) Transaction {
	tx := Transaction{Op: op, Page: c.page, Ext: c.ext, Reg: reg}
	for i := range c.faults {
		f := &c.faults[i]
		switch {
		case f.consumed:
		case f.nth >= 0 && f.nth == c.n:
			tx.Err = f.err
			f.consumed = f.oneshot
		case f.nth < 0 && f.op == op && f.page == c.page && f.reg == reg:
			tx.Err = f.err
		}
	}
	c.n++
	if tx.Err != nil {
		tx.Value = 0xffff
	}
	return tx
}

func (c *Chip) key(reg uint16) regKey {
	k := regKey{page: c.page, reg: reg}
	if c.page == extPage {
		k.ext = c.ext
	}
	return k
}

func (c *Chip) load(reg uint16) uint16 {
	switch {
	case reg == regPageSelect:
		return c.page
	case reg == regExtPageSel && c.page == extPage:
		return c.ext
	}
	k := c.key(reg)
	v := c.regs[k]
	if c.clearOnRd[k] {
		delete(c.regs, k)
	}
	return v
}

func (c *Chip) store(reg, v uint16) {
	switch {
	case reg == regPageSelect:
		c.page = v
		c.pageWrites++
		if v != extPage {
			c.ext = 0
		}
		return
	case reg == regExtPageSel && c.page == extPage:
		c.ext = v
		return
	}
	k := c.key(reg)
	c.regs[k] = v &^ c.selfClear[k]
}

func orInjected(err error) error {
	if err == nil {
		return ErrInjected
	}
	return err
}
