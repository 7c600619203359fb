// Package mdio provides MDIO management bus transports used to reach the
// 16-bit registers of Ethernet PHYs: a software bit-banged bus, the Linux
// SIOCxMIIREG ioctl interface and a metrics collecting wrapper.
package mdio

// Bus is a HAL for MDIO bus access supporting both Clause 22 and Clause 45 devices.
// Implementations should use devAddr to select the framing:
//   - devAddr=0: Clause 22 framing (devAddr ignored in transaction)
//   - devAddr>=1: Clause 45 framing (PMA/PMD=1, WIS=2, PCS=3, PHY XS=4, DTE XS=5, AN=7)
//
// Register address range: Clause 22 uses 0-31, Clause 45 uses 0-65535.
// Each call is exactly one bus transaction; implementations do not retry.
type Bus interface {
	// Read reads a 16-bit register from the PHY.
	Read(phyAddr, devAddr uint8, regAddr uint16) (value uint16, err error)
	// Write writes a 16-bit value to a PHY register.
	Write(phyAddr, devAddr uint8, regAddr, value uint16) error
}

const (
	// MaxPHYAddr is the highest address a PHY can take on a Clause 22 bus.
	MaxPHYAddr = 31
	// MaxC22Reg is the highest Clause 22 register address.
	MaxC22Reg = 31
)
