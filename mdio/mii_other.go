//go:build !linux || baremetal

package mdio

import "github.com/soypat/rtlphy"

// MII is only available on Linux.
type MII struct{}

func OpenMII(ifname string) (*MII, error) {
	return nil, rtlphy.ErrUnsupported
}
func (m *MII) Name() string { return "" }
func (m *MII) PHYAddr() (uint8, error) {
	return 0, rtlphy.ErrUnsupported
}
func (m *MII) Read(phyAddr, devAddr uint8, regAddr uint16) (uint16, error) {
	return 0xffff, rtlphy.ErrUnsupported
}
func (m *MII) Write(phyAddr, devAddr uint8, regAddr, value uint16) error {
	return rtlphy.ErrUnsupported
}
func (m *MII) Close() error {
	return rtlphy.ErrUnsupported
}
