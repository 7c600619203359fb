package phy

import (
	"strings"

	"github.com/soypat/rtlphy"
)

// InterfaceMode is the electrical interface between the MAC and the PHY.
type InterfaceMode uint8

const (
	InterfaceNA        InterfaceMode = iota // na
	InterfaceMII                            // mii
	InterfaceGMII                           // gmii
	InterfaceRMII                           // rmii
	InterfaceRGMII                          // rgmii
	InterfaceRGMIIID                        // rgmii-id
	InterfaceRGMIIRXID                      // rgmii-rxid
	InterfaceRGMIITXID                      // rgmii-txid
	interfaceModeEnd
)

var interfaceNames = [interfaceModeEnd]string{
	InterfaceNA:        "na",
	InterfaceMII:       "mii",
	InterfaceGMII:      "gmii",
	InterfaceRMII:      "rmii",
	InterfaceRGMII:     "rgmii",
	InterfaceRGMIIID:   "rgmii-id",
	InterfaceRGMIIRXID: "rgmii-rxid",
	InterfaceRGMIITXID: "rgmii-txid",
}

func (m InterfaceMode) String() string {
	if m >= interfaceModeEnd {
		return "unknown"
	}
	return interfaceNames[m]
}

// IsRGMII returns true for RGMII and its internal delay variants.
func (m InterfaceMode) IsRGMII() bool {
	return m >= InterfaceRGMII && m <= InterfaceRGMIITXID
}

// ParseInterfaceMode parses the device tree phy-mode spelling of an interface mode.
func ParseInterfaceMode(s string) (InterfaceMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range interfaceNames {
		if name == s {
			return InterfaceMode(i), nil
		}
	}
	return InterfaceNA, rtlphy.ErrInvalidConfig
}
