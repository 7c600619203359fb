package realtek

import (
	"log/slog"

	"github.com/soypat/rtlphy/phy"
)

// configureTiming sets the RTL8211F TX clock delay for rgmii-id and
// rgmii-txid and clears it for every other mode. Other register bits are preserved.
func (p *PHY) configureTiming(mode phy.InterfaceMode) error {
	if p.profile.Family != FamilyRTL8211F {
		return nil
	}
	var set uint16
	if mode == phy.InterfaceRGMIIID || mode == phy.InterfaceRGMIITXID {
		set = fTXDelay
	}
	p.log.debug("rtl:tx-delay", slog.Bool("enabled", set != 0))
	return p.modifyPaged(pageFMACMode, regFTXDelay, fTXDelay, set)
}

func (p *PHY) suspend() error {
	if p.profile.Family == FamilyRTL8211B {
		err := p.dev.Write(phy.AddrMMDAAD, bPowerDownAssist)
		if err != nil {
			return err
		}
	}
	return p.dev.Suspend()
}

func (p *PHY) resume() error {
	err := p.dev.Resume()
	if err != nil {
		return err
	}
	if p.profile.Family == FamilyRTL8211B {
		return p.dev.Write(phy.AddrMMDAAD, 0)
	}
	return nil
}
