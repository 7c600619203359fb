package phy

// IEEE 802.3 Clause 22 register addresses shared by all PHYs.
const (
	AddrBMCR   = 0x00 // Basic Mode Control Register.
	AddrBMSR   = 0x01 // Basic Mode Status Register.
	AddrPHYID1 = 0x02 // PHY Identifier 1, OUI bits 3-18.
	AddrPHYID2 = 0x03 // PHY Identifier 2, OUI bits 19-24, model and revision.
	AddrANAR   = 0x04 // Auto-Negotiation Advertisement Register.
	AddrANLPAR = 0x05 // Auto-Negotiation Link Partner Ability Register.
	AddrANER   = 0x06 // Auto-Negotiation Expansion Register.
	AddrGBCR   = 0x09 // 1000BASE-T Control Register.
	AddrGBSR   = 0x0a // 1000BASE-T Status Register.
	AddrMMDCTL = 0x0d // MMD Access Control Register.
	AddrMMDAAD = 0x0e // MMD Access Address/Data Register.
	AddrESTAT  = 0x0f // Extended Status Register.
)

// BMCR represents the Basic Mode Control Register at address 0x00.
// Reference: IEEE 802.3 Clause 22.2.4.1
type BMCR uint16

const (
	BMCRSpeed1000  BMCR = 0x0040 // MSB of Speed (1000Mbps)
	BMCRCollision  BMCR = 0x0080 // Collision test
	BMCRFullDuplex BMCR = 0x0100 // Full duplex mode
	BMCRANRestart  BMCR = 0x0200 // Restart auto-negotiation
	BMCRIsolate    BMCR = 0x0400 // Isolate PHY from MII
	BMCRPowerDown  BMCR = 0x0800 // Power down PHY
	BMCRANEnable   BMCR = 0x1000 // Enable auto-negotiation
	BMCRSpeed100   BMCR = 0x2000 // Select 100Mbps
	BMCRLoopback   BMCR = 0x4000 // Enable TXD loopback
	BMCRReset      BMCR = 0x8000 // Software reset (self-clearing)
)

// ForcedMode returns the link mode selected by the speed and duplex bits
// when auto-negotiation is disabled.
func (c BMCR) ForcedMode() LinkMode {
	full := c&BMCRFullDuplex != 0
	switch {
	case c&BMCRSpeed1000 != 0 && full:
		return Link1000FDX
	case c&BMCRSpeed1000 != 0:
		return Link1000HDX
	case c&BMCRSpeed100 != 0 && full:
		return Link100FDX
	case c&BMCRSpeed100 != 0:
		return Link100HDX
	case full:
		return Link10FDX
	default:
		return Link10HDX
	}
}

// BMSR represents the Basic Mode Status Register at address 0x01.
// Reference: IEEE 802.3 Clause 22.2.4.2
type BMSR uint16

const (
	BMSRExtCap      BMSR = 0x0001 // Extended register capability
	BMSRJabber      BMSR = 0x0002 // Jabber detected
	BMSRLinkStatus  BMSR = 0x0004 // Link status (1=up), latched low
	BMSRANCap       BMSR = 0x0008 // Auto-negotiation capable
	BMSRRemoteFault BMSR = 0x0010 // Remote fault detected
	BMSRANComplete  BMSR = 0x0020 // Auto-negotiation complete
	BMSRNoPreamble  BMSR = 0x0040 // Preamble suppression capable
	BMSRExtStatus   BMSR = 0x0100 // Extended status in register 15
	BMSR10Half      BMSR = 0x0800 // 10Mbps half-duplex capable
	BMSR10Full      BMSR = 0x1000 // 10Mbps full-duplex capable
	BMSR100Half     BMSR = 0x2000 // 100Mbps half-duplex capable
	BMSR100Full     BMSR = 0x4000 // 100Mbps full-duplex capable
	BMSR100Base4    BMSR = 0x8000 // 100BASE-T4 capable
)

// LinkUp reports the latched link status bit.
func (s BMSR) LinkUp() bool { return s&BMSRLinkStatus != 0 }

// AutoNegotiationComplete reports whether auto-negotiation finished.
func (s BMSR) AutoNegotiationComplete() bool { return s&BMSRANComplete != 0 }

// ANAR represents the Auto-Negotiation Advertisement Register value at address 0x04.
// ANLPAR at 0x05 shares the same bit layout.
// Reference: IEEE 802.3 Clause 28.2.4.1
type ANAR uint16

const (
	ANARSelector8023 ANAR = 0x0001 // IEEE 802.3 selector value
	ANAR10Half       ANAR = 0x0020 // 10BASE-T half-duplex
	ANAR10Full       ANAR = 0x0040 // 10BASE-T full-duplex
	ANAR100Half      ANAR = 0x0080 // 100BASE-TX half-duplex
	ANAR100Full      ANAR = 0x0100 // 100BASE-TX full-duplex
	ANAR100BaseT4    ANAR = 0x0200 // 100BASE-T4
	ANARPause        ANAR = 0x0400 // Pause capability
	ANARPauseAsym    ANAR = 0x0800 // Asymmetric pause
	ANARRemoteFault  ANAR = 0x2000 // Remote fault
	ANARAck          ANAR = 0x4000 // Acknowledge (ANLPAR only)
	ANARNextPage     ANAR = 0x8000 // Next page capable
)

// LinkMode returns the highest priority mode advertised in the speed bits
// as per IEEE 802.3 Annex 28B.3. Returns LinkDown if no speed bits are set.
func (a ANAR) LinkMode() LinkMode {
	switch {
	case a&ANAR100Full != 0:
		return Link100FDX
	case a&ANAR100BaseT4 != 0:
		return Link100T4
	case a&ANAR100Half != 0:
		return Link100HDX
	case a&ANAR10Full != 0:
		return Link10FDX
	case a&ANAR10Half != 0:
		return Link10HDX
	}
	return LinkDown
}

// GBCR is the 1000BASE-T Control Register at address 0x09.
// The advertisement bits line up with the partner ability bits of GBSR shifted right by 2.
type GBCR uint16

const (
	GBCR1000Half GBCR = 0x0100 // Advertise 1000BASE-T half-duplex
	GBCR1000Full GBCR = 0x0200 // Advertise 1000BASE-T full-duplex
)

// GBSR is the 1000BASE-T Status Register at address 0x0a.
type GBSR uint16

const (
	GBSRPartner1000Half GBSR = 0x0400 // Link partner 1000BASE-T half-duplex capable
	GBSRPartner1000Full GBSR = 0x0800 // Link partner 1000BASE-T full-duplex capable
)

// Common returns the gigabit modes both ends advertise.
func (s GBSR) Common(ctl GBCR) LinkMode {
	common := GBCR(s>>2) & ctl
	switch {
	case common&GBCR1000Full != 0:
		return Link1000FDX
	case common&GBCR1000Half != 0:
		return Link1000HDX
	}
	return LinkDown
}

// MMD access control function field, bits 15:14 of register 0x0d.
const (
	mmdFuncAddr = 0x0000
	mmdFuncData = 0x4000
)

// LinkMode represents the negotiated/force-set Ethernet link speed and duplex mode.
//
// Naming convention:
//   - HDX: Half-duplex
//   - FDX: Full-duplex
//   - T4: 100BASE-T4 (legacy, four twisted pairs)
type LinkMode uint8

const (
	LinkDown    LinkMode = iota // down
	Link10HDX                   // 10M-H
	Link10FDX                   // 10M-F
	Link100HDX                  // 100M-H
	Link100FDX                  // 100M-F
	Link100T4                   // 100M-T4
	Link1000HDX                 // 1000M-H
	Link1000FDX                 // 1000M-F
)

func (lm LinkMode) String() string {
	switch lm {
	case Link10HDX:
		return "10M-H"
	case Link10FDX:
		return "10M-F"
	case Link100HDX:
		return "100M-H"
	case Link100FDX:
		return "100M-F"
	case Link100T4:
		return "100M-T4"
	case Link1000HDX:
		return "1000M-H"
	case Link1000FDX:
		return "1000M-F"
	}
	return "down"
}

// SpeedMbps returns the link speed in megabits per second.
func (lm LinkMode) SpeedMbps() int {
	switch lm {
	case Link10HDX, Link10FDX:
		return 10
	case Link100HDX, Link100FDX, Link100T4:
		return 100
	case Link1000HDX, Link1000FDX:
		return 1000
	}
	return 0
}

// IsFullDuplex returns true if the link mode is full duplex.
func (lm LinkMode) IsFullDuplex() bool {
	return lm == Link10FDX || lm == Link100FDX || lm == Link1000FDX
}
