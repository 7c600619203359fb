package realtek

// Pages and page-select registers.
const (
	regPageSelect    = 0x1f
	regExtPageSelect = 0x1e // RTL8211E, valid while page 0x0007 is selected.
	pageDefault      = 0x0000
	pageExt          = 0x0007
)

// Interrupt registers.
const (
	regINER  = 0x12 // RTL821x interrupt enable.
	regINSR  = 0x13 // RTL821x interrupt status.
	regIER   = 0x13 // RTL8201F interrupt enable, page 0x0007.
	regISR   = 0x1e // RTL8201F interrupt status.
	regFINSR = 0x1d // RTL8211F interrupt status, page 0xa43.

	pageFINER = 0x0a42
	pageFINSR = 0x0a43

	inerRTL8211BInit  = 0x6400
	inerRTL8211ELink  = 1 << 10
	inerRTL8211FLink  = 1 << 4
	ierRTL8201FEnable = 1<<13 | 1<<12 | 1<<11
)

// PHY specific status register of RTL8211B/DN/E.
const (
	regPHYSR          = 0x11
	physrSpeedMask    = 0b11 << 14
	physrSpeed10      = 0b00 << 14
	physrSpeed100     = 0b01 << 14
	physrSpeed1000    = 0b10 << 14
	physrDuplex       = 1 << 13
	physrResolved     = 1 << 11
	physrLinkRealtime = 1 << 10
)

// LED registers.
const (
	extPageELED = 0x002c // RTL8211E extended page with LED control.
	regELACR    = 0x1a   // RTL8211E LED activity control.
	regELCR     = 0x1c   // RTL8211E LED control.

	pageFLED   = 0x0d04 // RTL8211F LED page.
	regFLCR    = 0x10   // RTL8211F LED control.
	regFEEELCR = 0x11   // RTL8211F EEE LED control.
)

// RTL8211E LED bits.
const (
	elacrLED0Act = 1 << 4
	elacrLED1Act = 1 << 5
	elacrLED2Act = 1 << 6

	elcrLED0Link10   = 1 << 0
	elcrLED0Link100  = 1 << 1
	elcrLED0Link1000 = 1 << 2
	elcrLED1Link10   = 1 << 4
	elcrLED1Link100  = 1 << 5
	elcrLED1Link1000 = 1 << 6
	elcrLED2Link10   = 1 << 8
	elcrLED2Link100  = 1 << 9
	elcrLED2Link1000 = 1 << 10
)

// RTL8211F LED bits.
const (
	flcrLED0Link10   = 1 << 0
	flcrLED0Link100  = 1 << 1
	flcrLED0Link1000 = 1 << 3
	flcrLED0Act      = 1 << 4
	flcrLED1Link10   = 1 << 5
	flcrLED1Link100  = 1 << 6
	flcrLED1Link1000 = 1 << 8
	flcrLED1Act      = 1 << 9
	flcrLED2Link10   = 1 << 10
	flcrLED2Link100  = 1 << 11
	flcrLED2Link1000 = 1 << 13
	flcrLED2Act      = 1 << 14

	feeelcrLED0 = 1 << 1
	feeelcrLED1 = 1 << 2
	feeelcrLED2 = 1 << 3
)

// RGMII timing and power registers.
const (
	pageFMACMode = 0x0d08
	regFTXDelay  = 0x11
	fTXDelay     = 1 << 8 // RTL8211F TX clock delay enable.

	bPowerDownAssist = 1 << 9 // RTL8211B, written to the MMD data register around suspend.
)
