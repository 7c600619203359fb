package realtek

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/soypat/rtlphy"
	"github.com/soypat/rtlphy/internal"
)

// LEDConfig is a board specific LED setup. Control is the LED control
// register. Aux is the EEE LED control register on RTL8211F and the LED
// activity control register on RTL8211E. The zero value keeps hardware defaults.
type LEDConfig struct {
	Control uint16
	Aux     uint16
}

// IsZero reports whether the configuration leaves LEDs untouched.
func (c LEDConfig) IsZero() bool { return c.Control == 0 && c.Aux == 0 }

type boardLED struct {
	model  string // Prefix of the device tree model.
	family Family
	cfg    LEDConfig
}

var boardLEDs = [...]boardLED{
	{
		// LED0 green activity, LED1 green link 1000, LED2 orange link 100.
		model:  "Rockchip RK3288 Tinker Board",
		family: FamilyRTL8211E,
		cfg: LEDConfig{
			Control: elcrLED0Link10 | elcrLED0Link100 | elcrLED0Link1000 | elcrLED1Link1000 | elcrLED2Link100,
			Aux:     elacrLED0Act,
		},
	},
	{
		// LED0 unused, LED1 green link and activity, LED2 orange link 1000.
		model:  "Pine64 Rock64",
		family: FamilyRTL8211F,
		cfg: LEDConfig{
			Control: flcrLED1Link10 | flcrLED1Link100 | flcrLED1Link1000 | flcrLED1Act | flcrLED2Link1000,
			Aux:     feeelcrLED0 | feeelcrLED1 | feeelcrLED2,
		},
	},
}

// LookupLED returns the LED configuration for a board model and PHY family.
// Models match by prefix. Unknown boards get the zero configuration.
func LookupLED(family Family, model string) LEDConfig {
	for i := range boardLEDs {
		b := &boardLEDs[i]
		if b.family == family && strings.HasPrefix(model, b.model) {
			return b.cfg
		}
	}
	return LEDConfig{}
}

func (f Family) hasLED() bool {
	return f == FamilyRTL8211E || f == FamilyRTL8211F
}

// setupLED resolves the board LED configuration on first use and writes it
// to the LED page. No register is written when the configuration is zero.
func (p *PHY) setupLED() error {
	if !p.ledDone {
		p.led = p.resolveLED()
		p.ledDone = true
	}
	cfg := p.led
	if cfg.IsZero() {
		return nil
	}
	p.log.debug("rtl:led", internal.SlogReg("ctl", cfg.Control), internal.SlogReg("aux", cfg.Aux))
	switch p.profile.Family {
	case FamilyRTL8211E:
		return p.withExtPage(extPageELED, func() error {
			if err := p.dev.Write(regELCR, cfg.Control); err != nil {
				return err
			}
			return p.dev.Write(regELACR, cfg.Aux)
		})
	case FamilyRTL8211F:
		return p.withPage(pageFLED, func() error {
			if err := p.dev.Write(regFLCR, cfg.Control); err != nil {
				return err
			}
			return p.dev.Write(regFEEELCR, cfg.Aux)
		})
	}
	return rtlphy.ErrUnsupported
}

func (p *PHY) resolveLED() LEDConfig {
	if p.platform == nil {
		return LEDConfig{}
	}
	model, err := p.platform.PlatformName()
	if err != nil {
		if !errors.Is(err, rtlphy.ErrUnavailable) {
			p.log.debug("rtl:platform", slog.String("err", err.Error()))
		}
		return LEDConfig{}
	}
	cfg := LookupLED(p.profile.Family, model)
	if !cfg.IsZero() {
		p.log.info("rtl:led-board", slog.String("model", model))
	}
	return cfg
}
