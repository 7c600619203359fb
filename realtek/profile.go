package realtek

import (
	"strconv"

	"github.com/soypat/rtlphy"
	"github.com/soypat/rtlphy/phy"
)

// Family identifies a Realtek PHY register protocol. Every operation that
// differs between chips switches on Family.
type Family uint8

const (
	_               Family = iota
	FamilyRTL8201CP        // RTL8201CP
	FamilyRTL8201F         // RTL8201F
	FamilyRTL8211B         // RTL8211B
	FamilyRTL8211DN        // RTL8211DN
	FamilyRTL8211E         // RTL8211E
	FamilyRTL8211F         // RTL8211F
)

func (f Family) String() string {
	switch f {
	case FamilyRTL8201CP:
		return "RTL8201CP"
	case FamilyRTL8201F:
		return "RTL8201F"
	case FamilyRTL8211B:
		return "RTL8211B"
	case FamilyRTL8211DN:
		return "RTL8211DN"
	case FamilyRTL8211E:
		return "RTL8211E"
	case FamilyRTL8211F:
		return "RTL8211F"
	}
	return "Family(" + strconv.Itoa(int(f)) + ")"
}

// pagedAccess reports whether the family exposes the page-select register
// for general paged register access.
func (f Family) pagedAccess() bool {
	return f == FamilyRTL8201F || f == FamilyRTL8211F
}

// mmdUnsupported reports whether Clause 45 MMD access over Clause 22 must be refused.
func (f Family) mmdUnsupported() bool {
	return f == FamilyRTL8211B
}

// hasPHYSR reports whether register 0x11 holds the resolved speed/duplex status.
func (f Family) hasPHYSR() bool {
	return f == FamilyRTL8211B || f == FamilyRTL8211DN || f == FamilyRTL8211E
}

// ProfileFlags are capability flags of a Profile.
type ProfileFlags uint8

const (
	// FlagHasInterrupt marks PHYs with an interrupt line.
	FlagHasInterrupt ProfileFlags = 1 << iota
)

// Profile describes a PHY model or model family matched by identifier under mask.
// Profiles are values; the table they come from is never modified.
type Profile struct {
	ID       uint32
	Mask     uint32
	Name     string
	Family   Family
	Features phy.Features
	Flags    ProfileFlags
}

// Matches reports whether the PHY identifier id belongs to the profile.
func (p Profile) Matches(id uint32) bool {
	return id&p.Mask == p.ID&p.Mask
}

// HasInterrupt reports whether the PHY has an interrupt line.
func (p Profile) HasInterrupt() bool { return p.Flags&FlagHasInterrupt != 0 }

// Declaration order is match priority.
var profiles = [...]Profile{
	{
		ID:       0x00008201,
		Mask:     0x0000ffff,
		Name:     "RTL8201CP Ethernet",
		Family:   FamilyRTL8201CP,
		Features: phy.FeaturesBasic,
		Flags:    FlagHasInterrupt,
	},
	{
		ID:       0x001cc816,
		Mask:     0x001fffff,
		Name:     "RTL8201F 10/100Mbps Ethernet",
		Family:   FamilyRTL8201F,
		Features: phy.FeaturesBasic,
		Flags:    FlagHasInterrupt,
	},
	{
		ID:       0x001cc912,
		Mask:     0x001fffff,
		Name:     "RTL8211B Gigabit Ethernet",
		Family:   FamilyRTL8211B,
		Features: phy.FeaturesGigabit,
		Flags:    FlagHasInterrupt,
	},
	{
		ID:       0x001cc914,
		Mask:     0x001fffff,
		Name:     "RTL8211DN Gigabit Ethernet",
		Family:   FamilyRTL8211DN,
		Features: phy.FeaturesGigabit,
		Flags:    FlagHasInterrupt,
	},
	{
		ID:       0x001cc915,
		Mask:     0x001fffff,
		Name:     "RTL8211E Gigabit Ethernet",
		Family:   FamilyRTL8211E,
		Features: phy.FeaturesGigabit,
		Flags:    FlagHasInterrupt,
	},
	{
		ID:       0x001cc916,
		Mask:     0x001fffff,
		Name:     "RTL8211F Gigabit Ethernet",
		Family:   FamilyRTL8211F,
		Features: phy.FeaturesGigabit,
		Flags:    FlagHasInterrupt,
	},
}

// Resolve returns the first profile, in table order, matching the PHY identifier.
// It returns [rtlphy.ErrNotFound] if the PHY should not be bound by this package.
func Resolve(id uint32) (Profile, error) {
	for i := range profiles {
		if profiles[i].Matches(id) {
			return profiles[i], nil
		}
	}
	return Profile{}, rtlphy.ErrNotFound
}

// Profiles returns a copy of the profile table in match order.
func Profiles() []Profile {
	return append([]Profile(nil), profiles[:]...)
}
