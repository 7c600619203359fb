//go:build linux && !baremetal

package mdio

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/soypat/rtlphy"
)

var _ Bus = (*MII)(nil)

// mdioPHYIDC45 flags a Clause 45 phy_id in struct mii_ioctl_data.
const mdioPHYIDC45 = 0x8000

// MII accesses the PHYs attached to a Linux network interface through the
// SIOCGMIIREG/SIOCSMIIREG ioctls of the MAC driver.
type MII struct {
	fd   int // AF_INET datagram socket used only as an ioctl handle.
	name string
}

// OpenMII returns an MDIO bus bound to the MAC behind the named interface.
func OpenMII(ifname string) (*MII, error) {
	if len(ifname) == 0 || len(ifname) >= unix.IFNAMSIZ {
		return nil, fmt.Errorf("interface name %q: %w", ifname, rtlphy.ErrInvalidConfig)
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("mii socket open: %w", err)
	}
	return &MII{fd: fd, name: ifname}, nil
}

// Name returns the network interface name the bus is bound to.
func (m *MII) Name() string { return m.name }

// PHYAddr returns the address of the PHY the MAC driver is attached to.
func (m *MII) PHYAddr() (uint8, error) {
	req := makemiireq(m.name)
	err := ioctl(m.fd, unix.SIOCGMIIPHY, req.ptr())
	if err != nil {
		return 0, err
	}
	return uint8(req.data.phyID & MaxPHYAddr), nil
}

func (m *MII) Read(phyAddr, devAddr uint8, regAddr uint16) (uint16, error) {
	req := makemiireq(m.name)
	req.data.phyID = miiPHYID(phyAddr, devAddr)
	req.data.regNum = regAddr
	err := ioctl(m.fd, unix.SIOCGMIIREG, req.ptr())
	if err != nil {
		return 0xffff, err
	}
	return req.data.valOut, nil
}

func (m *MII) Write(phyAddr, devAddr uint8, regAddr, value uint16) error {
	req := makemiireq(m.name)
	req.data.phyID = miiPHYID(phyAddr, devAddr)
	req.data.regNum = regAddr
	req.data.valIn = value
	return ioctl(m.fd, unix.SIOCSMIIREG, req.ptr())
}

func (m *MII) Close() error {
	if m.fd < 0 {
		return os.ErrClosed
	}
	err := unix.Close(m.fd)
	m.fd = -1
	return err
}

func miiPHYID(phyAddr, devAddr uint8) uint16 {
	if devAddr == 0 {
		return uint16(phyAddr)
	}
	return mdioPHYIDC45 | uint16(phyAddr&MaxPHYAddr)<<5 | uint16(devAddr&0x1f)
}

func ioctl(fd int, request uintptr, argp unsafe.Pointer) error {
	if fd < 0 {
		return os.ErrClosed
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), request, uintptr(argp))
	if errno != 0 {
		if errors.Is(errno, unix.EOPNOTSUPP) {
			return fmt.Errorf("ioctl: %w", rtlphy.ErrUnsupported)
		}
		return os.NewSyscallError("ioctl", errno)
	}
	return nil
}

// miiData mirrors struct mii_ioctl_data from linux/mii.h.
type miiData struct {
	phyID  uint16
	regNum uint16
	valIn  uint16
	valOut uint16
}

// miireq mirrors struct ifreq with the mii_ioctl_data union member.
type miireq struct {
	name [unix.IFNAMSIZ]byte
	data miiData
	_    [24 - unsafe.Sizeof(miiData{})]byte
}

func makemiireq(name string) miireq {
	var req miireq
	copy(req.name[:], name)
	return req
}

func (req *miireq) ptr() unsafe.Pointer { return unsafe.Pointer(req) }
