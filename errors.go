// Package rtlphy holds definitions shared by the Realtek PHY control packages:
// the error taxonomy returned by register access, profile resolution and
// platform identification.
package rtlphy

import (
	"strconv"
)

type errGeneric uint8

// Generic errors common to PHY control.
const (
	_                errGeneric = iota // non-initialized err
	ErrNotFound                        // no matching PHY profile
	ErrUnavailable                     // platform identity unavailable
	ErrUnsupported                     // operation not supported by PHY
	ErrInvalidConfig                   // invalid configuration
	ErrInvalidAddr                     // invalid MDIO address
)

func (err errGeneric) Error() string {
	return err.String()
}

func (err errGeneric) String() string {
	switch err {
	case ErrNotFound:
		return "no matching PHY profile"
	case ErrUnavailable:
		return "platform identity unavailable"
	case ErrUnsupported:
		return "operation not supported by PHY"
	case ErrInvalidConfig:
		return "invalid configuration"
	case ErrInvalidAddr:
		return "invalid MDIO address"
	}
	return "errGeneric(" + strconv.Itoa(int(err)) + ")"
}

// BusOp identifies the kind of register transaction that failed.
type BusOp uint8

const (
	OpRead  BusOp = iota + 1 // read
	OpWrite                  // write
)

func (op BusOp) String() string {
	switch op {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	}
	return "BusOp(" + strconv.Itoa(int(op)) + ")"
}

// BusError is returned when an MDIO transaction fails. The transport error is
// kept as-is and is reachable through [errors.Unwrap].
type BusError struct {
	Op   BusOp
	Page uint16 // Page selected on register 0x1f when the transaction was issued. 0 is the default page.
	Ext  uint16 // Extended page selected on register 0x1e while Page is 0x0007, 0 if none.
	Reg  uint16
	Err  error
}

func (be *BusError) Error() string {
	var buf [64]byte
	b := append(buf[:0], "mdio "...)
	b = append(b, be.Op.String()...)
	if be.Page != 0 {
		b = append(b, " page=0x"...)
		b = strconv.AppendUint(b, uint64(be.Page), 16)
	}
	if be.Ext != 0 {
		b = append(b, " ext=0x"...)
		b = strconv.AppendUint(b, uint64(be.Ext), 16)
	}
	b = append(b, " reg=0x"...)
	b = strconv.AppendUint(b, uint64(be.Reg), 16)
	if be.Err != nil {
		b = append(b, ": "...)
		b = append(b, be.Err.Error()...)
	}
	return string(b)
}

func (be *BusError) Unwrap() error { return be.Err }
