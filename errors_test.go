package rtlphy

import (
	"errors"
	"testing"
)

func TestBusErrorString(t *testing.T) {
	errBus := errors.New("timeout")
	tests := []struct {
		err  BusError
		want string
	}{
		{BusError{Op: OpRead, Reg: 0x01, Err: errBus}, "mdio read reg=0x1: timeout"},
		{BusError{Op: OpWrite, Page: 0xd08, Reg: 0x11, Err: errBus}, "mdio write page=0xd08 reg=0x11: timeout"},
		{BusError{Op: OpWrite, Page: 0x7, Ext: 0x2c, Reg: 0x1c}, "mdio write page=0x7 ext=0x2c reg=0x1c"},
	}
	for _, tc := range tests {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
	be := &BusError{Op: OpRead, Err: errBus}
	if !errors.Is(be, errBus) {
		t.Fatal("transport error not reachable through Unwrap")
	}
}

func TestErrGenericString(t *testing.T) {
	if ErrUnsupported.Error() != "operation not supported by PHY" {
		t.Errorf("got %q", ErrUnsupported.Error())
	}
	if s := errGeneric(200).String(); s != "errGeneric(200)" {
		t.Errorf("got %q", s)
	}
}
