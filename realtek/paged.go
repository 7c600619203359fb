package realtek

import (
	"errors"
	"log/slog"

	"github.com/soypat/rtlphy"
	"github.com/soypat/rtlphy/internal"
)

// ReadPaged reads reg on page and restores the default page.
// Only RTL8201F and RTL8211F expose paged access; other families return [rtlphy.ErrUnsupported].
func (p *PHY) ReadPaged(page, reg uint16) (uint16, error) {
	if !p.profile.Family.pagedAccess() {
		return 0, rtlphy.ErrUnsupported
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readPaged(page, reg)
}

// WritePaged writes reg on page and restores the default page, also when the write fails.
func (p *PHY) WritePaged(page, reg, value uint16) error {
	if !p.profile.Family.pagedAccess() {
		return rtlphy.ErrUnsupported
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writePaged(page, reg, value)
}

// ModifyPaged performs a read-modify-write of reg on page, clearing mask and setting set.
func (p *PHY) ModifyPaged(page, reg, mask, set uint16) error {
	if !p.profile.Family.pagedAccess() {
		return rtlphy.ErrUnsupported
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modifyPaged(page, reg, mask, set)
}

func (p *PHY) readPaged(page, reg uint16) (v uint16, err error) {
	err = p.withPage(page, func() (err error) {
		v, err = p.dev.Read(reg)
		return err
	})
	return v, err
}

func (p *PHY) writePaged(page, reg, value uint16) error {
	return p.withPage(page, func() error {
		return p.dev.Write(reg, value)
	})
}

func (p *PHY) modifyPaged(page, reg, mask, set uint16) error {
	return p.withPage(page, func() error {
		return p.dev.Modify(reg, mask, set)
	})
}

// withPage selects page, runs fn and writes the default page back on every
// exit path. An error from selecting the page or from fn takes precedence
// over an error restoring the page.
func (p *PHY) withPage(page uint16, fn func() error) (err error) {
	defer p.restorePage(page, &err)
	p.log.trace("rtl:page-select", internal.SlogReg("page", page))
	err = p.dev.Write(regPageSelect, page)
	if err != nil {
		return err
	}
	return annotatePage(fn(), page, 0)
}

// withExtPage selects an RTL8211E extended page, which takes two steps:
// page 0x0007 on the page-select register and then ext on the extended page-select register.
func (p *PHY) withExtPage(ext uint16, fn func() error) (err error) {
	defer p.restorePage(ext, &err)
	p.log.trace("rtl:extpage-select", internal.SlogReg("ext", ext))
	err = p.dev.Write(regPageSelect, pageExt)
	if err != nil {
		return err
	}
	err = p.dev.Write(regExtPageSelect, ext)
	if err != nil {
		return annotatePage(err, pageExt, 0)
	}
	return annotatePage(fn(), pageExt, ext)
}

func (p *PHY) restorePage(page uint16, errp *error) {
	rerr := p.dev.Write(regPageSelect, pageDefault)
	if rerr == nil {
		return
	}
	p.log.error("rtl:page-restore", internal.SlogReg("page", page), slog.String("err", rerr.Error()))
	if *errp == nil {
		*errp = rerr
	}
}

// annotatePage records the page and extended page a failed transaction was issued on.
func annotatePage(err error, page, ext uint16) error {
	var be *rtlphy.BusError
	if errors.As(err, &be) && be.Page == 0 {
		be.Page = page
		be.Ext = ext
	}
	return err
}
