// Package platform identifies the board the program runs on by its device
// tree model string, for board specific PHY configuration.
package platform

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/platinasystems/fdt"

	"github.com/soypat/rtlphy"
)

// Provider returns the board model name. Implementations wrap
// [rtlphy.ErrUnavailable] when the model cannot be determined.
type Provider interface {
	PlatformName() (string, error)
}

const (
	// DefaultFDTPath is where Linux exposes the flattened device tree it booted with.
	DefaultFDTPath = "/sys/firmware/fdt"
	// DefaultModelPath is the root model property in the unflattened device tree.
	DefaultModelPath = "/proc/device-tree/model"
)

// Default returns the provider used on Linux boards: the flattened device
// tree first, then the model file.
func Default() Provider {
	return Chain{FDT{}, ModelFile{}}
}

// Static is a fixed board model. The empty string is unavailable.
type Static string

func (s Static) PlatformName() (string, error) {
	if s == "" {
		return "", rtlphy.ErrUnavailable
	}
	return string(s), nil
}

// FDT reads the root model property out of a flattened device tree blob.
type FDT struct {
	// Path of the blob. Empty means DefaultFDTPath.
	Path string
}

func (f FDT) PlatformName() (string, error) {
	path := f.Path
	if path == "" {
		path = DefaultFDTPath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", rtlphy.ErrUnavailable, err)
	}
	t, err := parseTree(b)
	if err != nil {
		return "", err
	}
	return treeModel(t)
}

const fdtMagic = 0xd00dfeed

func parseTree(b []byte) (t *fdt.Tree, err error) {
	if len(b) < 40 || binary.BigEndian.Uint32(b) != fdtMagic {
		return nil, fmt.Errorf("%w: not a device tree blob", rtlphy.ErrUnavailable)
	}
	// The parser panics on truncated blobs.
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("%w: bad device tree blob: %v", rtlphy.ErrUnavailable, r)
		}
	}()
	t = &fdt.Tree{Debug: false, IsLittleEndian: false}
	err = t.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", rtlphy.ErrUnavailable, err)
	}
	return t, nil
}

func treeModel(t *fdt.Tree) (string, error) {
	if t == nil || t.RootNode == nil {
		return "", fmt.Errorf("%w: device tree has no root node", rtlphy.ErrUnavailable)
	}
	prop, ok := t.RootNode.Properties["model"]
	if !ok {
		return "", fmt.Errorf("%w: device tree has no model", rtlphy.ErrUnavailable)
	}
	return modelString(prop)
}

// ModelFile reads the model from a file holding a NUL terminated string,
// such as /proc/device-tree/model.
type ModelFile struct {
	// Path of the model file. Empty means DefaultModelPath.
	Path string
}

func (m ModelFile) PlatformName() (string, error) {
	path := m.Path
	if path == "" {
		path = DefaultModelPath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", rtlphy.ErrUnavailable, err)
	}
	return modelString(b)
}

func modelString(b []byte) (string, error) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if len(b) == 0 {
		return "", fmt.Errorf("%w: empty model", rtlphy.ErrUnavailable)
	}
	return string(b), nil
}

// Chain returns the model of the first provider that succeeds.
type Chain []Provider

func (c Chain) PlatformName() (string, error) {
	var errs []error
	for _, p := range c {
		name, err := p.PlatformName()
		if err == nil {
			return name, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", rtlphy.ErrUnavailable
	}
	return "", errors.Join(errs...)
}
