// Package cartridge implements NES cartridge ROM loading and memory mappers.
//
// NES cartridges contain PRG-ROM (program code for CPU) and CHR-ROM/RAM
// (graphics data for PPU). Different cartridges use different mapper chips
// to extend the NES's memory space through bank switching.
package cartridge

import (
	"errors"
	"fmt"
)

// ErrBadMagic is returned when a ROM's header does not start with the
// iNES magic bytes "NES\x1a".
var ErrBadMagic = errors.New("cartridge: not an iNES ROM (bad magic)")

// ErrUnsupportedMapper is returned when a ROM names a mapper number
// this package has no implementation for.
var ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper")

// NewMapperByID constructs a mapper directly from raw PRG/CHR banks
// and a mapper number, bypassing iNES header parsing entirely. This is
// a best-effort path for tools that already know a ROM's layout (test
// fixtures, mapper inspection utilities) rather than the normal
// LoadFromFile/LoadFromBytes flow. Unlike LoadFromBytes, which only
// trusts the mappers it knows how to round-trip through a full iNES
// header, this covers every mapper this package implements.
func NewMapperByID(mapperID uint8, prgROM, chrROM []byte, mirroring Mirroring) (Mapper, error) {
	switch mapperID {
	case 0:
		return NewMapper0(prgROM, chrROM, mirroring), nil
	case 1:
		return NewMapper1(prgROM, chrROM, mirroring), nil
	case 2:
		return NewMapper2(prgROM, chrROM, mirroring), nil
	case 3:
		return NewMapper3(prgROM, chrROM, mirroring), nil
	case 4:
		return NewMapper4(prgROM, chrROM, mirroring), nil
	case 7:
		return NewMapper7(prgROM, chrROM, mirroring), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, mapperID)
	}
}

// Mapper defines the interface for NES cartridge mappers
//
// Mappers handle the translation between CPU/PPU addresses and actual
// ROM/RAM locations. Different mapper numbers implement different
// bank switching schemes.
type Mapper interface {
	// ReadPRG reads a byte from PRG-ROM/RAM (CPU address space $8000-$FFFF)
	ReadPRG(addr uint16) uint8

	// WritePRG writes a byte to PRG-RAM or triggers mapper control (CPU address space $6000-$FFFF)
	WritePRG(addr uint16, value uint8)

	// ReadCHR reads a byte from CHR-ROM/RAM (PPU address space $0000-$1FFF)
	ReadCHR(addr uint16) uint8

	// WriteCHR writes a byte to CHR-RAM (PPU address space $0000-$1FFF)
	// CHR-ROM is read-only; writes may be ignored or used for mapper control
	WriteCHR(addr uint16, value uint8)

	// Scanline is called by the PPU on each scanline (for IRQ timing)
	Scanline()

	// GetMirroring returns the current nametable mirroring mode
	GetMirroring() Mirroring
}
