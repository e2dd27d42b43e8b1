// Package cartridge loads a ROM image, parses its header, and services the
// two address windows real cartridge hardware owns: $0000-$7FFF (ROM) and
// $A000-$BFFF (external RAM). Only cartridge type 0x00 (ROM-only, ≤32 KiB)
// is supported — anything requiring a memory bank controller is rejected at
// load time, per the core's scope.
package cartridge

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	entryPointAddress     = 0x0100
	logoAddress           = 0x0104
	logoLength            = 48
	titleAddress          = 0x0134
	titleLength           = 11
	cgbFlagAddress        = 0x0143
	newLicenseeAddress    = 0x0144
	sgbFlagAddress        = 0x0146
	cartridgeTypeAddress  = 0x0147
	romSizeAddress        = 0x0148
	ramSizeAddress        = 0x0149
	destinationAddress    = 0x014A
	oldLicenseeAddress    = 0x014B
	maskROMVersionAddress = 0x014C
	headerChecksumAddress = 0x014D
	globalChecksumAddress = 0x014E

	romOnlyType = 0x00
	romBankSize = 0x8000 // fixed 32 KiB ROM-only mapping
)

// Header holds the parsed contents of the $0100-$014F cartridge header.
type Header struct {
	EntryPoint      [4]byte
	Logo            [logoLength]byte
	Title           string
	NewLicensee     [2]byte
	OldLicensee     byte
	SGBFlag         byte
	CGBFlag         byte
	CartridgeType   byte
	ROMSizeCode     byte
	RAMSizeCode     byte
	Destination     byte
	MaskROMVersion  byte
	HeaderChecksum  byte
	GlobalChecksum  uint16
	ChecksumOK      bool
}

// UnsupportedMapperError is returned at load time when the cartridge header
// names a mapper this core does not implement. It is a fatal, load-only
// error: the spec requires only ROM-only (type 0x00) to function.
type UnsupportedMapperError struct {
	CartridgeType byte
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("cartridge: unsupported mapper, cartridge type 0x%02X", e.CartridgeType)
}

// Cartridge is a loaded ROM-only cartridge image.
type Cartridge struct {
	data   []byte
	Header Header
}

// New creates an empty, unloaded cartridge — equivalent to a Game Boy with
// nothing inserted. Reads return 0xFF, as they would through a disconnected
// bus.
func New() *Cartridge {
	return &Cartridge{data: nil}
}

// Load parses a ROM image and returns a Cartridge ready to be mapped onto
// the bus. The image must be a multiple of 32 KiB. A checksum mismatch is
// logged by the caller (BadCartridgeHeader is recoverable) but does not
// block loading; an unsupported cartridge type does.
func Load(rom []byte) (*Cartridge, error) {
	if len(rom) < romBankSize {
		return nil, fmt.Errorf("cartridge: ROM image too small: %d bytes", len(rom))
	}

	h := parseHeader(rom)
	if h.CartridgeType != romOnlyType {
		return nil, &UnsupportedMapperError{CartridgeType: h.CartridgeType}
	}

	data := make([]byte, len(rom))
	copy(data, rom)

	return &Cartridge{data: data, Header: h}, nil
}

func parseHeader(rom []byte) Header {
	var h Header
	copy(h.EntryPoint[:], rom[entryPointAddress:entryPointAddress+4])
	copy(h.Logo[:], rom[logoAddress:logoAddress+logoLength])
	h.Title = cleanTitle(rom[titleAddress : titleAddress+titleLength])
	copy(h.NewLicensee[:], rom[newLicenseeAddress:newLicenseeAddress+2])
	h.OldLicensee = rom[oldLicenseeAddress]
	h.SGBFlag = rom[sgbFlagAddress]
	h.CGBFlag = rom[cgbFlagAddress]
	h.CartridgeType = rom[cartridgeTypeAddress]
	h.ROMSizeCode = rom[romSizeAddress]
	h.RAMSizeCode = rom[ramSizeAddress]
	h.Destination = rom[destinationAddress]
	h.MaskROMVersion = rom[maskROMVersionAddress]
	h.HeaderChecksum = rom[headerChecksumAddress]
	h.GlobalChecksum = uint16(rom[globalChecksumAddress])<<8 | uint16(rom[globalChecksumAddress+1])

	h.ChecksumOK = computeHeaderChecksum(rom) == h.HeaderChecksum
	return h
}

// computeHeaderChecksum implements the standard wrapping-subtraction
// checksum over bytes $0134..$014C.
func computeHeaderChecksum(rom []byte) byte {
	var sum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum
}

func cleanTitle(raw []byte) string {
	runes := make([]rune, 0, len(raw))
	for _, b := range raw {
		switch {
		case b == 0:
			continue
		case unicode.IsPrint(rune(b)):
			runes = append(runes, rune(b))
		}
	}
	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(untitled)"
	}
	return title
}

// ReadROM services $0000-$7FFF.
func (c *Cartridge) ReadROM(address uint16) byte {
	if c.data == nil || int(address) >= len(c.data) {
		return 0xFF
	}
	return c.data[address]
}

// WriteROM services writes to $0000-$7FFF. ROM-only cartridges have no
// registers, so writes are simply ignored.
func (c *Cartridge) WriteROM(address uint16, value byte) {}

// ReadExternalRAM services $A000-$BFFF. ROM-only cartridges have no
// external RAM; on real hardware the area floats. This core passes the
// address unchanged to ReadROM, so with a 32 KiB image every read here
// returns 0xFF; no ROM-only test ROM depends on reading it.
func (c *Cartridge) ReadExternalRAM(address uint16) byte {
	return c.ReadROM(address)
}

// WriteExternalRAM services writes to $A000-$BFFF; dropped, same reasoning
// as WriteROM.
func (c *Cartridge) WriteExternalRAM(address uint16, value byte) {}
