// Package bus implements the address decoder that routes every CPU memory
// access to the component that owns that range, and drives the timer and
// DMA engine inline with every access.
package bus

import (
	"log/slog"

	"github.com/rtrembecki/dmgcore/jeebie/addr"
	"github.com/rtrembecki/dmgcore/jeebie/cartridge"
	"github.com/rtrembecki/dmgcore/jeebie/dma"
	"github.com/rtrembecki/dmgcore/jeebie/ram"
	"github.com/rtrembecki/dmgcore/jeebie/serial"
	"github.com/rtrembecki/dmgcore/jeebie/timer"
	"github.com/rtrembecki/dmgcore/jeebie/video"
)

const (
	echoStart       = 0xE000
	echoEnd         = 0xFDFF
	echoOffset      = 0x2000 // distance from $C000-$DDFF on hardware; this bus reads echo as 0
	prohibitedStart = 0xFEA0
	prohibitedEnd   = 0xFEFF
	ioStart         = 0xFF00
	ioEnd           = 0xFF7F
)

// Bus wires the cartridge, RAM banks, video memory, timer, serial sink, and
// DMA engine onto the 16-bit address space the CPU sees.
type Bus struct {
	cart   *cartridge.Cartridge
	wram   *ram.WRAM
	hram   *ram.HRAM
	vram   *video.VRAM
	oam    *video.OAM
	timer  *timer.Timer
	serial *serial.LogSink
	dma    *dma.DMA

	ie byte
	ifr byte

	logger *slog.Logger
}

// New returns a bus with every component freshly constructed, wired to
// raise interrupts onto the shared IF register.
func New(cart *cartridge.Cartridge) *Bus {
	b := &Bus{
		cart:   cart,
		wram:   ram.NewWRAM(),
		hram:   ram.NewHRAM(),
		vram:   video.NewVRAM(),
		oam:    video.NewOAM(),
		timer:  timer.New(),
		dma:    dma.New(),
		logger: slog.Default(),
	}
	b.serial = serial.NewLogSink(func() { b.RequestInterrupt(addr.Serial) })
	b.timer.RequestInterrupt = func() { b.RequestInterrupt(addr.Timer) }
	return b
}

// RequestInterrupt sets the IF bit for the given interrupt source.
func (b *Bus) RequestInterrupt(i addr.Interrupt) {
	b.ifr |= byte(i)
}

func (b *Bus) IE() byte { return b.ie }

func (b *Bus) IF() byte { return b.ifr }

func (b *Bus) SetIF(value byte) { b.ifr = value }

// Serial exposes the debug serial sink for host inspection.
func (b *Bus) Serial() *serial.LogSink { return b.serial }

// VRAM exposes the video RAM for host snapshot access.
func (b *Bus) VRAM() *video.VRAM { return b.vram }

// OAM exposes the sprite attribute table for host snapshot access.
func (b *Bus) OAM() *video.OAM { return b.oam }

// Peek reads an address the way the CPU would, without ticking the timer
// or DMA engine. It exists for debug tooling (disassembly, memory viewers)
// that must not perturb machine state by looking at it.
func (b *Bus) Peek(address uint16) byte {
	return b.readRaw(address)
}

// Tick advances the timer and DMA engine by one machine cycle. Called by
// Read/Write for every memory access, and directly by the CPU for cycles
// spent with no memory access (HALT idle, internal ALU cycles).
func (b *Bus) Tick() {
	b.timer.Tick()
	b.dma.Tick(dmaSource{b}, b.oam)
}

// dmaSource lets the DMA engine read source bytes through the address
// decoder without re-triggering Bus.Tick (the enclosing Tick call already
// accounts for this machine cycle).
type dmaSource struct{ b *Bus }

func (d dmaSource) Read(address uint16) byte { return d.b.readRaw(address) }

// Read implements the full $0000-$FFFF routing table, ticking the timer
// and DMA engine once per access.
func (b *Bus) Read(address uint16) byte {
	v := b.readRaw(address)
	b.Tick()
	return v
}

func (b *Bus) readRaw(address uint16) byte {
	switch {
	case address <= 0x7FFF:
		return b.cart.ReadROM(address)
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		return b.vram.Read(address)
	case address >= 0xA000 && address <= 0xBFFF:
		return b.cart.ReadExternalRAM(address)
	case address >= 0xC000 && address <= 0xDFFF:
		return b.wram.Read(address)
	case address >= echoStart && address <= echoEnd:
		return 0
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		return b.oam.Read(address)
	case address >= prohibitedStart && address <= prohibitedEnd:
		return 0
	case address == addr.DMA:
		return b.dma.SourcePage()
	case address == addr.IF:
		return b.ifr
	case address >= ioStart && address <= ioEnd:
		return b.readIO(address)
	case address >= 0xFF80 && address <= 0xFFFE:
		return b.hram.Read(address)
	case address == addr.IE:
		return b.ie
	default:
		panic("bus: unmapped read address")
	}
}

func (b *Bus) readIO(address uint16) byte {
	switch address {
	case addr.SB, addr.SC:
		return b.serial.Read(address)
	case addr.DIV, addr.TIMA, addr.TMA, addr.TAC:
		return b.timer.Read(address)
	default:
		return 0xFF
	}
}

// Write implements the full $0000-$FFFF routing table, ticking the timer
// and DMA engine once per access.
func (b *Bus) Write(address uint16, value byte) {
	b.writeRaw(address, value)
	b.Tick()
}

func (b *Bus) writeRaw(address uint16, value byte) {
	switch {
	case address <= 0x7FFF:
		b.cart.WriteROM(address, value)
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		b.vram.Write(address, value)
	case address >= 0xA000 && address <= 0xBFFF:
		b.cart.WriteExternalRAM(address, value)
	case address >= 0xC000 && address <= 0xDFFF:
		b.wram.Write(address, value)
	case address >= echoStart && address <= echoEnd:
		// prohibited: writes dropped
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		b.oam.Write(address, value)
	case address >= prohibitedStart && address <= prohibitedEnd:
		// prohibited: writes dropped
	case address == addr.DMA:
		b.dma.Start(value, b.oam)
	case address == addr.IF:
		b.ifr = value
	case address >= ioStart && address <= ioEnd:
		b.writeIO(address, value)
	case address >= 0xFF80 && address <= 0xFFFE:
		b.hram.Write(address, value)
	case address == addr.IE:
		b.ie = value
	default:
		panic("bus: unmapped write address")
	}
}

func (b *Bus) writeIO(address uint16, value byte) {
	switch address {
	case addr.SB, addr.SC:
		b.serial.Write(address, value)
	case addr.DIV, addr.TIMA, addr.TMA, addr.TAC:
		b.timer.Write(address, value)
	default:
		// unimplemented IO register (LCDC/STAT/joypad/APU/etc.): write dropped
	}
}
