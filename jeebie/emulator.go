// Package jeebie ties the CPU, bus, and cartridge together into a runnable
// DMG core: load a ROM, step it, and inspect its debug-visible state.
package jeebie

import (
	"fmt"
	"log/slog"

	"github.com/rtrembecki/dmgcore/jeebie/bus"
	"github.com/rtrembecki/dmgcore/jeebie/cartridge"
	"github.com/rtrembecki/dmgcore/jeebie/cpu"
)

// Emulator is the complete core: one CPU driving one bus. There is no
// concurrency here — Step runs one instruction to completion and returns.
type Emulator struct {
	cpu *cpu.CPU
	bus *bus.Bus
	cart *cartridge.Cartridge

	logger *slog.Logger
}

// New constructs an emulator from a pre-loaded ROM image. The ROM must be a
// multiple of 32 KiB; only cartridge type 0x00 (ROM-only) is supported.
func New(rom []byte) (*Emulator, error) {
	cart, err := cartridge.Load(rom)
	if err != nil {
		return nil, fmt.Errorf("jeebie: loading cartridge: %w", err)
	}

	logger := slog.Default()
	if !cart.Header.ChecksumOK {
		logger.Warn("cartridge header checksum mismatch", "title", cart.Header.Title)
	}

	b := bus.New(cart)
	e := &Emulator{
		cpu:    cpu.New(b),
		bus:    b,
		cart:   cart,
		logger: logger,
	}
	return e, nil
}

// Step runs one instruction (or one HALT idle cycle) and returns the
// machine cycles spent.
func (e *Emulator) Step() int {
	return e.cpu.Step()
}

// RunCycles steps the emulator until at least the given number of machine
// cycles have elapsed, returning the actual count (always >= budget unless
// the loop would never terminate, which callers avoid by sizing budget
// generously).
func (e *Emulator) RunCycles(budget int) int {
	spent := 0
	for spent < budget {
		spent += e.Step()
	}
	return spent
}

// SerialOutput returns the bytes accumulated on the debug serial port so
// far, in transfer order.
func (e *Emulator) SerialOutput() []byte {
	return e.bus.Serial().Buffer()
}

// VRAMSnapshot returns a copy of the 8 KiB video RAM.
func (e *Emulator) VRAMSnapshot() []byte {
	return e.bus.VRAM().Snapshot()
}

// OAMSnapshot returns a copy of the 160-byte sprite attribute table.
func (e *Emulator) OAMSnapshot() []byte {
	return e.bus.OAM().Snapshot()
}

// Peek reads an address without advancing any machine state, for debug
// tooling (disassembly, memory viewers).
func (e *Emulator) Peek(address uint16) byte {
	return e.bus.Peek(address)
}

// CPU exposes the underlying CPU for debugging and test assertions.
func (e *Emulator) CPU() *cpu.CPU { return e.cpu }

// Cartridge exposes the loaded cartridge's parsed header.
func (e *Emulator) Cartridge() *cartridge.Cartridge { return e.cart }
