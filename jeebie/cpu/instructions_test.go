package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPU_INC_boundary(t *testing.T) {
	c, bus := newTestCPU()
	c.loadProgram(bus, 0x0100, 0x3C) // INC A
	c.reg.a.set(0xFF)

	c.Step()

	assert.Equal(t, uint8(0x00), c.reg.get8(RegA))
	assert.True(t, c.reg.flag(flagZ))
	assert.True(t, c.reg.flag(flagH))
}

func TestCPU_DEC_boundary(t *testing.T) {
	c, bus := newTestCPU()
	c.loadProgram(bus, 0x0100, 0x3D) // DEC A
	c.reg.a.set(0x00)

	c.Step()

	assert.Equal(t, uint8(0xFF), c.reg.get8(RegA))
	assert.False(t, c.reg.flag(flagZ))
	assert.True(t, c.reg.flag(flagH))
}

func TestCPU_ADD_overflow(t *testing.T) {
	c, bus := newTestCPU()
	c.reg.a.set(0xFF)
	c.reg.b.set(0x01)
	c.loadProgram(bus, 0x0100, 0x80) // ADD A,B

	c.Step()

	assert.Equal(t, uint8(0x00), c.reg.get8(RegA))
	assert.True(t, c.reg.flag(flagZ))
	assert.True(t, c.reg.flag(flagH))
	assert.True(t, c.reg.flag(flagC))
}

func TestCPU_pushPop_roundTrip(t *testing.T) {
	c, bus := newTestCPU()
	c.reg.SetSP(0xFFFE)
	c.reg.SetBC(0x1234)

	c.loadProgram(bus, 0x0100, 0xC5, 0xD1) // PUSH BC; POP DE
	c.Step()
	c.Step()

	assert.Equal(t, uint16(0x1234), c.reg.DE())
	assert.Equal(t, uint16(0xFFFE), c.reg.SP())
}

func TestCPU_popAF_masksLowNibble(t *testing.T) {
	c, bus := newTestCPU()
	c.reg.SetSP(0xFFFC)
	bus.Write(0xFFFC, 0xFF) // low byte of popped AF (F)
	bus.Write(0xFFFD, 0x12) // high byte (A)

	c.loadProgram(bus, 0x0100, 0xF1) // POP AF
	c.Step()

	assert.Equal(t, uint16(0x12F0), c.reg.AF())
}

func TestCB_SWAP_isInvolution(t *testing.T) {
	c, bus := newTestCPU()
	c.reg.a.set(0x4F)

	c.loadProgram(bus, 0x0100, 0xCB, 0x37, 0xCB, 0x37) // SWAP A; SWAP A
	c.Step()
	afterFirst := c.reg.get8(RegA)
	c.Step()

	assert.NotEqual(t, uint8(0x4F), afterFirst)
	assert.Equal(t, uint8(0x4F), c.reg.get8(RegA))
}

func TestCB_RLC_then_RRC_roundTrip(t *testing.T) {
	c, bus := newTestCPU()
	c.reg.a.set(0x85)

	c.loadProgram(bus, 0x0100, 0xCB, 0x07, 0xCB, 0x0F) // RLC A; RRC A
	c.Step()
	c.Step()

	assert.Equal(t, uint8(0x85), c.reg.get8(RegA))
}

func TestCPU_EI_delaysInterruptByOneInstruction(t *testing.T) {
	c, bus := newTestCPU()
	bus.ie = 0x01
	bus.ifr = 0x01

	// DI; EI; NOP; JP $0102 (self-loop on the NOP's address)
	c.loadProgram(bus, 0x0100, 0xF3, 0xFB, 0x00, 0xC3, 0x02, 0x01)

	c.Step() // DI
	c.Step() // EI: IME not yet active
	assert.False(t, c.ime)
	assert.Equal(t, uint16(0x0102), c.reg.PC())

	c.Step() // NOP completes; IME becomes true and dispatch fires, clearing it again
	assert.Equal(t, uint16(0x40), c.reg.PC())
	assert.False(t, c.ime)
}

func TestCPU_interruptPriority_lowestBitWins(t *testing.T) {
	c, bus := newTestCPU()
	bus.ie = 0x07
	bus.ifr = 0x06 // LCDStat and Timer both pending; Timer (bit2) should not win over LCDStat (bit1)
	c.ime = true

	c.loadProgram(bus, 0x0100, 0x00)
	c.Step()

	assert.Equal(t, uint16(0x48), c.reg.PC()) // LCD-STAT vector
	assert.Equal(t, byte(0x04), bus.ifr)      // Timer bit left pending
}

func TestCPU_unknownOpcode_panics(t *testing.T) {
	c, bus := newTestCPU()
	c.loadProgram(bus, 0x0100, 0xD3) // illegal opcode

	assert.Panics(t, func() { c.Step() })
}
