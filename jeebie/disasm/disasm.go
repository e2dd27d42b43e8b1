// Package disasm renders decoded instructions as text, for interactive
// debugging in the terminal viewer. It reads the same
// data-driven tables the executor decodes from, rather than keeping a
// separate set of format strings in sync by hand.
package disasm

import (
	"fmt"

	"github.com/rtrembecki/dmgcore/jeebie/cpu"
)

// MemReader is the minimal interface needed to fetch immediate bytes
// following an opcode.
type MemReader interface {
	Read(address uint16) byte
}

// Line is one disassembled instruction.
type Line struct {
	Address uint16
	Text    string
	Length  int
}

var regNames = map[cpu.RegName]string{
	cpu.RegA: "A", cpu.RegB: "B", cpu.RegC: "C", cpu.RegD: "D",
	cpu.RegE: "E", cpu.RegH: "H", cpu.RegL: "L",
	cpu.RegAF: "AF", cpu.RegBC: "BC", cpu.RegDE: "DE", cpu.RegHL: "HL", cpu.RegSP: "SP",
}

var condNames = map[cpu.Condition]string{
	cpu.CondZ: "Z,", cpu.CondNZ: "NZ,", cpu.CondC: "C,", cpu.CondNC: "NC,",
}

// At disassembles the instruction at pc.
func At(pc uint16, mem MemReader) Line {
	opcode := mem.Read(pc)

	if opcode == 0xCB {
		sub := mem.Read(pc + 1)
		return Line{Address: pc, Text: formatCB(cpu.LookupCB(sub)), Length: 2}
	}

	instr := cpu.Lookup(opcode)
	length := instr.Length()
	text := formatBase(instr, pc, mem)
	return Line{Address: pc, Text: text, Length: length}
}

// Range disassembles count instructions starting at startPC.
func Range(startPC uint16, count int, mem MemReader) []Line {
	lines := make([]Line, 0, count)
	pc := startPC
	for i := 0; i < count; i++ {
		line := At(pc, mem)
		lines = append(lines, line)
		pc += uint16(line.Length)
	}
	return lines
}

func operandText(op cpu.Operand, pc uint16, mem MemReader) string {
	switch op.Kind {
	case cpu.OperNone:
		return ""
	case cpu.OperRegister:
		return regNames[op.Reg]
	case cpu.OperIndirect:
		if op.Reg == cpu.RegC {
			return "(C)"
		}
		return "(" + regNames[op.Reg] + ")"
	case cpu.OperIndirectHLInc:
		return "(HL+)"
	case cpu.OperIndirectHLDec:
		return "(HL-)"
	case cpu.OperD8:
		return fmt.Sprintf("$%02X", mem.Read(pc+1))
	case cpu.OperR8:
		return fmt.Sprintf("%d", int8(mem.Read(pc+1)))
	case cpu.OperA8Indirect:
		return fmt.Sprintf("($FF00+$%02X)", mem.Read(pc+1))
	case cpu.OperD16:
		return fmt.Sprintf("$%04X", imm16(pc, mem))
	case cpu.OperA16:
		return fmt.Sprintf("$%04X", imm16(pc, mem))
	case cpu.OperA16Indirect:
		return fmt.Sprintf("($%04X)", imm16(pc, mem))
	case cpu.OperSpPlusR8:
		return fmt.Sprintf("SP%+d", int8(mem.Read(pc+1)))
	default:
		return "?"
	}
}

func imm16(pc uint16, mem MemReader) uint16 {
	return uint16(mem.Read(pc+2))<<8 | uint16(mem.Read(pc+1))
}

func formatBase(instr cpu.Instruction, pc uint16, mem MemReader) string {
	mnemonic := baseMnemonic(instr)
	cond := condNames[instr.Cond]

	op1 := operandText(instr.Op1, pc, mem)
	op2 := operandText(instr.Op2, pc, mem)

	switch {
	case op1 == "" && op2 == "" && cond == "":
		return mnemonic
	case op2 == "":
		return fmt.Sprintf("%s %s%s", mnemonic, cond, op1)
	default:
		return fmt.Sprintf("%s %s%s,%s", mnemonic, cond, op1, op2)
	}
}

func baseMnemonic(instr cpu.Instruction) string {
	switch instr.Type {
	case cpu.TypeRST:
		return fmt.Sprintf("RST $%02X", instr.Param)
	case cpu.TypeJPHL:
		return "JP (HL)"
	default:
		return instr.Mnemonic
	}
}

func formatCB(instr cpu.CBInstruction) string {
	reg := regNames[instr.Operand.Reg]
	if instr.Operand.Kind == cpu.OperIndirect {
		reg = "(HL)"
	}
	switch instr.Class {
	case cpu.CBClassBIT, cpu.CBClassRES, cpu.CBClassSET:
		return fmt.Sprintf("%s %d,%s", instr.Mnemonic, instr.Bit, reg)
	default:
		return fmt.Sprintf("%s %s", instr.Mnemonic, reg)
	}
}
