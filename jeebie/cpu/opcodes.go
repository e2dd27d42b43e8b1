package cpu

// OperandKind tags how an operand's value is fetched and, where
// applicable, where its result is written back.
type OperandKind int

const (
	OperNone OperandKind = iota
	OperRegister
	OperIndirect       // address in a 16-bit register pair, or $FF00|C
	OperIndirectHLInc  // (HL), then HL++
	OperIndirectHLDec  // (HL), then HL--
	OperA8Indirect     // $FF00 | imm8, LDH only
	OperA16            // 16-bit immediate, used as a literal value (JP/CALL target)
	OperA16Indirect    // 16-bit immediate, used as an address
	OperD8             // 8-bit immediate
	OperD16            // 16-bit immediate
	OperR8             // signed 8-bit immediate
	OperSpPlusR8       // SP + sign_extend(imm8)
)

// RegName names a register operand or the pair used as an indirect
// address. RegNone means "no register involved".
type RegName int

const (
	RegNone RegName = iota
	RegA
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
	RegAF
	RegBC
	RegDE
	RegHL
	RegSP
	RegPC
)

// Condition is a branch condition tested against the flag register.
type Condition int

const (
	CondNone Condition = iota
	CondZ
	CondNZ
	CondC
	CondNC
)

// InstrType is the operation an instruction performs, independent of its
// operands.
type InstrType int

const (
	TypeUnknown InstrType = iota
	TypeNOP
	TypeLD
	TypeLDH
	TypeINC
	TypeDEC
	TypeADD
	TypeADC
	TypeSUB
	TypeSBC
	TypeAND
	TypeXOR
	TypeOR
	TypeCP
	TypeJP
	TypeJR
	TypeCALL
	TypeRET
	TypeRETI
	TypeRST
	TypePUSH
	TypePOP
	TypeRLCA
	TypeRLA
	TypeRRCA
	TypeRRA
	TypeDAA
	TypeCPL
	TypeSCF
	TypeCCF
	TypeHALT
	TypeSTOP
	TypeDI
	TypeEI
	TypeJPHL
	TypeCB
)

// Operand describes one operand slot of an instruction.
type Operand struct {
	Kind OperandKind
	Reg  RegName
}

var none = Operand{Kind: OperNone}

func reg(r RegName) Operand      { return Operand{Kind: OperRegister, Reg: r} }
func indirect(r RegName) Operand { return Operand{Kind: OperIndirect, Reg: r} }

// Instruction is one entry of the 256-opcode base table.
type Instruction struct {
	Opcode   byte
	Mnemonic string
	Type     InstrType
	Op1, Op2 Operand
	Cond     Condition
	Param    uint8 // RST target
}

var baseTable [256]Instruction

var reg8ByIndex = [8]RegName{RegB, RegC, RegD, RegE, RegH, RegL, RegHL, RegA}
var reg16ByIndexSP = [4]RegName{RegBC, RegDE, RegHL, RegSP}
var reg16ByIndexAF = [4]RegName{RegBC, RegDE, RegHL, RegAF}
var condByIndex = [4]Condition{CondNZ, CondZ, CondNC, CondC}

// operandForIndex returns the Register or IndirectHL operand for the 3-bit
// register index used throughout the base and CB tables.
func operandForIndex(i int) Operand {
	r := reg8ByIndex[i]
	if r == RegHL {
		return indirect(RegHL)
	}
	return reg(r)
}

func setEntry(op byte, mnemonic string, t InstrType, op1, op2 Operand, cond Condition, param uint8) {
	baseTable[op] = Instruction{Opcode: op, Mnemonic: mnemonic, Type: t, Op1: op1, Op2: op2, Cond: cond, Param: param}
}

func init() {
	buildBaseTable()
	buildCBTable()
}

// buildBaseTable constructs the 256-entry base opcode table. Regular
// blocks (LD r,r'; the ALU-A,r grid; INC/DEC r; PUSH/POP/RST/CALL/JP/RET
// condition groups) are generated by looping over the 3-bit or 2-bit index
// fields; the remaining, irregular opcodes are set explicitly.
func buildBaseTable() {
	set := setEntry // local alias; the package-level name set is the flag tri-state

	set(0x00, "NOP", TypeNOP, none, none, CondNone, 0)
	set(0x10, "STOP", TypeSTOP, none, none, CondNone, 0)
	set(0x76, "HALT", TypeHALT, none, none, CondNone, 0)

	// 16-bit immediate loads and pair INC/DEC/ADD HL,rr.
	for i, r := range reg16ByIndexSP {
		op := byte(i) << 4
		set(op|0x01, "LD rr,d16", TypeLD, reg(r), Operand{Kind: OperD16}, CondNone, 0)
		set(op|0x03, "INC rr", TypeINC, reg(r), none, CondNone, 0)
		set(op|0x0B, "DEC rr", TypeDEC, reg(r), none, CondNone, 0)
		set(op|0x09, "ADD HL,rr", TypeADD, reg(RegHL), reg(r), CondNone, 0)
	}

	set(0x02, "LD (BC),A", TypeLD, indirect(RegBC), reg(RegA), CondNone, 0)
	set(0x12, "LD (DE),A", TypeLD, indirect(RegDE), reg(RegA), CondNone, 0)
	set(0x22, "LD (HL+),A", TypeLD, Operand{Kind: OperIndirectHLInc}, reg(RegA), CondNone, 0)
	set(0x32, "LD (HL-),A", TypeLD, Operand{Kind: OperIndirectHLDec}, reg(RegA), CondNone, 0)
	set(0x0A, "LD A,(BC)", TypeLD, reg(RegA), indirect(RegBC), CondNone, 0)
	set(0x1A, "LD A,(DE)", TypeLD, reg(RegA), indirect(RegDE), CondNone, 0)
	set(0x2A, "LD A,(HL+)", TypeLD, reg(RegA), Operand{Kind: OperIndirectHLInc}, CondNone, 0)
	set(0x3A, "LD A,(HL-)", TypeLD, reg(RegA), Operand{Kind: OperIndirectHLDec}, CondNone, 0)
	set(0x08, "LD (a16),SP", TypeLD, Operand{Kind: OperA16Indirect}, reg(RegSP), CondNone, 0)

	// INC/DEC r and LD r,d8 over the 8 register-index slots.
	for i := 0; i < 8; i++ {
		op1 := operandForIndex(i)
		base := byte(i) << 3
		set(base|0x04, "INC r", TypeINC, op1, none, CondNone, 0)
		set(base|0x05, "DEC r", TypeDEC, op1, none, CondNone, 0)
		set(base|0x06, "LD r,d8", TypeLD, op1, Operand{Kind: OperD8}, CondNone, 0)
	}

	set(0x07, "RLCA", TypeRLCA, none, none, CondNone, 0)
	set(0x0F, "RRCA", TypeRRCA, none, none, CondNone, 0)
	set(0x17, "RLA", TypeRLA, none, none, CondNone, 0)
	set(0x1F, "RRA", TypeRRA, none, none, CondNone, 0)
	set(0x27, "DAA", TypeDAA, none, none, CondNone, 0)
	set(0x2F, "CPL", TypeCPL, none, none, CondNone, 0)
	set(0x37, "SCF", TypeSCF, none, none, CondNone, 0)
	set(0x3F, "CCF", TypeCCF, none, none, CondNone, 0)

	set(0x18, "JR r8", TypeJR, Operand{Kind: OperR8}, none, CondNone, 0)
	for i, cond := range condByIndex {
		set(byte(0x20+i*8), "JR cc,r8", TypeJR, Operand{Kind: OperR8}, none, cond, 0)
	}

	// LD r,r' (0x40-0x7F), skipping 0x76 (HALT) already set above.
	for dst := 0; dst < 8; dst++ {
		for src := 0; src < 8; src++ {
			op := byte(0x40 + dst*8 + src)
			if op == 0x76 {
				continue
			}
			set(op, "LD r,r'", TypeLD, operandForIndex(dst), operandForIndex(src), CondNone, 0)
		}
	}

	// ALU A,r (0x80-0xBF): 8 groups of 8.
	aluTypes := [8]InstrType{TypeADD, TypeADC, TypeSUB, TypeSBC, TypeAND, TypeXOR, TypeOR, TypeCP}
	aluNames := [8]string{"ADD", "ADC", "SUB", "SBC", "AND", "XOR", "OR", "CP"}
	for g, t := range aluTypes {
		for i := 0; i < 8; i++ {
			op := byte(0x80 + g*8 + i)
			set(op, aluNames[g]+" A,r", t, reg(RegA), operandForIndex(i), CondNone, 0)
		}
	}

	for i, cond := range condByIndex {
		set(byte(0xC0+i*8), "RET cc", TypeRET, none, none, cond, 0)
		set(byte(0xC2+i*8), "JP cc,a16", TypeJP, Operand{Kind: OperA16}, none, cond, 0)
		set(byte(0xC4+i*8), "CALL cc,a16", TypeCALL, Operand{Kind: OperA16}, none, cond, 0)
	}
	set(0xC9, "RET", TypeRET, none, none, CondNone, 0)
	set(0xD9, "RETI", TypeRETI, none, none, CondNone, 0)
	set(0xC3, "JP a16", TypeJP, Operand{Kind: OperA16}, none, CondNone, 0)
	set(0xCD, "CALL a16", TypeCALL, Operand{Kind: OperA16}, none, CondNone, 0)
	set(0xE9, "JP (HL)", TypeJPHL, none, none, CondNone, 0)

	for i, r := range reg16ByIndexAF {
		set(byte(0xC1+i*0x10), "POP rr", TypePOP, reg(r), none, CondNone, 0)
		set(byte(0xC5+i*0x10), "PUSH rr", TypePUSH, reg(r), none, CondNone, 0)
	}

	for i := 0; i < 8; i++ {
		set(byte(0xC7+i*8), "RST n", TypeRST, none, none, CondNone, uint8(i*8))
	}

	aluImmTypes := [8]InstrType{TypeADD, TypeADC, TypeSUB, TypeSBC, TypeAND, TypeXOR, TypeOR, TypeCP}
	for i, t := range aluImmTypes {
		set(byte(0xC6+i*8), aluNames[i]+" A,d8", t, reg(RegA), Operand{Kind: OperD8}, CondNone, 0)
	}

	set(0xE0, "LDH (a8),A", TypeLDH, Operand{Kind: OperA8Indirect}, reg(RegA), CondNone, 0)
	set(0xF0, "LDH A,(a8)", TypeLDH, reg(RegA), Operand{Kind: OperA8Indirect}, CondNone, 0)
	set(0xE2, "LD (C),A", TypeLD, indirect(RegC), reg(RegA), CondNone, 0)
	set(0xF2, "LD A,(C)", TypeLD, reg(RegA), indirect(RegC), CondNone, 0)
	set(0xEA, "LD (a16),A", TypeLD, Operand{Kind: OperA16Indirect}, reg(RegA), CondNone, 0)
	set(0xFA, "LD A,(a16)", TypeLD, reg(RegA), Operand{Kind: OperA16Indirect}, CondNone, 0)
	set(0xE8, "ADD SP,r8", TypeADD, reg(RegSP), Operand{Kind: OperSpPlusR8}, CondNone, 0)
	set(0xF8, "LD HL,SP+r8", TypeLD, reg(RegHL), Operand{Kind: OperSpPlusR8}, CondNone, 0)
	set(0xF9, "LD SP,HL", TypeLD, reg(RegSP), reg(RegHL), CondNone, 0)
	set(0xF3, "DI", TypeDI, none, none, CondNone, 0)
	set(0xFB, "EI", TypeEI, none, none, CondNone, 0)
	set(0xCB, "CB", TypeCB, none, none, CondNone, 0)
}
