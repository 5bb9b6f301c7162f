package cpu

// Instruction is one entry of the 256-slot opcode table: mnemonic tag
// (for diagnostics/tracing), addressing mode, base cycle count, and
// the handler that performs the operation and reports any extra
// cycles (branches taken/crossed). PagePenalty marks opcodes whose
// indexed addressing mode adds one cycle when the effective address
// crosses a page boundary; it has no effect on modes other than
// AbsoluteX/AbsoluteY/IndirectY.
type Instruction struct {
	Name        string
	Mode        AddressMode
	Cycles      int
	PagePenalty bool
	Illegal     bool
	Handler     func(*CPU, operand) int
}

var opcodeTable [256]Instruction

func set(opcode uint8, name string, mode AddressMode, cycles int, pagePenalty, illegal bool, handler func(*CPU, operand) int) {
	opcodeTable[opcode] = Instruction{
		Name:        name,
		Mode:        mode,
		Cycles:      cycles,
		PagePenalty: pagePenalty,
		Illegal:     illegal,
		Handler:     handler,
	}
}

func init() {
	// ADC
	set(0x69, "ADC", ModeImmediate, 2, false, false, opADC)
	set(0x65, "ADC", ModeZeroPage, 3, false, false, opADC)
	set(0x75, "ADC", ModeZeroPageX, 4, false, false, opADC)
	set(0x6D, "ADC", ModeAbsolute, 4, false, false, opADC)
	set(0x7D, "ADC", ModeAbsoluteX, 4, true, false, opADC)
	set(0x79, "ADC", ModeAbsoluteY, 4, true, false, opADC)
	set(0x61, "ADC", ModeIndirectX, 6, false, false, opADC)
	set(0x71, "ADC", ModeIndirectY, 5, true, false, opADC)

	// SBC (+ illegal duplicate 0xEB)
	set(0xE9, "SBC", ModeImmediate, 2, false, false, opSBC)
	set(0xEB, "SBC", ModeImmediate, 2, false, true, opSBC)
	set(0xE5, "SBC", ModeZeroPage, 3, false, false, opSBC)
	set(0xF5, "SBC", ModeZeroPageX, 4, false, false, opSBC)
	set(0xED, "SBC", ModeAbsolute, 4, false, false, opSBC)
	set(0xFD, "SBC", ModeAbsoluteX, 4, true, false, opSBC)
	set(0xF9, "SBC", ModeAbsoluteY, 4, true, false, opSBC)
	set(0xE1, "SBC", ModeIndirectX, 6, false, false, opSBC)
	set(0xF1, "SBC", ModeIndirectY, 5, true, false, opSBC)

	// AND
	set(0x29, "AND", ModeImmediate, 2, false, false, opAND)
	set(0x25, "AND", ModeZeroPage, 3, false, false, opAND)
	set(0x35, "AND", ModeZeroPageX, 4, false, false, opAND)
	set(0x2D, "AND", ModeAbsolute, 4, false, false, opAND)
	set(0x3D, "AND", ModeAbsoluteX, 4, true, false, opAND)
	set(0x39, "AND", ModeAbsoluteY, 4, true, false, opAND)
	set(0x21, "AND", ModeIndirectX, 6, false, false, opAND)
	set(0x31, "AND", ModeIndirectY, 5, true, false, opAND)

	// ORA
	set(0x09, "ORA", ModeImmediate, 2, false, false, opORA)
	set(0x05, "ORA", ModeZeroPage, 3, false, false, opORA)
	set(0x15, "ORA", ModeZeroPageX, 4, false, false, opORA)
	set(0x0D, "ORA", ModeAbsolute, 4, false, false, opORA)
	set(0x1D, "ORA", ModeAbsoluteX, 4, true, false, opORA)
	set(0x19, "ORA", ModeAbsoluteY, 4, true, false, opORA)
	set(0x01, "ORA", ModeIndirectX, 6, false, false, opORA)
	set(0x11, "ORA", ModeIndirectY, 5, true, false, opORA)

	// EOR
	set(0x49, "EOR", ModeImmediate, 2, false, false, opEOR)
	set(0x45, "EOR", ModeZeroPage, 3, false, false, opEOR)
	set(0x55, "EOR", ModeZeroPageX, 4, false, false, opEOR)
	set(0x4D, "EOR", ModeAbsolute, 4, false, false, opEOR)
	set(0x5D, "EOR", ModeAbsoluteX, 4, true, false, opEOR)
	set(0x59, "EOR", ModeAbsoluteY, 4, true, false, opEOR)
	set(0x41, "EOR", ModeIndirectX, 6, false, false, opEOR)
	set(0x51, "EOR", ModeIndirectY, 5, true, false, opEOR)

	// BIT
	set(0x24, "BIT", ModeZeroPage, 3, false, false, opBIT)
	set(0x2C, "BIT", ModeAbsolute, 4, false, false, opBIT)

	// ASL
	set(0x0A, "ASL", ModeAccumulator, 2, false, false, opASL)
	set(0x06, "ASL", ModeZeroPage, 5, false, false, opASL)
	set(0x16, "ASL", ModeZeroPageX, 6, false, false, opASL)
	set(0x0E, "ASL", ModeAbsolute, 6, false, false, opASL)
	set(0x1E, "ASL", ModeAbsoluteX, 7, false, false, opASL)

	// LSR
	set(0x4A, "LSR", ModeAccumulator, 2, false, false, opLSR)
	set(0x46, "LSR", ModeZeroPage, 5, false, false, opLSR)
	set(0x56, "LSR", ModeZeroPageX, 6, false, false, opLSR)
	set(0x4E, "LSR", ModeAbsolute, 6, false, false, opLSR)
	set(0x5E, "LSR", ModeAbsoluteX, 7, false, false, opLSR)

	// ROL
	set(0x2A, "ROL", ModeAccumulator, 2, false, false, opROL)
	set(0x26, "ROL", ModeZeroPage, 5, false, false, opROL)
	set(0x36, "ROL", ModeZeroPageX, 6, false, false, opROL)
	set(0x2E, "ROL", ModeAbsolute, 6, false, false, opROL)
	set(0x3E, "ROL", ModeAbsoluteX, 7, false, false, opROL)

	// ROR
	set(0x6A, "ROR", ModeAccumulator, 2, false, false, opROR)
	set(0x66, "ROR", ModeZeroPage, 5, false, false, opROR)
	set(0x76, "ROR", ModeZeroPageX, 6, false, false, opROR)
	set(0x6E, "ROR", ModeAbsolute, 6, false, false, opROR)
	set(0x7E, "ROR", ModeAbsoluteX, 7, false, false, opROR)

	// INC / DEC
	set(0xE6, "INC", ModeZeroPage, 5, false, false, opINC)
	set(0xF6, "INC", ModeZeroPageX, 6, false, false, opINC)
	set(0xEE, "INC", ModeAbsolute, 6, false, false, opINC)
	set(0xFE, "INC", ModeAbsoluteX, 7, false, false, opINC)
	set(0xC6, "DEC", ModeZeroPage, 5, false, false, opDEC)
	set(0xD6, "DEC", ModeZeroPageX, 6, false, false, opDEC)
	set(0xCE, "DEC", ModeAbsolute, 6, false, false, opDEC)
	set(0xDE, "DEC", ModeAbsoluteX, 7, false, false, opDEC)

	set(0xE8, "INX", ModeImplied, 2, false, false, opINX)
	set(0xC8, "INY", ModeImplied, 2, false, false, opINY)
	set(0xCA, "DEX", ModeImplied, 2, false, false, opDEX)
	set(0x88, "DEY", ModeImplied, 2, false, false, opDEY)

	// Compares
	set(0xC9, "CMP", ModeImmediate, 2, false, false, opCMP)
	set(0xC5, "CMP", ModeZeroPage, 3, false, false, opCMP)
	set(0xD5, "CMP", ModeZeroPageX, 4, false, false, opCMP)
	set(0xCD, "CMP", ModeAbsolute, 4, false, false, opCMP)
	set(0xDD, "CMP", ModeAbsoluteX, 4, true, false, opCMP)
	set(0xD9, "CMP", ModeAbsoluteY, 4, true, false, opCMP)
	set(0xC1, "CMP", ModeIndirectX, 6, false, false, opCMP)
	set(0xD1, "CMP", ModeIndirectY, 5, true, false, opCMP)

	set(0xE0, "CPX", ModeImmediate, 2, false, false, opCPX)
	set(0xE4, "CPX", ModeZeroPage, 3, false, false, opCPX)
	set(0xEC, "CPX", ModeAbsolute, 4, false, false, opCPX)

	set(0xC0, "CPY", ModeImmediate, 2, false, false, opCPY)
	set(0xC4, "CPY", ModeZeroPage, 3, false, false, opCPY)
	set(0xCC, "CPY", ModeAbsolute, 4, false, false, opCPY)

	// Branches
	set(0x90, "BCC", ModeRelative, 2, false, false, opBCC)
	set(0xB0, "BCS", ModeRelative, 2, false, false, opBCS)
	set(0xF0, "BEQ", ModeRelative, 2, false, false, opBEQ)
	set(0xD0, "BNE", ModeRelative, 2, false, false, opBNE)
	set(0x10, "BPL", ModeRelative, 2, false, false, opBPL)
	set(0x30, "BMI", ModeRelative, 2, false, false, opBMI)
	set(0x50, "BVC", ModeRelative, 2, false, false, opBVC)
	set(0x70, "BVS", ModeRelative, 2, false, false, opBVS)

	// Jumps / calls / returns
	set(0x4C, "JMP", ModeAbsolute, 3, false, false, opJMP)
	set(0x6C, "JMP", ModeIndirect, 5, false, false, opJMP)
	set(0x20, "JSR", ModeAbsolute, 6, false, false, opJSR)
	set(0x60, "RTS", ModeImplied, 6, false, false, opRTS)
	set(0x00, "BRK", ModeImplied, 7, false, false, opBRK)
	set(0x40, "RTI", ModeImplied, 6, false, false, opRTI)

	// Stack
	set(0x48, "PHA", ModeImplied, 3, false, false, opPHA)
	set(0x08, "PHP", ModeImplied, 3, false, false, opPHP)
	set(0x68, "PLA", ModeImplied, 4, false, false, opPLA)
	set(0x28, "PLP", ModeImplied, 4, false, false, opPLP)

	// Flags
	set(0x18, "CLC", ModeImplied, 2, false, false, opCLC)
	set(0x38, "SEC", ModeImplied, 2, false, false, opSEC)
	set(0x58, "CLI", ModeImplied, 2, false, false, opCLI)
	set(0x78, "SEI", ModeImplied, 2, false, false, opSEI)
	set(0xD8, "CLD", ModeImplied, 2, false, false, opCLD)
	set(0xF8, "SED", ModeImplied, 2, false, false, opSED)
	set(0xB8, "CLV", ModeImplied, 2, false, false, opCLV)

	// Loads / stores
	set(0xA9, "LDA", ModeImmediate, 2, false, false, opLDA)
	set(0xA5, "LDA", ModeZeroPage, 3, false, false, opLDA)
	set(0xB5, "LDA", ModeZeroPageX, 4, false, false, opLDA)
	set(0xAD, "LDA", ModeAbsolute, 4, false, false, opLDA)
	set(0xBD, "LDA", ModeAbsoluteX, 4, true, false, opLDA)
	set(0xB9, "LDA", ModeAbsoluteY, 4, true, false, opLDA)
	set(0xA1, "LDA", ModeIndirectX, 6, false, false, opLDA)
	set(0xB1, "LDA", ModeIndirectY, 5, true, false, opLDA)

	set(0xA2, "LDX", ModeImmediate, 2, false, false, opLDX)
	set(0xA6, "LDX", ModeZeroPage, 3, false, false, opLDX)
	set(0xB6, "LDX", ModeZeroPageY, 4, false, false, opLDX)
	set(0xAE, "LDX", ModeAbsolute, 4, false, false, opLDX)
	set(0xBE, "LDX", ModeAbsoluteY, 4, true, false, opLDX)

	set(0xA0, "LDY", ModeImmediate, 2, false, false, opLDY)
	set(0xA4, "LDY", ModeZeroPage, 3, false, false, opLDY)
	set(0xB4, "LDY", ModeZeroPageX, 4, false, false, opLDY)
	set(0xAC, "LDY", ModeAbsolute, 4, false, false, opLDY)
	set(0xBC, "LDY", ModeAbsoluteX, 4, true, false, opLDY)

	set(0x85, "STA", ModeZeroPage, 3, false, false, opSTA)
	set(0x95, "STA", ModeZeroPageX, 4, false, false, opSTA)
	set(0x8D, "STA", ModeAbsolute, 4, false, false, opSTA)
	set(0x9D, "STA", ModeAbsoluteX, 5, false, false, opSTA)
	set(0x99, "STA", ModeAbsoluteY, 5, false, false, opSTA)
	set(0x81, "STA", ModeIndirectX, 6, false, false, opSTA)
	set(0x91, "STA", ModeIndirectY, 6, false, false, opSTA)

	set(0x86, "STX", ModeZeroPage, 3, false, false, opSTX)
	set(0x96, "STX", ModeZeroPageY, 4, false, false, opSTX)
	set(0x8E, "STX", ModeAbsolute, 4, false, false, opSTX)

	set(0x84, "STY", ModeZeroPage, 3, false, false, opSTY)
	set(0x94, "STY", ModeZeroPageX, 4, false, false, opSTY)
	set(0x8C, "STY", ModeAbsolute, 4, false, false, opSTY)

	// Transfers
	set(0xAA, "TAX", ModeImplied, 2, false, false, opTAX)
	set(0xA8, "TAY", ModeImplied, 2, false, false, opTAY)
	set(0x8A, "TXA", ModeImplied, 2, false, false, opTXA)
	set(0x98, "TYA", ModeImplied, 2, false, false, opTYA)
	set(0xBA, "TSX", ModeImplied, 2, false, false, opTSX)
	set(0x9A, "TXS", ModeImplied, 2, false, false, opTXS)

	set(0xEA, "NOP", ModeImplied, 2, false, false, opNOP)

	initIllegalOpcodes()
}

func initIllegalOpcodes() {
	// SLO
	set(0x07, "SLO", ModeZeroPage, 5, false, true, opSLO)
	set(0x17, "SLO", ModeZeroPageX, 6, false, true, opSLO)
	set(0x0F, "SLO", ModeAbsolute, 6, false, true, opSLO)
	set(0x1F, "SLO", ModeAbsoluteX, 7, false, true, opSLO)
	set(0x1B, "SLO", ModeAbsoluteY, 7, false, true, opSLO)
	set(0x03, "SLO", ModeIndirectX, 8, false, true, opSLO)
	set(0x13, "SLO", ModeIndirectY, 8, false, true, opSLO)

	// RLA
	set(0x27, "RLA", ModeZeroPage, 5, false, true, opRLA)
	set(0x37, "RLA", ModeZeroPageX, 6, false, true, opRLA)
	set(0x2F, "RLA", ModeAbsolute, 6, false, true, opRLA)
	set(0x3F, "RLA", ModeAbsoluteX, 7, false, true, opRLA)
	set(0x3B, "RLA", ModeAbsoluteY, 7, false, true, opRLA)
	set(0x23, "RLA", ModeIndirectX, 8, false, true, opRLA)
	set(0x33, "RLA", ModeIndirectY, 8, false, true, opRLA)

	// SRE
	set(0x47, "SRE", ModeZeroPage, 5, false, true, opSRE)
	set(0x57, "SRE", ModeZeroPageX, 6, false, true, opSRE)
	set(0x4F, "SRE", ModeAbsolute, 6, false, true, opSRE)
	set(0x5F, "SRE", ModeAbsoluteX, 7, false, true, opSRE)
	set(0x5B, "SRE", ModeAbsoluteY, 7, false, true, opSRE)
	set(0x43, "SRE", ModeIndirectX, 8, false, true, opSRE)
	set(0x53, "SRE", ModeIndirectY, 8, false, true, opSRE)

	// RRA
	set(0x67, "RRA", ModeZeroPage, 5, false, true, opRRA)
	set(0x77, "RRA", ModeZeroPageX, 6, false, true, opRRA)
	set(0x6F, "RRA", ModeAbsolute, 6, false, true, opRRA)
	set(0x7F, "RRA", ModeAbsoluteX, 7, false, true, opRRA)
	set(0x7B, "RRA", ModeAbsoluteY, 7, false, true, opRRA)
	set(0x63, "RRA", ModeIndirectX, 8, false, true, opRRA)
	set(0x73, "RRA", ModeIndirectY, 8, false, true, opRRA)

	// SAX
	set(0x87, "SAX", ModeZeroPage, 3, false, true, opSAX)
	set(0x97, "SAX", ModeZeroPageY, 4, false, true, opSAX)
	set(0x8F, "SAX", ModeAbsolute, 4, false, true, opSAX)
	set(0x83, "SAX", ModeIndirectX, 6, false, true, opSAX)

	// LAX
	set(0xA7, "LAX", ModeZeroPage, 3, false, true, opLAX)
	set(0xB7, "LAX", ModeZeroPageY, 4, false, true, opLAX)
	set(0xAF, "LAX", ModeAbsolute, 4, false, true, opLAX)
	set(0xBF, "LAX", ModeAbsoluteY, 4, true, true, opLAX)
	set(0xA3, "LAX", ModeIndirectX, 6, false, true, opLAX)
	set(0xB3, "LAX", ModeIndirectY, 5, true, true, opLAX)

	// DCP
	set(0xC7, "DCP", ModeZeroPage, 5, false, true, opDCP)
	set(0xD7, "DCP", ModeZeroPageX, 6, false, true, opDCP)
	set(0xCF, "DCP", ModeAbsolute, 6, false, true, opDCP)
	set(0xDF, "DCP", ModeAbsoluteX, 7, false, true, opDCP)
	set(0xDB, "DCP", ModeAbsoluteY, 7, false, true, opDCP)
	set(0xC3, "DCP", ModeIndirectX, 8, false, true, opDCP)
	set(0xD3, "DCP", ModeIndirectY, 8, false, true, opDCP)

	// ISC
	set(0xE7, "ISC", ModeZeroPage, 5, false, true, opISC)
	set(0xF7, "ISC", ModeZeroPageX, 6, false, true, opISC)
	set(0xEF, "ISC", ModeAbsolute, 6, false, true, opISC)
	set(0xFF, "ISC", ModeAbsoluteX, 7, false, true, opISC)
	set(0xFB, "ISC", ModeAbsoluteY, 7, false, true, opISC)
	set(0xE3, "ISC", ModeIndirectX, 8, false, true, opISC)
	set(0xF3, "ISC", ModeIndirectY, 8, false, true, opISC)

	// NOPs: single-byte implied
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, "NOP", ModeImplied, 2, false, true, opNOP)
	}
	// Immediate, reads and discards
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		set(op, "NOP", ModeImmediate, 2, false, true, opNOPRead)
	}
	// Zero page
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		set(op, "NOP", ModeZeroPage, 3, false, true, opNOPRead)
	}
	// Zero page,X
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, "NOP", ModeZeroPageX, 4, false, true, opNOPRead)
	}
	// Absolute
	set(0x0C, "NOP", ModeAbsolute, 4, false, true, opNOPRead)
	// Absolute,X
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, "NOP", ModeAbsoluteX, 4, true, true, opNOPRead)
	}
}

// OpcodeName returns the mnemonic for a raw opcode byte, or "???" for
// one with no decode table entry. Intended for debuggers/disassemblers.
func OpcodeName(b uint8) string {
	if opcodeTable[b].Handler == nil {
		return "???"
	}
	return opcodeTable[b].Name
}
