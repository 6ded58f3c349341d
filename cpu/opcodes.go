package cpu

// An Opcode associates one of the 256 possible byte values with the
// instruction it encodes: which semantic routine runs, which addressing
// mode feeds it an operand, how many bytes the encoded instruction occupies
// (used by Step to advance PC), and how many clock cycles it nominally
// costs (carried as metadata for a host that cares about timing — this
// core's own dispatch loop never reads it).
//
// Only 151 of the 256 possible byte values are valid official opcodes;
// anything else is a decode error (see Step).
type Opcode struct {
	Mnemonic string
	Mode     AddressingMode
	Length   uint16
	Cycles   uint8
	Exec     func(c *Cpu, mode AddressingMode) error
}

// Opcodes is the read-only table the dispatcher looks opcode bytes up in.
// Byte values and base cycle counts are the standard 6502 encoding
// (http://www.6502.org/tutorials/6502opcodes.html); Length follows from the
// addressing mode per SPEC_FULL.md §6 (1 for implied/accumulator, 2 for
// immediate/zero-page/relative/indirect-X/indirect-Y, 3 for
// absolute/indirect/absolute-indexed).
var Opcodes = map[byte]Opcode{
	// ADC
	0x69: {"ADC", Immediate, 2, 2, execADC},
	0x65: {"ADC", ZeroPage, 2, 3, execADC},
	0x75: {"ADC", ZeroPageX, 2, 4, execADC},
	0x6D: {"ADC", Absolute, 3, 4, execADC},
	0x7D: {"ADC", AbsoluteX, 3, 4, execADC},
	0x79: {"ADC", AbsoluteY, 3, 4, execADC},
	0x61: {"ADC", IndirectX, 2, 6, execADC},
	0x71: {"ADC", IndirectY, 2, 5, execADC},

	// AND
	0x29: {"AND", Immediate, 2, 2, execAND},
	0x25: {"AND", ZeroPage, 2, 3, execAND},
	0x35: {"AND", ZeroPageX, 2, 4, execAND},
	0x2D: {"AND", Absolute, 3, 4, execAND},
	0x3D: {"AND", AbsoluteX, 3, 4, execAND},
	0x39: {"AND", AbsoluteY, 3, 4, execAND},
	0x21: {"AND", IndirectX, 2, 6, execAND},
	0x31: {"AND", IndirectY, 2, 5, execAND},

	// ASL
	0x0A: {"ASL", Accumulator, 1, 2, execASL},
	0x06: {"ASL", ZeroPage, 2, 5, execASL},
	0x16: {"ASL", ZeroPageX, 2, 6, execASL},
	0x0E: {"ASL", Absolute, 3, 6, execASL},
	0x1E: {"ASL", AbsoluteX, 3, 7, execASL},

	// branches
	0x90: {"BCC", Relative, 2, 2, execBCC},
	0xB0: {"BCS", Relative, 2, 2, execBCS},
	0xF0: {"BEQ", Relative, 2, 2, execBEQ},
	0x30: {"BMI", Relative, 2, 2, execBMI},
	0xD0: {"BNE", Relative, 2, 2, execBNE},
	0x10: {"BPL", Relative, 2, 2, execBPL},
	0x50: {"BVC", Relative, 2, 2, execBVC},
	0x70: {"BVS", Relative, 2, 2, execBVS},

	// BIT
	0x24: {"BIT", ZeroPage, 2, 3, execBIT},
	0x2C: {"BIT", Absolute, 3, 4, execBIT},

	// BRK
	0x00: {"BRK", Implied, 1, 7, execBRK},

	// clear/set flags
	0x18: {"CLC", Implied, 1, 2, execCLC},
	0xD8: {"CLD", Implied, 1, 2, execCLD},
	0x58: {"CLI", Implied, 1, 2, execCLI},
	0xB8: {"CLV", Implied, 1, 2, execCLV},
	0x38: {"SEC", Implied, 1, 2, execSEC},
	0xF8: {"SED", Implied, 1, 2, execSED},
	0x78: {"SEI", Implied, 1, 2, execSEI},

	// CMP
	0xC9: {"CMP", Immediate, 2, 2, execCMP},
	0xC5: {"CMP", ZeroPage, 2, 3, execCMP},
	0xD5: {"CMP", ZeroPageX, 2, 4, execCMP},
	0xCD: {"CMP", Absolute, 3, 4, execCMP},
	0xDD: {"CMP", AbsoluteX, 3, 4, execCMP},
	0xD9: {"CMP", AbsoluteY, 3, 4, execCMP},
	0xC1: {"CMP", IndirectX, 2, 6, execCMP},
	0xD1: {"CMP", IndirectY, 2, 5, execCMP},

	// CPX
	0xE0: {"CPX", Immediate, 2, 2, execCPX},
	0xE4: {"CPX", ZeroPage, 2, 3, execCPX},
	0xEC: {"CPX", Absolute, 3, 4, execCPX},

	// CPY
	0xC0: {"CPY", Immediate, 2, 2, execCPY},
	0xC4: {"CPY", ZeroPage, 2, 3, execCPY},
	0xCC: {"CPY", Absolute, 3, 4, execCPY},

	// DEC
	0xC6: {"DEC", ZeroPage, 2, 5, execDEC},
	0xD6: {"DEC", ZeroPageX, 2, 6, execDEC},
	0xCE: {"DEC", Absolute, 3, 6, execDEC},
	0xDE: {"DEC", AbsoluteX, 3, 7, execDEC},

	// DEX, DEY
	0xCA: {"DEX", Implied, 1, 2, execDEX},
	0x88: {"DEY", Implied, 1, 2, execDEY},

	// EOR
	0x49: {"EOR", Immediate, 2, 2, execEOR},
	0x45: {"EOR", ZeroPage, 2, 3, execEOR},
	0x55: {"EOR", ZeroPageX, 2, 4, execEOR},
	0x4D: {"EOR", Absolute, 3, 4, execEOR},
	0x5D: {"EOR", AbsoluteX, 3, 4, execEOR},
	0x59: {"EOR", AbsoluteY, 3, 4, execEOR},
	0x41: {"EOR", IndirectX, 2, 6, execEOR},
	0x51: {"EOR", IndirectY, 2, 5, execEOR},

	// INC
	0xE6: {"INC", ZeroPage, 2, 5, execINC},
	0xF6: {"INC", ZeroPageX, 2, 6, execINC},
	0xEE: {"INC", Absolute, 3, 6, execINC},
	0xFE: {"INC", AbsoluteX, 3, 7, execINC},

	// INX, INY
	0xE8: {"INX", Implied, 1, 2, execINX},
	0xC8: {"INY", Implied, 1, 2, execINY},

	// JMP
	0x4C: {"JMP", Absolute, 3, 3, execJMP},
	0x6C: {"JMP", Indirect, 3, 5, execJMP},

	// JSR
	0x20: {"JSR", Absolute, 3, 6, execJSR},

	// LDA
	0xA9: {"LDA", Immediate, 2, 2, execLDA},
	0xA5: {"LDA", ZeroPage, 2, 3, execLDA},
	0xB5: {"LDA", ZeroPageX, 2, 4, execLDA},
	0xAD: {"LDA", Absolute, 3, 4, execLDA},
	0xBD: {"LDA", AbsoluteX, 3, 4, execLDA},
	0xB9: {"LDA", AbsoluteY, 3, 4, execLDA},
	0xA1: {"LDA", IndirectX, 2, 6, execLDA},
	0xB1: {"LDA", IndirectY, 2, 5, execLDA},

	// LDX
	0xA2: {"LDX", Immediate, 2, 2, execLDX},
	0xA6: {"LDX", ZeroPage, 2, 3, execLDX},
	0xB6: {"LDX", ZeroPageY, 2, 4, execLDX},
	0xAE: {"LDX", Absolute, 3, 4, execLDX},
	0xBE: {"LDX", AbsoluteY, 3, 4, execLDX},

	// LDY
	0xA0: {"LDY", Immediate, 2, 2, execLDY},
	0xA4: {"LDY", ZeroPage, 2, 3, execLDY},
	0xB4: {"LDY", ZeroPageX, 2, 4, execLDY},
	0xAC: {"LDY", Absolute, 3, 4, execLDY},
	0xBC: {"LDY", AbsoluteX, 3, 4, execLDY},

	// LSR
	0x4A: {"LSR", Accumulator, 1, 2, execLSR},
	0x46: {"LSR", ZeroPage, 2, 5, execLSR},
	0x56: {"LSR", ZeroPageX, 2, 6, execLSR},
	0x4E: {"LSR", Absolute, 3, 6, execLSR},
	0x5E: {"LSR", AbsoluteX, 3, 7, execLSR},

	// NOP
	0xEA: {"NOP", Implied, 1, 2, execNOP},

	// ORA
	0x09: {"ORA", Immediate, 2, 2, execORA},
	0x05: {"ORA", ZeroPage, 2, 3, execORA},
	0x15: {"ORA", ZeroPageX, 2, 4, execORA},
	0x0D: {"ORA", Absolute, 3, 4, execORA},
	0x1D: {"ORA", AbsoluteX, 3, 4, execORA},
	0x19: {"ORA", AbsoluteY, 3, 4, execORA},
	0x01: {"ORA", IndirectX, 2, 6, execORA},
	0x11: {"ORA", IndirectY, 2, 5, execORA},

	// stack
	0x48: {"PHA", Implied, 1, 3, execPHA},
	0x08: {"PHP", Implied, 1, 3, execPHP},
	0x68: {"PLA", Implied, 1, 4, execPLA},
	0x28: {"PLP", Implied, 1, 4, execPLP},

	// ROL
	0x2A: {"ROL", Accumulator, 1, 2, execROL},
	0x26: {"ROL", ZeroPage, 2, 5, execROL},
	0x36: {"ROL", ZeroPageX, 2, 6, execROL},
	0x2E: {"ROL", Absolute, 3, 6, execROL},
	0x3E: {"ROL", AbsoluteX, 3, 7, execROL},

	// ROR
	0x6A: {"ROR", Accumulator, 1, 2, execROR},
	0x66: {"ROR", ZeroPage, 2, 5, execROR},
	0x76: {"ROR", ZeroPageX, 2, 6, execROR},
	0x6E: {"ROR", Absolute, 3, 6, execROR},
	0x7E: {"ROR", AbsoluteX, 3, 7, execROR},

	// RTI, RTS
	0x40: {"RTI", Implied, 1, 6, execRTI},
	0x60: {"RTS", Implied, 1, 6, execRTS},

	// SBC
	0xE9: {"SBC", Immediate, 2, 2, execSBC},
	0xE5: {"SBC", ZeroPage, 2, 3, execSBC},
	0xF5: {"SBC", ZeroPageX, 2, 4, execSBC},
	0xED: {"SBC", Absolute, 3, 4, execSBC},
	0xFD: {"SBC", AbsoluteX, 3, 4, execSBC},
	0xF9: {"SBC", AbsoluteY, 3, 4, execSBC},
	0xE1: {"SBC", IndirectX, 2, 6, execSBC},
	0xF1: {"SBC", IndirectY, 2, 5, execSBC},

	// STA
	0x85: {"STA", ZeroPage, 2, 3, execSTA},
	0x95: {"STA", ZeroPageX, 2, 4, execSTA},
	0x8D: {"STA", Absolute, 3, 4, execSTA},
	0x9D: {"STA", AbsoluteX, 3, 5, execSTA},
	0x99: {"STA", AbsoluteY, 3, 5, execSTA},
	0x81: {"STA", IndirectX, 2, 6, execSTA},
	0x91: {"STA", IndirectY, 2, 6, execSTA},

	// STX
	0x86: {"STX", ZeroPage, 2, 3, execSTX},
	0x96: {"STX", ZeroPageY, 2, 4, execSTX},
	0x8E: {"STX", Absolute, 3, 4, execSTX},

	// STY
	0x84: {"STY", ZeroPage, 2, 3, execSTY},
	0x94: {"STY", ZeroPageX, 2, 4, execSTY},
	0x8C: {"STY", Absolute, 3, 4, execSTY},

	// register transfers
	0xAA: {"TAX", Implied, 1, 2, execTAX},
	0xA8: {"TAY", Implied, 1, 2, execTAY},
	0xBA: {"TSX", Implied, 1, 2, execTSX},
	0x8A: {"TXA", Implied, 1, 2, execTXA},
	0x9A: {"TXS", Implied, 1, 2, execTXS},
	0x98: {"TYA", Implied, 1, 2, execTYA},
}
