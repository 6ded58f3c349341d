package cpu

import "m6502/mask"

// An AddressingMode tells the dispatcher how to compute the effective
// address an instruction operates on, from the current program counter and
// index registers.
//
// https://www.nesdev.org/wiki/CPU_addressing_modes
type AddressingMode int

const (
	Implied     AddressingMode = iota // no operand; instruction reads nothing through ResolveAddress
	Accumulator                       // operand is the Accumulator itself
	Immediate                         // operand is the byte at PC
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative // signed displacement at PC, used only by branches
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect  // JMP only
	IndirectX // "indexed indirect"
	IndirectY // "indirect indexed"
	NonAddressing
)

// ResolveAddress computes the effective address for mode, given the CPU's
// current program counter (which must already point at the first operand
// byte, i.e. one past the opcode). It is a pure function: it reads PC, X, Y,
// and memory, but never writes memory and never advances PC. Advancing PC by
// the instruction's encoded length is the dispatcher's job (see Step), so
// that a jump/branch routine's own PC write is never clobbered.
//
// Implied, Accumulator, and Relative are not resolved through this
// function: Implied/Accumulator instructions operate directly on A, and
// Relative's displacement is read by the branch routines themselves (they
// need the PC value from *before* any addressing math, to compute the
// branch target relative to the already-advanced PC per spec).
func (c *Cpu) ResolveAddress(mode AddressingMode) (uint16, error) {
	switch mode {
	case Immediate:
		return c.PC, nil

	case ZeroPage:
		return uint16(c.Read8(c.PC)), nil

	case ZeroPageX:
		return uint16(c.Read8(c.PC) + c.X), nil

	case ZeroPageY:
		return uint16(c.Read8(c.PC) + c.Y), nil

	case Absolute:
		return c.Read16(c.PC), nil

	case AbsoluteX:
		return c.Read16(c.PC) + uint16(c.X), nil

	case AbsoluteY:
		return c.Read16(c.PC) + uint16(c.Y), nil

	case IndirectX:
		// The pointer itself wraps within zero page: fetched with X added
		// first, then both bytes of the target address are read from
		// page 0, never crossing into page 1.
		ptr := c.Read8(c.PC) + c.X
		lo := c.Read8(uint16(ptr))
		hi := c.Read8(uint16(ptr + 1))
		return mask.Word(hi, lo), nil

	case IndirectY:
		// Here the pointer does not involve X/Y at all; Y is added to the
		// 16-bit value the pointer resolves to, so a page cross is possible
		// (ignored by this cycle-inaccurate core).
		ptr := c.Read8(c.PC)
		lo := c.Read8(uint16(ptr))
		hi := c.Read8(uint16(ptr + 1))
		base := mask.Word(hi, lo)
		return base + uint16(c.Y), nil

	case Implied, Accumulator, Relative:
		return 0, &DecodeError{Reason: "mode " + modeName(mode) + " has no addressable operand"}

	case NonAddressing:
		return 0, &DecodeError{Reason: "NonAddressing mode requested"}

	default:
		return 0, &DecodeError{Reason: "unknown addressing mode"}
	}
}

// resolveJumpIndirectTarget implements JMP's indirect addressing, which is
// not part of ResolveAddress because it reads an address *of* an address
// (two dereferences) and carries the famous page-boundary bug: if the
// pointer's low byte is 0xFF, the high byte is read from the start of the
// same page rather than the next one.
func (c *Cpu) resolveJumpIndirectTarget() uint16 {
	ptr := c.Read16(c.PC)
	lo := c.Read8(ptr)
	var hi byte
	if ptr&0x00FF == 0x00FF {
		hi = c.Read8(ptr & 0xFF00)
	} else {
		hi = c.Read8(ptr + 1)
	}
	return mask.Word(hi, lo)
}

func modeName(m AddressingMode) string {
	switch m {
	case Implied:
		return "Implied"
	case Accumulator:
		return "Accumulator"
	case Immediate:
		return "Immediate"
	case ZeroPage:
		return "ZeroPage"
	case ZeroPageX:
		return "ZeroPageX"
	case ZeroPageY:
		return "ZeroPageY"
	case Relative:
		return "Relative"
	case Absolute:
		return "Absolute"
	case AbsoluteX:
		return "AbsoluteX"
	case AbsoluteY:
		return "AbsoluteY"
	case Indirect:
		return "Indirect"
	case IndirectX:
		return "IndirectX"
	case IndirectY:
		return "IndirectY"
	case NonAddressing:
		return "NonAddressing"
	default:
		return "?"
	}
}
