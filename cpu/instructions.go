package cpu

import "m6502/mask"

// Each instruction routine has the signature func(c *Cpu, mode
// AddressingMode) error. Routines that need an operand address resolve it
// themselves via c.ResolveAddress(mode); this mirrors the way each
// instruction method in the reference implementation this core is ported
// from takes the addressing mode and calls get_operand_address itself,
// rather than having the dispatcher pre-resolve an address that half the
// opcodes (branches, stack ops, transfers) don't use at all.

func execADC(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	addend(c, c.Read8(addr))
	return nil
}

func execSBC(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	// A - M - (1-C) is A + (^M) + C, the two's-complement identity that
	// lets SBC reuse ADC's carry/overflow computation unchanged.
	addend(c, ^c.Read8(addr))
	return nil
}

// addend performs A = A + value + carry, setting Carry, Zero, Overflow, and
// Negative from the 9-bit result. Overflow is set when the two operands
// share a sign but the result's sign differs from theirs.
func addend(c *Cpu, value byte) {
	a := c.A
	carryIn := uint16(0)
	if c.P.Contains(FlagCarry) {
		carryIn = 1
	}

	sum := uint16(a) + uint16(value) + carryIn
	result := byte(sum)

	c.P = c.P.SetTo(FlagCarry, sum > 0xFF)
	c.P = c.P.SetTo(FlagOverflow, (a^result)&(value^result)&0x80 != 0)
	c.P = zeroNegativeFrom(c.P, result)
	c.A = result
}

func execAND(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	c.A &= c.Read8(addr)
	c.P = zeroNegativeFrom(c.P, c.A)
	return nil
}

func execORA(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	c.A |= c.Read8(addr)
	c.P = zeroNegativeFrom(c.P, c.A)
	return nil
}

func execEOR(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	c.A ^= c.Read8(addr)
	c.P = zeroNegativeFrom(c.P, c.A)
	return nil
}

func execBIT(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	v := c.Read8(addr)
	c.P = c.P.SetTo(FlagZero, c.A&v == 0)
	c.P = c.P.SetTo(FlagOverflow, mask.IsSet(v, mask.I2)) // bit 6
	c.P = c.P.SetTo(FlagNegative, mask.IsSet(v, mask.I1)) // bit 7, MSB
	return nil
}

// shiftOperand reads the byte a shift/rotate operates on — the accumulator
// for Accumulator mode, memory otherwise — applies f, writes the result
// back to the same place, and updates Carry/Zero/Negative uniformly for
// both variants (the memory form of ROL/ROR touches Z/N identically to the
// accumulator form).
func shiftOperand(c *Cpu, mode AddressingMode, f func(byte) (result byte, carryOut bool)) error {
	if mode == Accumulator {
		result, carryOut := f(c.A)
		c.A = result
		c.P = c.P.SetTo(FlagCarry, carryOut)
		c.P = zeroNegativeFrom(c.P, result)
		return nil
	}

	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	result, carryOut := f(c.Read8(addr))
	c.Write8(addr, result)
	c.P = c.P.SetTo(FlagCarry, carryOut)
	c.P = zeroNegativeFrom(c.P, result)
	return nil
}

func execASL(c *Cpu, mode AddressingMode) error {
	return shiftOperand(c, mode, func(v byte) (byte, bool) {
		return v << 1, v&0x80 != 0
	})
}

func execLSR(c *Cpu, mode AddressingMode) error {
	return shiftOperand(c, mode, func(v byte) (byte, bool) {
		return v >> 1, v&0x01 != 0
	})
}

func execROL(c *Cpu, mode AddressingMode) error {
	carryIn := c.P.Contains(FlagCarry)
	return shiftOperand(c, mode, func(v byte) (byte, bool) {
		result := v << 1
		if carryIn {
			result |= 0x01
		}
		return result, v&0x80 != 0
	})
}

func execROR(c *Cpu, mode AddressingMode) error {
	carryIn := c.P.Contains(FlagCarry)
	return shiftOperand(c, mode, func(v byte) (byte, bool) {
		result := v >> 1
		if carryIn {
			result |= 0x80
		}
		return result, v&0x01 != 0
	})
}

func compare(c *Cpu, reg byte, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	v := c.Read8(addr)
	result := reg - v
	c.P = c.P.SetTo(FlagCarry, reg >= v)
	c.P = zeroNegativeFrom(c.P, result)
	return nil
}

func execCMP(c *Cpu, mode AddressingMode) error { return compare(c, c.A, mode) }
func execCPX(c *Cpu, mode AddressingMode) error { return compare(c, c.X, mode) }
func execCPY(c *Cpu, mode AddressingMode) error { return compare(c, c.Y, mode) }

func execINC(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	result := c.Read8(addr) + 1
	c.Write8(addr, result)
	c.P = zeroNegativeFrom(c.P, result)
	return nil
}

func execDEC(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	result := c.Read8(addr) - 1
	c.Write8(addr, result)
	c.P = zeroNegativeFrom(c.P, result)
	return nil
}

func execINX(c *Cpu, _ AddressingMode) error {
	c.X++
	c.P = zeroNegativeFrom(c.P, c.X)
	return nil
}

func execDEX(c *Cpu, _ AddressingMode) error {
	c.X--
	c.P = zeroNegativeFrom(c.P, c.X)
	return nil
}

func execINY(c *Cpu, _ AddressingMode) error {
	c.Y++
	c.P = zeroNegativeFrom(c.P, c.Y)
	return nil
}

func execDEY(c *Cpu, _ AddressingMode) error {
	c.Y--
	c.P = zeroNegativeFrom(c.P, c.Y)
	return nil
}

func execLDA(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	c.A = c.Read8(addr)
	c.P = zeroNegativeFrom(c.P, c.A)
	return nil
}

func execLDX(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	c.X = c.Read8(addr)
	c.P = zeroNegativeFrom(c.P, c.X)
	return nil
}

func execLDY(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	c.Y = c.Read8(addr)
	c.P = zeroNegativeFrom(c.P, c.Y)
	return nil
}

func execSTA(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	c.Write8(addr, c.A)
	return nil
}

func execSTX(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	c.Write8(addr, c.X)
	return nil
}

func execSTY(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	c.Write8(addr, c.Y)
	return nil
}

func execTAX(c *Cpu, _ AddressingMode) error {
	c.X = c.A
	c.P = zeroNegativeFrom(c.P, c.X)
	return nil
}

func execTAY(c *Cpu, _ AddressingMode) error {
	c.Y = c.A
	c.P = zeroNegativeFrom(c.P, c.Y)
	return nil
}

func execTXA(c *Cpu, _ AddressingMode) error {
	c.A = c.X
	c.P = zeroNegativeFrom(c.P, c.A)
	return nil
}

func execTYA(c *Cpu, _ AddressingMode) error {
	c.A = c.Y
	c.P = zeroNegativeFrom(c.P, c.A)
	return nil
}

func execTSX(c *Cpu, _ AddressingMode) error {
	c.X = c.SP
	c.P = zeroNegativeFrom(c.P, c.X)
	return nil
}

// execTXS does not touch Zero/Negative: loading the stack pointer from X is
// not treated as an observable register load by the hardware.
func execTXS(c *Cpu, _ AddressingMode) error {
	c.SP = c.X
	return nil
}

func execPHA(c *Cpu, _ AddressingMode) error {
	c.Push8(c.A)
	return nil
}

func execPLA(c *Cpu, _ AddressingMode) error {
	c.A = c.Pop8()
	c.P = zeroNegativeFrom(c.P, c.A)
	return nil
}

// execPHP pushes P with Break and Unused both forced to 1, per the 6502's
// documented behavior for a software-initiated push — this is a property of
// the pushed copy only, and never alters the live P register.
func execPHP(c *Cpu, _ AddressingMode) error {
	c.Push8(c.P.Insert(FlagBreak | FlagUnused).Byte())
	return nil
}

// execPLP pulls P from the stack, then forces Break clear and Unused set —
// those two bits are stack/push artifacts, never real processor state.
func execPLP(c *Cpu, _ AddressingMode) error {
	c.P = Flags(c.Pop8()).Remove(FlagBreak).Insert(FlagUnused)
	return nil
}

func execCLC(c *Cpu, _ AddressingMode) error { c.P = c.P.Remove(FlagCarry); return nil }
func execSEC(c *Cpu, _ AddressingMode) error { c.P = c.P.Insert(FlagCarry); return nil }
func execCLD(c *Cpu, _ AddressingMode) error { c.P = c.P.Remove(FlagDecimal); return nil }
func execSED(c *Cpu, _ AddressingMode) error { c.P = c.P.Insert(FlagDecimal); return nil }
func execCLI(c *Cpu, _ AddressingMode) error { c.P = c.P.Remove(FlagInterrupt); return nil }
func execSEI(c *Cpu, _ AddressingMode) error { c.P = c.P.Insert(FlagInterrupt); return nil }
func execCLV(c *Cpu, _ AddressingMode) error { c.P = c.P.Remove(FlagOverflow); return nil }

func execNOP(c *Cpu, _ AddressingMode) error { return nil }

// branch reads the signed displacement byte at PC (Relative mode, read
// directly rather than through ResolveAddress since a displacement is not
// an address) and, if taken, adds it to the PC value that follows the
// displacement byte — i.e. the address of the next instruction had the
// branch not been taken.
func branch(c *Cpu, taken bool) error {
	offset := int8(c.Read8(c.PC))
	nextPC := c.PC + 1
	if taken {
		c.PC = uint16(int32(nextPC) + int32(offset))
	} else {
		c.PC = nextPC
	}
	return nil
}

func execBCC(c *Cpu, _ AddressingMode) error { return branch(c, !c.P.Contains(FlagCarry)) }
func execBCS(c *Cpu, _ AddressingMode) error { return branch(c, c.P.Contains(FlagCarry)) }
func execBEQ(c *Cpu, _ AddressingMode) error { return branch(c, c.P.Contains(FlagZero)) }
func execBNE(c *Cpu, _ AddressingMode) error { return branch(c, !c.P.Contains(FlagZero)) }
func execBMI(c *Cpu, _ AddressingMode) error { return branch(c, c.P.Contains(FlagNegative)) }
func execBPL(c *Cpu, _ AddressingMode) error { return branch(c, !c.P.Contains(FlagNegative)) }
func execBVS(c *Cpu, _ AddressingMode) error { return branch(c, c.P.Contains(FlagOverflow)) }
func execBVC(c *Cpu, _ AddressingMode) error { return branch(c, !c.P.Contains(FlagOverflow)) }

func execJMP(c *Cpu, mode AddressingMode) error {
	if mode == Indirect {
		c.PC = c.resolveJumpIndirectTarget()
		return nil
	}
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	c.PC = addr
	return nil
}

// execJSR pushes the address of the last byte of the JSR instruction
// (PC + 1, where PC at entry points at the low byte of the target address)
// and jumps to the target; RTS pops that address and adds 1 to resume at
// the instruction following JSR.
func execJSR(c *Cpu, mode AddressingMode) error {
	addr, err := c.ResolveAddress(mode)
	if err != nil {
		return err
	}
	c.Push16(c.PC + 1)
	c.PC = addr
	return nil
}

func execRTS(c *Cpu, _ AddressingMode) error {
	c.PC = c.Pop16() + 1
	return nil
}

// execBRK halts the dispatch loop. The real 6502 pushes PC+2 and P (with
// Break set), then loads PC from the IRQ vector; this core has no interrupt
// controller to vector into, so BRK is treated as a stop signal (ErrHalt),
// with no stack or vector effects.
func execBRK(c *Cpu, _ AddressingMode) error {
	return ErrHalt
}

// execRTI pulls P (forcing Break clear, Unused set, same as PLP) and then
// PC, with no +1 adjustment — unlike RTS, the pushed PC already points at
// the instruction to resume, since interrupt entry pushes PC unmodified.
func execRTI(c *Cpu, _ AddressingMode) error {
	c.P = Flags(c.Pop8()).Remove(FlagBreak).Insert(FlagUnused)
	c.PC = c.Pop16()
	return nil
}
