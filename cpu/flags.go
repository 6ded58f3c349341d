package cpu

import "m6502/mask"

// Flags is the 6502 processor status register (the "P" register), packed
// into a single byte so it can be pushed and popped by PHP/PLP/RTI without
// ever decomposing into separate fields.
//
// 7654 3210
// NV_B DIZC
type Flags byte

const (
	FlagCarry     Flags = 1 << 0 // C
	FlagZero      Flags = 1 << 1 // Z
	FlagInterrupt Flags = 1 << 2 // I (interrupt disable)
	FlagDecimal   Flags = 1 << 3 // D (stored, never acted on)
	FlagBreak     Flags = 1 << 4 // B (software-interrupt marker, stack-only)
	FlagUnused    Flags = 1 << 5 // U (conceptually always 1)
	FlagOverflow  Flags = 1 << 6 // V
	FlagNegative  Flags = 1 << 7 // N
)

// powerOnFlags is the state of P immediately after construction/reset: U and
// I set, everything else clear. 0b0010_0100.
const powerOnFlags = FlagUnused | FlagInterrupt

// Contains reports whether every bit in m is set.
func (f Flags) Contains(m Flags) bool {
	return f&m == m
}

// Insert sets every bit in m.
func (f Flags) Insert(m Flags) Flags {
	return f | m
}

// Remove clears every bit in m.
func (f Flags) Remove(m Flags) Flags {
	return f &^ m
}

// SetTo inserts m if on is true, removes it otherwise.
func (f Flags) SetTo(m Flags, on bool) Flags {
	if on {
		return f.Insert(m)
	}
	return f.Remove(m)
}

// Byte returns the raw status byte, e.g. for pushing onto the stack.
func (f Flags) Byte() byte { return byte(f) }

// zeroNegativeFrom returns f with Z and N set to reflect result, matching
// the "after any register write, Z and N track that value" rule used by
// nearly every load/transfer/arithmetic/logical instruction.
func zeroNegativeFrom(f Flags, result byte) Flags {
	f = f.SetTo(FlagZero, result == 0)
	f = f.SetTo(FlagNegative, mask.IsSet(result, mask.I1)) // bit 7, MSB
	return f
}
