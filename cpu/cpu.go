// Package cpu implements the MOS Technology 6502 microprocessor, as used in
// the NES and the Apple II family.
package cpu

import (
	"errors"
	"fmt"

	"m6502/mem"
)

// Reset vector and interrupt vector locations. NMI and IRQ are reserved but
// unused by this core (see BRK, which halts rather than vectoring through
// 0xFFFE).
const (
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE
)

// loadAddr is where Load places a program image. 0x0600 is the convention
// used by small interactive demos (e.g. the "snake" program); a ROM-style
// layout would use 0x8000, but that's a configuration choice, not a
// semantic one this core needs to make.
const loadAddr = 0x0600

// DecodeError is a fatal, unrecoverable dispatch error: an opcode byte with
// no table entry, or an addressing mode resolved in a context where it
// isn't valid (NonAddressing, or Implied/Accumulator/Relative passed to
// ResolveAddress). It indicates a bug in the opcode table or the calling
// program, never a normal runtime condition.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("6502 decode error: %s", e.Reason)
}

// ErrHalt is returned by Step when BRK executes. It is not a failure:
// Run/RunWithCallback stop on it and return nil, and callers of Step should
// treat it as normal termination of the loaded program.
var ErrHalt = errors.New("6502: halted (BRK)")

// A Cpu is the MOS 6502 register file plus the flat memory it addresses.
// The engine is the sole owner of Memory; nothing else may mutate it
// concurrently (see SPEC_FULL.md §5).
type Cpu struct {
	A, X, Y byte
	P       Flags
	SP      byte
	PC      uint16

	Memory *mem.Memory
}

// New returns a Cpu in its post-power-on state: A=X=Y=0, SP=0xFF, P has U
// and I set, PC=0, memory zeroed. Load a program and call Reset before
// running it; PC is not meaningful until the reset vector has been written.
func New() *Cpu {
	c := &Cpu{Memory: &mem.Memory{}}
	c.powerOn()
	return c
}

func (c *Cpu) powerOn() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFF
	c.P = powerOnFlags
	c.PC = 0
}

// Reset re-initializes registers to their power-on values and reloads PC
// from the reset vector at 0xFFFC. Memory is left untouched. If Reset is
// called without a prior Load, the reset vector is still zero, so PC ends
// up 0x0000 — callers should always Load before Reset.
func (c *Cpu) Reset() {
	c.powerOn()
	c.PC = c.Read16(vectorReset)
}

// Read8, Write8, Read16, Write16 delegate to the CPU's owned Memory, and
// exist on Cpu so instruction routines and test harnesses can seed/inspect
// state without reaching through a separate field.
func (c *Cpu) Read8(addr uint16) byte       { return c.Memory.Read8(addr) }
func (c *Cpu) Write8(addr uint16, v byte)   { c.Memory.Write8(addr, v) }
func (c *Cpu) Read16(addr uint16) uint16    { return c.Memory.Read16(addr) }
func (c *Cpu) Write16(addr uint16, v uint16) { c.Memory.Write16(addr, v) }

// Load copies program into memory starting at 0x0600 and points the reset
// vector (0xFFFC) at it.
func (c *Cpu) Load(program []byte) {
	for i, b := range program {
		c.Write8(loadAddr+uint16(i), b)
	}
	c.Write16(vectorReset, loadAddr)
}

// LoadAndRun loads program, resets the CPU, and runs it to completion (BRK)
// with a no-op callback.
func (c *Cpu) LoadAndRun(program []byte) error {
	c.Load(program)
	c.Reset()
	return c.Run()
}

// Run executes instructions until BRK (ErrHalt, returned as nil) or a fatal
// decode error.
func (c *Cpu) Run() error {
	return c.RunWithCallback(func(*Cpu) {})
}

// RunWithCallback executes instructions until BRK or a fatal decode error,
// invoking callback with exclusive, synchronous access to the CPU after
// every completed instruction. This is the core's sole host-integration
// point: a caller can poll input into a memory-mapped register, read a
// framebuffer region, or pace execution, all from inside callback, without
// the core knowing anything about what it's being used for.
//
// BRK is reported as a nil error (normal termination); any other non-nil
// error is a fatal decode error and the loop stops immediately, before the
// callback for that (non-)instruction runs.
func (c *Cpu) RunWithCallback(callback func(*Cpu)) error {
	for {
		err := c.Step()
		if err != nil {
			if errors.Is(err, ErrHalt) {
				return nil
			}
			return err
		}
		callback(c)
	}
}

// Step executes exactly one instruction: fetch the opcode at PC, advance
// PC past it, look the opcode up, dispatch to its semantic routine, and
// advance PC by the remainder of the instruction's encoded length unless
// the routine itself changed PC (branches, jumps, JSR, RTS, RTI all do).
//
// Step returns ErrHalt when the executed instruction was BRK, and a
// *DecodeError for an opcode with no table entry. Both are terminal: the
// caller should stop calling Step once either is returned.
func (c *Cpu) Step() error {
	opByte := c.Read8(c.PC)
	c.PC++
	savedPC := c.PC

	op, ok := Opcodes[opByte]
	if !ok {
		return &DecodeError{Reason: fmt.Sprintf("illegal opcode 0x%02X at 0x%04X", opByte, savedPC-1)}
	}

	if err := op.Exec(c, op.Mode); err != nil {
		return err
	}

	if c.PC == savedPC {
		c.PC += uint16(op.Length - 1)
	}

	return nil
}
