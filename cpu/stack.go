package cpu

// The stack occupies page 1 (0x0100-0x01FF), indexed by the 8-bit SP, which
// decrements on push and wraps modulo 256 like any other byte register.
const stackPage = 0x0100

func (c *Cpu) stackAddr() uint16 {
	return stackPage + uint16(c.SP)
}

// Push8 writes v to the current stack slot, then decrements SP.
func (c *Cpu) Push8(v byte) {
	c.Write8(c.stackAddr(), v)
	c.SP--
}

// Pop8 increments SP, then returns the byte at the new stack slot.
func (c *Cpu) Pop8() byte {
	c.SP++
	return c.Read8(c.stackAddr())
}

// Push16 pushes w high byte first, so that Pop16 (which reads low before
// high) reconstructs it in the right order.
func (c *Cpu) Push16(w uint16) {
	c.Push8(byte(w >> 8))
	c.Push8(byte(w))
}

// Pop16 pops the low byte, then the high byte, and combines them.
func (c *Cpu) Pop16() uint16 {
	lo := c.Pop8()
	hi := c.Pop8()
	return uint16(lo) | uint16(hi)<<8
}
