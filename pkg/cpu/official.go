package cpu

// readModifyWrite performs the documented three-bus-cycle RMW
// contract: read the current value, write it back unmodified (dummy
// write), compute the new value, then write it for real. Each write
// through an indexed operand (abs,X / abs,Y) carries its own dummy
// read via writeOperand, so an indexed RMW touches the bus with a
// read, a dummy read + dummy write, and a dummy read + real write.
func (c *CPU) readModifyWrite(op operand, f func(uint8) uint8) uint8 {
	v := c.readOperand(op)
	c.writeOperand(op, v)
	nv := f(v)
	c.writeOperand(op, nv)
	return nv
}

func opLDA(c *CPU, op operand) int { c.A = c.readOperand(op); c.updateNZ(c.A); return 0 }
func opLDX(c *CPU, op operand) int { c.X = c.readOperand(op); c.updateNZ(c.X); return 0 }
func opLDY(c *CPU, op operand) int { c.Y = c.readOperand(op); c.updateNZ(c.Y); return 0 }

func opSTA(c *CPU, op operand) int { c.writeOperand(op, c.A); return 0 }
func opSTX(c *CPU, op operand) int { c.writeOperand(op, c.X); return 0 }
func opSTY(c *CPU, op operand) int { c.writeOperand(op, c.Y); return 0 }

func opTAX(c *CPU, op operand) int { c.X = c.A; c.updateNZ(c.X); return 0 }
func opTAY(c *CPU, op operand) int { c.Y = c.A; c.updateNZ(c.Y); return 0 }
func opTXA(c *CPU, op operand) int { c.A = c.X; c.updateNZ(c.A); return 0 }
func opTYA(c *CPU, op operand) int { c.A = c.Y; c.updateNZ(c.A); return 0 }
func opTSX(c *CPU, op operand) int { c.X = c.SP; c.updateNZ(c.X); return 0 }
func opTXS(c *CPU, op operand) int { c.SP = c.X; return 0 }

func (c *CPU) adc(v uint8) {
	carry := uint16(0)
	if c.flag(FlagCarry) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(v) + carry
	result := uint8(sum)
	c.setFlag(FlagCarry, sum > 0xFF)
	c.setFlag(FlagOverflow, (c.A^result)&(v^result)&0x80 != 0)
	c.A = result
	c.updateNZ(c.A)
}

func opADC(c *CPU, op operand) int {
	c.adc(c.readOperand(op))
	return 0
}

func opSBC(c *CPU, op operand) int {
	c.adc(^c.readOperand(op))
	return 0
}

func opAND(c *CPU, op operand) int { c.A &= c.readOperand(op); c.updateNZ(c.A); return 0 }
func opORA(c *CPU, op operand) int { c.A |= c.readOperand(op); c.updateNZ(c.A); return 0 }
func opEOR(c *CPU, op operand) int { c.A ^= c.readOperand(op); c.updateNZ(c.A); return 0 }

func opBIT(c *CPU, op operand) int {
	v := c.readOperand(op)
	c.setFlag(FlagZero, c.A&v == 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
	c.setFlag(FlagOverflow, v&0x40 != 0)
	return 0
}

func opINC(c *CPU, op operand) int {
	nv := c.readModifyWrite(op, func(v uint8) uint8 { return v + 1 })
	c.updateNZ(nv)
	return 0
}

func opDEC(c *CPU, op operand) int {
	nv := c.readModifyWrite(op, func(v uint8) uint8 { return v - 1 })
	c.updateNZ(nv)
	return 0
}

func opINX(c *CPU, op operand) int { c.X++; c.updateNZ(c.X); return 0 }
func opINY(c *CPU, op operand) int { c.Y++; c.updateNZ(c.Y); return 0 }
func opDEX(c *CPU, op operand) int { c.X--; c.updateNZ(c.X); return 0 }
func opDEY(c *CPU, op operand) int { c.Y--; c.updateNZ(c.Y); return 0 }

func asl(v uint8) (uint8, bool) { return v << 1, v&0x80 != 0 }
func lsr(v uint8) (uint8, bool) { return v >> 1, v&0x01 != 0 }

func opASL(c *CPU, op operand) int {
	nv := c.readModifyWrite(op, func(v uint8) uint8 {
		r, carry := asl(v)
		c.setFlag(FlagCarry, carry)
		return r
	})
	c.updateNZ(nv)
	return 0
}

func opLSR(c *CPU, op operand) int {
	nv := c.readModifyWrite(op, func(v uint8) uint8 {
		r, carry := lsr(v)
		c.setFlag(FlagCarry, carry)
		return r
	})
	c.updateNZ(nv)
	return 0
}

func opROL(c *CPU, op operand) int {
	nv := c.readModifyWrite(op, func(v uint8) uint8 {
		oldCarry := uint8(0)
		if c.flag(FlagCarry) {
			oldCarry = 1
		}
		c.setFlag(FlagCarry, v&0x80 != 0)
		return v<<1 | oldCarry
	})
	c.updateNZ(nv)
	return 0
}

func opROR(c *CPU, op operand) int {
	nv := c.readModifyWrite(op, func(v uint8) uint8 {
		oldCarry := uint8(0)
		if c.flag(FlagCarry) {
			oldCarry = 0x80
		}
		c.setFlag(FlagCarry, v&0x01 != 0)
		return v>>1 | oldCarry
	})
	c.updateNZ(nv)
	return 0
}

func (c *CPU) compare(reg, v uint8) {
	diff := reg - v
	c.setFlag(FlagCarry, reg >= v)
	c.setFlag(FlagZero, reg == v)
	c.setFlag(FlagNegative, diff&0x80 != 0)
}

func opCMP(c *CPU, op operand) int { c.compare(c.A, c.readOperand(op)); return 0 }
func opCPX(c *CPU, op operand) int { c.compare(c.X, c.readOperand(op)); return 0 }
func opCPY(c *CPU, op operand) int { c.compare(c.Y, c.readOperand(op)); return 0 }

// branch implements the six conditional branches: +1 cycle if taken,
// +2 total if taken and the branch target crosses a page.
func (c *CPU) branch(op operand, taken bool) int {
	if !taken {
		return 0
	}
	old := c.PC
	c.PC = op.addr
	if pageCrossed(old, op.addr) {
		return 2
	}
	return 1
}

func opBCC(c *CPU, op operand) int { return c.branch(op, !c.flag(FlagCarry)) }
func opBCS(c *CPU, op operand) int { return c.branch(op, c.flag(FlagCarry)) }
func opBEQ(c *CPU, op operand) int { return c.branch(op, c.flag(FlagZero)) }
func opBNE(c *CPU, op operand) int { return c.branch(op, !c.flag(FlagZero)) }
func opBPL(c *CPU, op operand) int { return c.branch(op, !c.flag(FlagNegative)) }
func opBMI(c *CPU, op operand) int { return c.branch(op, c.flag(FlagNegative)) }
func opBVC(c *CPU, op operand) int { return c.branch(op, !c.flag(FlagOverflow)) }
func opBVS(c *CPU, op operand) int { return c.branch(op, c.flag(FlagOverflow)) }

func opJMP(c *CPU, op operand) int { c.PC = op.addr; return 0 }

func opJSR(c *CPU, op operand) int {
	c.pushWord(c.PC - 1)
	c.PC = op.addr
	return 0
}

func opRTS(c *CPU, op operand) int {
	c.PC = c.pullWord() + 1
	return 0
}

func opBRK(c *CPU, op operand) int {
	c.PC++ // BRK's signature byte is skipped on return
	c.pushWord(c.PC)
	c.push(c.P | FlagBreak | FlagUnused)
	c.setFlag(FlagIRQOff, true)
	lo := uint16(c.bus.Read(vectorIRQ))
	hi := uint16(c.bus.Read(vectorIRQ + 1))
	c.PC = hi<<8 | lo
	return 0
}

func opRTI(c *CPU, op operand) int {
	c.P = (c.pull() &^ FlagBreak) | FlagUnused
	c.PC = c.pullWord()
	return 0
}

func opPHA(c *CPU, op operand) int { c.push(c.A); return 0 }
func opPHP(c *CPU, op operand) int { c.push(c.P | FlagBreak | FlagUnused); return 0 }
func opPLA(c *CPU, op operand) int { c.A = c.pull(); c.updateNZ(c.A); return 0 }
func opPLP(c *CPU, op operand) int { c.P = (c.pull() &^ FlagBreak) | FlagUnused; return 0 }

func opCLC(c *CPU, op operand) int { c.setFlag(FlagCarry, false); return 0 }
func opSEC(c *CPU, op operand) int { c.setFlag(FlagCarry, true); return 0 }
func opCLI(c *CPU, op operand) int { c.setFlag(FlagIRQOff, false); return 0 }
func opSEI(c *CPU, op operand) int { c.setFlag(FlagIRQOff, true); return 0 }
func opCLD(c *CPU, op operand) int { c.setFlag(FlagDecimal, false); return 0 }
func opSED(c *CPU, op operand) int { c.setFlag(FlagDecimal, true); return 0 }
func opCLV(c *CPU, op operand) int { c.setFlag(FlagOverflow, false); return 0 }

func opNOP(c *CPU, op operand) int { return 0 }
