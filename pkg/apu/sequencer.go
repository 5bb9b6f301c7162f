package apu

// sequencer is the APU's frame sequencer: a free-running counter of
// CPU cycles that periodically clocks the channels' envelope/linear
// ("quarter-frame") and length/sweep ("half-frame") units, and in
// 4-step mode raises a periodic IRQ.
type sequencer struct {
	counter    uint32
	fiveStep   bool
	irqInhibit bool
	frameIRQ   bool
}

// WriteControl applies a $4017 write: selects 4-step or 5-step mode,
// sets the IRQ inhibit flag (clearing any pending frame IRQ), and
// resets the counter. When bit 7 is set the reset also immediately
// clocks both quarter- and half-frame events.
func (s *sequencer) WriteControl(value uint8) (quarterNow, halfNow bool) {
	s.fiveStep = value&0x80 != 0
	s.irqInhibit = value&0x40 != 0
	if s.irqInhibit {
		s.frameIRQ = false
	}
	s.counter = 0
	if s.fiveStep {
		quarterNow, halfNow = true, true
	}
	return
}

// Step advances the counter by one CPU cycle and reports whether a
// quarter-frame and/or half-frame event fires this cycle.
func (s *sequencer) Step() (quarter, half bool) {
	s.counter++

	if s.fiveStep {
		switch s.counter {
		case 7457, 22371:
			quarter = true
		case 14913:
			quarter, half = true, true
		case 37281:
			quarter, half = true, true
		case 37282:
			s.counter = 0
		}
		return
	}

	switch s.counter {
	case 7457, 22371:
		quarter = true
	case 14913:
		quarter, half = true, true
	case 29829:
		quarter, half = true, true
		if !s.irqInhibit {
			s.frameIRQ = true
		}
	case 29830:
		if !s.irqInhibit {
			s.frameIRQ = true
		}
		s.counter = 0
	}
	return
}

// IRQPending reports the frame sequencer's own IRQ line.
func (s *sequencer) IRQPending() bool { return s.frameIRQ }

// ClearIRQ clears the frame IRQ, as happens on any $4015 read.
func (s *sequencer) ClearIRQ() { s.frameIRQ = false }

func (s *sequencer) Reset() { *s = sequencer{} }
