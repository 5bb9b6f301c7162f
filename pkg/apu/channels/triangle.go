package channels

// triangleSequence is the 32-step waveform the triangle channel steps
// through, a ramp down from 15 to 0 then back up to 15.
var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// Triangle is the APU's triangle-wave channel. Unlike the pulse and
// noise channels it has no volume control — its output is always the
// raw sequence value — but it is additionally gated by a linear
// counter as well as the usual length counter.
type Triangle struct {
	enabled bool

	timerPeriod uint16
	timerValue  uint16

	lengthCounter uint8
	controlFlag   bool // shared by length-halt and linear-counter-control

	linearCounter byte
	linearReload  byte
	reloadPending bool

	sequencePosition uint8
}

// WriteRegister handles writes to the channel's four registers,
// addressed relative to $4008 ($4009 is unused).
func (t *Triangle) WriteRegister(reg uint8, value uint8) {
	switch reg & 3 {
	case 0: // Linear counter reload value / control flag
		t.controlFlag = value&0x80 != 0
		t.linearReload = value & 0x7F

	case 2: // Timer low
		t.timerPeriod = t.timerPeriod&0xFF00 | uint16(value)

	case 3: // Length load, timer high
		t.timerPeriod = t.timerPeriod&0x00FF | uint16(value&0x07)<<8
		if t.enabled {
			t.lengthCounter = LengthTable[value>>3]
		}
		t.reloadPending = true
	}
}

// ClockTimer advances the channel's timer once per CPU cycle (the
// triangle channel runs at the full CPU rate, unlike the others).
// The sequencer only advances while both counters are still active;
// otherwise it holds its position. Silence at very high pitches comes
// from Output's period floor, not from this gate.
func (t *Triangle) ClockTimer() {
	if t.timerPeriod == 0 {
		return
	}
	if t.timerValue == 0 {
		t.timerValue = t.timerPeriod
		if t.linearCounter > 0 && t.lengthCounter > 0 {
			t.sequencePosition = (t.sequencePosition + 1) % 32
		}
	} else {
		t.timerValue--
	}
}

// ClockLinearCounter advances the linear counter on a quarter-frame
// tick.
func (t *Triangle) ClockLinearCounter() {
	if t.reloadPending {
		t.linearCounter = t.linearReload
	} else if t.linearCounter > 0 {
		t.linearCounter--
	}
	if !t.controlFlag {
		t.reloadPending = false
	}
}

// ClockLengthCounter advances the length counter on a half-frame
// tick.
func (t *Triangle) ClockLengthCounter() {
	if !t.controlFlag && t.lengthCounter > 0 {
		t.lengthCounter--
	}
}

// SetEnabled enables or disables the channel via $4015.
func (t *Triangle) SetEnabled(enabled bool) {
	t.enabled = enabled
	if !enabled {
		t.lengthCounter = 0
	}
}

// LengthCounterActive reports whether the length counter is nonzero.
func (t *Triangle) LengthCounterActive() bool { return t.lengthCounter > 0 }

// Output returns the channel's raw 4-bit waveform value, or 0 when
// disabled, silenced by either counter, or running below the period
// floor that would otherwise produce an inaudible buzz.
func (t *Triangle) Output() uint8 {
	if !t.enabled || t.linearCounter == 0 || t.lengthCounter == 0 {
		return 0
	}
	if t.timerPeriod < 2 {
		return 0
	}
	return triangleSequence[t.sequencePosition]
}

// Reset returns the channel to its power-up state.
func (t *Triangle) Reset() { *t = Triangle{} }
