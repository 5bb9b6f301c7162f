package channels

// dutyTable holds the four 8-step waveform patterns a pulse channel
// can be configured to emit.
var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 75% (inverted 25%)
}

// Pulse is one of the APU's two square-wave channels. The two differ
// only in their sweep unit's ones-complement subtraction quirk,
// selected at construction.
type Pulse struct {
	Envelope Envelope
	sweep    Sweep

	enabled      bool
	lengthHalt   bool
	dutyMode     uint8
	dutyPosition uint8

	timerPeriod uint16
	timerValue  uint16

	lengthCounter uint8
}

// NewPulse creates a pulse channel. channelTwo selects pulse 2's sweep
// negate behavior (no extra one's-complement subtraction).
func NewPulse(channelTwo bool) *Pulse {
	p := &Pulse{}
	p.sweep.onesComplement = !channelTwo
	return p
}

// WriteRegister handles writes to the channel's four registers,
// addressed relative to its own base ($4000 or $4004).
func (p *Pulse) WriteRegister(reg uint8, value uint8) {
	switch reg & 3 {
	case 0: // Duty, length halt / envelope loop, envelope settings
		p.dutyMode = (value >> 6) & 3
		p.lengthHalt = value&0x20 != 0
		p.Envelope.loop = p.lengthHalt
		p.Envelope.constant = value&0x10 != 0
		p.Envelope.period = value & 0x0F

	case 1: // Sweep unit
		p.sweep.Write(value)

	case 2: // Timer low
		p.timerPeriod = p.timerPeriod&0xFF00 | uint16(value)

	case 3: // Length load, timer high
		p.timerPeriod = p.timerPeriod&0x00FF | uint16(value&0x07)<<8
		if p.enabled {
			p.lengthCounter = LengthTable[value>>3]
		}
		p.Envelope.Restart()
		p.dutyPosition = 0
	}
}

// ClockTimer advances the channel's timer by one APU clock (half the
// CPU rate).
func (p *Pulse) ClockTimer() {
	if p.timerValue == 0 {
		p.timerValue = p.timerPeriod
		p.dutyPosition = (p.dutyPosition + 1) % 8
	} else {
		p.timerValue--
	}
}

// ClockEnvelope advances the envelope on a quarter-frame tick.
func (p *Pulse) ClockEnvelope() { p.Envelope.Clock() }

// ClockLengthCounter advances the length counter on a half-frame tick.
func (p *Pulse) ClockLengthCounter() {
	if !p.lengthHalt && p.lengthCounter > 0 {
		p.lengthCounter--
	}
}

// ClockSweep advances the sweep unit on a half-frame tick, updating
// the channel's timer period in place when the sweep fires.
func (p *Pulse) ClockSweep() {
	p.timerPeriod = p.sweep.Clock(p.timerPeriod)
}

// SetEnabled enables or disables the channel via $4015; disabling
// zeroes the length counter immediately.
func (p *Pulse) SetEnabled(enabled bool) {
	p.enabled = enabled
	if !enabled {
		p.lengthCounter = 0
	}
}

// LengthCounterActive reports whether the length counter is nonzero,
// for $4015 status bits.
func (p *Pulse) LengthCounterActive() bool { return p.lengthCounter > 0 }

// Output returns the channel's raw 4-bit output level (0-15), muted
// to 0 by any of: disabled, silent length counter, sub-audible
// period, sweep overflow mute, or a zero bit in the duty waveform.
func (p *Pulse) Output() uint8 {
	if !p.enabled || p.lengthCounter == 0 {
		return 0
	}
	if p.timerPeriod < 8 || p.sweep.Muting(p.timerPeriod) {
		return 0
	}
	if dutyTable[p.dutyMode][p.dutyPosition] == 0 {
		return 0
	}
	return p.Envelope.Volume()
}

// Reset returns the channel to its power-up state.
func (p *Pulse) Reset() {
	onesComplement := p.sweep.onesComplement
	*p = Pulse{}
	p.sweep.onesComplement = onesComplement
}
