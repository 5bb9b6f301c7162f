// Package apu implements the NES's 5-channel audio processor: two
// pulse channels, a triangle, a noise generator, a delta-modulation
// sample channel, the frame sequencer that drives their envelope,
// sweep, and length units, and the non-linear mixer that combines
// them into output samples. The package has no knowledge of an audio
// device; callers call DrainSamples and hand the samples to one.
package apu

import "github.com/kestrelcore/nesgo/pkg/apu/channels"

// CPUClockHz is the NTSC NES's CPU clock rate, the basis for both the
// frame sequencer's cycle counts and the mixer's filter coefficients.
const CPUClockHz = 1789773

// PRGReader lets the DMC channel pull sample bytes out of cartridge
// PRG space without the APU needing to know about the bus or mapper.
type PRGReader func(addr uint16) uint8

// APU composes the five channels with the frame sequencer and mixer.
type APU struct {
	Pulse1   *channels.Pulse
	Pulse2   *channels.Pulse
	Triangle *channels.Triangle
	Noise    *channels.Noise
	DMC      *channels.DMC

	seq sequencer
	mix *mixer

	halfTick bool

	pending []float32
}

// New creates an APU that decimates to outputSampleRate (e.g. 48000).
func New(outputSampleRate float64) *APU {
	return &APU{
		Pulse1:   channels.NewPulse(false),
		Pulse2:   channels.NewPulse(true),
		Triangle: &channels.Triangle{},
		Noise:    channels.NewNoise(),
		DMC:      channels.NewDMC(),
		mix:      newMixer(CPUClockHz, outputSampleRate),
	}
}

// Reset returns every channel and the frame sequencer to their
// power-up state.
func (a *APU) Reset() {
	a.Pulse1.Reset()
	a.Pulse2.Reset()
	a.Triangle.Reset()
	a.Noise.Reset()
	a.DMC.Reset()
	a.seq.Reset()
	a.halfTick = false
	a.pending = a.pending[:0]
}

// WriteRegister dispatches a CPU write in $4000-$4017 to the owning
// channel or control register.
func (a *APU) WriteRegister(addr uint16, value uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		a.Pulse1.WriteRegister(uint8(addr&3), value)
	case addr >= 0x4004 && addr <= 0x4007:
		a.Pulse2.WriteRegister(uint8(addr&3), value)
	case addr >= 0x4008 && addr <= 0x400B:
		a.Triangle.WriteRegister(uint8(addr&3), value)
	case addr >= 0x400C && addr <= 0x400F:
		a.Noise.WriteRegister(uint8(addr&3), value)
	case addr >= 0x4010 && addr <= 0x4013:
		a.DMC.WriteRegister(addr, value)
	case addr == 0x4015:
		a.writeStatus(value)
	case addr == 0x4017:
		quarterNow, halfNow := a.seq.WriteControl(value)
		if quarterNow {
			a.clockQuarterFrame()
		}
		if halfNow {
			a.clockHalfFrame()
		}
	}
}

func (a *APU) writeStatus(value uint8) {
	a.Pulse1.SetEnabled(value&0x01 != 0)
	a.Pulse2.SetEnabled(value&0x02 != 0)
	a.Triangle.SetEnabled(value&0x04 != 0)
	a.Noise.SetEnabled(value&0x08 != 0)
	a.DMC.SetEnabled(value&0x10 != 0)
	// Writing $4015 always clears the DMC IRQ flag, independent of
	// whether the write enables or disables the channel.
	a.DMC.ClearIRQ()
}

// ReadStatus answers a $4015 read: channel activity bits plus both
// IRQ flags, clearing the frame IRQ (but not the DMC IRQ) as a side
// effect.
func (a *APU) ReadStatus() uint8 {
	var v uint8
	if a.Pulse1.LengthCounterActive() {
		v |= 0x01
	}
	if a.Pulse2.LengthCounterActive() {
		v |= 0x02
	}
	if a.Triangle.LengthCounterActive() {
		v |= 0x04
	}
	if a.Noise.LengthCounterActive() {
		v |= 0x08
	}
	if a.DMC.SamplePlaybackActive() {
		v |= 0x10
	}
	if a.seq.IRQPending() {
		v |= 0x40
	}
	if a.DMC.IRQPending() {
		v |= 0x80
	}
	a.seq.ClearIRQ()
	return v
}

func (a *APU) clockQuarterFrame() {
	a.Pulse1.ClockEnvelope()
	a.Pulse2.ClockEnvelope()
	a.Noise.ClockEnvelope()
	a.Triangle.ClockLinearCounter()
}

func (a *APU) clockHalfFrame() {
	a.Pulse1.ClockLengthCounter()
	a.Pulse2.ClockLengthCounter()
	a.Triangle.ClockLengthCounter()
	a.Noise.ClockLengthCounter()
	a.Pulse1.ClockSweep()
	a.Pulse2.ClockSweep()
}

// Step advances every channel, the frame sequencer, and the mixer by
// one CPU cycle. prgRead services a DMC DMA request if the channel
// needs one this cycle; it returns the CPU stall this incurs (0 or 4,
// within the 1-4 cycle range the real hardware contends for).
func (a *APU) Step(prgRead PRGReader) int {
	stall := 0
	if a.DMC.NeedsSample() && prgRead != nil {
		a.DMC.FillSample(prgRead(a.DMC.CurrentAddress()))
		stall = 4
	}

	a.halfTick = !a.halfTick
	if a.halfTick {
		a.Pulse1.ClockTimer()
		a.Pulse2.ClockTimer()
		a.Noise.ClockTimer()
		a.DMC.ClockTimer()
	}
	a.Triangle.ClockTimer()

	quarter, half := a.seq.Step()
	if quarter {
		a.clockQuarterFrame()
	}
	if half {
		a.clockHalfFrame()
	}

	if sample, ready := a.mix.process(
		a.Pulse1.Output(), a.Pulse2.Output(),
		a.Triangle.Output(), a.Noise.Output(), a.DMC.Output(),
	); ready {
		a.pending = append(a.pending, sample)
	}

	return stall
}

// IRQLine reports the logical OR of the frame sequencer's and DMC's
// IRQ lines, the level the CPU should sample.
func (a *APU) IRQLine() bool {
	return a.seq.IRQPending() || a.DMC.IRQPending()
}

// DrainSamples returns and clears every sample accumulated since the
// last call, for the driver to hand off to its audio queue.
func (a *APU) DrainSamples() []float32 {
	out := a.pending
	a.pending = nil
	return out
}
