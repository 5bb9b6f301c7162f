package apu

import "math"

// highPassFilter is a single-pole high-pass, discretized with the
// standard RC/(RC+dt) coefficient.
type highPassFilter struct {
	alpha   float64
	prevIn  float64
	prevOut float64
}

func newHighPassFilter(cutoffHz, sampleHz float64) highPassFilter {
	rc := 1.0 / (2 * math.Pi * cutoffHz)
	dt := 1.0 / sampleHz
	return highPassFilter{alpha: rc / (rc + dt)}
}

func (f *highPassFilter) apply(x float64) float64 {
	y := f.alpha * (f.prevOut + x - f.prevIn)
	f.prevIn = x
	f.prevOut = y
	return y
}

// mixer implements the APU's non-linear channel mixer and output
// filter chain: the canonical pulse/tnd polynomial approximations,
// two cascaded high-pass filters running at the CPU clock, then
// decimation to the output sample rate by averaging.
type mixer struct {
	hp1 highPassFilter
	hp2 highPassFilter

	cyclesPerSample float64
	cycleAccum      float64
	sum             float64
	count           int
}

func newMixer(cpuHz, outputSampleRate float64) *mixer {
	return &mixer{
		hp1:             newHighPassFilter(90, cpuHz),
		hp2:             newHighPassFilter(440, cpuHz),
		cyclesPerSample: cpuHz / outputSampleRate,
	}
}

// mix combines the five raw channel outputs into one value using the
// documented non-linear approximation.
func mix(pulse1, pulse2, triangle, noise, dmc uint8) float64 {
	var pulseOut float64
	if pulse1 != 0 || pulse2 != 0 {
		pulseOut = 95.88 / (8128/(float64(pulse1)+float64(pulse2)) + 100)
	}

	var tndOut float64
	if triangle != 0 || noise != 0 || dmc != 0 {
		denom := float64(triangle)/8227 + float64(noise)/12241 + float64(dmc)/22638
		tndOut = 159.79 / (1/denom + 100)
	}

	return pulseOut + tndOut
}

// process filters one CPU-cycle's worth of mixed sample and reports a
// decimated output sample whenever enough cycles have accumulated.
func (m *mixer) process(pulse1, pulse2, triangle, noise, dmc uint8) (sample float32, ready bool) {
	filtered := m.hp2.apply(m.hp1.apply(mix(pulse1, pulse2, triangle, noise, dmc)))

	m.sum += filtered
	m.count++
	m.cycleAccum++

	if m.cycleAccum < m.cyclesPerSample {
		return 0, false
	}

	m.cycleAccum -= m.cyclesPerSample
	avg := float32(m.sum / float64(m.count))
	m.sum = 0
	m.count = 0
	return avg, true
}
