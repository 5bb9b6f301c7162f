package apu

import "testing"

func TestEnableDisablePulseClearsLengthCounter(t *testing.T) {
	a := New(48000)
	a.WriteRegister(0x4015, 0x01) // enable pulse1
	a.WriteRegister(0x4003, 0x08) // length load -> nonzero counter

	if !a.Pulse1.LengthCounterActive() {
		t.Fatal("expected pulse1 length counter to be loaded")
	}

	a.WriteRegister(0x4015, 0x00) // disable
	if a.Pulse1.LengthCounterActive() {
		t.Fatal("disabling pulse1 should clear its length counter")
	}
}

func TestStatusReadClearsFrameIRQButNotDMC(t *testing.T) {
	a := New(48000)
	a.seq.frameIRQ = true

	a.WriteRegister(0x4010, 0x80) // DMC IRQ enable, no loop
	a.WriteRegister(0x4012, 0x00)
	a.WriteRegister(0x4013, 0x00) // length reload = 1
	a.WriteRegister(0x4015, 0x10) // enable DMC, restarts playback
	a.DMC.FillSample(0x55)        // consumes the one byte, length hits zero, IRQ set

	status := a.ReadStatus()
	if status&0x40 == 0 {
		t.Fatal("expected frame IRQ bit set on first read")
	}
	if status&0x80 == 0 {
		t.Fatal("expected DMC IRQ bit set")
	}

	status2 := a.ReadStatus()
	if status2&0x40 != 0 {
		t.Fatal("frame IRQ should be cleared by the read")
	}
	if status2&0x80 == 0 {
		t.Fatal("DMC IRQ should survive a status read")
	}
}

func TestFrameSequencerFourStepQuarterAndHalfTiming(t *testing.T) {
	a := New(48000)
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4003, 0x18) // load pulse1 length counter with LengthTable[3] = 2

	// Cycle 7457 is a quarter frame only; 14913 is the first half frame.
	for i := 0; i < 14913; i++ {
		a.Step(nil)
	}
	if !a.Pulse1.LengthCounterActive() {
		t.Fatal("length counter should not decrement on the quarter-frame-only clock at 7457")
	}

	// The half frames at 14913 and 29829 each take one off the count of 2.
	for i := 14913; i < 29829; i++ {
		a.Step(nil)
	}
	if a.Pulse1.LengthCounterActive() {
		t.Fatal("length counter should reach 0 after the half-frame clocks at 14913 and 29829")
	}
}

func TestMixerSilenceWhenAllChannelsZero(t *testing.T) {
	m := newMixer(CPUClockHz, 48000)
	for i := 0; i < int(m.cyclesPerSample)+1; i++ {
		if sample, ready := m.process(0, 0, 0, 0, 0); ready && sample != 0 {
			t.Fatalf("expected silence, got %f", sample)
		}
	}
}

func TestDMCRequestsDMAAndStallsCPU(t *testing.T) {
	a := New(48000)
	a.WriteRegister(0x4012, 0xFF)
	a.WriteRegister(0x4013, 0x00) // length reload = 1
	a.WriteRegister(0x4015, 0x10) // enable DMC, restarts playback

	calls := 0
	read := func(addr uint16) uint8 {
		calls++
		return 0x55
	}

	stall := a.Step(read)
	if calls != 1 {
		t.Fatalf("expected exactly one DMA fetch, got %d", calls)
	}
	if stall == 0 {
		t.Fatal("expected a nonzero CPU stall for the DMA fetch")
	}
	if a.DMC.SamplePlaybackActive() {
		t.Fatal("single-byte sample should have exhausted its length")
	}
}
