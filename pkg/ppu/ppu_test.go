package ppu

import "testing"

func TestLoopyRegisterMasksTo15Bits(t *testing.T) {
	var l LoopyRegister
	l.Set(0xFFFF)
	if l.Get() != 0x7FFF {
		t.Fatalf("expected 15-bit mask, got %#x", l.Get())
	}
}

func TestIncrementXWrapsAndFlipsNametable(t *testing.T) {
	var l LoopyRegister
	l.SetCoarseX(31)
	l.IncrementX()
	if l.CoarseX() != 0 {
		t.Fatalf("expected coarse X to wrap to 0, got %d", l.CoarseX())
	}
	if l.NametableX() != 1 {
		t.Fatal("expected horizontal nametable to flip on coarse X wrap")
	}
}

func TestIncrementYRow31WrapsWithoutFlip(t *testing.T) {
	var l LoopyRegister
	l.SetFineY(7)
	l.SetCoarseY(31)
	l.IncrementY()
	if l.CoarseY() != 0 {
		t.Fatalf("expected coarse Y to wrap to 0, got %d", l.CoarseY())
	}
	if l.NametableY() != 0 {
		t.Fatal("row 31 is the documented hardware bug: it must not flip the nametable")
	}
}

func TestPaletteMirrorRoundTrip(t *testing.T) {
	p := NewPPU()
	p.ppuWrite(0x3F00, 0x0F)
	if got := p.ppuRead(0x3F10); got != 0x0F {
		t.Fatalf("expected $3F10 to mirror $3F00 (0x0F), got %#x", got)
	}
}

func TestFourScreenMirroringStaysWithinNametableRAM(t *testing.T) {
	p := NewPPU()
	p.mirroringMode = MirrorFourScreen

	// $2C00 is nametable 3, raw offset 0xC00 (3072) under four-screen's
	// identity mapping - out of range for the 2KB nametable array.
	p.ppuWrite(0x2C00, 0x55)
	if got := p.ppuRead(0x2C00); got != 0x55 {
		t.Fatalf("expected four-screen write/read round trip without panic, got %#x", got)
	}
}

func TestPPUDATAReadIsBufferedByOneRead(t *testing.T) {
	p := NewPPU()
	p.nametable[0] = 0x42
	p.vramAddress.Set(0x2000)

	first := p.ReadCPURegister(0x2007)
	if first == 0x42 {
		t.Fatal("first PPUDATA read should return the stale buffer, not the new value")
	}
	second := p.ReadCPURegister(0x2007)
	if second != 0x42 {
		t.Fatalf("second PPUDATA read should return the buffered value 0x42, got %#x", second)
	}
}

func TestVBlankRaceWindowDot0SuppressesFlagAndNMI(t *testing.T) {
	p := NewPPU()
	p.control.Set(0x80) // NMI enabled
	p.scanline = 241
	p.cycle = 0

	p.ReadCPURegister(0x2002) // read lands exactly at dot 0

	p.Clock() // processes dot 0
	p.Clock() // processes dot 1, where the flag would normally be set

	if p.status.VBlank() {
		t.Fatal("a dot-0 status read should suppress the VBlank flag for this frame")
	}
	if p.GetNMI() {
		t.Fatal("a dot-0 status read should suppress this frame's NMI")
	}
}

func TestVBlankRaceWindowDot1SuppressesNMIOnly(t *testing.T) {
	p := NewPPU()
	p.control.Set(0x80)
	p.scanline = 241
	p.cycle = 1

	p.ReadCPURegister(0x2002)
	p.Clock() // processes dot 1: flag set, NMI suppressed

	if !p.status.VBlank() {
		t.Fatal("a dot-1 status read should still observe the VBlank flag being set")
	}
	if p.GetNMI() {
		t.Fatal("a dot-1 status read should suppress the NMI")
	}
}

func TestNMIDelayedOneDotWhenEnabledDuringVBlank(t *testing.T) {
	p := NewPPU()
	p.status.SetVBlank(true)

	p.WriteCPURegister(0x2000, 0x80) // enable NMI while already in VBlank
	if p.GetNMI() {
		t.Fatal("NMI must not fire on the same dot CTRL enables it during VBlank")
	}

	p.Clock()
	if !p.GetNMI() {
		t.Fatal("NMI should fire one dot after CTRL enables it during VBlank")
	}
}

func TestOpenBusDecaysAfter60Frames(t *testing.T) {
	p := NewPPU()
	p.WriteCPURegister(0x2000, 0xFF)
	if p.openBusValue != 0xFF {
		t.Fatalf("expected write to drive open bus to 0xFF, got %#x", p.openBusValue)
	}

	for i := 0; i < OpenBusDecayFrames; i++ {
		p.decayOpenBus()
	}
	if p.openBusValue != 0 {
		t.Fatalf("expected open bus to fully decay after %d frames, got %#x", OpenBusDecayFrames, p.openBusValue)
	}
}

func TestWriteOnlyRegisterReadReturnsOpenBus(t *testing.T) {
	p := NewPPU()
	p.WriteCPURegister(0x2001, 0x1E)
	if v := p.ReadCPURegister(0x2001); v != 0x1E {
		t.Fatalf("expected read of write-only PPUMASK to return open-bus latch 0x1E, got %#x", v)
	}
}
