package bus

import (
	"testing"

	"github.com/kestrelcore/nesgo/pkg/apu"
	"github.com/kestrelcore/nesgo/pkg/cartridge"
	"github.com/kestrelcore/nesgo/pkg/controller"
	"github.com/kestrelcore/nesgo/pkg/cpu"
	"github.com/kestrelcore/nesgo/pkg/ppu"
)

type fakeMapper struct {
	prg [0x10000]uint8
	chr [0x2000]uint8
}

func (m *fakeMapper) ReadPRG(addr uint16) uint8       { return m.prg[addr] }
func (m *fakeMapper) WritePRG(addr uint16, v uint8)   { m.prg[addr] = v }
func (m *fakeMapper) ReadCHR(addr uint16) uint8       { return m.chr[addr] }
func (m *fakeMapper) WriteCHR(addr uint16, v uint8)   { m.chr[addr] = v }
func (m *fakeMapper) Scanline()                       {}
func (m *fakeMapper) GetMirroring() cartridge.Mirroring { return cartridge.MirrorHorizontal }

func newTestBus() (*NESBus, *fakeMapper) {
	mapper := &fakeMapper{}
	b := NewNESBus(ppu.NewPPU(), apu.New(48000), mapper)
	return b, mapper
}

func TestRAMMirroring(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0x0000, 0x42)
	if v := b.Read(0x0800); v != 0x42 {
		t.Fatalf("expected RAM mirror to read 0x42, got %#x", v)
	}
}

func TestOAMDMATakes513CyclesOnEvenStart(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0x4014, 0x02) // page $02, even cpuCycleCount so far (write itself is cycle 0, not yet clocked)

	cycles := 0
	for b.DMATransferActive() {
		b.Clock()
		cycles++
	}
	if cycles != 513 {
		t.Fatalf("expected 513 cycles for DMA starting on an even cycle, got %d", cycles)
	}
}

func TestOAMDMATakes514CyclesOnOddStart(t *testing.T) {
	b, _ := newTestBus()
	b.Clock() // advance cpuCycleCount to 1 (odd) before triggering DMA
	b.Write(0x4014, 0x02)

	cycles := 0
	for b.DMATransferActive() {
		b.Clock()
		cycles++
	}
	if cycles != 514 {
		t.Fatalf("expected 514 cycles for DMA starting on an odd cycle, got %d", cycles)
	}
}

func TestUnmappedReadReturnsOpenBus(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0x0010, 0x99) // drives open bus to 0x99
	if v := b.Read(0x4018); v != 0x99 {
		t.Fatalf("expected open-bus read to return last driven value 0x99, got %#x", v)
	}
}

func TestAPURegisterWriteRoutesThroughBus(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0x4015, 0x01) // enable pulse1
	b.Write(0x4003, 0x08) // load length counter
	if v := b.Read(0x4015); v&0x01 == 0 {
		t.Fatalf("expected pulse1 length counter active bit set, got %#x", v)
	}
}

func TestCartridgePRGRoundTrip(t *testing.T) {
	b, mapper := newTestBus()
	mapper.prg[0x8000] = 0x7E
	if v := b.Read(0x8000); v != 0x7E {
		t.Fatalf("expected PRG read to return 0x7E, got %#x", v)
	}
}

func TestControllerReadPreservesOpenBusUpperBits(t *testing.T) {
	b, _ := newTestBus()

	b.GetController(0).SetButton(controller.ButtonA, true)
	b.Write(0x4016, 0x01) // strobe high: A's state is read live
	b.Write(0x0010, 0xFF) // drives open bus to 0xFF (the strobe write left it at 0x01)

	if v := b.Read(0x4016); v != 0xE1 {
		t.Fatalf("expected open-bus bits 5-7 preserved with A's live bit 0, got %#x", v)
	}

	b.Write(0x4016, 0x00) // falling edge: latch and start shifting
	b.Write(0x0010, 0xFF) // drives open bus back to 0xFF
	if v := b.Read(0x4016); v != 0xE1 {
		t.Fatalf("expected open-bus bits 5-7 preserved with the latched bit 0, got %#x", v)
	}
}

// TestIndexedStoreToPPUDataDummyReadsBeforeWriting exercises the
// indexed-store dummy read's real side effect on a live I/O port:
// PPUDATA auto-increments the VRAM address on every access, read or
// write, so a dummy read immediately before the write pushes the
// write's destination one address further than it would land without
// the dummy read.
func TestIndexedStoreToPPUDataDummyReadsBeforeWriting(t *testing.T) {
	b, mapper := newTestBus()

	// LDA #$42 ; LDX #$00 ; STA $2007,X
	prog := []uint8{0xA9, 0x42, 0xA2, 0x00, 0x9D, 0x07, 0x20}
	copy(mapper.prg[0x8000:], prog)
	mapper.prg[0xFFFC] = 0x00
	mapper.prg[0xFFFD] = 0x80

	c := cpu.New(b)
	c.Reset()

	b.Write(0x2006, 0x20) // PPUADDR hi
	b.Write(0x2006, 0x00) // PPUADDR lo -> vramAddress = $2000

	for i := 0; i < 3; i++ {
		c.Step()
	}

	b.Write(0x2006, 0x20)
	b.Write(0x2006, 0x00)
	b.Read(0x2007) // discard stale buffered byte, primes the buffer from $2000
	if v := b.Read(0x2007); v != 0 {
		t.Fatalf("expected $2000 untouched (dummy read's auto-increment skipped past it), got %#x", v)
	}
	if v := b.Read(0x2007); v != 0x42 {
		t.Fatalf("expected the real write to land at $2001, got %#x", v)
	}
}
