package console

import (
	"testing"

	"github.com/kestrelcore/nesgo/pkg/cartridge"
	"github.com/kestrelcore/nesgo/pkg/controller"
)

// buildNOPLoopROM builds a minimal Mapper 0 iNES ROM whose reset vector
// points at an infinite NOP loop, enough to drive the console through
// real CPU/PPU/APU clocking without depending on any real game.
func buildNOPLoopROM(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	const prgBanks = 2
	data := make([]byte, 16+prgBanks*16384+8192)
	copy(data[0:4], "NES\x1a")
	data[4] = prgBanks
	data[5] = 1 // one CHR bank (all zero, CHR-ROM present but blank)

	prg := data[16 : 16+prgBanks*16384]
	// Reset vector $FFFC/$FFFD -> $8000
	prg[0x7FFC] = 0x00
	prg[0x7FFD] = 0x80
	// $8000: EA (NOP) forever
	prg[0x0000] = 0xEA
	prg[0x0001] = 0x4C // JMP $8000
	prg[0x0002] = 0x00
	prg[0x0003] = 0x80

	cart, err := cartridge.LoadFromBytes(data)
	if err != nil {
		t.Fatalf("failed to build test cartridge: %v", err)
	}
	return cart
}

func TestStepFrameProducesExactlyOneQueuedFrame(t *testing.T) {
	nes := NewFromCartridge(buildNOPLoopROM(t))
	nes.StepFrame()

	if _, ok := nes.PendingFrame(); !ok {
		t.Fatal("expected a completed frame to be queued")
	}
	if _, ok := nes.PendingFrame(); ok {
		t.Fatal("expected exactly one queued frame per StepFrame call")
	}
}

func TestControllerInputReachesBusPort(t *testing.T) {
	nes := NewFromCartridge(buildNOPLoopROM(t))
	pad1 := nes.Controller(0)
	pad1.SetButton(controller.ButtonA, true)

	if !nes.GetBus().GetController(0).IsPressed(controller.ButtonA) {
		t.Fatal("expected button press to be visible through the bus's controller port")
	}
}

func TestResetReturnsCPUToVectorAddress(t *testing.T) {
	nes := NewFromCartridge(buildNOPLoopROM(t))
	nes.StepFrame()
	nes.Reset()

	if nes.GetCycles() != 0 {
		t.Fatalf("expected cycle counter reset to 0, got %d", nes.GetCycles())
	}
	if pc := nes.GetCPU().PC; pc != 0x8000 {
		t.Fatalf("expected PC at the reset vector $8000, got %#04x", pc)
	}
}
