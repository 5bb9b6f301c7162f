// Package console wires the CPU, PPU, APU, and cartridge together into
// a complete NES, coordinating stepping, frame/sample handoff, and
// controller input.
package console

import (
	"fmt"

	"github.com/kestrelcore/nesgo/internal/audioqueue"
	"github.com/kestrelcore/nesgo/internal/videoqueue"
	"github.com/kestrelcore/nesgo/pkg/apu"
	"github.com/kestrelcore/nesgo/pkg/bus"
	"github.com/kestrelcore/nesgo/pkg/cartridge"
	"github.com/kestrelcore/nesgo/pkg/controller"
	"github.com/kestrelcore/nesgo/pkg/cpu"
	"github.com/kestrelcore/nesgo/pkg/ppu"
)

// AudioSampleRate is the rate, in Hz, at which the APU's mixer
// decimates its output and the console's audio queue is sized for.
const AudioSampleRate = 48000

// Console represents a complete NES system: CPU, PPU, APU, and the
// loaded cartridge, driven one CPU instruction at a time.
type Console struct {
	cpu       *cpu.CPU
	bus       *bus.NESBus
	ppu       *ppu.PPU
	apu       *apu.APU
	cartridge *cartridge.Cartridge
	cycles    uint64

	frames  *videoqueue.Queue
	samples *audioqueue.Queue
}

// New loads a cartridge from romPath and builds a console around it.
func New(romPath string) (*Console, error) {
	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load ROM: %w", err)
	}
	return NewFromCartridge(cart), nil
}

// NewFromCartridge builds a console around an already-loaded cartridge.
func NewFromCartridge(cart *cartridge.Cartridge) *Console {
	ppuUnit := ppu.NewPPU()
	ppuUnit.SetMapper(cart.GetMapper())
	ppuUnit.SetMirroring(uint8(cart.GetMirroring()))

	apuUnit := apu.New(AudioSampleRate)

	nesbus := bus.NewNESBus(ppuUnit, apuUnit, cart.GetMapper())
	cpuUnit := cpu.New(nesbus)

	c := &Console{
		cpu:       cpuUnit,
		bus:       nesbus,
		ppu:       ppuUnit,
		apu:       apuUnit,
		cartridge: cart,
		frames:    videoqueue.New(2),
		samples:   audioqueue.New(AudioSampleRate / 10),
	}
	c.Reset()
	return c
}

// Reset returns the CPU and PPU to their power-on state.
func (c *Console) Reset() {
	c.cpu.Reset()
	c.ppu.Reset()
	c.apu.Reset()
	c.cycles = 0
}

// SetControllers plugs two live button sources into the console's
// controller ports (either may be nil to leave a port unplugged).
func (c *Console) SetControllers(pad1, pad2 *controller.Controller) {
	if pad1 != nil {
		*c.bus.GetController(0) = *pad1
	}
	if pad2 != nil {
		*c.bus.GetController(1) = *pad2
	}
}

// Controller returns the live controller at the given port (0 or 1)
// so a frontend can drive its button state directly.
func (c *Console) Controller(port int) *controller.Controller {
	return c.bus.GetController(port)
}

// Step executes exactly one CPU instruction, clocking the bus (and
// therefore the PPU and APU) for every cycle it consumes, plus
// whatever extra cycles an in-flight OAM DMA steals. It returns the
// total number of CPU cycles this step took.
func (c *Console) Step() int {
	cycles := c.cpu.Step()

	for i := 0; i < cycles; i++ {
		c.bus.Clock()
	}
	for c.bus.DMATransferActive() {
		c.bus.Clock()
		cycles++
	}

	if c.bus.IsNMI() {
		c.cpu.RequestNMI()
	}
	c.cpu.SetIRQLine(c.bus.IRQLine())

	if c.ppu.IsFrameComplete() {
		c.ppu.ClearFrameComplete()
		c.frames.Push(c.ppu.GetFrameBuffer())
	}
	for _, sample := range c.apu.DrainSamples() {
		c.samples.Push(sample)
	}

	c.cycles += uint64(cycles)
	return cycles
}

// StepFrame runs the console until a complete frame has been queued.
func (c *Console) StepFrame() {
	queued := c.frames.Len()
	for c.frames.Len() == queued {
		c.Step()
	}
}

// PendingFrame pops the oldest queued frame buffer, if any.
func (c *Console) PendingFrame() (*[ppu.ScreenWidth * ppu.ScreenHeight]uint8, bool) {
	return c.frames.Pop()
}

// PendingSamples drains every audio sample queued since the last call.
func (c *Console) PendingSamples() []float32 {
	return c.samples.Drain()
}

// GetPPU returns the PPU for direct inspection (debuggers, tests).
func (c *Console) GetPPU() *ppu.PPU { return c.ppu }

// GetAPU returns the APU for direct inspection.
func (c *Console) GetAPU() *apu.APU { return c.apu }

// GetCPU returns the CPU for direct inspection.
func (c *Console) GetCPU() *cpu.CPU { return c.cpu }

// GetBus returns the system bus for direct inspection.
func (c *Console) GetBus() *bus.NESBus { return c.bus }

// GetCartridge returns the loaded cartridge.
func (c *Console) GetCartridge() *cartridge.Cartridge { return c.cartridge }

// GetCycles returns the total number of CPU cycles executed.
func (c *Console) GetCycles() uint64 { return c.cycles }
