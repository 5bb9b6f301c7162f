// Package bus implements the NES system bus connecting CPU, PPU, APU,
// controllers, and the cartridge mapper.
package bus

import (
	"github.com/kestrelcore/nesgo/pkg/apu"
	"github.com/kestrelcore/nesgo/pkg/cartridge"
	"github.com/kestrelcore/nesgo/pkg/controller"
	"github.com/kestrelcore/nesgo/pkg/cpu"
	"github.com/kestrelcore/nesgo/pkg/ppu"
)

// NESBus implements cpu.Bus for the NES system.
//
// CPU Memory Map:
//
//	$0000-$07FF: 2KB internal RAM
//	$0800-$1FFF: Mirrors of $0000-$07FF
//	$2000-$2007: PPU registers
//	$2008-$3FFF: Mirrors of $2000-$2007
//	$4000-$4013, $4015, $4017: APU registers
//	$4014: OAMDMA
//	$4016-$4017: Controller ports
//	$4018-$401F: APU/IO test space, unmapped
//	$4020-$FFFF: Cartridge space (PRG-ROM, PRG-RAM, mapper registers)
type NESBus struct {
	cpuRAM [2048]uint8

	ppu *ppu.PPU
	apu *apu.APU

	mapper cartridge.Mapper

	controller1 *controller.Controller
	controller2 *controller.Controller

	// Last byte driven onto the bus by any device, returned for reads
	// of unmapped addresses.
	openBus uint8

	// CPU cycle counter, used only by OAM DMA: it decides the odd-cycle
	// extra wait cycle and puts reads on even cycles, writes on odd ones.
	cpuCycleCount uint64

	dmaPage       uint8
	dmaAddr       uint8
	dmaData       uint8
	dmaTransfer   bool
	dmaWaitCycles uint8
}

var _ cpu.Bus = (*NESBus)(nil)

// NewNESBus creates a new NES system bus.
func NewNESBus(ppuUnit *ppu.PPU, apuUnit *apu.APU, mapper cartridge.Mapper) *NESBus {
	return &NESBus{
		ppu:         ppuUnit,
		apu:         apuUnit,
		mapper:      mapper,
		controller1: controller.NewController(),
		controller2: controller.NewController(),
	}
}

// Read implements cpu.Bus.Read for the CPU.
func (b *NESBus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		b.openBus = b.cpuRAM[addr&0x07FF]

	case addr < 0x4000:
		b.openBus = b.ppu.ReadCPURegister(0x2000 + (addr & 0x0007))

	case addr == 0x4015:
		b.openBus = b.apu.ReadStatus()

	case addr == 0x4016:
		// Only bit 0 comes from the shift register; the rest of the
		// byte is whatever was last driven onto the open bus.
		b.openBus = (b.openBus & 0xE0) | b.controller1.Read()

	case addr == 0x4017:
		b.openBus = (b.openBus & 0xE0) | b.controller2.Read()

	case addr >= 0x4020:
		b.openBus = b.mapper.ReadPRG(addr)

		// $4018-$401F and any other gap: leave openBus at its last
		// driven value, matching real hardware's floating bus.
	}

	return b.openBus
}

// Write implements cpu.Bus.Write for the CPU.
func (b *NESBus) Write(addr uint16, data uint8) {
	b.openBus = data

	switch {
	case addr < 0x2000:
		b.cpuRAM[addr&0x07FF] = data

	case addr < 0x4000:
		b.ppu.WriteCPURegister(0x2000+(addr&0x0007), data)

	case addr == 0x4014:
		b.dmaPage = data
		b.dmaAddr = 0
		b.dmaTransfer = true
		b.dmaWaitCycles = 1
		if b.cpuCycleCount%2 == 1 {
			b.dmaWaitCycles = 2
		}

	case addr == 0x4016:
		// Writing the strobe bit latches both controllers.
		b.controller1.Write(data)
		b.controller2.Write(data)

	case addr >= 0x4000 && addr <= 0x4013, addr == 0x4015, addr == 0x4017:
		b.apu.WriteRegister(addr, data)

	case addr >= 0x4020:
		b.mapper.WritePRG(addr, data)
	}
}

// PRGRead lets the APU's DMC channel pull sample bytes out of
// cartridge space without depending on the bus package.
func (b *NESBus) PRGRead(addr uint16) uint8 {
	return b.mapper.ReadPRG(addr)
}

// Clock advances the bus by one CPU cycle: the PPU by three dots, the
// APU by one cycle, and any in-flight OAM DMA transfer.
func (b *NESBus) Clock() int {
	b.cpuCycleCount++

	b.ppu.Clock()
	b.ppu.Clock()
	b.ppu.Clock()

	stall := b.apu.Step(b.PRGRead)

	if b.dmaTransfer {
		if b.dmaWaitCycles > 0 {
			b.dmaWaitCycles--
		} else {
			if b.cpuCycleCount%2 == 0 {
				addr := uint16(b.dmaPage)<<8 | uint16(b.dmaAddr)
				b.dmaData = b.Read(addr)
			} else {
				b.ppu.WriteCPURegister(0x2004, b.dmaData)
				b.dmaAddr++
				if b.dmaAddr == 0 {
					b.dmaTransfer = false
				}
			}
		}
		stall++
	}

	return stall
}

// DMATransferActive reports whether an OAM DMA is in progress, so the
// driver can hold the CPU stalled.
func (b *NESBus) DMATransferActive() bool {
	return b.dmaTransfer || b.dmaWaitCycles > 0
}

// IsNMI returns true if the PPU is requesting an NMI.
func (b *NESBus) IsNMI() bool {
	return b.ppu.GetNMI()
}

// IRQLine reports whether the APU is asserting IRQ.
func (b *NESBus) IRQLine() bool {
	return b.apu.IRQLine()
}

// GetPPU returns the PPU.
func (b *NESBus) GetPPU() *ppu.PPU {
	return b.ppu
}

// GetAPU returns the APU.
func (b *NESBus) GetAPU() *apu.APU {
	return b.apu
}

// GetController returns the specified controller (0 or 1).
func (b *NESBus) GetController(num int) *controller.Controller {
	if num == 0 {
		return b.controller1
	}
	return b.controller2
}
