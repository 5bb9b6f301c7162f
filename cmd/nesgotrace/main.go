// Command nesgotrace is an interactive step-debugger: it loads a ROM,
// then single-steps the CPU one instruction at a time under operator
// control, showing a memory page table, register/flag status, and the
// decoded opcode at the program counter.
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/kestrelcore/nesgo/pkg/console"
	"github.com/kestrelcore/nesgo/pkg/cpu"
)

type model struct {
	nes    *console.Console
	prevPC uint16
	err    error
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.nes.GetCPU().PC
			m.nes.Step()
			if m.nes.GetCPU().Halted {
				m.err = m.nes.GetCPU().LastErr
				return m, tea.Quit
			}
		case "f":
			m.nes.StepFrame()
		}
	}
	return m, nil
}

func (m model) renderPage(bus interface{ Read(uint16) uint8 }, start uint16) string {
	pc := m.nes.GetCPU().PC
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		b := bus.Read(addr)
		if addr == pc {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) pageTable() string {
	c := m.nes.GetCPU()
	header := "page | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}
	lines := []string{header}
	base := c.PC &^ 0x0F
	for row := -2; row <= 2; row++ {
		start := uint16(int(base) + row*16)
		lines = append(lines, m.renderPage(m.nes.GetBus(), start))
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	c := m.nes.GetCPU()
	flagBits := []string{"N", "V", "-", "B", "D", "I", "Z", "C"}
	masks := []uint8{0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x01}
	var flags strings.Builder
	for i, mask := range masks {
		if c.P&mask != 0 {
			flags.WriteString(flagBits[i] + " ")
		} else {
			flags.WriteString("_ ")
		}
	}
	return fmt.Sprintf(`
PC: %04x (was %04x)
 A: %02x
 X: %02x
 Y: %02x
SP: %02x
%s
cycles: %d
`, c.PC, m.prevPC, c.A, c.X, c.Y, c.SP, flags.String(), m.nes.GetCycles())
}

func (m model) View() string {
	c := m.nes.GetCPU()
	opcode := m.nes.GetBus().Read(c.PC)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(), m.status()),
		"",
		fmt.Sprintf("next: $%02X %s", opcode, cpu.OpcodeName(opcode)),
		spew.Sdump(c),
		"",
		"space/j: step one instruction | f: run one frame | q: quit",
	)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: nesgotrace <rom-file>")
		os.Exit(1)
	}

	nes, err := console.New(os.Args[1])
	if err != nil {
		fmt.Printf("failed to load ROM: %v\n", err)
		os.Exit(1)
	}
	nes.Reset()

	result, err := tea.NewProgram(model{nes: nes}).Run()
	if err != nil {
		fmt.Printf("debugger error: %v\n", err)
		os.Exit(1)
	}
	if final, ok := result.(model); ok && final.err != nil {
		fmt.Println("Halted:", final.err)
	}
}
