// Package tui is an interactive single-stepping debugger for the cpu
// package, built on bubbletea. It is the host the core's callback
// extension point was designed for: it drives the CPU one instruction at a
// time by calling cpu.Step, and renders register, flag, and memory-page
// state after each step. None of this lives in the
// cpu package itself — the core has no notion of a terminal.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"m6502/cpu"
)

type model struct {
	cpu     *cpu.Cpu
	program []byte

	offset uint16 // base address for the page-table view
	prevPC uint16
	err    error
	halted bool
}

// Init copies the program into memory at the fixed offset and points PC at
// it. Unlike cpu.Cpu.LoadAndRun, the debugger never calls Reset, so the
// offset (rather than whatever the reset vector happens to hold) decides
// where execution starts.
func (m model) Init() tea.Cmd {
	for i, b := range m.program {
		m.cpu.Write8(m.offset+uint16(i), b)
	}
	m.cpu.PC = m.offset
	return nil
}

// Update advances the CPU by exactly one instruction per "j" or space
// keypress, so a user can watch register and memory state change one step
// at a time.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit

		case " ", "j":
			if m.halted {
				return m, nil
			}
			m.prevPC = m.cpu.PC
			err := m.cpu.Step()
			if err != nil {
				if err == cpu.ErrHalt {
					m.halted = true
					return m, nil
				}
				m.err = err
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// renderPage renders one 16-byte memory page as a line, highlighting the
// byte at the current PC.
func (m model) renderPage(start uint16) string {
	if start%16 != 0 {
		panic("start must be a multiple of 16")
	}
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		b := m.cpu.Read8(addr)
		if addr == m.cpu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) status() string {
	var flags string
	for _, f := range []cpu.Flags{
		cpu.FlagNegative,
		cpu.FlagOverflow,
		cpu.FlagUnused,
		cpu.FlagBreak,
		cpu.FlagDecimal,
		cpu.FlagInterrupt,
		cpu.FlagZero,
		cpu.FlagCarry,
	} {
		if m.cpu.P.Contains(f) {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
PC: %04x (%04x)
 A: %02x
 X: %02x
 Y: %02x
SP: %02x
N V _ B D I Z C
`,
		m.cpu.PC, m.prevPC,
		m.cpu.A, m.cpu.X, m.cpu.Y, m.cpu.SP,
	) + flags
}

func (m model) pageTable() string {
	header := "page | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}

	pages := []string{header}

	offsets := []uint16{
		0, 16, 32, 48, 64,
		m.offset,
		m.offset + 16,
		m.offset + 32,
		m.offset + 48,
		m.offset + 64,
	}
	for _, addr := range offsets {
		pages = append(pages, m.renderPage(addr))
	}
	return strings.Join(pages, "\n")
}

// View renders the whole UI: the page table, register/flag status, and a
// dump of the opcode about to execute.
func (m model) View() string {
	var opView string
	if op, ok := cpu.Opcodes[m.cpu.Read8(m.cpu.PC)]; ok {
		opView = spew.Sdump(op)
	} else {
		opView = fmt.Sprintf("illegal opcode 0x%02x\n", m.cpu.Read8(m.cpu.PC))
	}
	if m.halted {
		opView = "HALTED (BRK)\n"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		opView,
	)
}

// Run constructs a fresh Cpu, loads program into it at loadAddr, and starts
// an interactive single-step TUI against it. It blocks until the user quits
// ("q") or a decode error stops the CPU; after BRK the halted state stays on
// screen until the user quits.
func Run(program []byte, loadAddr uint16) error {
	finalModel, err := tea.NewProgram(model{
		cpu:     cpu.New(),
		program: program,
		offset:  loadAddr,
	}).Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(model); ok && m.err != nil {
		return m.err
	}
	return nil
}
