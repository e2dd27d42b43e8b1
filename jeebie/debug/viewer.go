// Package debug implements a terminal viewer for inspecting core state
// while it runs: CPU registers, the instruction stream around PC, and raw
// hex dumps of VRAM and OAM. There is no PPU in this core, so there is no
// framebuffer to render — this is a state inspector, not a screen.
package debug

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/rtrembecki/dmgcore/jeebie"
	"github.com/rtrembecki/dmgcore/jeebie/disasm"
)

const (
	stepInterval  = 10_000 // machine cycles run per tick while free-running
	frameInterval = time.Second / 30
)

// Viewer is a tcell-based terminal inspector for a running Emulator.
type Viewer struct {
	screen   tcell.Screen
	emulator *jeebie.Emulator
	running  bool
	paused   bool
}

// NewViewer initializes the terminal and wraps emu for inspection.
func NewViewer(emu *jeebie.Emulator) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("debug: initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("debug: initializing terminal: %w", err)
	}

	return &Viewer{screen: screen, emulator: emu, running: true, paused: true}, nil
}

// Run drives the viewer's event loop until the user quits.
func (v *Viewer) Run() error {
	defer v.screen.Fini()

	v.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	v.screen.Clear()

	go v.handleInput()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for v.running {
		<-ticker.C
		if !v.paused {
			v.emulator.RunCycles(stepInterval)
		}
		v.render()
		v.screen.Show()
	}

	return nil
}

func (v *Viewer) handleInput() {
	for v.running {
		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				v.running = false
				return
			case tcell.KeyRune:
				switch ev.Rune() {
				case ' ':
					v.paused = !v.paused
				case 'n':
					v.emulator.Step()
				case 'q':
					v.running = false
					return
				}
			}
		case *tcell.EventResize:
			v.screen.Sync()
		}
	}
}

func (v *Viewer) render() {
	v.screen.Clear()
	v.drawRegisters(1, 0)
	v.drawDisassembly(1, 8)
	v.drawMemory(1, 20, "VRAM", v.emulator.VRAMSnapshot())
	v.drawMemory(1, 38, "OAM", v.emulator.OAMSnapshot())
	v.drawSerial(60, 0)
}

func (v *Viewer) puts(x, y int, style tcell.Style, text string) {
	for i, ch := range text {
		v.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (v *Viewer) drawRegisters(x, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	reg := v.emulator.CPU().Registers()

	status := "RUNNING"
	if v.paused {
		status = "PAUSED"
	}

	lines := []string{
		fmt.Sprintf("[%s]  IME=%t halted=%t", status, v.emulator.CPU().IME(), v.emulator.CPU().Halted()),
		fmt.Sprintf("AF=%04X BC=%04X", reg.AF(), reg.BC()),
		fmt.Sprintf("DE=%04X HL=%04X", reg.DE(), reg.HL()),
		fmt.Sprintf("SP=%04X PC=%04X", reg.SP(), reg.PC()),
		"SPACE=run/pause  N=step  ESC/Q=quit",
	}
	for i, line := range lines {
		v.puts(x, y+i, style, line)
	}
}

func (v *Viewer) drawDisassembly(x, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	highlight := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue)

	pc := v.emulator.CPU().Registers().PC()
	lines := disasm.Range(pc, 6, busReader{v.emulator})

	v.puts(x, y, style, "Disassembly:")
	for i, line := range lines {
		s := style
		if i == 0 {
			s = highlight
		}
		v.puts(x, y+1+i, s, fmt.Sprintf("%04X: %s", line.Address, line.Text))
	}
}

func (v *Viewer) drawMemory(x, y int, label string, data []byte) {
	style := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	v.puts(x, y, style, label+":")

	rowsShown := 8
	for row := 0; row < rowsShown && row*16 < len(data); row++ {
		line := fmt.Sprintf("%04X: ", row*16)
		for col := 0; col < 16 && row*16+col < len(data); col++ {
			line += fmt.Sprintf("%02X ", data[row*16+col])
		}
		v.puts(x, y+1+row, style, line)
	}
}

func (v *Viewer) drawSerial(x, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	v.puts(x, y, style, "Serial output:")
	out := string(v.emulator.SerialOutput())
	v.puts(x, y+1, style, out)
}

// busReader adapts Emulator.Peek for the disassembler.
type busReader struct{ emu *jeebie.Emulator }

func (b busReader) Read(address uint16) byte {
	return b.emu.Peek(address)
}
