// Copyright © 2019 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Command emu8080mon is a single-step terminal debugger for the 8080
// core: registers, flags, a disassembly window following PC, and two RAM
// pages, stepped one instruction at a time by the space bar.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/lesurp/emu8080/pkg/cpu"
	"github.com/lesurp/emu8080/pkg/decoder"
	"github.com/lesurp/emu8080/pkg/ioport"
	"github.com/lesurp/emu8080/pkg/memory"
	"github.com/lesurp/emu8080/pkg/romset"
)

var (
	system *cpu.System
	io     = ioport.NewLatchedIO()

	paragraphCPU  *widgets.Paragraph
	paragraphCode *widgets.Paragraph
	paragraphRam0 *widgets.Paragraph
	paragraphRam1 *widgets.Paragraph
	paragraphTips *widgets.Paragraph
)

// flagString renders the five live 8080 flags the way mgnes renders its
// 6502 status byte: one bracketed letter per flag, green when set and red
// when clear.
func flagString(s *cpu.System) string {
	psw := s.PSW() & 0xff
	type bit struct {
		mask uint8
		name rune
	}
	bits := []bit{
		{0x80, 'S'}, {0x40, 'Z'}, {0x10, 'A'}, {0x04, 'P'}, {0x01, 'C'},
	}
	sb := &strings.Builder{}
	sb.WriteString("FLAGS: ")
	for _, b := range bits {
		sb.WriteRune('[')
		sb.WriteRune(b.name)
		sb.WriteRune(']')
		sb.WriteString("(fg:")
		if uint8(psw)&b.mask != 0 {
			sb.WriteString("green")
		} else {
			sb.WriteString("red")
		}
		sb.WriteString(") ")
	}
	return sb.String()
}

func renderCPU(p *widgets.Paragraph) {
	sb := &strings.Builder{}
	sb.WriteString(flagString(system))
	sb.WriteRune('\n')
	sb.WriteString(fmt.Sprintf("PC: $%04X  SP: $%04X  INTE: %v", system.PC(), system.SP(), system.INTE()))
	sb.WriteRune('\n')
	sb.WriteString(fmt.Sprintf("A: $%02X   BC: $%04X", system.Get(decoder.A), system.GetRP(decoder.BC)))
	sb.WriteRune('\n')
	sb.WriteString(fmt.Sprintf("DE: $%04X  HL: $%04X", system.GetRP(decoder.DE), system.GetRP(decoder.HL)))
	if system.Halted() {
		sb.WriteString("\nHALTED")
	}
	p.Text = sb.String()
}

func renderRAM(p *widgets.Paragraph, addr uint16, numRow, numCol int) {
	curAddr := addr
	sb := &strings.Builder{}
	for row := 0; row < numRow; row++ {
		sb.WriteString(fmt.Sprintf("$%04X:", curAddr))
		for col := 0; col < numCol; col++ {
			v, _ := system.Memory().Read(curAddr)
			sb.WriteString(fmt.Sprintf(" %02X", v))
			curAddr++
		}
		sb.WriteRune('\n')
	}
	p.Text = sb.String()
}

func renderCode(p *widgets.Paragraph) {
	sb := &strings.Builder{}
	pc := system.PC()
	data := system.Memory().SliceFrom(0)
	for n := 0; n < 16 && int(pc) < len(data); n++ {
		instr, err := decoder.ReadAt(data, pc)
		if err != nil {
			break
		}
		line := fmt.Sprintf("%04X  %v", pc, instr.Op)
		if n == 0 {
			sb.WriteString(fmt.Sprintf("[%s](fg:cyan)\n", line))
		} else {
			sb.WriteString(line + "\n")
		}
		pc += instr.Size()
	}
	p.Text = sb.String()
}

func renderTips(p *widgets.Paragraph) {
	p.Text = "SPACE = Step Instruction    C = Latch Coin Input (port 1, bit 0)    Q = Quit"
}

func draw() {
	renderRAM(paragraphRam0, 0x0000, 16, 16)
	renderRAM(paragraphRam1, 0x2400, 16, 16)
	renderCPU(paragraphCPU)
	renderCode(paragraphCode)
	renderTips(paragraphTips)

	ui.Render(paragraphRam0, paragraphRam1, paragraphCPU, paragraphCode, paragraphTips)
}

func initLayout() {
	paragraphRam0 = widgets.NewParagraph()
	paragraphRam0.Title = "RAM Page 0x0000"
	paragraphRam0.SetRect(0, 0, 56, 18)

	paragraphRam1 = widgets.NewParagraph()
	paragraphRam1.Title = "Framebuffer Page 0x2400"
	paragraphRam1.SetRect(0, 18, 56, 36)

	paragraphCPU = widgets.NewParagraph()
	paragraphCPU.Title = "CPU"
	paragraphCPU.SetRect(56, 0, 56+34, 7)

	paragraphCode = widgets.NewParagraph()
	paragraphCode.Title = "Disassembly"
	paragraphCode.SetRect(56, 7, 56+34, 7+29)

	paragraphTips = widgets.NewParagraph()
	paragraphTips.Title = "Tips"
	paragraphTips.SetRect(0, 36, 56+34, 39)
}

func loadSystem(romPath string) error {
	f, err := os.Open(romPath)
	if err != nil {
		return err
	}
	defer f.Close()

	rom, err := romset.Load(f)
	if err != nil {
		return err
	}

	mem := memory.New(0x4000, false)
	if err := mem.RegisterROM(rom, 0); err != nil {
		return err
	}
	system = cpu.NewSystem(mem, 0)
	return nil
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: emu8080mon <rom-file>")
	}
	if err := loadSystem(os.Args[1]); err != nil {
		log.Fatalf("loading ROM: %v", err)
	}

	if err := ui.Init(); err != nil {
		log.Fatalf("failed to initialize termui: %v", err)
	}
	defer ui.Close()

	initLayout()
	draw()

	for e := range ui.PollEvents() {
		if e.Type != ui.KeyboardEvent {
			continue
		}
		switch e.ID {
		case "q", "Q", "<C-c>":
			return
		case "<Space>":
			if !system.Halted() {
				instr, err := decoder.ReadAt(system.Memory().SliceFrom(0), system.PC())
				if err == nil {
					system.Execute(instr, io)
				}
			}
		case "c", "C":
			// Latch a coin-slot signal the way an arcade cabinet's coin
			// switch would, bypassing OUT entirely: the CPU observes it
			// on its next IN from port 1.
			io.Set(1, io.Read(1)|0x01)
		}
		draw()
	}
}
