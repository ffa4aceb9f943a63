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

// Command emu8080run loads an 8080 ROM image and runs it to completion (or
// to an execution error), printing a CPU state dump if it ever fails.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/lesurp/emu8080/pkg/cpu"
	"github.com/lesurp/emu8080/pkg/decoder"
	"github.com/lesurp/emu8080/pkg/diagnostics"
	"github.com/lesurp/emu8080/pkg/ioport"
	"github.com/lesurp/emu8080/pkg/memory"
	"github.com/lesurp/emu8080/pkg/romset"
	"gopkg.in/urfave/cli.v2"
)

func main() {
	app := &cli.App{
		Name:    "emu8080run",
		Usage:   "run an Intel 8080 ROM image to completion",
		Version: "v0.0.1",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rom",
				Aliases: []string{"r"},
				Usage:   "path to a single monolithic ROM image",
			},
			&cli.StringFlag{
				Name:  "rom-h",
				Usage: "path to the Space Invaders 'h' ROM page (with -g/-f/-e, in place of --rom)",
			},
			&cli.StringFlag{
				Name:  "rom-g",
				Usage: "path to the Space Invaders 'g' ROM page",
			},
			&cli.StringFlag{
				Name:  "rom-f",
				Usage: "path to the Space Invaders 'f' ROM page",
			},
			&cli.StringFlag{
				Name:  "rom-e",
				Usage: "path to the Space Invaders 'e' ROM page",
			},
			&cli.IntFlag{
				Name:  "ram-size",
				Usage: "total addressable memory size, in bytes",
				Value: 0x4000,
			},
			&cli.IntFlag{
				Name:  "start-pc",
				Usage: "initial program counter",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "allow-rom-write",
				Usage: "disable ROM write protection (diagnostic ROMs that self-patch)",
			},
			&cli.IntFlag{
				Name:  "max-instructions",
				Usage: "abort once the retired-instruction count exceeds this value (0 = unlimited)",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "log one line per retired instruction",
			},
		},
		Action: run,
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type stdoutLogger struct{}

func (stdoutLogger) Log(msg string) { fmt.Println(msg) }

func run(c *cli.Context) error {
	rom, err := loadROM(c)
	if err != nil {
		return err
	}

	mem := memory.New(c.Int("ram-size"), c.Bool("allow-rom-write"))
	if err := mem.RegisterROM(rom, 0); err != nil {
		return err
	}

	system := cpu.NewSystem(mem, uint16(c.Int("start-pc")))
	io := ioport.NewLatchedIO()

	if c.Bool("trace") {
		diagnostics.SetLogger(stdoutLogger{})
		diagnostics.SetTraceEnabled(true)
	}

	maxInstructions := c.Int("max-instructions")
	instructions := 0
	for {
		instr, err := decoder.ReadAt(mem.SliceFrom(0), system.PC())
		if err != nil {
			dumpState(system)
			return err
		}
		if _, err := system.Execute(instr, io); err != nil {
			dumpState(system)
			return err
		}
		if system.Halted() {
			return nil
		}
		instructions++
		if maxInstructions > 0 && instructions > maxInstructions {
			dumpState(system)
			return fmt.Errorf("reached maximum instruction count (%d > %d), aborting", instructions, maxInstructions)
		}
	}
}

// loadROM loads either a single monolithic ROM image via --rom, or the
// classic four-part Space Invaders h/g/f/e split via --rom-h/-g/-f/-e.
func loadROM(c *cli.Context) ([]byte, error) {
	romPath := c.String("rom")
	h, g, fPage, e := c.String("rom-h"), c.String("rom-g"), c.String("rom-f"), c.String("rom-e")

	if romPath != "" {
		f, err := os.Open(romPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return romset.Load(f)
	}

	if h == "" || g == "" || fPage == "" || e == "" {
		cli.ShowAppHelp(c)
		return nil, cli.Exit("no ROM given: pass --rom, or all of --rom-h/-g/-f/-e", 86)
	}

	hf, err := os.Open(h)
	if err != nil {
		return nil, err
	}
	defer hf.Close()
	gf, err := os.Open(g)
	if err != nil {
		return nil, err
	}
	defer gf.Close()
	ff, err := os.Open(fPage)
	if err != nil {
		return nil, err
	}
	defer ff.Close()
	ef, err := os.Open(e)
	if err != nil {
		return nil, err
	}
	defer ef.Close()

	return romset.LoadSpaceInvadersSet(hf, gf, ff, ef)
}

// dumpState prints the CPU's register file, grounded on the original
// reference implementation's own System::dump_state debug aid.
func dumpState(s *cpu.System) {
	fmt.Println("Dumping CPU state during execution error.")
	fmt.Println("Registers:")
	fmt.Printf("\tA: %#04x\n", s.Get(decoder.A))
	fmt.Printf("\tF: %#04x\n", s.Get(decoder.F))
	fmt.Printf("\tB: %#04x\n", s.Get(decoder.B))
	fmt.Printf("\tC: %#04x\n", s.Get(decoder.C))
	fmt.Printf("\tD: %#04x\n", s.Get(decoder.D))
	fmt.Printf("\tE: %#04x\n", s.Get(decoder.E))
	fmt.Printf("\tH: %#04x\n", s.Get(decoder.H))
	fmt.Printf("\tL: %#04x\n", s.Get(decoder.L))
	fmt.Println("Register pairs:")
	fmt.Printf("\tPSW: %#06x\n", s.PSW())
	fmt.Printf("\tB:   %#06x\n", s.GetRP(decoder.BC))
	fmt.Printf("\tD:   %#06x\n", s.GetRP(decoder.DE))
	fmt.Printf("\tH:   %#06x\n", s.GetRP(decoder.HL))
	fmt.Printf("PC: %#06x\n", s.PC())
	fmt.Printf("SP: %#06x\n", s.SP())
	fmt.Printf("INTE: %v\n", s.INTE())
}
