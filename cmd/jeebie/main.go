package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/rtrembecki/dmgcore/jeebie"
	"github.com/rtrembecki/dmgcore/jeebie/debug"
)

const cyclesPerSecond = 4_194_304

func main() {
	app := cli.NewApp()
	app.Name = "jeebie"
	app.Description = "Game Boy (DMG) CPU/bus/timer/DMA core"
	app.Usage = "jeebie [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.IntFlag{
			Name:  "cycles",
			Usage: "Machine cycles to run before stopping (0 = run until the serial port reports Passed/Failed)",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Open the terminal state viewer instead of running headless",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("jeebie exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM file: %w", err)
	}

	emu, err := jeebie.New(data)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	header := emu.Cartridge().Header
	slog.Info("loaded cartridge", "title", header.Title, "checksum_ok", header.ChecksumOK)

	if c.Bool("debug") {
		viewer, err := debug.NewViewer(emu)
		if err != nil {
			return err
		}
		return viewer.Run()
	}

	if budget := c.Int("cycles"); budget > 0 {
		spent := emu.RunCycles(budget)
		slog.Info("run complete", "cycles", spent)
		fmt.Print(string(emu.SerialOutput()))
		return nil
	}

	return runUntilTerminator(emu)
}

// runUntilTerminator steps the emulator in bounded chunks until the serial
// debug buffer contains a blargg-style terminator, or a generous cycle
// budget elapses: 240 chunks of cyclesPerSecond/4 machine cycles. Since
// cyclesPerSecond is the T-cycle clock rate, that is about four minutes of
// emulated machine time.
func runUntilTerminator(emu *jeebie.Emulator) error {
	const chunk = cyclesPerSecond / 4
	const maxChunks = 240

	for i := 0; i < maxChunks; i++ {
		emu.RunCycles(chunk)
		out := emu.SerialOutput()
		if containsTerminator(out) {
			fmt.Print(string(out))
			return nil
		}
	}

	fmt.Print(string(emu.SerialOutput()))
	return errors.New("jeebie: no serial terminator seen within the cycle budget")
}

func containsTerminator(buf []byte) bool {
	s := string(buf)
	return hasSuffixFold(s, "passed") || hasSuffixFold(s, "failed") ||
		hasSuffixFold(s, "passed\n") || hasSuffixFold(s, "failed\n")
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := 0; i < len(suffix); i++ {
		a, b := tail[i], suffix[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}
