// Command gbrun is the reference shell for gbcore: it loads a ROM (or,
// given a directory, presents a picker over the ROMs inside it), wires
// an SDL2 host adapter, and drives the system loop to completion (spec
// §6.3).
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/retrogb/gbcore/internal/cartsave"
	"github.com/retrogb/gbcore/internal/gbcore"
	"github.com/retrogb/gbcore/internal/mmu"
	"github.com/retrogb/gbcore/internal/sdlhost"
	pkglog "github.com/retrogb/gbcore/pkg/log"
)

func main() {
	logger := pkglog.New()

	app := cli.NewApp()
	app.Name = "gbrun"
	app.Usage = "gbrun ROM|DIR [options]"
	app.Description = "Run a Game Boy ROM, or pick one from a directory"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "boot", Usage: "boot ROM image to overlay at startup"},
		cli.StringFlag{Name: "ram", Usage: "cartridge RAM save file"},
		cli.IntFlag{Name: "freq", Usage: "target CPU frequency in Hz", Value: 4194304},
		cli.IntFlag{Name: "sample", Usage: "governor sample window in cycles", Value: 4194304 / 60},
		cli.IntFlag{Name: "delayunit", Usage: "governor busy-delay granularity in spin-loop iterations", Value: 1000},
		cli.BoolFlag{Name: "native", Usage: "disable the frequency governor"},
		cli.BoolFlag{Name: "debug", Usage: "stream CPU/PPU state over a debug websocket"},
		cli.StringFlag{Name: "debugaddr", Usage: "debug websocket listen address", Value: "localhost:8733"},
		cli.StringFlag{Name: "screenshot", Usage: "write the final frame to this PNG path on exit"},
		cli.IntFlag{Name: "scale", Usage: "window pixel scale", Value: 3},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Error("gbrun: fatal")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := pkglog.New()
	entry := pkglog.Component(logger, "gbrun")

	if c.NArg() < 1 {
		cli.ShowAppHelp(c)
		return errors.New("a ROM file or directory is required")
	}
	romPath := c.Args().Get(0)

	info, err := os.Stat(romPath)
	if err != nil {
		return fmt.Errorf("gbrun: %w", err)
	}

	h, err := sdlhost.New(sdlhost.Config{
		Title: "gbrun",
		Scale: c.Int("scale"),
		Log:   entry,
	})
	if err != nil {
		return fmt.Errorf("gbrun: %w", err)
	}
	defer h.Close()

	if info.IsDir() {
		entries, err := romsIn(romPath)
		if err != nil {
			return fmt.Errorf("gbrun: %w", err)
		}
		picked, ok := pickROM(h, entries)
		if !ok {
			entry.Info("gbrun: no ROM selected")
			return nil
		}
		romPath = picked
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("gbrun: %w", err)
	}

	var boot *mmu.BootROM
	if bootPath := c.String("boot"); bootPath != "" {
		data, err := os.ReadFile(bootPath)
		if err != nil {
			return fmt.Errorf("gbrun: boot rom: %w", err)
		}
		if len(data) != 256 {
			return fmt.Errorf("gbrun: boot rom must be 256 bytes, got %d", len(data))
		}
		var b mmu.BootROM
		copy(b[:], data)
		boot = &b
	}

	savePath := c.String("ram")
	if savePath == "" && len(rom) >= 0x150 {
		title := string(rom[0x134:0x144])
		savePath = filepath.Join(filepath.Dir(romPath), cartsave.Key(title, rom[:0x150])+".sav")
	}
	h.SetSavePath(savePath)

	opts := []gbcore.Option{
		gbcore.WithFreq(c.Int("freq")),
		gbcore.WithSample(c.Int("sample")),
		gbcore.WithDelayUnit(c.Int("delayunit")),
	}
	if c.Bool("native") {
		opts = append(opts, gbcore.WithNativeSpeed())
	}
	if c.Bool("debug") {
		opts = append(opts, gbcore.WithDebug(c.String("debugaddr")))
	}
	cfg := gbcore.NewConfig(opts...)

	sys, err := gbcore.New(rom, h, boot, cfg, logger)
	if err != nil {
		return fmt.Errorf("gbrun: %w", err)
	}
	sys.LoadRAM(0x20000)

	runErr := sys.Run()

	if shot := c.String("screenshot"); shot != "" {
		if err := sdlhost.SaveScreenshot(shot, h.LastFrame(), c.Int("scale")); err != nil {
			entry.WithError(err).Warn("gbrun: screenshot failed")
		}
	}

	if runErr != nil {
		return fmt.Errorf("gbrun: %w", runErr)
	}
	return nil
}

func romsIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var roms []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".gb" || ext == ".gbc" {
			roms = append(roms, filepath.Join(dir, e.Name()))
		}
	}
	return roms, nil
}
