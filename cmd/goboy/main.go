// Command goboy runs a Game Boy ROM headless, for a number of cycles
// or until interrupted, and reports the state it ended in.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/thelolagemann/sm83/internal/gameboy"
	"github.com/thelolagemann/sm83/pkg/log"
	"github.com/thelolagemann/sm83/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger, err := log.NewWithLevel(stderr, cfg.Log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	gb, err := newGameBoy(cfg, logger)
	if err != nil {
		logger.Errorf("%s", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := gb.Run(ctx, cfg.Cycles)
	report(stdout, gb, runErr)

	if cfg.State != "" {
		b, err := gb.SaveState()
		if err == nil {
			err = os.WriteFile(cfg.State, b, 0644)
		}
		if err != nil {
			logger.Errorf("unable to save state: %s", err)
			return 1
		}
		logger.Infof("state written to %s", cfg.State)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return 1
	}
	return 0
}

func newGameBoy(cfg *Config, logger log.Logger) (*gameboy.GameBoy, error) {
	rom, err := utils.LoadFile(cfg.ROM)
	if err != nil {
		return nil, err
	}

	opts := []gameboy.Opt{
		gameboy.WithLogger(logger),
		gameboy.Speed(cfg.Speed),
	}
	if cfg.Boot != "" {
		boot, err := utils.LoadFile(cfg.Boot)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gameboy.WithBootROM(boot))
	}
	if cfg.Trace {
		opts = append(opts, gameboy.WithTrace())
	}
	if cfg.Load != "" {
		state, err := os.ReadFile(cfg.Load)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gameboy.WithState(state))
	}

	return gameboy.NewGameBoy(rom, opts...)
}

// report prints where the run ended up.
func report(w io.Writer, gb *gameboy.GameBoy, err error) {
	label := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(w, "%-10s %s\n", label("cartridge"), gb.MMU.Cart.Title())
	fmt.Fprintf(w, "%-10s %d\n", label("cycles"), gb.CPU.Cycles())
	fmt.Fprintf(w, "%-10s %d\n", label("frames"), gb.PPU.Frame())
	fmt.Fprintf(w, "%-10s %s\n", label("registers"), gb.CPU.Registers.String())
	fmt.Fprintf(w, "%-10s %016x\n", label("vram"), gb.PPU.Digest())

	switch {
	case err == nil:
		fmt.Fprintf(w, "%-10s %s\n", label("status"), green("ok"))
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(w, "%-10s %s\n", label("status"), green("interrupted"))
	default:
		fmt.Fprintf(w, "%-10s %s\n", label("status"), red(err))
	}
}
