package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var errNoROM = errors.New("no rom file given, use -rom or the rom key of -config")

// Config holds the options of a run. It can be read from a YAML
// file, with command line flags taking precedence.
type Config struct {
	ROM    string  `yaml:"rom"`
	Boot   string  `yaml:"boot"`
	Cycles uint64  `yaml:"cycles"`
	Speed  float64 `yaml:"speed"`
	Log    string  `yaml:"log"`
	Trace  bool    `yaml:"trace"`
	State  string  `yaml:"state"`
	Load   string  `yaml:"load"`
}

func defaultConfig() *Config {
	return &Config{
		Speed: 1,
		Log:   "info",
	}
}

// parseConfig parses the command line arguments, reading the file
// named by -config first if there is one.
func parseConfig(args []string, output io.Writer) (*Config, error) {
	cfg := defaultConfig()
	flags := *cfg

	fs := flag.NewFlagSet("goboy", flag.ContinueOnError)
	fs.SetOutput(output)
	configFile := fs.String("config", "", "YAML file to read the options from")
	fs.StringVar(&flags.ROM, "rom", flags.ROM, "The rom file to load")
	fs.StringVar(&flags.Boot, "boot", flags.Boot, "The boot rom file to load")
	fs.Uint64Var(&flags.Cycles, "cycles", flags.Cycles, "The number of M-cycles to run for, 0 runs until interrupted")
	fs.Float64Var(&flags.Speed, "speed", flags.Speed, "The speed to run the emulator at, 0 runs unpaced")
	fs.StringVar(&flags.Log, "log", flags.Log, "The log level (debug, info, error)")
	fs.BoolVar(&flags.Trace, "trace", flags.Trace, "Log every instruction executed, requires -log debug")
	fs.StringVar(&flags.State, "state", flags.State, "The file to write a save state to on exit")
	fs.StringVar(&flags.Load, "load", flags.Load, "The save state file to resume from")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configFile != "" {
		b, err := os.ReadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", *configFile, err)
		}
	}

	// flags given on the command line win over the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rom":
			cfg.ROM = flags.ROM
		case "boot":
			cfg.Boot = flags.Boot
		case "cycles":
			cfg.Cycles = flags.Cycles
		case "speed":
			cfg.Speed = flags.Speed
		case "log":
			cfg.Log = flags.Log
		case "trace":
			cfg.Trace = flags.Trace
		case "state":
			cfg.State = flags.State
		case "load":
			cfg.Load = flags.Load
		}
	})

	if cfg.ROM == "" {
		return nil, errNoROM
	}
	return cfg, nil
}
