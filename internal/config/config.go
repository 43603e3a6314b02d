// Package config is the CLI entry point's option surface: flags and
// environment variables via go-flags (grounded on
// AKJUS-oqtopus-engine/coreapp/sse/conf/sseconf.go's `long`/`env`/`default`
// struct-tag convention), plus an optional TOML overlay via BurntSushi/toml
// (grounded on coreapp/qpu/device.go's LoadDeviceSetting).
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	flags "github.com/jessevdk/go-flags"

	"github.com/qdeck-labs/qsim/internal/simerr"
)

// Options is the full set of qsim CLI flags/environment variables.
type Options struct {
	InputFile  string `long:"input-file" short:"i" description:"path to a .qasm or .json circuit file" required:"true"`
	OutputFile string `long:"output-file" short:"o" description:"path to write the result JSON; stdout if empty"`
	Shots      int    `long:"shots" description:"number of shots to sample; 1 runs a single deterministic evaluation" default:"1" env:"QSIM_SHOTS"`
	Seed       *uint64 `long:"seed" description:"PRNG seed for reproducible sampling; unset draws from OS entropy"`
	MaxQubits  int    `long:"max-qubits" description:"qubit count ceiling before elaboration fails with TooManyQubits" default:"26" env:"QSIM_MAX_QUBITS"`
	ConfigPath string `long:"config" description:"optional TOML file overlaying these options"`
	DevLog     bool   `long:"dev-log" description:"use a human-readable console logger instead of structured JSON" env:"QSIM_DEV_LOG"`
}

// fileOverlay is the subset of Options a TOML file may override. Only
// fields with a sensible static default belong here: InputFile is
// positional-ish and always supplied on the command line, and Seed's
// pointer semantics (nil means "unseeded") don't round-trip cleanly
// through a TOML table that has no concept of absence versus zero.
type fileOverlay struct {
	OutputFile string `toml:"output_file"`
	Shots      int    `toml:"shots"`
	MaxQubits  int    `toml:"max_qubits"`
	DevLog     bool   `toml:"dev_log"`
}

// Load parses command-line arguments and environment variables into an
// Options, then applies a TOML overlay if --config was given. The overlay
// only fills fields that still hold their built-in value (empty output
// file, 1 shot, 26 max qubits, dev-log off); a flag given explicitly with
// that same value cannot be told apart from an unset one, so the file
// value replaces it. QSIM_MAX_QUBITS, when set, takes precedence over both
// --max-qubits and the file. ConfigPath is optional, but a path that is
// given and cannot be read is an error.
func Load(args []string) (*Options, error) {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return nil, err
		}
		return nil, simerr.Wrap(simerr.KindIO, "failed to parse command-line options", err)
	}

	if opts.ConfigPath != "" {
		var overlay fileOverlay
		if _, err := toml.DecodeFile(opts.ConfigPath, &overlay); err != nil {
			return nil, simerr.Wrap(simerr.KindIO, "failed to read config file "+opts.ConfigPath, err)
		}
		if opts.OutputFile == "" {
			opts.OutputFile = overlay.OutputFile
		}
		if opts.Shots == 1 && overlay.Shots != 0 {
			opts.Shots = overlay.Shots
		}
		if opts.MaxQubits == 26 && overlay.MaxQubits != 0 {
			opts.MaxQubits = overlay.MaxQubits
		}
		if !opts.DevLog && overlay.DevLog {
			opts.DevLog = overlay.DevLog
		}
	}

	if v, ok := os.LookupEnv("QSIM_MAX_QUBITS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, simerr.Wrap(simerr.KindIO, "invalid QSIM_MAX_QUBITS value "+strconv.Quote(v), err)
		}
		opts.MaxQubits = n
	}

	return opts, nil
}
