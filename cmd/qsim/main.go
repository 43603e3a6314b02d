// Command qsim is the CLI driver: load options, parse and elaborate a
// circuit, evaluate it, and write the result JSON. The overall run/exit
// structure is grounded on AKJUS-oqtopus-engine/coreapp/cmd/edge/main.go's
// setZap-then-run shape, generalized to this repo's much smaller,
// single-shot command surface.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	flags "github.com/jessevdk/go-flags"

	"github.com/qdeck-labs/qsim/internal/circuit"
	"github.com/qdeck-labs/qsim/internal/config"
	"github.com/qdeck-labs/qsim/internal/eval"
	"github.com/qdeck-labs/qsim/internal/jsonio"
	"github.com/qdeck-labs/qsim/internal/obs"
	"github.com/qdeck-labs/qsim/internal/qasm"
	"github.com/qdeck-labs/qsim/internal/render"
	"github.com/qdeck-labs/qsim/internal/simerr"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := config.Load(args)
	if err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return 0
		}
		return simerr.ExitCode(err)
	}

	logger := obs.New(opts.DevLog)
	defer logger.Sync()

	circ, qasmSrc, err := loadCircuit(opts.InputFile, opts.MaxQubits)
	if err != nil {
		zap.L().Error("failed to load circuit", zap.Error(err))
		return simerr.ExitCode(err)
	}

	runID := uuid.New().String()

	var result jsonio.Result
	switch {
	case opts.Shots > 1:
		hist, _, err := eval.Sample(circ, opts.Shots, opts.Seed)
		if err != nil {
			zap.L().Error("sampling failed", zap.Error(err))
			return simerr.ExitCode(err)
		}
		result = jsonio.FromHistogram(runID, circ.NumQubits, hist, qasmSrc)
	default:
		ev := eval.NewEvaluator(circ, opts.Seed)
		if opts.Shots == 0 {
			ev.SkipMeasurement = true
		}
		if err := ev.Run(); err != nil {
			zap.L().Error("evaluation failed", zap.Error(err))
			return simerr.ExitCode(err)
		}
		result = jsonio.FromEvaluator(runID, ev, qasmSrc)
	}

	out, err := jsonio.Encode(result)
	if err != nil {
		zap.L().Error("failed to encode result", zap.Error(err))
		return simerr.ExitCode(simerr.Wrap(simerr.KindIO, "encode result", err))
	}

	if err := writeOutput(opts.OutputFile, out); err != nil {
		zap.L().Error("failed to write result", zap.Error(err))
		return simerr.ExitCode(err)
	}

	return 0
}

// loadCircuit dispatches on the input file's extension: ".json" goes
// through the structured circuit dialect (internal/jsonio), anything else
// is treated as OpenQASM 2.0 source. It returns the canonical QASM text
// alongside the elaborated circuit so the result record can embed it
// regardless of which input dialect was used.
func loadCircuit(path string, maxQubits int) (*circuit.Circuit, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", simerr.Wrap(simerr.KindIO, "failed to read input file "+path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		circ, err := jsonio.DecodeCircuit(data)
		if err != nil {
			return nil, "", err
		}
		if circ.NumQubits > maxQubits {
			return nil, "", simerr.Newf(simerr.KindTooManyQubits, "circuit uses %d qubits, exceeding the %d-qubit limit", circ.NumQubits, maxQubits)
		}
		return circ, render.QASM(circ), nil
	}

	circ, err := qasm.Elaborate(string(data), maxQubits)
	if err != nil {
		return nil, "", err
	}
	return circ, render.QASM(circ), nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		if err != nil {
			return simerr.Wrap(simerr.KindIO, "failed to write result to stdout", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return simerr.Wrap(simerr.KindIO, "failed to write result to "+path, err)
	}
	return nil
}
