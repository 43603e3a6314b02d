package jsonio

import (
	"github.com/tidwall/pretty"

	"github.com/qdeck-labs/qsim/internal/eval"
)

// MeasurementRecord is one recorded measurement outcome, in the order it
// occurred during evaluation.
type MeasurementRecord struct {
	Qubit int `json:"qubit"`
	Creg  int `json:"creg"`
	Bit   int `json:"bit"`
}

// Result is the output record (spec.md §6's result schema, plus the runId
// and circuitQASM fields this repository's JSON dialect adds): the final
// state vector and per-basis-state probabilities for a single deterministic
// run, the measurements that run recorded, and — when shots > 1 — the
// aggregate outcome histogram from internal/eval.Sample instead of a single
// state vector.
type Result struct {
	RunID         string              `json:"runId"`
	NumQubits     int                 `json:"numQubits"`
	StateVector   [][2]float64        `json:"stateVector,omitempty"`
	Probabilities []float64           `json:"probabilities,omitempty"`
	Measurements  []MeasurementRecord `json:"measurements,omitempty"`
	Shots         map[string]int      `json:"shots,omitempty"`
	CircuitQASM   string              `json:"circuitQASM"`
}

// FromEvaluator builds the single-run (shots<=1) flavor of Result from a
// completed Evaluator.
func FromEvaluator(runID string, ev *eval.Evaluator, circuitQASM string) Result {
	amps := ev.SV.Amplitudes
	sv := make([][2]float64, len(amps))
	for i, a := range amps {
		sv[i] = [2]float64{real(a), imag(a)}
	}
	recs := make([]MeasurementRecord, len(ev.Record))
	for i, m := range ev.Record {
		recs[i] = MeasurementRecord{Qubit: m.Qubit, Creg: m.Creg, Bit: m.Bit}
	}
	return Result{
		RunID:         runID,
		NumQubits:     ev.SV.NumQubits,
		StateVector:   sv,
		Probabilities: ev.SV.Probabilities(),
		Measurements:  recs,
		CircuitQASM:   circuitQASM,
	}
}

// FromHistogram builds the multi-shot flavor of Result: no single state
// vector or measurement record applies across independently sampled shots,
// so only the aggregate histogram is reported.
func FromHistogram(runID string, numQubits int, hist map[string]int, circuitQASM string) Result {
	return Result{
		RunID:       runID,
		NumQubits:   numQubits,
		Shots:       hist,
		CircuitQASM: circuitQASM,
	}
}

// Encode marshals r and pretty-prints it, mirroring
// AKJUS-oqtopus-engine/coreapp/core/data.go's combined use of
// jsoniter.ConfigCompatibleWithStandardLibrary and tidwall/pretty rather
// than jsoniter's own (slower, less configurable) indent mode.
func Encode(r Result) ([]byte, error) {
	raw, err := jsonIter.Marshal(r)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(raw), nil
}
