package eval

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/qdeck-labs/qsim/internal/circuit"
)

// ShotOutcome is one independent run's final classical-register key and
// measurement record, returned alongside the aggregate histogram so a
// caller can inspect any single shot, including its final state vector,
// not just the histogram.
type ShotOutcome struct {
	Key    string
	Record []MeasurementEntry
	Final  *StateVector
}

// Sample runs circ independently `shots` times from a fresh ground state
// (spec.md §4.6's "simple correct implementation": rerun the full circuit
// per shot with a distinct PRNG seed) and aggregates outcomes into a
// histogram keyed by the concatenated classical register. Shots run
// concurrently via errgroup since each owns an independent evaluator —
// spec.md §5 explicitly allows this ("for multi-shot runs, evaluators are
// independent").
func Sample(circ *circuit.Circuit, shots int, seed *uint64) (map[string]int, []ShotOutcome, error) {
	outcomes := make([]ShotOutcome, shots)

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < shots; i++ {
		i := i
		g.Go(func() error {
			var shotSeed *uint64
			if seed != nil {
				s := *seed + uint64(i)
				shotSeed = &s
			}
			ev := NewEvaluator(circ, shotSeed)
			if err := ev.Run(); err != nil {
				return err
			}
			outcomes[i] = ShotOutcome{Key: ev.CR.Key(), Record: ev.Record, Final: ev.SV}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	histogram := make(map[string]int)
	for _, o := range outcomes {
		histogram[o.Key]++
	}
	return histogram, outcomes, nil
}
