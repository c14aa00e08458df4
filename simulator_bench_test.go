package regsim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/pkg/profile"
)

var benchResults *Results

func setupBenchSimulator(nObs, nFeats int) *Simulator {
	seed := uint64(10)
	opt := NewDefaultOptions()
	opt.Seed = &seed

	sim, err := NewSimulator(opt)
	if err != nil {
		panic(err)
	}
	if err := sim.ApplyDimensions(nObs, nFeats); err != nil {
		panic(err)
	}
	if err := sim.ApplyX(GenerateX{Min: 0, Max: 1000, Precision: 4}); err != nil {
		panic(err)
	}
	if err := sim.ApplyB(GenerateB{Min: 1, Max: 10, Precision: 2}, 3.0); err != nil {
		panic(err)
	}
	if err := sim.ApplyNoise(0, 5); err != nil {
		panic(err)
	}
	return sim
}

func BenchmarkCompute(b *testing.B) {
	sim := setupBenchSimulator(10_000, 20)

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(b.TempDir()), profile.Quiet).Stop()
	for i := 0; i < b.N; i++ {
		if err := sim.Compute(); err != nil {
			panic(err)
		}
	}

	res, err := sim.Results()
	if err != nil {
		panic(err)
	}
	benchResults = res

	bytes, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(filepath.Join(b.TempDir(), "benchmark_results.json"), bytes, 0o644); err != nil {
		panic(err)
	}
}

func BenchmarkSnapshotSave(b *testing.B) {
	sim := setupBenchSimulator(10_000, 20)
	if err := sim.Compute(); err != nil {
		panic(err)
	}
	snap := NewSnapshot(sim.RunID(), sim.State())
	store := NewSnapshotStore(filepath.Join(b.TempDir(), "state.json.zst"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.Save(snap); err != nil {
			panic(err)
		}
	}
}
