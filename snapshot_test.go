package regsim

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/aouyang1/go-regsim/metrics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testState() *State {
	s := NewState()
	s.NObs = 3
	s.NFeats = 2
	s.X = mat.NewDense(3, 2, []float64{1, 2, 3, 5, 4, 1})
	s.XPrecision = 2
	s.B = []float64{2, 3}
	s.BPrecision = 1
	s.Bias = 0.5
	s.NoiseMean = 0.1
	s.NoiseStdDev = 0.2
	s.Noise = []float64{0.1234567891, -0.2, 0.3}
	s.Y = []float64{8.6234567891, 20.3, 11.8}
	s.BHat = []float64{0.55, 1.99, 3.01}
	s.Scores = &metrics.Scores{MSE: 0.0001, RMSE: 0.01, MAE: 0.01, MAPE: math.NaN()}
	return s
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	testData := map[string]struct {
		name string
	}{
		"plain json": {name: "state.json"},
		"zstd":       {name: "state.json.zst"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			store := NewSnapshotStore(filepath.Join(t.TempDir(), td.name))
			runID := uuid.New()
			state := testState()

			require.Nil(t, store.Save(NewSnapshot(runID, state)))

			snap, err := store.Load()
			require.Nil(t, err)
			assert.Equal(t, runID, snap.RunID)
			assert.Equal(t, Fingerprint(state.X), snap.XFingerprint)
			assert.Equal(t, [][]float64{{1, 2}, {3, 5}, {4, 1}}, snap.X)

			loaded, err := snap.State()
			require.Nil(t, err)
			require.NotNil(t, loaded.Scores)
			assert.True(t, math.IsNaN(loaded.Scores.MAPE))

			// NaN never equals itself so compare the rest of the state
			loaded.Scores.MAPE = 0
			state.Scores.MAPE = 0
			assert.Equal(t, state, loaded)
		})
	}
}

func TestSnapshotStoreCompressed(t *testing.T) {
	dir := t.TempDir()
	plain := NewSnapshotStore(filepath.Join(dir, "state.json"))
	compressed := NewSnapshotStore(filepath.Join(dir, "state.json.zst"))

	snap := NewSnapshot(uuid.New(), testState())
	require.Nil(t, plain.Save(snap))
	require.Nil(t, compressed.Save(snap))

	raw, err := os.ReadFile(plain.Path())
	require.Nil(t, err)
	assert.Contains(t, string(raw), `"run_id"`)
	assert.Contains(t, string(raw), `"mape": null`)

	raw, err = os.ReadFile(compressed.Path())
	require.Nil(t, err)
	assert.NotContains(t, string(raw), `"run_id"`)
}

func TestSnapshotStoreLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewSnapshotStore(filepath.Join(dir, "missing.json")).Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	path := filepath.Join(dir, "garbage.json")
	require.Nil(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = NewSnapshotStore(path).Load()
	assert.ErrorIs(t, err, ErrStaleSnapshot)

	path = filepath.Join(dir, "garbage.json.zst")
	require.Nil(t, os.WriteFile(path, []byte("not zstd"), 0o644))
	_, err = NewSnapshotStore(path).Load()
	assert.ErrorIs(t, err, ErrStaleSnapshot)
}

func TestSnapshotState(t *testing.T) {
	testData := map[string]struct {
		modify func(snap *Snapshot)
		err    error
	}{
		"unchanged": {
			modify: func(snap *Snapshot) {},
		},
		"edited design matrix": {
			modify: func(snap *Snapshot) { snap.X[0][0] = 7 },
			err:    ErrStaleSnapshot,
		},
		"ragged design matrix": {
			modify: func(snap *Snapshot) { snap.X[1] = snap.X[1][:1] },
			err:    ErrStaleSnapshot,
		},
		"dimensions disagree": {
			modify: func(snap *Snapshot) { snap.NObs = 4 },
			err:    ErrStaleSnapshot,
		},
		"short noise": {
			modify: func(snap *Snapshot) { snap.Noise = snap.Noise[:2] },
			err:    ErrStaleSnapshot,
		},
		"short estimate": {
			modify: func(snap *Snapshot) { snap.BHat = snap.BHat[:2] },
			err:    ErrStaleSnapshot,
		},
		"bad precision": {
			modify: func(snap *Snapshot) { snap.XPrecision = 12 },
			err:    ErrStaleSnapshot,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			snap := NewSnapshot(uuid.New(), testState())
			td.modify(snap)

			_, err := snap.State()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
		})
	}
}

func TestSnapshotEmptyState(t *testing.T) {
	snap := NewSnapshot(uuid.New(), NewState())
	assert.Nil(t, snap.X)
	assert.Equal(t, Fingerprint(nil), snap.XFingerprint)

	state, err := snap.State()
	require.Nil(t, err)
	assert.Equal(t, NewState(), state)
}

func TestFingerprint(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	same := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	transposed := mat.NewDense(2, 2, []float64{1, 3, 2, 4})

	assert.Equal(t, Fingerprint(x), Fingerprint(same))
	assert.NotEqual(t, Fingerprint(x), Fingerprint(transposed))
	assert.NotEqual(t, Fingerprint(x), Fingerprint(nil))
}

func TestSnapshotStoreRemove(t *testing.T) {
	store := NewSnapshotStore(filepath.Join(t.TempDir(), "state.json"))
	require.Nil(t, store.Remove())

	require.Nil(t, store.Save(NewSnapshot(uuid.New(), NewState())))
	require.FileExists(t, store.Path())
	require.Nil(t, store.Remove())
	assert.NoFileExists(t, store.Path())
}
