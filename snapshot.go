package regsim

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aouyang1/go-regsim/bounds"
	mat_ "github.com/aouyang1/go-regsim/mat"
	"github.com/aouyang1/go-regsim/metrics"
	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoSnapshot    = errors.New("no snapshot found")
	ErrStaleSnapshot = errors.New("snapshot does not match its recorded fingerprint")
)

const zstdExt = ".zst"

// Snapshot is the serializable form of a State. Matrices are stored as nested arrays.
type Snapshot struct {
	RunID     uuid.UUID `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`

	NObs   int `json:"n_obs"`
	NFeats int `json:"n_feats"`

	X            [][]float64 `json:"data_x"`
	XFingerprint uint64      `json:"x_fingerprint"`
	XPrecision   int         `json:"x_precision"`

	B          []float64 `json:"data_b"`
	BPrecision int       `json:"b_precision"`
	Bias       float64   `json:"b_0"`

	NoiseMean   float64   `json:"noise_mean"`
	NoiseStdDev float64   `json:"noise_std_dev"`
	Noise       []float64 `json:"noise"`

	Y      []float64       `json:"data_y"`
	BHat   []float64       `json:"b_hat"`
	Scores *metrics.Scores `json:"scores,omitempty"`
}

// NewSnapshot captures the state for the run identified by runID
func NewSnapshot(runID uuid.UUID, s *State) *Snapshot {
	var x [][]float64
	if s.X != nil {
		x = mat_.ToArray(s.X)
	}
	return &Snapshot{
		RunID:        runID,
		CreatedAt:    time.Now().UTC(),
		NObs:         s.NObs,
		NFeats:       s.NFeats,
		X:            x,
		XFingerprint: Fingerprint(s.X),
		XPrecision:   s.XPrecision,
		B:            copySlice(s.B),
		BPrecision:   s.BPrecision,
		Bias:         s.Bias,
		NoiseMean:    s.NoiseMean,
		NoiseStdDev:  s.NoiseStdDev,
		Noise:        copySlice(s.Noise),
		Y:            copySlice(s.Y),
		BHat:         copySlice(s.BHat),
		Scores:       s.Scores,
	}
}

// State rebuilds the state stored in the snapshot. The design matrix must hash to the
// recorded fingerprint and every vector must agree with the recorded dimensions, otherwise
// ErrStaleSnapshot is returned.
func (snap *Snapshot) State() (*State, error) {
	s := NewState()
	s.NObs = snap.NObs
	s.NFeats = snap.NFeats
	s.XPrecision = snap.XPrecision
	s.BPrecision = snap.BPrecision
	s.Bias = snap.Bias
	s.NoiseMean = snap.NoiseMean
	s.NoiseStdDev = snap.NoiseStdDev
	s.B = copySlice(snap.B)
	s.Noise = copySlice(snap.Noise)
	s.Y = copySlice(snap.Y)
	s.BHat = copySlice(snap.BHat)
	if snap.Scores != nil {
		scores := *snap.Scores
		s.Scores = &scores
	}

	if len(snap.X) > 0 {
		x, err := mat_.NewDenseFromArray(snap.X)
		if err != nil {
			return nil, fmt.Errorf("%w, %w", ErrStaleSnapshot, err)
		}
		s.X = x
	}
	if Fingerprint(s.X) != snap.XFingerprint {
		return nil, fmt.Errorf("design matrix hash mismatch, %w", ErrStaleSnapshot)
	}
	if err := s.checkShapes(); err != nil {
		return nil, fmt.Errorf("%w, %w", ErrStaleSnapshot, err)
	}
	if err := bounds.CheckPrecision("x", s.XPrecision); err != nil {
		return nil, fmt.Errorf("%w, %w", ErrStaleSnapshot, err)
	}
	if err := bounds.CheckPrecision("b", s.BPrecision); err != nil {
		return nil, fmt.Errorf("%w, %w", ErrStaleSnapshot, err)
	}
	return s, nil
}

// checkShapes verifies every present field agrees with the dimensions
func (s *State) checkShapes() error {
	if s.X != nil {
		m, n := s.X.Dims()
		if m != s.NObs || n != s.NFeats {
			return fmt.Errorf("design matrix is %dx%d, expected %dx%d", m, n, s.NObs, s.NFeats)
		}
	}
	lengths := []struct {
		name     string
		got      int
		expected int
	}{
		{"coefficients", len(s.B), s.NFeats},
		{"noise", len(s.Noise), s.NObs},
		{"response", len(s.Y), s.NObs},
		{"estimate", len(s.BHat), s.NFeats + 1},
	}
	for _, l := range lengths {
		if l.got != 0 && l.got != l.expected {
			return fmt.Errorf("%s has %d values, expected %d", l.name, l.got, l.expected)
		}
	}
	return nil
}

// Fingerprint returns the xxhash64 of the row ordered bits of x. A nil matrix hashes as
// empty input.
func Fingerprint(x *mat.Dense) uint64 {
	d := xxhash.New()
	if x == nil {
		return d.Sum64()
	}
	m, n := x.Dims()
	buf := make([]byte, 8)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(x.At(i, j)))
			d.Write(buf)
		}
	}
	return d.Sum64()
}

// SnapshotStore reads and writes a single snapshot file
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store for path. Paths ending in .zst are zstd compressed.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Path returns the location of the snapshot file
func (s *SnapshotStore) Path() string {
	return s.path
}

func (s *SnapshotStore) compressed() bool {
	return strings.HasSuffix(s.path, zstdExt)
}

// Save writes the snapshot as indented json. The file is replaced through a rename so a
// reader never sees a partial snapshot.
func (s *SnapshotStore) Save(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode snapshot, %w", err)
	}

	if s.compressed() {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("unable to create snapshot file, %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("unable to write snapshot, %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Load reads the snapshot back. A missing file returns ErrNoSnapshot and a file that
// cannot be decoded returns ErrStaleSnapshot.
func (s *SnapshotStore) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s, %w", s.path, ErrNoSnapshot)
		}
		return nil, err
	}

	if s.compressed() {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		defer dec.Close()

		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w, zstd decompression failed, %w", ErrStaleSnapshot, err)
		}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w, %w", ErrStaleSnapshot, err)
	}
	return &snap, nil
}

// Remove deletes the snapshot file. Removing a missing snapshot is not an error.
func (s *SnapshotStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
