// Package bench runs sort implementations side by side on the same input,
// checks every result against a reference sort and summarizes timings.
package bench

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/fxnlabs/bitonic/internal/bitonic"
	"github.com/fxnlabs/bitonic/internal/gpu"
	"github.com/fxnlabs/bitonic/internal/metrics"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Candidate is a named sort implementation. Run sorts its argument in place.
type Candidate struct {
	Name string
	Run  func(seq []int32) error
}

// Reference returns the host sort every candidate is checked against.
func Reference() Candidate {
	return Candidate{
		Name: "CPU",
		Run: func(seq []int32) error {
			slices.Sort(seq)
			return nil
		},
	}
}

// MismatchError reports the first slot where a candidate disagreed with the
// reference.
type MismatchError struct {
	Candidate string
	Index     int
	Want      int32
	Got       int32
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: mismatch at index %d: want %d, got %d", e.Candidate, e.Index, e.Want, e.Got)
}

// RandomVector returns size non-negative values drawn from a generator
// seeded with seed.
func RandomVector(size int, seed uint64) []int32 {
	r := rand.New(rand.NewPCG(seed, seed>>1|1))
	out := make([]int32, size)
	for i := range out {
		out[i] = r.Int32()
	}
	return out
}

// Digest returns a fingerprint of seq.
func Digest(seq []int32) string {
	data := make([]byte, 0, 4*len(seq))
	for _, v := range seq {
		data = binary.LittleEndian.AppendUint32(data, uint32(v))
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("0x%x", hash)
}

// Harness runs candidates on one backend.
type Harness struct {
	backend gpu.Backend
	runs    int
	logger  *zap.Logger
}

// NewHarness creates a harness that times every candidate over runs
// repetitions. runs < 1 is treated as 1.
func NewHarness(backend gpu.Backend, runs int, logger *zap.Logger) *Harness {
	if logger == nil {
		logger = zap.NewNop()
	}
	if runs < 1 {
		runs = 1
	}
	return &Harness{
		backend: backend,
		runs:    runs,
		logger:  logger,
	}
}

// WarmUp issues one tiny sort so the first timed run does not pay for
// starting the device.
func (h *Harness) WarmUp() error {
	seq := []int32{1, 0}
	if err := bitonic.NewSorter[int32](h.backend, bitonic.Options{}).Sort(seq); err != nil {
		return fmt.Errorf("warm up: %w", err)
	}
	return nil
}

// Candidates returns one candidate per variant, sharing opts otherwise.
func (h *Harness) Candidates(variants []bitonic.Variant, opts bitonic.Options) []Candidate {
	candidates := make([]Candidate, 0, len(variants))
	for _, v := range variants {
		o := opts
		o.Variant = v
		sorter := bitonic.NewSorter[int32](h.backend, o)
		candidates = append(candidates, Candidate{Name: v.String(), Run: sorter.Sort})
	}
	return candidates
}

// Check sorts a copy of input with reference and with every candidate and
// compares each result with the reference element by element. It stops at
// the first candidate that fails or disagrees; a disagreement is returned
// as a *MismatchError.
func (h *Harness) Check(input []int32, reference Candidate, candidates ...Candidate) (*Report, error) {
	report := &Report{Elements: len(input)}

	want, result, err := h.measure(input, reference)
	if err != nil {
		return nil, err
	}
	report.Results = append(report.Results, result)

	for _, c := range candidates {
		got, result, err := h.measure(input, c)
		if err != nil {
			return nil, err
		}
		if err := compare(c.Name, want, got); err != nil {
			metrics.VerificationMismatchesTotal.WithLabelValues(c.Name).Inc()
			h.logger.Error("candidate disagrees with reference",
				zap.String("candidate", c.Name),
				zap.Int("elements", len(input)),
				zap.Error(err))
			return nil, err
		}
		result.Verified = true
		report.Results = append(report.Results, result)
		h.logger.Info("candidate verified",
			zap.String("candidate", c.Name),
			zap.Float64("mean_ms", result.MeanMs))
	}
	return report, nil
}

// measure runs c on a fresh copy of input h.runs times and returns the last
// output.
func (h *Harness) measure(input []int32, c Candidate) ([]int32, Result, error) {
	timings := make([]float64, 0, h.runs)
	var out []int32
	for range h.runs {
		out = slices.Clone(input)
		start := time.Now()
		if err := c.Run(out); err != nil {
			return nil, Result{}, fmt.Errorf("%s: %w", c.Name, err)
		}
		timings = append(timings, float64(time.Since(start).Microseconds())/1000)
	}
	return out, summarize(c.Name, timings, Digest(out)), nil
}

func compare(name string, want, got []int32) error {
	if len(want) != len(got) {
		return fmt.Errorf("%s: result has %d elements, want %d", name, len(got), len(want))
	}
	for i := range want {
		if want[i] != got[i] {
			return &MismatchError{Candidate: name, Index: i, Want: want[i], Got: got[i]}
		}
	}
	return nil
}

func summarize(name string, timings []float64, digest string) Result {
	r := Result{
		Name:      name,
		TimingsMs: timings,
		MeanMs:    stat.Mean(timings, nil),
		MinMs:     floats.Min(timings),
		Digest:    digest,
	}
	if len(timings) > 1 {
		r.StdDevMs = stat.StdDev(timings, nil)
	}
	return r
}
