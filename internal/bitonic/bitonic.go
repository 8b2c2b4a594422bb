// Package bitonic sorts sequences with a bitonic sorting network dispatched
// on a gpu.Backend.
//
// Every variant runs the same network (see package network) and differs in
// how the compare-exchange passes are mapped onto the device:
//
//   - naive: one flat launch per (stage, sub-step) on the whole sequence
//   - alternating: as naive, using the flip/half-cleaner form of the network
//   - hierarchical: as naive, launched as work-groups of work items
//   - local: tiles sorted in work-group local memory, with flat launches only
//     for the sub-steps whose boxes span several tiles
//   - simd: flat launches where each unit handles a vector of pairs through
//     gather and masked scatter
//
// All variants require a power-of-two length and produce identical output.
package bitonic

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotPowerOfTwo is returned for sequences whose length is not a power of two.
var ErrNotPowerOfTwo = errors.New("sequence length is not a power of two")

// Variant selects the kernel family used by a Sorter.
type Variant int

const (
	Naive Variant = iota
	Alternating
	Hierarchical
	Local
	SIMD
)

var variantNames = map[Variant]string{
	Naive:        "naive",
	Alternating:  "alternating",
	Hierarchical: "hierarchical",
	Local:        "local",
	SIMD:         "simd",
}

// Variants lists every variant in a stable order.
func Variants() []Variant {
	return []Variant{Naive, Alternating, Hierarchical, Local, SIMD}
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant converts a variant name to a Variant.
func ParseVariant(s string) (Variant, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for v, n := range variantNames {
		if n == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown sort variant: %q", s)
}

// Stats counts the launches a sort issued.
type Stats struct {
	// GlobalPasses is the number of flat compare-exchange launches.
	GlobalPasses int
	// GroupLaunches is the number of work-group launches.
	GroupLaunches int
	// LocalPasses is the number of compare-exchange passes run inside each
	// work-group, summed over group launches.
	LocalPasses int
	// ScalarFallback is set when the input was too short for the variant and
	// was sorted on the host instead.
	ScalarFallback bool
}
