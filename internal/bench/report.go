package bench

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Result is the outcome of one candidate.
type Result struct {
	Name      string    `json:"name"`
	TimingsMs []float64 `json:"timingsMs"`
	MeanMs    float64   `json:"meanMs"`
	StdDevMs  float64   `json:"stdDevMs"`
	MinMs     float64   `json:"minMs"`
	Digest    string    `json:"digest"`
	// Verified is set once the result matched the reference. It is false
	// for the reference itself.
	Verified bool `json:"verified"`
}

// Report collects the results of one Check, reference first.
type Report struct {
	Elements int      `json:"elements"`
	Results  []Result `json:"results"`
}

// Print writes the report as a table.
func (r *Report) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "elements: %d\n", r.Elements)
	fmt.Fprintln(tw, "candidate\truns\tmean (ms)\tstddev (ms)\tmin (ms)\tstatus")
	for _, res := range r.Results {
		status := "reference"
		if res.Verified {
			status = "ok"
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%s\n",
			res.Name, len(res.TimingsMs), res.MeanMs, res.StdDevMs, res.MinMs, status)
	}
	return tw.Flush()
}
