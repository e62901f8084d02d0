// Package perf holds render-path benchmarks and the budgets they are held
// to. Private helpers are prefixed with "pf".
package perf

import (
	"sort"
	"testing"
)

// Threshold is the budget for one named benchmark.
type Threshold struct {
	// Name matches Result.Name.
	Name string

	// MaxNs is the maximum allowed nanoseconds per operation.
	MaxNs int64

	// MaxAlloc is the maximum allowed bytes allocated per operation.
	MaxAlloc int64
}

// Result pairs a benchmark outcome with the name it is budgeted under.
type Result struct {
	Name string
	testing.BenchmarkResult
}

// Violation records a threshold breach.
type Violation struct {
	Threshold Threshold
	Actual    int64

	// Field is "ns" or "alloc".
	Field string
}

// DefaultThresholds returns the budgets for the frame path. A frame is
// rendered on every animation tick while effects run, so page_frame has to
// fit well inside one 30fps interval.
//
//   - page_frame < 8ms: widgets, compose and emit for a 120x40 page
//   - emit < 4ms: styled output for a full grid
//   - compose < 1ms: effect regions over a rendered grid
//   - avatar_frame < 50us: memoised avatar lookup
//   - avatar_prepare < 20ms: crop, scale and sharpen from source
//   - card_banner < 30ms: one-shot card without cache
func DefaultThresholds() []Threshold {
	return []Threshold{
		{Name: "page_frame", MaxNs: 8_000_000, MaxAlloc: 4_194_304},
		{Name: "emit", MaxNs: 4_000_000, MaxAlloc: 2_097_152},
		{Name: "compose", MaxNs: 1_000_000, MaxAlloc: 4096},
		{Name: "avatar_frame", MaxNs: 50_000, MaxAlloc: 1024},
		{Name: "avatar_prepare", MaxNs: 20_000_000, MaxAlloc: 8_388_608},
		{Name: "card_banner", MaxNs: 30_000_000, MaxAlloc: 4_194_304},
	}
}

// CheckRegression compares results against thresholds by name and returns
// every breach, ordered by threshold name then field. Results without a
// threshold are ignored; so are thresholds without a result.
func CheckRegression(results []Result, thresholds []Threshold) []Violation {
	if len(results) == 0 || len(thresholds) == 0 {
		return nil
	}

	byName := make(map[string]Threshold, len(thresholds))
	for _, t := range thresholds {
		byName[t.Name] = t
	}

	var violations []Violation
	for _, r := range results {
		t, ok := byName[r.Name]
		if !ok {
			continue
		}
		if ns := pfNsPerOp(r.BenchmarkResult); t.MaxNs > 0 && ns > t.MaxNs {
			violations = append(violations, Violation{Threshold: t, Actual: ns, Field: "ns"})
		}
		if b := pfAllocPerOp(r.BenchmarkResult); t.MaxAlloc > 0 && b > t.MaxAlloc {
			violations = append(violations, Violation{Threshold: t, Actual: b, Field: "alloc"})
		}
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Threshold.Name < violations[j].Threshold.Name
	})
	return violations
}

// pfNsPerOp is zero for an empty result.
func pfNsPerOp(r testing.BenchmarkResult) int64 {
	return r.NsPerOp()
}

func pfAllocPerOp(r testing.BenchmarkResult) int64 {
	return r.AllocedBytesPerOp()
}
