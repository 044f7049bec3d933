// Package metrics computes read-only aggregates over fetched collections.
// Every function is pure and total: no errors, no panics on empty input,
// and unknown enum values fall into a default bucket.
package metrics

import (
	"math"

	"github.com/naveenspark/roster/pkg/domain"
)

// Count returns the number of items.
func Count[T any](items []T) int {
	return len(items)
}

// CountWhere returns the number of items satisfying pred.
func CountWhere[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}

// Average returns the mean of selector over items rounded to the nearest
// integer, halves away from zero. It is 0 for an empty slice.
func Average[T any](items []T, selector func(T) int) int {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, it := range items {
		sum += selector(it)
	}
	return int(math.Round(float64(sum) / float64(len(items))))
}

// DistinctNonEmpty counts distinct non-empty keys.
func DistinctNonEmpty[T any](items []T, key func(T) string) int {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if k := key(it); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

// FilterByStatus returns the projects with the given status, in input order.
func FilterByStatus(projects []domain.Project, status domain.ProjectStatus) []domain.Project {
	var out []domain.Project
	for _, p := range projects {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// SumAllocation totals allocationPercentage. The result is not capped:
// an engineer allocated across several projects may exceed 100.
func SumAllocation(assignments []domain.Assignment) int {
	sum := 0
	for _, a := range assignments {
		sum += a.AllocationPercentage
	}
	return sum
}

// UsedCapacity is 100 minus availability.
func UsedCapacity(e domain.Engineer) int {
	return 100 - e.Availability
}

// Utilization returns used/total as a rounded percentage, 0 when total <= 0.
func Utilization(used, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(used) / float64(total) * 100))
}

// BucketOther is the status bucket for values outside the known enum.
const BucketOther = "other"

// StatusBucket maps a project status to its display bucket.
func StatusBucket(s domain.ProjectStatus) string {
	if domain.ValidStatus(s) {
		return string(s)
	}
	return BucketOther
}

// SeniorityBucket maps a seniority to its display bucket.
func SeniorityBucket(s domain.Seniority) string {
	if domain.ValidSeniority(s) {
		return string(s)
	}
	return BucketOther
}

// StageProgress is a coarse completion estimate derived from status alone.
// It stands in until the API reports real progress.
func StageProgress(s domain.ProjectStatus) int {
	switch s {
	case domain.StatusCompleted:
		return 100
	case domain.StatusActive:
		return 65
	default:
		return 25
	}
}

// AverageProgress averages Progress over the assignments that carry one.
// The second result is false when none do.
func AverageProgress(assignments []domain.Assignment) (int, bool) {
	var known []int
	for _, a := range assignments {
		if a.Progress != nil {
			known = append(known, *a.Progress)
		}
	}
	if len(known) == 0 {
		return 0, false
	}
	return Average(known, func(p int) int { return p }), true
}
