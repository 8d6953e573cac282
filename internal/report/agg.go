// Package report computes and renders aggregate study results.
package report

import (
	"sort"

	"hallway/internal/model"
)

// OutcomeCount is the frequency of one outcome across all task records.
type OutcomeCount struct {
	Outcome model.Outcome
	Count   int
}

// OutcomeCounts tallies task outcomes in fixed display order. Every
// outcome appears, with a zero count when absent.
func OutcomeCounts(tasks []model.TaskRecord) []OutcomeCount {
	byOutcome := map[model.Outcome]int{}
	for _, rec := range tasks {
		byOutcome[rec.Outcome]++
	}
	counts := make([]OutcomeCount, 0, len(model.Outcomes()))
	for _, o := range model.Outcomes() {
		counts = append(counts, OutcomeCount{Outcome: o, Count: byOutcome[o]})
	}
	return counts
}

// TaskShare is the percentage distribution of outcomes for one task.
type TaskShare struct {
	TaskName string
	Total    int
	Shares   map[model.Outcome]float64
}

// TaskShares computes, per task label, the percentage of each outcome
// (count / per-task total * 100, missing categories zero). Tasks are
// ordered by the fixed task list; labels outside it follow sorted.
func TaskShares(tasks []model.TaskRecord) []TaskShare {
	type tally struct {
		total     int
		byOutcome map[model.Outcome]int
	}
	tallies := map[string]*tally{}
	for _, rec := range tasks {
		entry, ok := tallies[rec.TaskName]
		if !ok {
			entry = &tally{byOutcome: map[model.Outcome]int{}}
			tallies[rec.TaskName] = entry
		}
		entry.total++
		entry.byOutcome[rec.Outcome]++
	}

	names := orderTaskNames(tallies)
	shares := make([]TaskShare, 0, len(names))
	for _, name := range names {
		entry := tallies[name]
		share := TaskShare{
			TaskName: name,
			Total:    entry.total,
			Shares:   map[model.Outcome]float64{},
		}
		for _, o := range model.Outcomes() {
			share.Shares[o] = float64(entry.byOutcome[o]) / float64(entry.total) * 100
		}
		shares = append(shares, share)
	}
	return shares
}

func orderTaskNames[T any](tallies map[string]*T) []string {
	seen := map[string]bool{}
	names := make([]string, 0, len(tallies))
	for _, name := range model.TaskNames() {
		if _, ok := tallies[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	extra := make([]string, 0)
	for name := range tallies {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// AverageDuration returns the mean recorded task duration in seconds.
// Records without a measured duration are skipped; ok is false when no
// duration was recorded at all.
func AverageDuration(tasks []model.TaskRecord) (avg float64, ok bool) {
	var sum float64
	var n int
	for _, rec := range tasks {
		if rec.DurationSeconds == nil {
			continue
		}
		sum += *rec.DurationSeconds
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// AverageRatings returns the mean satisfaction and difficulty over the
// exit questionnaires; ok is false when there are none.
func AverageRatings(exits []model.ExitRecord) (satisfaction, difficulty float64, ok bool) {
	if len(exits) == 0 {
		return 0, 0, false
	}
	var satSum, diffSum int
	for _, rec := range exits {
		satSum += rec.Satisfaction
		diffSum += rec.Difficulty
	}
	n := float64(len(exits))
	return float64(satSum) / n, float64(diffSum) / n, true
}
