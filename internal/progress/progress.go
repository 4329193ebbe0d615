// Package progress maintains the running per-language fluency average.
package progress

// Stat is the aggregate kept per user and language
type Stat struct {
	TotalSessions       int
	AverageFluencyScore float64
}

// Apply folds one more fluency score into current. A nil current means the
// language has no sessions yet.
func Apply(current *Stat, score int) Stat {
	if current == nil || current.TotalSessions <= 0 {
		return Stat{TotalSessions: 1, AverageFluencyScore: float64(score)}
	}

	n := float64(current.TotalSessions)
	return Stat{
		TotalSessions:       current.TotalSessions + 1,
		AverageFluencyScore: (current.AverageFluencyScore*n + float64(score)) / (n + 1),
	}
}

// Mean is the arithmetic mean of scores, 0 for an empty slice
func Mean(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}
