package progress

import (
	"math"
	"math/rand"
	"testing"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		current *Stat
		score   int
		want    Stat
	}{
		{
			name:  "absent stat starts at score",
			score: 80,
			want:  Stat{TotalSessions: 1, AverageFluencyScore: 80},
		},
		{
			name:    "zero-session stat treated as absent",
			current: &Stat{},
			score:   42,
			want:    Stat{TotalSessions: 1, AverageFluencyScore: 42},
		},
		{
			name:    "second session averages",
			current: &Stat{TotalSessions: 1, AverageFluencyScore: 80},
			score:   90,
			want:    Stat{TotalSessions: 2, AverageFluencyScore: 85},
		},
		{
			name:    "third session averages",
			current: &Stat{TotalSessions: 2, AverageFluencyScore: 85},
			score:   70,
			want:    Stat{TotalSessions: 3, AverageFluencyScore: 80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.current, tt.score)
			if got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyDoesNotMutateCurrent(t *testing.T) {
	current := &Stat{TotalSessions: 3, AverageFluencyScore: 50}
	Apply(current, 100)
	if current.TotalSessions != 3 || current.AverageFluencyScore != 50 {
		t.Errorf("Apply mutated its input: %+v", current)
	}
}

func TestAverageMatchesMean(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, n := range []int{1, 2, 10, 1000, 10000} {
		scores := make([]int, n)
		var stat *Stat
		for i := range scores {
			scores[i] = rng.Intn(101)
			next := Apply(stat, scores[i])
			stat = &next
		}

		if stat.TotalSessions != n {
			t.Errorf("n=%d: TotalSessions = %d", n, stat.TotalSessions)
		}
		if diff := math.Abs(stat.AverageFluencyScore - Mean(scores)); diff > 1e-9 {
			t.Errorf("n=%d: average drifted by %g", n, diff)
		}
	}
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Mean([]int{80, 90, 70}); got != 80 {
		t.Errorf("Mean() = %v, want 80", got)
	}
}
