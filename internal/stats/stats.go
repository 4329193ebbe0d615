// Package stats derives a learner's summary from their sessions and vocabulary.
package stats

import (
	"math"
	"sort"

	"linguaspeak/internal/correction"
	"linguaspeak/internal/models"
)

// RecentLimit is how many sessions the summary lists
const RecentLimit = 5

// Summary is the statistics report for one user
type Summary struct {
	TotalSessions        int              `json:"totalSessions"`
	TotalVocabularyWords int              `json:"totalVocabularyWords"`
	MasteredWords        int              `json:"masteredWords"`
	AverageFluencyScore  float64          `json:"averageFluencyScore"`
	LanguagesPracticed   []string         `json:"languagesPracticed"`
	RecentSessions       []models.Session `json:"recentSessions"`
	FluencyFeedback      string           `json:"fluencyFeedback,omitempty"`
}

// Summarize computes the report. It does not modify its inputs.
func Summarize(sessions []models.Session, vocabulary []models.VocabularyEntry) Summary {
	ordered := make([]models.Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	s := Summary{
		TotalSessions:        len(ordered),
		TotalVocabularyWords: len(vocabulary),
		LanguagesPracticed:   []string{},
		RecentSessions:       []models.Session{},
	}

	for _, v := range vocabulary {
		if v.Mastered {
			s.MasteredWords++
		}
	}

	seen := make(map[string]bool)
	sum := 0
	for _, sess := range ordered {
		sum += sess.FluencyScore
		if !seen[sess.Language] {
			seen[sess.Language] = true
			s.LanguagesPracticed = append(s.LanguagesPracticed, sess.Language)
		}
	}

	if len(ordered) > 0 {
		s.AverageFluencyScore = float64(sum) / float64(len(ordered))
		s.FluencyFeedback = correction.Feedback(int(math.Round(s.AverageFluencyScore)))
	}

	for i := len(ordered) - 1; i >= 0 && len(s.RecentSessions) < RecentLimit; i-- {
		s.RecentSessions = append(s.RecentSessions, ordered[i])
	}

	return s
}
