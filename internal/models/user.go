package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const DefaultNativeLanguage = "English"

// Levels shared by learning-language proficiency and vocabulary difficulty
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// ValidLevel reports whether s is one of the three levels
func ValidLevel(s string) bool {
	switch s {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// User represents a learner account
type User struct {
	ID                int64             `json:"id"`
	Username          string            `json:"username"`
	Email             string            `json:"email"`
	PasswordHash      string            `json:"-"`
	NativeLanguage    string            `json:"nativeLanguage"`
	LearningLanguages LearningLanguages `json:"learningLanguages"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// LearningLanguageStat tracks progress in one language
type LearningLanguageStat struct {
	Language            string    `json:"language"`
	Proficiency         string    `json:"proficiency"`
	TotalSessions       int       `json:"totalSessions"`
	AverageFluencyScore float64   `json:"averageFluencyScore"`
	StartedAt           time.Time `json:"startedAt"`
}

// LearningLanguages is keyed by language. It encodes as an array in the
// order languages were started.
type LearningLanguages map[string]LearningLanguageStat

// Ordered returns the stats sorted by start time, then language
func (l LearningLanguages) Ordered() []LearningLanguageStat {
	out := make([]LearningLanguageStat, 0, len(l))
	for _, s := range l {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].Language < out[j].Language
	})
	return out
}

func (l LearningLanguages) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Ordered())
}

func (l *LearningLanguages) UnmarshalJSON(data []byte) error {
	var list []LearningLanguageStat
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	m := make(LearningLanguages, len(list))
	for _, s := range list {
		if _, dup := m[s.Language]; dup {
			return fmt.Errorf("duplicate learning language %q", s.Language)
		}
		m[s.Language] = s
	}
	*l = m
	return nil
}
