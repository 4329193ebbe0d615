package models

import "time"

// VocabularyEntry is a word a user has collected for a language.
// At most one exists per (user, language, word).
type VocabularyEntry struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Language     string    `json:"language"`
	Word         string    `json:"word"`
	Translation  string    `json:"translation"`
	Difficulty   string    `json:"difficulty"`
	UsageExample string    `json:"usageExample"`
	ReviewCount  int       `json:"reviewCount"`
	LastReviewed time.Time `json:"lastReviewed"`
	Mastered     bool      `json:"mastered"`
	CreatedAt    time.Time `json:"createdAt"`
}
