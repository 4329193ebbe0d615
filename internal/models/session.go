package models

import "time"

// Session is one processed utterance. Sessions are never updated after insert.
type Session struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"userId"`
	Language        string           `json:"language"`
	OriginalText    string           `json:"originalText"`
	CorrectedText   string           `json:"correctedText"`
	Mistakes        string           `json:"mistakes"`
	FluencyScore    int              `json:"fluencyScore"`
	AIResponse      string           `json:"aiResponse"`
	VocabularyWords []VocabularyWord `json:"vocabularyWords"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// VocabularyWord is a word surfaced during a session
type VocabularyWord struct {
	Word         string `json:"word"`
	Translation  string `json:"translation"`
	Difficulty   string `json:"difficulty"`
	UsageExample string `json:"usageExample"`
}
