// Package correction turns a learner's utterance into a structured
// correction record using a language model.
package correction

import "linguaspeak/internal/models"

// Kind tells whether a record came from the model or is the fixed fallback
type Kind int

const (
	KindParsed Kind = iota
	KindFallback
)

func (k Kind) String() string {
	if k == KindFallback {
		return "fallback"
	}
	return "parsed"
}

// MaxVocabularyWords caps the vocabulary items kept from one response
const MaxVocabularyWords = 5

// Record is the correction result returned to the client
type Record struct {
	Original            string           `json:"original"`
	Corrected           string           `json:"corrected"`
	Mistakes            string           `json:"mistakes"`
	Response            string           `json:"response"`
	TranslationUser     string           `json:"translation_user"`
	TranslationResponse string           `json:"translation_response"`
	FluencyScore        int              `json:"fluency_score"`
	VocabularyWords     []VocabularyItem `json:"vocabulary_words"`

	Kind Kind `json:"-"`
}

// VocabularyItem is one word suggested by the model
type VocabularyItem struct {
	Word         string `json:"word"`
	Translation  string `json:"translation"`
	Difficulty   string `json:"difficulty"`
	UsageExample string `json:"usage_example"`
}

const (
	fallbackMistakes = "No corrections needed"
	fallbackResponse = "Thank you for practicing!"
	fallbackScore    = 90
)

// Fallback is the record used when the model output cannot be parsed.
// It depends only on text.
func Fallback(text string) Record {
	return Record{
		Original:            text,
		Corrected:           text,
		Mistakes:            fallbackMistakes,
		Response:            fallbackResponse,
		TranslationUser:     text,
		TranslationResponse: fallbackResponse,
		FluencyScore:        fallbackScore,
		VocabularyWords: []VocabularyItem{
			{
				Word:         "practice",
				Translation:  "practice",
				Difficulty:   models.LevelBeginner,
				UsageExample: "Let's practice together.",
			},
		},
		Kind: KindFallback,
	}
}

// SessionWords converts the vocabulary items to their stored form
func (r Record) SessionWords() []models.VocabularyWord {
	out := make([]models.VocabularyWord, len(r.VocabularyWords))
	for i, v := range r.VocabularyWords {
		out[i] = models.VocabularyWord{
			Word:         v.Word,
			Translation:  v.Translation,
			Difficulty:   v.Difficulty,
			UsageExample: v.UsageExample,
		}
	}
	return out
}
