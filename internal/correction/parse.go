package correction

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"linguaspeak/internal/models"
)

var errNoJSON = errors.New("no JSON object in model output")

// wireRecord mirrors the model's JSON. The score is decoded as a float
// since models sometimes emit 85.0.
type wireRecord struct {
	Original            string  `json:"original"`
	Corrected           string  `json:"corrected"`
	Mistakes            *string `json:"mistakes"`
	Response            string  `json:"response"`
	TranslationUser     *string `json:"translation_user"`
	TranslationResponse *string `json:"translation_response"`
	FluencyScore        float64 `json:"fluency_score"`
	VocabularyWords     []struct {
		Word         string  `json:"word"`
		Translation  *string `json:"translation"`
		Difficulty   *string `json:"difficulty"`
		UsageExample *string `json:"usage_example"`
	} `json:"vocabulary_words"`
}

// Parse extracts a correction record from raw model output. Any failure
// yields Fallback(text); Parse never returns an error.
func Parse(raw, text string) Record {
	rec, err := parse(raw)
	if err != nil {
		return Fallback(text)
	}
	return rec
}

func parse(raw string) (Record, error) {
	span, ok := ExtractJSON(raw)
	if !ok {
		return Record{}, errNoJSON
	}

	if err := validate(span); err != nil {
		return Record{}, err
	}

	var w wireRecord
	if err := json.Unmarshal([]byte(span), &w); err != nil {
		return Record{}, err
	}

	rec := Record{
		Original:            w.Original,
		Corrected:           w.Corrected,
		Mistakes:            deref(w.Mistakes),
		Response:            w.Response,
		TranslationUser:     deref(w.TranslationUser),
		TranslationResponse: deref(w.TranslationResponse),
		FluencyScore:        int(math.Round(w.FluencyScore)),
		VocabularyWords:     []VocabularyItem{},
		Kind:                KindParsed,
	}

	for _, v := range w.VocabularyWords {
		if len(rec.VocabularyWords) == MaxVocabularyWords {
			break
		}
		word := strings.TrimSpace(v.Word)
		if word == "" {
			continue
		}
		difficulty := strings.ToLower(strings.TrimSpace(deref(v.Difficulty)))
		if !models.ValidLevel(difficulty) {
			difficulty = models.LevelBeginner
		}
		rec.VocabularyWords = append(rec.VocabularyWords, VocabularyItem{
			Word:         word,
			Translation:  deref(v.Translation),
			Difficulty:   difficulty,
			UsageExample: deref(v.UsageExample),
		})
	}

	return rec, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
