package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"linguaspeak/internal/correction"
	"linguaspeak/internal/database"
	"linguaspeak/internal/languages"
	"linguaspeak/internal/models"
	"linguaspeak/internal/repository"
	"linguaspeak/internal/validation"
)

const (
	DefaultSessionLimit = 20
	MaxSessionLimit     = 100
)

// Corrector produces a correction record for an utterance
type Corrector interface {
	Correct(ctx context.Context, text, language string) (correction.Record, error)
}

// PracticeService turns utterances into stored sessions, vocabulary and progress
type PracticeService struct {
	db        *database.DB
	corrector Corrector
	locks     *UserLocks
	log       *zap.Logger
	now       func() time.Time
}

// NewPracticeService creates a new practice service
func NewPracticeService(db *database.DB, corrector Corrector, locks *UserLocks, log *zap.Logger) *PracticeService {
	return &PracticeService{
		db:        db,
		corrector: corrector,
		locks:     locks,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func validateUtterance(text, language string) (string, error) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(language) == "" {
		return "", validation.ValidationError{Field: "text", Message: "Text and language are required"}
	}
	return languages.Normalize(language), nil
}

// Preview corrects an utterance without touching storage
func (s *PracticeService) Preview(ctx context.Context, text, language string) (correction.Record, error) {
	lang, err := validateUtterance(text, language)
	if err != nil {
		return correction.Record{}, err
	}
	return s.corrector.Correct(ctx, text, lang)
}

// ProcessSpeech corrects an utterance and records it for userID.
// Writes happen in one transaction: the session, then vocabulary in the order
// the model returned it, then the language stat. A transport failure from the
// corrector returns before anything is written.
func (s *PracticeService) ProcessSpeech(ctx context.Context, userID int64, text, language string) (correction.Record, error) {
	lang, err := validateUtterance(text, language)
	if err != nil {
		return correction.Record{}, err
	}

	record, err := s.corrector.Correct(ctx, text, lang)
	if err != nil {
		return correction.Record{}, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	now := s.now()
	words := record.SessionWords()
	var added int
	var stat models.LearningLanguageStat
	err = s.db.WithinTx(ctx, func(ctx context.Context, tx *database.Tx) error {
		session := &models.Session{
			UserID:          userID,
			Language:        lang,
			OriginalText:    text,
			CorrectedText:   record.Corrected,
			Mistakes:        record.Mistakes,
			FluencyScore:    record.FluencyScore,
			AIResponse:      record.Response,
			VocabularyWords: words,
			CreatedAt:       now,
		}
		if err := repository.NewSessionRepository(tx).CreateSession(ctx, session); err != nil {
			return err
		}

		n, err := repository.NewVocabularyRepository(tx).InsertIfAbsent(ctx, userID, lang, words, now)
		if err != nil {
			return err
		}
		added = n

		stat, err = repository.NewUserRepository(tx).ApplyFluencyScore(ctx, userID, lang, record.FluencyScore, now)
		return err
	})
	if err != nil {
		return correction.Record{}, fmt.Errorf("failed to record session: %w", err)
	}

	s.log.Info("session recorded",
		zap.Int64("user_id", userID),
		zap.String("language", lang),
		zap.Int("fluency_score", record.FluencyScore),
		zap.Int("new_words", added),
		zap.Int("total_sessions", stat.TotalSessions),
		zap.Stringer("kind", record.Kind),
	)
	return record, nil
}

// ListSessions returns the user's sessions newest first. limit is clamped to
// 1..MaxSessionLimit; zero selects DefaultSessionLimit.
func (s *PracticeService) ListSessions(ctx context.Context, userID int64, language string, limit int) ([]models.Session, error) {
	switch {
	case limit == 0:
		limit = DefaultSessionLimit
	case limit < 1:
		limit = 1
	case limit > MaxSessionLimit:
		limit = MaxSessionLimit
	}
	return repository.NewSessionRepository(s.db).ListSessions(ctx, userID, languages.Normalize(language), limit)
}
