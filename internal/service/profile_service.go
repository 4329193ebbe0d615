package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"linguaspeak/internal/database"
	"linguaspeak/internal/languages"
	"linguaspeak/internal/models"
	"linguaspeak/internal/repository"
	"linguaspeak/internal/validation"
)

// LanguageChoice is one entry of a profile's learning-language list
type LanguageChoice struct {
	Language    string
	Proficiency string
}

// ProfileUpdate lists the fields to change. Nil fields are left as they are.
type ProfileUpdate struct {
	NativeLanguage    *string
	LearningLanguages []LanguageChoice
}

// ProfileService reads, updates and deletes accounts
type ProfileService struct {
	db    *database.DB
	locks *UserLocks
	log   *zap.Logger
	now   func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(db *database.DB, locks *UserLocks, log *zap.Logger) *ProfileService {
	return &ProfileService{
		db:    db,
		locks: locks,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// GetProfile returns the user with learning languages
func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := repository.NewUserRepository(s.db).GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile applies update. A supplied learning-language list replaces
// the stored one; languages kept in the list retain their session statistics.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.User, error) {
	var choices []LanguageChoice
	if update.LearningLanguages != nil {
		var err error
		if choices, err = normalizeChoices(update.LearningLanguages); err != nil {
			return nil, err
		}
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	now := s.now()
	var updated *models.User
	err := s.db.WithinTx(ctx, func(ctx context.Context, tx *database.Tx) error {
		users := repository.NewUserRepository(tx)
		user, err := users.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrNotFound
		}

		if update.NativeLanguage != nil {
			native := strings.TrimSpace(*update.NativeLanguage)
			if native == "" {
				native = models.DefaultNativeLanguage
			}
			if err := users.UpdateNativeLanguage(ctx, userID, native, now); err != nil {
				return err
			}
		} else if err := users.Touch(ctx, userID, now); err != nil {
			return err
		}

		if update.LearningLanguages != nil {
			merged := mergeLearningLanguages(user.LearningLanguages, choices, now)
			if err := users.ReplaceLearningLanguages(ctx, userID, merged); err != nil {
				return err
			}
		}

		updated, err = users.GetUserByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func normalizeChoices(in []LanguageChoice) ([]LanguageChoice, error) {
	seen := make(map[string]bool, len(in))
	out := make([]LanguageChoice, 0, len(in))
	for _, c := range in {
		lang := languages.Normalize(c.Language)
		if err := validation.ValidateLanguage("language", lang); err != nil {
			return nil, err
		}
		if seen[lang] {
			return nil, validation.ValidationError{Field: "learningLanguages", Message: "duplicate language " + lang}
		}
		seen[lang] = true

		level := strings.ToLower(strings.TrimSpace(c.Proficiency))
		if err := validation.ValidateProficiency(level); err != nil {
			return nil, err
		}
		if level == "" {
			level = models.LevelBeginner
		}
		out = append(out, LanguageChoice{Language: lang, Proficiency: level})
	}
	return out, nil
}

// mergeLearningLanguages keeps counters and start times for languages that
// stay in the list. New languages start now, offset by list position so the
// stored order follows the request.
func mergeLearningLanguages(current models.LearningLanguages, choices []LanguageChoice, now time.Time) models.LearningLanguages {
	merged := make(models.LearningLanguages, len(choices))
	for i, c := range choices {
		stat, ok := current[c.Language]
		if !ok {
			stat = models.LearningLanguageStat{
				Language:  c.Language,
				StartedAt: now.Add(time.Duration(i) * time.Microsecond),
			}
		}
		stat.Proficiency = c.Proficiency
		merged[c.Language] = stat
	}
	return merged
}

// DeleteAccount removes the user with all sessions, vocabulary and stats
func (s *ProfileService) DeleteAccount(ctx context.Context, userID int64) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var deleted bool
	err := s.db.WithinTx(ctx, func(ctx context.Context, tx *database.Tx) error {
		var err error
		deleted, err = repository.NewUserRepository(tx).DeleteUser(ctx, userID)
		return err
	})
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.log.Info("account deleted", zap.Int64("user_id", userID))
	return nil
}
