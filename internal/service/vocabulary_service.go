package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"linguaspeak/internal/database"
	"linguaspeak/internal/languages"
	"linguaspeak/internal/models"
	"linguaspeak/internal/repository"
	"linguaspeak/internal/validation"
)

// exportSheet is the default sheet of a new workbook
const exportSheet = "Sheet1"

var exportHeader = []any{"Word", "Translation", "Language", "Difficulty", "Usage example", "Reviews", "Mastered", "Last reviewed"}

// ReviewInput is a client-reported review of one vocabulary entry
type ReviewInput struct {
	ReviewCount int
	Mastered    bool
}

// VocabularyService reads, reviews and exports a user's vocabulary
type VocabularyService struct {
	db  *database.DB
	now func() time.Time
}

// NewVocabularyService creates a new vocabulary service
func NewVocabularyService(db *database.DB) *VocabularyService {
	return &VocabularyService{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// List returns entries most recently reviewed first
func (s *VocabularyService) List(ctx context.Context, userID int64, language string) ([]models.VocabularyEntry, error) {
	return repository.NewVocabularyRepository(s.db).ListVocabulary(ctx, userID, languages.Normalize(language))
}

// Review records a review. Entries the user does not own are ErrNotFound.
func (s *VocabularyService) Review(ctx context.Context, userID, wordID int64, in ReviewInput) (*models.VocabularyEntry, error) {
	if err := validation.ValidateReviewCount(in.ReviewCount); err != nil {
		return nil, err
	}

	entry, err := repository.NewVocabularyRepository(s.db).UpdateReview(ctx, userID, wordID, in.ReviewCount, in.Mastered, s.now())
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

// Export writes the user's vocabulary as an xlsx workbook
func (s *VocabularyService) Export(ctx context.Context, userID int64, language string, w io.Writer) error {
	entries, err := s.List(ctx, userID, language)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			e.Word,
			e.Translation,
			languages.Name(e.Language),
			e.Difficulty,
			e.UsageExample,
			e.ReviewCount,
			e.Mastered,
			e.LastReviewed.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
