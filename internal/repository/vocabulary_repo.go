package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"linguaspeak/internal/database"
	"linguaspeak/internal/models"
)

// VocabularyRepository handles a user's collected words
type VocabularyRepository struct {
	db database.DBTX
}

// NewVocabularyRepository creates a new vocabulary repository
func NewVocabularyRepository(db database.DBTX) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

const vocabularyColumns = `id, user_id, language, word, translation, difficulty, usage_example,
	review_count, last_reviewed, mastered, created_at`

func scanVocabulary(row rowScanner) (*models.VocabularyEntry, error) {
	e := &models.VocabularyEntry{}
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Language,
		&e.Word,
		&e.Translation,
		&e.Difficulty,
		&e.UsageExample,
		&e.ReviewCount,
		&e.LastReviewed,
		&e.Mastered,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// InsertIfAbsent stores each word the user does not already have for language.
// Existing words keep their first translation and example. Returns how many
// rows were inserted.
func (r *VocabularyRepository) InsertIfAbsent(ctx context.Context, userID int64, language string, words []models.VocabularyWord, now time.Time) (int, error) {
	query := r.db.GetDialect().InsertIgnore("vocabulary",
		"user_id", "language", "word", "translation", "difficulty", "usage_example",
		"review_count", "last_reviewed", "mastered", "created_at")

	inserted := 0
	for _, w := range words {
		result, err := r.db.ExecContext(ctx, query,
			userID, language, w.Word, w.Translation, w.Difficulty, w.UsageExample, 0, now, false, now)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert vocabulary word %q: %w", w.Word, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return inserted, err
		}
		inserted += int(n)
	}
	return inserted, nil
}

// InsertEntry stores a complete entry, as read back from a backup
func (r *VocabularyRepository) InsertEntry(ctx context.Context, e *models.VocabularyEntry) error {
	query := `
		INSERT INTO vocabulary (user_id, language, word, translation, difficulty, usage_example,
			review_count, last_reviewed, mastered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		e.UserID, e.Language, e.Word, e.Translation, e.Difficulty, e.UsageExample,
		e.ReviewCount, e.LastReviewed, e.Mastered, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vocabulary entry: %w", err)
	}
	e.ID = id
	return nil
}

// ListVocabulary returns a user's words, most recently reviewed first.
// An empty language matches every language.
func (r *VocabularyRepository) ListVocabulary(ctx context.Context, userID int64, language string) ([]models.VocabularyEntry, error) {
	query := "SELECT " + vocabularyColumns + " FROM vocabulary WHERE user_id = ?"
	args := []any{userID}
	if language != "" {
		query += " AND language = ?"
		args = append(args, language)
	}
	query += " ORDER BY last_reviewed DESC, id DESC"
	return r.query(ctx, query, args...)
}

// ListAllVocabulary returns every stored entry in insertion order
func (r *VocabularyRepository) ListAllVocabulary(ctx context.Context) ([]models.VocabularyEntry, error) {
	return r.query(ctx, "SELECT "+vocabularyColumns+" FROM vocabulary ORDER BY id")
}

func (r *VocabularyRepository) query(ctx context.Context, query string, args ...any) ([]models.VocabularyEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vocabulary: %w", err)
	}
	defer rows.Close()

	entries := []models.VocabularyEntry{}
	for rows.Next() {
		e, err := scanVocabulary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// GetEntry retrieves one entry owned by userID. Returns nil when absent.
func (r *VocabularyRepository) GetEntry(ctx context.Context, userID, id int64) (*models.VocabularyEntry, error) {
	e, err := scanVocabulary(r.db.QueryRowContext(ctx,
		"SELECT "+vocabularyColumns+" FROM vocabulary WHERE id = ? AND user_id = ?", id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary entry: %w", err)
	}
	return e, nil
}

// UpdateReview records a review of an entry owned by userID.
// Returns nil when the entry does not exist or belongs to someone else.
func (r *VocabularyRepository) UpdateReview(ctx context.Context, userID, id int64, reviewCount int, mastered bool, now time.Time) (*models.VocabularyEntry, error) {
	query := `
		UPDATE vocabulary
		SET review_count = ?, mastered = ?, last_reviewed = ?
		WHERE id = ? AND user_id = ?
	`
	result, err := r.db.ExecContext(ctx, query, reviewCount, mastered, now, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update vocabulary entry: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return r.GetEntry(ctx, userID, id)
}
