package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"linguaspeak/internal/database"
	"linguaspeak/internal/models"
)

// SessionRepository stores processed utterances. Sessions are insert-only.
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, user_id, language, original_text, corrected_text, mistakes,
	fluency_score, ai_response, vocabulary_words, created_at`

// CreateSession inserts a session and sets its ID
func (r *SessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	words := session.VocabularyWords
	if words == nil {
		words = []models.VocabularyWord{}
	}
	encoded, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary words: %w", err)
	}

	query := `
		INSERT INTO sessions (user_id, language, original_text, corrected_text, mistakes,
			fluency_score, ai_response, vocabulary_words, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		session.UserID,
		session.Language,
		session.OriginalText,
		session.CorrectedText,
		session.Mistakes,
		session.FluencyScore,
		session.AIResponse,
		string(encoded),
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	session.ID = id
	session.VocabularyWords = words
	return nil
}

// ListSessions returns a user's sessions newest first. An empty language
// matches every language and a limit of zero or less returns all rows.
func (r *SessionRepository) ListSessions(ctx context.Context, userID int64, language string, limit int) ([]models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE user_id = ?"
	args := []any{userID}
	if language != "" {
		query += " AND language = ?"
		args = append(args, language)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return r.query(ctx, query, args...)
}

// ListAllSessions returns every stored session in insertion order
func (r *SessionRepository) ListAllSessions(ctx context.Context) ([]models.Session, error) {
	return r.query(ctx, "SELECT "+sessionColumns+" FROM sessions ORDER BY id")
}

func (r *SessionRepository) query(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var s models.Session
		var words string
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Language,
			&s.OriginalText,
			&s.CorrectedText,
			&s.Mistakes,
			&s.FluencyScore,
			&s.AIResponse,
			&words,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if err := json.Unmarshal([]byte(words), &s.VocabularyWords); err != nil {
			return nil, fmt.Errorf("failed to decode vocabulary words for session %d: %w", s.ID, err)
		}
		if s.VocabularyWords == nil {
			s.VocabularyWords = []models.VocabularyWord{}
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
