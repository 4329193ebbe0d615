package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"linguaspeak/internal/database"
	"linguaspeak/internal/models"
	"linguaspeak/internal/progress"
)

// maxStatAttempts bounds the compare-and-swap loop in ApplyFluencyScore
const maxStatAttempts = 5

// UserRepository handles database operations for users and their learning languages
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, username, email, password_hash, native_language, created_at, updated_at"

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.NativeLanguage,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user. A taken email or username yields ErrUserExists.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, native_language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.NativeLanguage, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	if user.LearningLanguages == nil {
		user.LearningLanguages = models.LearningLanguages{}
	}
	return nil
}

// ExistsByEmailOrUsername reports whether either identifier is taken
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE email = ? OR username = ?", email, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

// GetUserByEmail retrieves a user by email address. Returns nil when absent.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

// GetUserByID retrieves a user by ID. Returns nil when absent.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.LearningLanguages, err = r.GetLearningLanguages(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetAllUsers retrieves every user with their learning languages
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		users[i].LearningLanguages, err = r.GetLearningLanguages(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return users, nil
}

// UpdateNativeLanguage sets the user's native language
func (r *UserRepository) UpdateNativeLanguage(ctx context.Context, userID int64, nativeLanguage string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET native_language = ?, updated_at = ? WHERE id = ?", nativeLanguage, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Touch bumps updated_at
func (r *UserRepository) Touch(ctx context.Context, userID int64, now time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET updated_at = ? WHERE id = ?", now, userID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteUser removes a user and everything the user owns
func (r *UserRepository) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	for _, table := range []string{"sessions", "vocabulary", "learning_languages"} {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
			return false, fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetLearningLanguages loads all stats for a user
func (r *UserRepository) GetLearningLanguages(ctx context.Context, userID int64) (models.LearningLanguages, error) {
	query := `
		SELECT language, proficiency, total_sessions, average_fluency_score, started_at
		FROM learning_languages
		WHERE user_id = ?
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query learning languages: %w", err)
	}
	defer rows.Close()

	langs := models.LearningLanguages{}
	for rows.Next() {
		var stat models.LearningLanguageStat
		if err := rows.Scan(&stat.Language, &stat.Proficiency, &stat.TotalSessions, &stat.AverageFluencyScore, &stat.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan learning language: %w", err)
		}
		langs[stat.Language] = stat
	}
	return langs, rows.Err()
}

// ReplaceLearningLanguages swaps the user's stats for langs
func (r *UserRepository) ReplaceLearningLanguages(ctx context.Context, userID int64, langs models.LearningLanguages) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM learning_languages WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear learning languages: %w", err)
	}
	for _, stat := range langs.Ordered() {
		if err := r.InsertLearningLanguage(ctx, userID, stat); err != nil {
			return err
		}
	}
	return nil
}

// InsertLearningLanguage adds one stat row
func (r *UserRepository) InsertLearningLanguage(ctx context.Context, userID int64, stat models.LearningLanguageStat) error {
	query := `
		INSERT INTO learning_languages (user_id, language, proficiency, total_sessions, average_fluency_score, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		userID, stat.Language, stat.Proficiency, stat.TotalSessions, stat.AverageFluencyScore, stat.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to insert learning language: %w", err)
	}
	return nil
}

// ApplyFluencyScore folds score into the user's running average for language.
// The row is updated with compare-and-swap on total_sessions; a missing row is
// created with insert-if-absent, and losing that race retries as an update.
func (r *UserRepository) ApplyFluencyScore(ctx context.Context, userID int64, language string, score int, now time.Time) (models.LearningLanguageStat, error) {
	for attempt := 0; attempt < maxStatAttempts; attempt++ {
		stat, err := r.getLearningLanguage(ctx, userID, language)
		if err != nil {
			return models.LearningLanguageStat{}, err
		}

		if stat == nil {
			next := progress.Apply(nil, score)
			created := models.LearningLanguageStat{
				Language:            language,
				Proficiency:         models.LevelBeginner,
				TotalSessions:       next.TotalSessions,
				AverageFluencyScore: next.AverageFluencyScore,
				StartedAt:           now,
			}
			query := r.db.GetDialect().InsertIgnore("learning_languages",
				"user_id", "language", "proficiency", "total_sessions", "average_fluency_score", "started_at")
			result, err := r.db.ExecContext(ctx, query,
				userID, created.Language, created.Proficiency, created.TotalSessions, created.AverageFluencyScore, created.StartedAt)
			if err != nil {
				return models.LearningLanguageStat{}, fmt.Errorf("failed to insert learning language: %w", err)
			}
			if n, err := result.RowsAffected(); err == nil && n == 1 {
				return created, nil
			}
			continue
		}

		next := progress.Apply(&progress.Stat{
			TotalSessions:       stat.TotalSessions,
			AverageFluencyScore: stat.AverageFluencyScore,
		}, score)
		query := `
			UPDATE learning_languages
			SET total_sessions = ?, average_fluency_score = ?
			WHERE user_id = ? AND language = ? AND total_sessions = ?
		`
		result, err := r.db.ExecContext(ctx, query,
			next.TotalSessions, next.AverageFluencyScore, userID, language, stat.TotalSessions)
		if err != nil {
			return models.LearningLanguageStat{}, fmt.Errorf("failed to update learning language: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 1 {
			stat.TotalSessions = next.TotalSessions
			stat.AverageFluencyScore = next.AverageFluencyScore
			return *stat, nil
		}
	}
	return models.LearningLanguageStat{}, ErrConcurrentUpdate
}

func (r *UserRepository) getLearningLanguage(ctx context.Context, userID int64, language string) (*models.LearningLanguageStat, error) {
	query := `
		SELECT language, proficiency, total_sessions, average_fluency_score, started_at
		FROM learning_languages
		WHERE user_id = ? AND language = ?` + r.db.GetDialect().LockingRead()
	stat := &models.LearningLanguageStat{}
	err := r.db.QueryRowContext(ctx, query, userID, language).Scan(
		&stat.Language, &stat.Proficiency, &stat.TotalSessions, &stat.AverageFluencyScore, &stat.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learning language: %w", err)
	}
	return stat, nil
}
