package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"linguaspeak/internal/database"
	"linguaspeak/internal/models"
	"linguaspeak/internal/repository"
)

const BackupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version    string                   `json:"version"`
	ExportedAt time.Time                `json:"exported_at"`
	Users      []UserBackup             `json:"users"`
	Sessions   []models.Session         `json:"sessions"`
	Vocabulary []models.VocabularyEntry `json:"vocabulary"`
}

// UserBackup represents a user record for backup, credentials included
type UserBackup struct {
	ID                int64                         `json:"id"`
	Username          string                        `json:"username"`
	Email             string                        `json:"email"`
	PasswordHash      string                        `json:"password_hash"`
	NativeLanguage    string                        `json:"native_language"`
	CreatedAt         time.Time                     `json:"created_at"`
	UpdatedAt         time.Time                     `json:"updated_at"`
	LearningLanguages []models.LearningLanguageStat `json:"learning_languages"`
}

// ImportResult counts what an import restored
type ImportResult struct {
	Users      int
	Sessions   int
	Vocabulary int
}

// ImportOptions controls how a backup is restored
type ImportOptions struct {
	// Clear deletes all existing data in the same transaction as the import,
	// so a failed import leaves the database untouched.
	Clear bool
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db  *database.DB
	log *zap.Logger
	now func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, log *zap.Logger) *BackupService {
	return &BackupService{db: db, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Export writes every user, session and vocabulary entry as indented JSON
func (s *BackupService) Export(ctx context.Context, w io.Writer) (*BackupData, error) {
	backup := &BackupData{
		Version:    BackupVersion,
		ExportedAt: s.now(),
	}

	users, err := repository.NewUserRepository(s.db).GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	backup.Users = make([]UserBackup, 0, len(users))
	for _, u := range users {
		backup.Users = append(backup.Users, UserBackup{
			ID:                u.ID,
			Username:          u.Username,
			Email:             u.Email,
			PasswordHash:      u.PasswordHash,
			NativeLanguage:    u.NativeLanguage,
			CreatedAt:         u.CreatedAt,
			UpdatedAt:         u.UpdatedAt,
			LearningLanguages: u.LearningLanguages.Ordered(),
		})
	}

	if backup.Sessions, err = repository.NewSessionRepository(s.db).ListAllSessions(ctx); err != nil {
		return nil, fmt.Errorf("failed to export sessions: %w", err)
	}
	if backup.Vocabulary, err = repository.NewVocabularyRepository(s.db).ListAllVocabulary(ctx); err != nil {
		return nil, fmt.Errorf("failed to export vocabulary: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	s.log.Info("database exported",
		zap.Int("users", len(backup.Users)),
		zap.Int("sessions", len(backup.Sessions)),
		zap.Int("vocabulary", len(backup.Vocabulary)),
	)
	return backup, nil
}

// Import restores a backup in one transaction. Users receive new IDs and
// their sessions and vocabulary follow them. A user whose email or username
// already exists aborts the whole import.
func (s *BackupService) Import(ctx context.Context, r io.Reader, opts ImportOptions) (ImportResult, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return ImportResult{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return ImportResult{}, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	s.log.Info("importing backup", zap.Time("exported_at", backup.ExportedAt))

	var result ImportResult
	err := s.db.WithinTx(ctx, func(ctx context.Context, tx *database.Tx) error {
		if opts.Clear {
			if err := s.clearTables(ctx, tx); err != nil {
				return err
			}
		}

		users := repository.NewUserRepository(tx)
		ids := make(map[int64]int64, len(backup.Users))

		for _, u := range backup.Users {
			user := &models.User{
				Username:       u.Username,
				Email:          u.Email,
				PasswordHash:   u.PasswordHash,
				NativeLanguage: u.NativeLanguage,
				CreatedAt:      u.CreatedAt,
				UpdatedAt:      u.UpdatedAt,
			}
			if err := users.CreateUser(ctx, user); err != nil {
				return fmt.Errorf("failed to import user %d: %w", u.ID, err)
			}
			ids[u.ID] = user.ID
			for _, stat := range u.LearningLanguages {
				if err := users.InsertLearningLanguage(ctx, user.ID, stat); err != nil {
					return fmt.Errorf("failed to import user %d: %w", u.ID, err)
				}
			}
			result.Users++
		}

		sessions := repository.NewSessionRepository(tx)
		for _, session := range backup.Sessions {
			userID, ok := ids[session.UserID]
			if !ok {
				return fmt.Errorf("session %d references unknown user %d", session.ID, session.UserID)
			}
			session.UserID = userID
			if err := sessions.CreateSession(ctx, &session); err != nil {
				return err
			}
			result.Sessions++
		}

		vocabulary := repository.NewVocabularyRepository(tx)
		for _, entry := range backup.Vocabulary {
			userID, ok := ids[entry.UserID]
			if !ok {
				return fmt.Errorf("vocabulary entry %d references unknown user %d", entry.ID, entry.UserID)
			}
			entry.UserID = userID
			if err := vocabulary.InsertEntry(ctx, &entry); err != nil {
				return err
			}
			result.Vocabulary++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	s.log.Info("database import completed",
		zap.Int("users", result.Users),
		zap.Int("sessions", result.Sessions),
		zap.Int("vocabulary", result.Vocabulary),
	)
	return result, nil
}

// Clear deletes all application data, children before parents
func (s *BackupService) Clear(ctx context.Context) error {
	return s.db.WithinTx(ctx, s.clearTables)
}

func (s *BackupService) clearTables(ctx context.Context, tx *database.Tx) error {
	for _, table := range []string{"sessions", "vocabulary", "learning_languages", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
		s.log.Debug("cleared table", zap.String("table", table))
	}
	return nil
}
