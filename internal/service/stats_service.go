package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"linguaspeak/internal/database"
	"linguaspeak/internal/models"
	"linguaspeak/internal/repository"
	"linguaspeak/internal/stats"
)

// StatsService builds the read-only statistics summary
type StatsService struct {
	db *database.DB
}

// NewStatsService creates a new stats service
func NewStatsService(db *database.DB) *StatsService {
	return &StatsService{db: db}
}

// GetStats loads the user's sessions and vocabulary in parallel and summarizes them
func (s *StatsService) GetStats(ctx context.Context, userID int64) (stats.Summary, error) {
	var (
		sessions   []models.Session
		vocabulary []models.VocabularyEntry
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		sessions, err = repository.NewSessionRepository(s.db).ListSessions(egCtx, userID, "", 0)
		if err != nil {
			return fmt.Errorf("stats: load sessions: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		vocabulary, err = repository.NewVocabularyRepository(s.db).ListVocabulary(egCtx, userID, "")
		if err != nil {
			return fmt.Errorf("stats: load vocabulary: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return stats.Summary{}, err
	}

	return stats.Summarize(sessions, vocabulary), nil
}
