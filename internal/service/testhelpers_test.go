package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linguaspeak/internal/correction"
	"linguaspeak/internal/database"
	"linguaspeak/internal/llm"
	"linguaspeak/internal/models"
	"linguaspeak/internal/observe"
	"linguaspeak/internal/security"
	"linguaspeak/migrations"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(context.Background(), migrations.FS, zap.NewNop()))
	return db
}

// fixedClock returns increasing timestamps one second apart
func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type vocabWord struct {
	Word         string `json:"word"`
	Translation  string `json:"translation"`
	Difficulty   string `json:"difficulty"`
	UsageExample string `json:"usage_example"`
}

// correctionReply builds a model reply the correction parser accepts
func correctionReply(t *testing.T, score int, words ...vocabWord) string {
	t.Helper()
	if words == nil {
		words = []vocabWord{}
	}
	data, err := json.Marshal(map[string]any{
		"original":             "je suis alle",
		"corrected":            "je suis allé",
		"mistakes":             "accent on allé",
		"response":             "Très bien !",
		"translation_user":     "I went",
		"translation_response": "Very good!",
		"fluency_score":        score,
		"vocabulary_words":     words,
	})
	require.NoError(t, err)
	return string(data)
}

func newCorrector(provider llm.Provider) *correction.Client {
	return correction.NewClient(provider, zap.NewNop(), observe.Nop())
}

func newTestUser(t *testing.T, db *database.DB, username string) *models.User {
	t.Helper()
	auth := NewAuthService(db, security.NewTokenManager("test-secret", time.Hour), nil, zap.NewNop())
	user, _, err := auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return user
}
