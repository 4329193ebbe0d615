package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linguaspeak/internal/correction"
	"linguaspeak/internal/database"
	"linguaspeak/internal/llm"
	"linguaspeak/internal/observe"
	"linguaspeak/internal/security"
	"linguaspeak/internal/service"
	"linguaspeak/migrations"
)

type testAPI struct {
	server   *httptest.Server
	provider *llm.MockProvider
	db       *database.DB
}

func newTestAPI(t *testing.T, limiter *security.RateLimiter) *testAPI {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(context.Background(), migrations.FS, zap.NewNop()))

	log := zap.NewNop()
	provider := llm.NewMockProvider()
	tokens := security.NewTokenManager("test-secret", time.Hour)
	locks := service.NewUserLocks()

	authService := service.NewAuthService(db, tokens, nil, log)
	practiceService := service.NewPracticeService(db, correction.NewClient(provider, log, observe.Nop()), locks, log)

	mux := Routes(Handlers{
		Middleware: NewMiddleware(authService, limiter, log),
		Auth:       NewAuthHandler(authService, log),
		Speech:     NewSpeechHandler(practiceService, log),
		User: NewUserHandler(
			service.NewProfileService(db, locks, log),
			service.NewStatsService(db),
			practiceService,
			log,
		),
		Vocabulary: NewVocabularyHandler(service.NewVocabularyService(db), log),
		System:     NewSystemHandler(db, log),
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &testAPI{server: server, provider: provider, db: db}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (a *testAPI) register(t *testing.T, username string) string {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out.Error
}

func reply(score int, words ...map[string]string) string {
	if words == nil {
		words = []map[string]string{}
	}
	data, _ := json.Marshal(map[string]any{
		"original":             "yo tengo hambre",
		"corrected":            "tengo hambre",
		"mistakes":             "subject pronoun is optional",
		"response":             "¿Qué quieres comer?",
		"translation_user":     "I am hungry",
		"translation_response": "What do you want to eat?",
		"fluency_score":        score,
		"vocabulary_words":     words,
	})
	return string(data)
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t, nil)

	resp, body := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":       "alma",
		"email":          "alma@example.com",
		"password":       "secret123",
		"nativeLanguage": "Swedish",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var registered map[string]any
	require.NoError(t, json.Unmarshal(body, &registered))
	assert.Equal(t, "User registered successfully", registered["message"])
	assert.NotEmpty(t, registered["token"])
	user := registered["user"].(map[string]any)
	assert.Equal(t, "alma", user["username"])
	assert.Equal(t, "Swedish", user["nativeLanguage"])
	assert.NotContains(t, user, "learningLanguages")
	assert.NotContains(t, string(body), "password")

	t.Run("duplicate", func(t *testing.T) {
		resp, body := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "alma", "email": "other@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "User with this email or username already exists", errorMessage(t, body))
	})

	t.Run("invalid", func(t *testing.T) {
		resp, _ := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "al", "email": "al@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("login", func(t *testing.T) {
		resp, body := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alma@example.com", "password": "secret123",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var out map[string]any
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, "Login successful", out["message"])
		assert.Equal(t, []any{}, out["user"].(map[string]any)["learningLanguages"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		resp, body := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alma@example.com", "password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", errorMessage(t, body))
	})
}

func TestAuthMiddleware(t *testing.T) {
	api := newTestAPI(t, nil)

	resp, body := api.do(t, http.MethodGet, "/api/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Access token required", errorMessage(t, body))

	resp, body = api.do(t, http.MethodGet, "/api/user/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Invalid token", errorMessage(t, body))

	token := api.register(t, "bruno")
	resp, _ = api.do(t, http.MethodDelete, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = api.do(t, http.MethodGet, "/api/user/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", errorMessage(t, body))
}

func TestPracticeFlow(t *testing.T) {
	api := newTestAPI(t, nil)
	token := api.register(t, "carmen")

	resp, body := api.do(t, http.MethodPost, "/api/process-speech", token, map[string]string{"text": "", "language": "spanish"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Text and language are required", errorMessage(t, body))

	api.provider.AddResponse(llm.MockResponse{Text: reply(80, map[string]string{"word": "hambre", "translation": "hunger", "difficulty": "beginner"})})
	api.provider.AddResponse(llm.MockResponse{Text: reply(90, map[string]string{"word": "comer", "translation": "to eat", "difficulty": "beginner"})})

	for i := 0; i < 2; i++ {
		resp, body = api.do(t, http.MethodPost, "/api/process-speech", token, map[string]string{"text": "yo tengo hambre", "language": "spanish"})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}
	var record map[string]any
	require.NoError(t, json.Unmarshal(body, &record))
	assert.Equal(t, "tengo hambre", record["corrected"])
	assert.EqualValues(t, 90, record["fluency_score"])
	assert.Contains(t, record, "translation_user")

	resp, body = api.do(t, http.MethodGet, "/api/user/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.EqualValues(t, 2, stats["totalSessions"])
	assert.EqualValues(t, 85, stats["averageFluencyScore"])
	assert.EqualValues(t, 2, stats["totalVocabularyWords"])
	assert.Equal(t, []any{"spanish"}, stats["languagesPracticed"])

	resp, body = api.do(t, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile map[string]any
	require.NoError(t, json.Unmarshal(body, &profile))
	langs := profile["learningLanguages"].([]any)
	require.Len(t, langs, 1)
	assert.EqualValues(t, 2, langs[0].(map[string]any)["totalSessions"])

	resp, body = api.do(t, http.MethodGet, "/api/user/sessions?language=Spanish&limit=1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sessions []map[string]any
	require.NoError(t, json.Unmarshal(body, &sessions))
	require.Len(t, sessions, 1)
	assert.EqualValues(t, 90, sessions[0]["fluencyScore"])

	resp, body = api.do(t, http.MethodGet, "/api/user/sessions?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "limit must be a number", errorMessage(t, body))

	resp, body = api.do(t, http.MethodGet, "/api/user/vocabulary?language=spanish", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var vocab []map[string]any
	require.NoError(t, json.Unmarshal(body, &vocab))
	require.Len(t, vocab, 2)
	wordID := int64(vocab[1]["id"].(float64))

	resp, body = api.do(t, http.MethodPut, "/api/user/vocabulary/"+itoa(wordID), token, map[string]any{"reviewCount": 3, "mastered": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(body, &entry))
	assert.EqualValues(t, 3, entry["reviewCount"])
	assert.Equal(t, true, entry["mastered"])

	resp, body = api.do(t, http.MethodGet, "/api/user/vocabulary", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	vocab = nil
	require.NoError(t, json.Unmarshal(body, &vocab))
	assert.EqualValues(t, wordID, vocab[0]["id"], "reviewed word moves to the front")

	other := api.register(t, "dario")
	resp, body = api.do(t, http.MethodPut, "/api/user/vocabulary/"+itoa(wordID), other, map[string]any{"reviewCount": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Vocabulary word not found", errorMessage(t, body))

	resp, _ = api.do(t, http.MethodPut, "/api/user/vocabulary/abc", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = api.do(t, http.MethodGet, "/api/user/vocabulary/export", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
	assert.Equal(t, "PK", string(body[:2]), "xlsx is a zip archive")
}

func TestProcessSpeechTransportErrors(t *testing.T) {
	api := newTestAPI(t, nil)
	token := api.register(t, "elif")

	api.provider.AddResponse(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503 from upstream")}})
	resp, _ := api.do(t, http.MethodPost, "/api/process-speech", token, map[string]string{"text": "merhaba", "language": "turkish"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	api.provider.AddResponse(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: context.DeadlineExceeded}})
	resp, _ = api.do(t, http.MethodPost, "/api/process-speech", token, map[string]string{"text": "merhaba", "language": "turkish"})
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)

	resp, body := api.do(t, http.MethodGet, "/api/user/sessions", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestProcessSpeechTestEndpoint(t *testing.T) {
	api := newTestAPI(t, nil)
	api.provider.AddResponse(llm.MockResponse{Text: "no json here"})

	resp, body := api.do(t, http.MethodPost, "/api/process-speech-test", "", map[string]string{"text": "bonjour", "language": "french"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var record map[string]any
	require.NoError(t, json.Unmarshal(body, &record))
	assert.Equal(t, "Thank you for practicing!", record["response"])
	assert.EqualValues(t, 90, record["fluency_score"])
	assert.NotContains(t, record, "Kind")
}

func TestUpdateProfile(t *testing.T) {
	api := newTestAPI(t, nil)
	token := api.register(t, "farah")

	resp, body := api.do(t, http.MethodPut, "/api/user/profile", token, map[string]any{
		"nativeLanguage": "Urdu",
		"learningLanguages": []map[string]string{
			{"language": "english", "proficiency": "advanced"},
			{"language": "French"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var profile map[string]any
	require.NoError(t, json.Unmarshal(body, &profile))
	assert.Equal(t, "Urdu", profile["nativeLanguage"])
	langs := profile["learningLanguages"].([]any)
	require.Len(t, langs, 2)
	assert.Equal(t, "english", langs[0].(map[string]any)["language"])
	assert.Equal(t, "advanced", langs[0].(map[string]any)["proficiency"])

	resp, _ = api.do(t, http.MethodPut, "/api/user/profile", token, map[string]any{
		"learningLanguages": []map[string]string{{"language": "french", "proficiency": "native"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndLanguages(t *testing.T) {
	api := newTestAPI(t, nil)

	resp, body := api.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, body = api.do(t, http.MethodGet, "/api/languages", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var langs []map[string]string
	require.NoError(t, json.Unmarshal(body, &langs))
	assert.Len(t, langs, 10)
	assert.Equal(t, "french", langs[0]["key"])
	assert.Equal(t, "fr-FR", langs[0]["locale"])
}

func TestRateLimit(t *testing.T) {
	limiter := security.NewRateLimiter(2, time.Hour)
	t.Cleanup(limiter.Stop)
	api := newTestAPI(t, limiter)

	creds := map[string]string{"email": "nobody@example.com", "password": "x"}
	for i := 0; i < 2; i++ {
		resp, _ := api.do(t, http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, body := api.do(t, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Equal(t, "Too many requests, please try again later", errorMessage(t, body))
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
