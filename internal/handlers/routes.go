package handlers

import "net/http"

// Handlers groups everything the API mux routes to
type Handlers struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Speech     *SpeechHandler
	User       *UserHandler
	Vocabulary *VocabularyHandler
	System     *SystemHandler
	Metrics    http.Handler
}

// Routes registers every API route on a new mux
func Routes(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()
	auth := h.Middleware.RequireAuth

	mux.HandleFunc("GET /healthz", h.System.Health)
	mux.HandleFunc("GET /api/languages", h.System.Languages)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Middleware.RateLimit(h.Auth.Register))
	mux.HandleFunc("POST /api/auth/login", h.Middleware.RateLimit(h.Auth.Login))

	// User
	mux.HandleFunc("GET /api/user/profile", auth(h.User.GetProfile))
	mux.HandleFunc("PUT /api/user/profile", auth(h.User.UpdateProfile))
	mux.HandleFunc("DELETE /api/user/profile", auth(h.User.DeleteProfile))
	mux.HandleFunc("GET /api/user/stats", auth(h.User.GetStats))
	mux.HandleFunc("GET /api/user/sessions", auth(h.User.GetSessions))

	// Vocabulary
	mux.HandleFunc("GET /api/user/vocabulary", auth(h.Vocabulary.List))
	mux.HandleFunc("GET /api/user/vocabulary/export", auth(h.Vocabulary.Export))
	mux.HandleFunc("PUT /api/user/vocabulary/{wordId}", auth(h.Vocabulary.Review))

	// Speech
	mux.HandleFunc("POST /api/process-speech", auth(h.Speech.ProcessSpeech))
	mux.HandleFunc("POST /api/process-speech-test", h.Middleware.RateLimit(h.Speech.ProcessSpeechTest))

	return mux
}
