package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"linguaspeak/internal/correction"
	"linguaspeak/internal/service"
	"linguaspeak/internal/validation"
)

// SpeechHandler turns transcripts into corrections
type SpeechHandler struct {
	practiceService *service.PracticeService
	log             *zap.Logger
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(practiceService *service.PracticeService, log *zap.Logger) *SpeechHandler {
	return &SpeechHandler{practiceService: practiceService, log: log}
}

type speechRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// ProcessSpeech corrects and records an utterance for the signed-in user
func (h *SpeechHandler) ProcessSpeech(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req speechRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	record, err := h.practiceService.ProcessSpeech(r.Context(), user.ID, req.Text, req.Language)
	if err != nil {
		h.respondWithSpeechError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// ProcessSpeechTest corrects an utterance without authentication or storage
func (h *SpeechHandler) ProcessSpeechTest(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	record, err := h.practiceService.Preview(r.Context(), req.Text, req.Language)
	if err != nil {
		h.respondWithSpeechError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (h *SpeechHandler) respondWithSpeechError(w http.ResponseWriter, err error) {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, h.log, http.StatusBadRequest, ErrTextLanguageRequired, "", nil)
	case errors.Is(err, correction.ErrTransport) && errors.Is(err, context.DeadlineExceeded):
		respondWithError(w, h.log, http.StatusGatewayTimeout, ErrCorrectionTimeout, "", err)
	case errors.Is(err, correction.ErrTransport):
		respondWithError(w, h.log, http.StatusBadGateway, ErrProcessSpeech, "", err)
	default:
		respondWithError(w, h.log, http.StatusInternalServerError, ErrProcessSpeech, "", err)
	}
}
