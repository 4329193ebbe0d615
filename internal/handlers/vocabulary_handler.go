package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"linguaspeak/internal/service"
	"linguaspeak/internal/validation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// VocabularyHandler serves the signed-in user's vocabulary
type VocabularyHandler struct {
	vocabularyService *service.VocabularyService
	log               *zap.Logger
}

// NewVocabularyHandler creates a new vocabulary handler
func NewVocabularyHandler(vocabularyService *service.VocabularyService, log *zap.Logger) *VocabularyHandler {
	return &VocabularyHandler{vocabularyService: vocabularyService, log: log}
}

type reviewRequest struct {
	ReviewCount int  `json:"reviewCount"`
	Mastered    bool `json:"mastered"`
}

// List returns the vocabulary, most recently reviewed first
func (h *VocabularyHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	entries, err := h.vocabularyService.List(r.Context(), user.ID, r.URL.Query().Get("language"))
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, ErrFetchVocabulary, "", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// Export downloads the vocabulary as a spreadsheet
func (h *VocabularyHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var buf bytes.Buffer
	if err := h.vocabularyService.Export(r.Context(), user.ID, r.URL.Query().Get("language"), &buf); err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, ErrExportVocabulary, "", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="vocabulary.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Review records a review of one word. Missing fields reset to zero values.
func (h *VocabularyHandler) Review(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	wordID, err := strconv.ParseInt(r.PathValue("wordId"), 10, 64)
	if err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidWordID, "", nil)
		return
	}

	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	entry, err := h.vocabularyService.Review(r.Context(), user.ID, wordID, service.ReviewInput{
		ReviewCount: req.ReviewCount,
		Mastered:    req.Mastered,
	})
	if err != nil {
		var verr validation.ValidationError
		switch {
		case errors.As(err, &verr):
			respondWithError(w, h.log, http.StatusBadRequest, verr.Message, "", nil)
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, h.log, http.StatusNotFound, ErrVocabularyNotFound, "", nil)
		default:
			respondWithError(w, h.log, http.StatusInternalServerError, ErrUpdateVocabulary, "", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, entry)
}
