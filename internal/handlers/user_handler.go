package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"linguaspeak/internal/service"
	"linguaspeak/internal/validation"
)

// UserHandler serves the signed-in user's profile, statistics and history
type UserHandler struct {
	profileService  *service.ProfileService
	statsService    *service.StatsService
	practiceService *service.PracticeService
	log             *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(profileService *service.ProfileService, statsService *service.StatsService, practiceService *service.PracticeService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		profileService:  profileService,
		statsService:    statsService,
		practiceService: practiceService,
		log:             log,
	}
}

type learningLanguageRequest struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

type updateProfileRequest struct {
	NativeLanguage    *string                   `json:"nativeLanguage"`
	LearningLanguages []learningLanguageRequest `json:"learningLanguages"`
}

// GetProfile returns the user without credentials
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	profile, err := h.profileService.GetProfile(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, h.log, http.StatusNotFound, ErrUserNotFound, "", nil)
			return
		}
		respondWithError(w, h.log, http.StatusInternalServerError, ErrFetchProfile, "", err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfile changes the native language and learning-language list
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	update := service.ProfileUpdate{NativeLanguage: req.NativeLanguage}
	if req.LearningLanguages != nil {
		update.LearningLanguages = make([]service.LanguageChoice, 0, len(req.LearningLanguages))
		for _, l := range req.LearningLanguages {
			update.LearningLanguages = append(update.LearningLanguages, service.LanguageChoice{
				Language:    l.Language,
				Proficiency: l.Proficiency,
			})
		}
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), user.ID, update)
	if err != nil {
		var verr validation.ValidationError
		switch {
		case errors.As(err, &verr):
			respondWithError(w, h.log, http.StatusBadRequest, verr.Message, "", nil)
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, h.log, http.StatusNotFound, ErrUserNotFound, "", nil)
		default:
			respondWithError(w, h.log, http.StatusInternalServerError, ErrUpdateProfile, "", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// DeleteProfile removes the account and everything it owns
func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.profileService.DeleteAccount(r.Context(), user.ID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, h.log, http.StatusNotFound, ErrUserNotFound, "", nil)
			return
		}
		respondWithError(w, h.log, http.StatusInternalServerError, ErrDeleteProfile, "", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStats returns the statistics summary
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	summary, err := h.statsService.GetStats(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, ErrFetchStats, "", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// GetSessions lists recent sessions, optionally for one language
func (h *UserHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidLimit, "", nil)
			return
		}
		// Zero would select the default; an explicit zero asks for the minimum.
		limit = max(n, 1)
	}

	sessions, err := h.practiceService.ListSessions(r.Context(), user.ID, query.Get("language"), limit)
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, ErrFetchSessions, "", err)
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}
