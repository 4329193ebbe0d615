package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"linguaspeak/internal/models"
	"linguaspeak/internal/service"
	"linguaspeak/internal/validation"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	authService *service.AuthService
	log         *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type registerRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	NativeLanguage string `json:"nativeLanguage"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authUser struct {
	ID                int64                     `json:"id"`
	Username          string                    `json:"username"`
	Email             string                    `json:"email"`
	NativeLanguage    string                    `json:"nativeLanguage"`
	LearningLanguages *models.LearningLanguages `json:"learningLanguages,omitempty"`
}

type authResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    authUser `json:"user"`
}

// Register creates an account and returns a token
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	user, token, err := h.authService.Register(r.Context(), service.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		NativeLanguage: req.NativeLanguage,
	})
	if err != nil {
		var verr validation.ValidationError
		switch {
		case errors.Is(err, service.ErrUserExists):
			respondWithError(w, h.log, http.StatusBadRequest, ErrUserExists, "", nil)
		case errors.As(err, &verr):
			respondWithError(w, h.log, http.StatusBadRequest, verr.Message, "", nil)
		default:
			respondWithError(w, h.log, http.StatusInternalServerError, ErrRegistrationFailed, "", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   token,
		User: authUser{
			ID:             user.ID,
			Username:       user.Username,
			Email:          user.Email,
			NativeLanguage: user.NativeLanguage,
		},
	})
}

// Login verifies credentials and returns a token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, h.log, http.StatusUnauthorized, ErrInvalidCredentials, "", nil)
			return
		}
		respondWithError(w, h.log, http.StatusInternalServerError, ErrLoginFailed, "", err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User: authUser{
			ID:                user.ID,
			Username:          user.Username,
			Email:             user.Email,
			NativeLanguage:    user.NativeLanguage,
			LearningLanguages: &user.LearningLanguages,
		},
	})
}
