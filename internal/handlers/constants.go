package handlers

const (
	ErrInvalidRequestBody  = "Invalid request body"
	ErrInternalServerError = "Internal server error"

	ErrAccessTokenRequired = "Access token required"
	ErrInvalidToken        = "Invalid token"
	ErrUserNotFound        = "User not found"
	ErrTooManyRequests     = "Too many requests, please try again later"

	ErrUserExists         = "User with this email or username already exists"
	ErrInvalidCredentials = "Invalid credentials"
	ErrRegistrationFailed = "Registration failed"
	ErrLoginFailed        = "Login failed"

	ErrFetchProfile  = "Failed to fetch profile"
	ErrUpdateProfile = "Failed to update profile"
	ErrDeleteProfile = "Failed to delete profile"
	ErrFetchStats    = "Failed to fetch statistics"
	ErrFetchSessions = "Failed to fetch sessions"
	ErrInvalidLimit  = "limit must be a number"

	ErrFetchVocabulary    = "Failed to fetch vocabulary"
	ErrUpdateVocabulary   = "Failed to update vocabulary"
	ErrExportVocabulary   = "Failed to export vocabulary"
	ErrVocabularyNotFound = "Vocabulary word not found"
	ErrInvalidWordID      = "Invalid word id"

	ErrTextLanguageRequired = "Text and language are required"
	ErrProcessSpeech        = "Failed to process speech"
	ErrCorrectionTimeout    = "Correction service timed out"
)
