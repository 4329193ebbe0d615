package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		ok    bool
	}{
		{"sofia@example.com", true},
		{"sofia@mail.example.co.uk", true},
		{"sofia+french@example.com", true},
		{"sofia.example.com", false},
		{"sofia@", false},
		{"@example.com", false},
		{"sofia @example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if err := ValidateEmail(tt.email); (err == nil) != tt.ok {
				t.Errorf("ValidateEmail(%q) = %v, want ok=%v", tt.email, err, tt.ok)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"typical", "marie", true},
		{"minimum length", "ana", true},
		{"maximum length", strings.Repeat("a", MaxUsernameLength), true},
		{"over maximum", strings.Repeat("a", MaxUsernameLength+1), false},
		{"short after trim", "  jo  ", false},
		{"empty", "", false},
		{"runes not bytes", "日本語", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateUsername(tt.input); (err == nil) != tt.ok {
				t.Errorf("ValidateUsername(%q) = %v, want ok=%v", tt.input, err, tt.ok)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"bonjour1", true},
		{"hola12", true},
		{"hola1", false},
		{"", false},
		{"ñandú!", true},
	}

	for _, tt := range tests {
		if err := ValidatePassword(tt.password); (err == nil) != tt.ok {
			t.Errorf("ValidatePassword(%q) = %v, want ok=%v", tt.password, err, tt.ok)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Marie@Example.COM "); got != "marie@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestValidateProficiency(t *testing.T) {
	for _, level := range []string{"", "beginner", "intermediate", "advanced"} {
		if err := ValidateProficiency(level); err != nil {
			t.Errorf("ValidateProficiency(%q) = %v", level, err)
		}
	}
	if err := ValidateProficiency("expert"); err == nil {
		t.Error("ValidateProficiency(expert) should fail")
	}
}

func TestValidationErrorField(t *testing.T) {
	var verr ValidationError
	if !errors.As(ValidateLanguage("language", " "), &verr) {
		t.Fatal("blank language should return a ValidationError")
	}
	if verr.Field != "language" {
		t.Errorf("Field = %q, want language", verr.Field)
	}

	if err := ValidateReviewCount(-1); err == nil {
		t.Error("negative review count should fail")
	}
	if err := ValidateReviewCount(0); err != nil {
		t.Errorf("ValidateReviewCount(0) = %v", err)
	}
}
