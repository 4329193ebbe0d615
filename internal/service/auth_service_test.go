package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linguaspeak/internal/security"
	"linguaspeak/internal/validation"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	m.sent = append(m.sent, toEmail)
	return m.err
}

func TestAuthService(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	mailer := &fakeMailer{}
	auth := NewAuthService(db, security.NewTokenManager("test-secret", time.Hour), mailer, zap.NewNop())

	user, token, err := auth.Register(ctx, RegisterInput{
		Username: "  amelie ",
		Email:    " Amelie@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "amelie", user.Username)
	assert.Equal(t, "amelie@example.com", user.Email)
	assert.Equal(t, "English", user.NativeLanguage)
	assert.Equal(t, []string{"amelie@example.com"}, mailer.sent)

	t.Run("token resolves to user", func(t *testing.T) {
		got, err := auth.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("bad token", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})

	t.Run("duplicate email or username", func(t *testing.T) {
		_, _, err := auth.Register(ctx, RegisterInput{Username: "other", Email: "amelie@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrUserExists)
		_, _, err = auth.Register(ctx, RegisterInput{Username: "amelie", Email: "new@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("validation", func(t *testing.T) {
		cases := []RegisterInput{
			{Username: "ab", Email: "ab@example.com", Password: "secret123"},
			{Username: "abcd", Email: "not-an-email", Password: "secret123"},
			{Username: "abcd", Email: "abcd@example.com", Password: "123"},
		}
		for _, in := range cases {
			_, _, err := auth.Register(ctx, in)
			var verr validation.ValidationError
			assert.True(t, errors.As(err, &verr), "expected validation error for %+v, got %v", in, err)
		}
	})

	t.Run("login", func(t *testing.T) {
		got, token, err := auth.Login(ctx, "AMELIE@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, token)

		_, _, err = auth.Login(ctx, "amelie@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, _, err = auth.Login(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deleted user", func(t *testing.T) {
		other := newTestUser(t, db, "ghost")
		tokens := security.NewTokenManager("test-secret", time.Hour)
		tok, err := tokens.Issue(other.ID)
		require.NoError(t, err)
		require.NoError(t, NewProfileService(db, NewUserLocks(), zap.NewNop()).DeleteAccount(ctx, other.ID))
		_, err = auth.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRegisterMailFailureIsIgnored(t *testing.T) {
	db := setupTestDB(t)
	mailer := &fakeMailer{err: errors.New("ses down")}
	auth := NewAuthService(db, security.NewTokenManager("test-secret", time.Hour), mailer, zap.NewNop())

	_, token, err := auth.Register(context.Background(), RegisterInput{
		Username:       "piotr",
		Email:          "piotr@example.com",
		Password:       "secret123",
		NativeLanguage: "Polish",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Len(t, mailer.sent, 1)
}
