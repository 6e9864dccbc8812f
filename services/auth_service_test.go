package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/padel-club/models"
)

func TestRegister_Success(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAuthService(userRepo)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@club.es",
		Password:  "secret-password",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleMember, user.Role)
	assert.False(t, user.EmailConfirmed)
	require.NotNil(t, user.EmailConfirmationToken)
	assert.Equal(t, token, *user.EmailConfirmationToken)

	// Пароль хранится только хэшем.
	assert.NotEqual(t, "secret-password", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-password")))
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, _, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ana",
		Email:     "ana@club.es",
		Password:  "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo(&models.User{ID: 1, Email: "ana@club.es"})
	svc := NewAuthService(userRepo)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ana",
		Email:     "ana@club.es",
		Password:  "secret-password",
	})
	assert.ErrorIs(t, err, ErrAuthEmailTaken)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	userRepo := newFakeUserRepo(&models.User{
		ID:           1,
		Email:        "ana@club.es",
		PasswordHash: string(hash),
		Role:         models.RoleMember,
	})
	svc := NewAuthService(userRepo)
	ctx := context.Background()

	user, err := svc.Login(ctx, LoginInput{Email: "ana@club.es", Password: "secret-password"})
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Login(ctx, LoginInput{Email: "ana@club.es", Password: "wrong"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@club.es", Password: "secret-password"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}

func TestConfirmEmail(t *testing.T) {
	token := "confirm-token"
	userRepo := newFakeUserRepo(&models.User{
		ID:                     1,
		Email:                  "ana@club.es",
		EmailConfirmationToken: &token,
	})
	svc := NewAuthService(userRepo)
	ctx := context.Background()

	require.NoError(t, svc.ConfirmEmail(ctx, token))

	stored, err := userRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, stored.EmailConfirmed)

	// Токен одноразовый.
	err = svc.ConfirmEmail(ctx, token)
	assert.ErrorIs(t, err, ErrAuthInvalidToken)
}

func TestPasswordReset_FullFlow(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	userRepo := newFakeUserRepo(&models.User{
		ID:           1,
		Email:        "ana@club.es",
		PasswordHash: string(hash),
	})
	svc := NewAuthService(userRepo)
	ctx := context.Background()

	token, err := svc.GeneratePasswordResetToken(ctx, "ana@club.es")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored, err := userRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordResetExpiresAt)
	assert.True(t, stored.PasswordResetExpiresAt.After(time.Now()))

	require.NoError(t, svc.ResetPasswordByToken(ctx, token, "new-password-123"))

	stored, err = userRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, stored.PasswordResetToken)
	assert.Nil(t, stored.PasswordResetExpiresAt)

	_, err = svc.Login(ctx, LoginInput{Email: "ana@club.es", Password: "new-password-123"})
	assert.NoError(t, err)

	// Старый пароль больше не подходит, токен сброшен.
	_, err = svc.Login(ctx, LoginInput{Email: "ana@club.es", Password: "old-password"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	err = svc.ResetPasswordByToken(ctx, token, "another-password")
	assert.ErrorIs(t, err, ErrAuthInvalidToken)
}

func TestPasswordReset_ExpiredTokenRejected(t *testing.T) {
	userRepo := newFakeUserRepo(&models.User{ID: 1, Email: "ana@club.es"})
	svc := NewAuthService(userRepo)
	ctx := context.Background()

	token, err := svc.GeneratePasswordResetToken(ctx, "ana@club.es")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Токен живёт ограниченное время.
	stored, err := userRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	expired := time.Now().Add(-time.Minute)
	stored.PasswordResetExpiresAt = &expired
	require.NoError(t, userRepo.Update(ctx, stored))

	err = svc.ResetPasswordByToken(ctx, token, "new-password-123")
	assert.ErrorIs(t, err, ErrAuthInvalidToken)
}

func TestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	token, err := svc.GeneratePasswordResetToken(context.Background(), "nobody@club.es")
	assert.NoError(t, err)
	assert.Empty(t, token)
}
