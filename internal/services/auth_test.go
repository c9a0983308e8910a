package services

import (
	"context"
	"testing"
	"time"

	"studysync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIssuer returns a predictable token for assertions.
type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	return "token-" + userID, nil
}

func newAuthFixture() (domain.AuthService, *fakeUserRepo, *fakeEmailService) {
	userRepo := newFakeUserRepo()
	email := &fakeEmailService{}
	svc := NewAuthService(userRepo, fakeHasher{}, fakeIssuer{}, email, testLogger, time.Hour, time.Second)
	return svc, userRepo, email
}

func TestAuthService_SignUp(t *testing.T) {
	svc, userRepo, email := newAuthFixture()

	token, user, err := svc.SignUp(context.Background(), "Alice", "Alice@Example.com", "secret-password")
	require.NoError(t, err)

	assert.Equal(t, "token-"+user.ID, token)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)

	stored, err := userRepo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)

	require.Len(t, email.welcomes, 1)
	assert.Equal(t, "alice@example.com", email.welcomes[0].Email)
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	svc, _, _ := newAuthFixture()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{name: "bad email", userName: "Alice", email: "not-an-email", password: "secret-password"},
		{name: "short password", userName: "Alice", email: "alice@example.com", password: "short"},
		{name: "blank name", userName: "  ", email: "alice@example.com", password: "secret-password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SignUp(context.Background(), tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	userRepo.add("Alice", "alice@example.com")

	_, _, err := svc.SignUp(context.Background(), "Other", "alice@example.com", "secret-password")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newAuthFixture()
	_, user, err := svc.SignUp(context.Background(), "Alice", "alice@example.com", "secret-password")
	require.NoError(t, err)

	token, loggedIn, err := svc.Login(context.Background(), "alice@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, "token-"+user.ID, token)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()
	_, _, err := svc.SignUp(context.Background(), "Alice", "alice@example.com", "secret-password")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "secret-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
