package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fitstack/coachd/internal/apperr"
	"github.com/fitstack/coachd/internal/auth"
	"github.com/fitstack/coachd/internal/domain/user"
	"github.com/fitstack/coachd/internal/storage/memory"
)

func newService() *Service {
	return New(memory.New(), auth.NewIssuer("test-secret", 30*time.Minute), nil)
}

func validInput() RegisterInput {
	return RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "long-enough-pass",
		Role:     user.RoleTrainer,
	}
}

func TestRegister(t *testing.T) {
	svc := newService()

	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, user.RoleTrainer, u.Role)
	require.NotEqual(t, "long-enough-pass", u.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	svc := newService()

	cases := map[string]func(*RegisterInput){
		"empty username": func(in *RegisterInput) { in.Username = " " },
		"bad email":      func(in *RegisterInput) { in.Email = "not-an-email" },
		"short password": func(in *RegisterInput) { in.Password = "short" },
		"bad role":       func(in *RegisterInput) { in.Role = "admin" },
		"negative height": func(in *RegisterInput) {
			in.HeightCM = -1
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Register(context.Background(), in)
			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			require.Equal(t, apperr.CodeValidation, appErr.Code)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newService()

	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validInput())
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeConflict, appErr.Code)
}

func TestLogin(t *testing.T) {
	svc := newService()
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), "alice", "long-enough-pass")
	require.NoError(t, err)
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newService()
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	for name, creds := range map[string][2]string{
		"unknown user":   {"mallory", "long-enough-pass"},
		"wrong password": {"alice", "wrong-password"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), creds[0], creds[1])
			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			require.Equal(t, apperr.CodeInvalidCredentials, appErr.Code)
		})
	}
}

func TestGetUnknownUser(t *testing.T) {
	svc := newService()

	_, err := svc.Get(context.Background(), "missing")
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.CodeNotFound, appErr.Code)
}
