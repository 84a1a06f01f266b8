package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamesa/poker-league/models"
	"github.com/lamesa/poker-league/utils"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()

	hash, err := utils.HashPin("4711")
	require.NoError(t, err)

	players := newFakePlayerRepo(
		&models.Player{ID: 1, Nickname: "ace", Role: models.RoleOperator, PinHash: &hash, IsActive: true},
		&models.Player{ID: 2, Nickname: "river", IsActive: true},
		&models.Player{ID: 3, Nickname: "gone", PinHash: &hash, IsActive: false},
	)
	return NewAuthService(players, "test-secret")
}

func TestLoginIssuesToken(t *testing.T) {
	service := newAuthFixture(t)

	result, err := service.Login(context.Background(), models.Credentials{Nickname: "ace", Pin: "4711"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Player.ID)

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(result.Token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, float64(1), claims["sub"])
	assert.Equal(t, string(models.RoleOperator), claims["role"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service := newAuthFixture(t)

	tests := []struct {
		name        string
		credentials models.Credentials
	}{
		{name: "wrong pin", credentials: models.Credentials{Nickname: "ace", Pin: "0000"}},
		{name: "unknown nickname", credentials: models.Credentials{Nickname: "nobody", Pin: "4711"}},
		{name: "no pin set", credentials: models.Credentials{Nickname: "river", Pin: "4711"}},
		{name: "inactive player", credentials: models.Credentials{Nickname: "gone", Pin: "4711"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), tt.credentials)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}
