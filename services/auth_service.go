package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lamesa/poker-league/models"
	"github.com/lamesa/poker-league/repositories"
	"github.com/lamesa/poker-league/utils"
)

const tokenTTL = 24 * time.Hour

type LoginResult struct {
	Token  string         `json:"token"`
	Player *models.Player `json:"player"`
}

// AuthService is the thin operator-login surface: nickname + PIN in, signed
// token out. Session management beyond that lives outside this service.
type AuthService interface {
	Login(ctx context.Context, credentials models.Credentials) (*LoginResult, error)
}

type authService struct {
	playerRepo repositories.PlayerRepository
	jwtSecret  []byte
}

func NewAuthService(playerRepo repositories.PlayerRepository, jwtSecret string) AuthService {
	return &authService{playerRepo: playerRepo, jwtSecret: []byte(jwtSecret)}
}

func (s *authService) Login(ctx context.Context, credentials models.Credentials) (*LoginResult, error) {
	player, err := s.playerRepo.GetByNickname(ctx, credentials.Nickname)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !player.IsActive || player.PinHash == nil || !utils.CheckPin(credentials.Pin, *player.PinHash) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  player.ID,
		"role": string(player.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Player: player}, nil
}
