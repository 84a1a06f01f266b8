package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lamesa/poker-league/models"
	"github.com/lamesa/poker-league/repositories"
	"github.com/lamesa/poker-league/storage"
	"github.com/lamesa/poker-league/utils"
)

type CreatePlayerInput struct {
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Nickname  string            `json:"nickname"`
	Role      models.PlayerRole `json:"role"`
}

type UpdatePlayerInput struct {
	FirstName *string            `json:"first_name,omitempty"`
	LastName  *string            `json:"last_name,omitempty"`
	Nickname  *string            `json:"nickname,omitempty"`
	Role      *models.PlayerRole `json:"role,omitempty"`
	IsActive  *bool              `json:"is_active,omitempty"`
}

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Player, error)
	Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	SetPin(ctx context.Context, id int, pin string) error
	UploadPhoto(ctx context.Context, id int, contentType string, photo io.Reader) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{playerRepo: playerRepo, uploader: uploader}
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		return nil, fmt.Errorf("%w: nickname is required", ErrValidationFailed)
	}
	role := input.Role
	if role == "" {
		role = models.RolePlayer
	}

	player := &models.Player{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Nickname:  nickname,
		Role:      role,
		IsActive:  true,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNicknameConflict) {
			return nil, ErrPlayerNicknameConflict
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	s.fillPhotoURL(player)
	return player, nil
}

func (s *playerService) List(ctx context.Context, activeOnly bool) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		s.fillPhotoURL(p)
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	player, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		player.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		player.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Nickname != nil {
		nickname := strings.TrimSpace(*input.Nickname)
		if nickname == "" {
			return nil, fmt.Errorf("%w: nickname is required", ErrValidationFailed)
		}
		player.Nickname = nickname
	}
	if input.Role != nil {
		player.Role = *input.Role
	}
	if input.IsActive != nil {
		player.IsActive = *input.IsActive
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNicknameConflict) {
			return nil, ErrPlayerNicknameConflict
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) SetPin(ctx context.Context, id int, pin string) error {
	if len(pin) < 4 {
		return ErrPinTooShort
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	hash, err := utils.HashPin(pin)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}
	return s.playerRepo.UpdatePinHash(ctx, id, hash)
}

func (s *playerService) UploadPhoto(ctx context.Context, id int, contentType string, photo io.Reader) (*models.Player, error) {
	player, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("players/%d/photo", id)
	result, err := s.uploader.Upload(ctx, key, contentType, photo)
	if err != nil {
		return nil, fmt.Errorf("failed to upload player photo: %w", err)
	}

	if err := s.playerRepo.UpdatePhotoKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}
	player.PhotoKey = &result.Key
	s.fillPhotoURL(player)
	return player, nil
}

func (s *playerService) fillPhotoURL(player *models.Player) {
	if player.PhotoKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*player.PhotoKey)
		player.PhotoURL = &url
	}
}
