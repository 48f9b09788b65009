package services

import (
	"context"
	"fmt"

	"github.com/biwott-v/campus-connect-cli/internal/client/api"
	"github.com/biwott-v/campus-connect-cli/internal/client/models"
)

// DirectoryService lists the platform's users.
type DirectoryService interface {
	// Peers returns every user except selfID, the candidates for a direct
	// message conversation.
	Peers(ctx context.Context, selfID int64) ([]models.User, error)
}

type directoryService struct {
	client api.Client
}

func NewDirectoryService(client api.Client) DirectoryService {
	return &directoryService{client: client}
}

func (s *directoryService) Peers(ctx context.Context, selfID int64) ([]models.User, error) {
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	peers := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID != selfID {
			peers = append(peers, u)
		}
	}
	return peers, nil
}
