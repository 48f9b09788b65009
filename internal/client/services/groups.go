package services

import (
	"context"
	"fmt"

	"github.com/biwott-v/campus-connect-cli/internal/client/api"
	"github.com/biwott-v/campus-connect-cli/internal/client/models"
)

// GroupService manages study groups.
type GroupService interface {
	List(ctx context.Context) ([]models.Group, error)
	Create(ctx context.Context, name, description, category string) (int64, error)
	Get(ctx context.Context, id int64) (*models.Group, error)
}

type groupService struct {
	client api.Client
}

func NewGroupService(client api.Client) GroupService {
	return &groupService{client: client}
}

func (s *groupService) List(ctx context.Context) ([]models.Group, error) {
	groups, err := s.client.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

func (s *groupService) Create(ctx context.Context, name, description, category string) (int64, error) {
	id, err := s.client.CreateGroup(ctx, name, description, category)
	if err != nil {
		return 0, fmt.Errorf("create group: %w", err)
	}
	return id, nil
}

func (s *groupService) Get(ctx context.Context, id int64) (*models.Group, error) {
	g, err := s.client.GetGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get group %d: %w", id, err)
	}
	return g, nil
}
