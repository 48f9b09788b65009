// Package services contains thin application services the CLI drives:
// resource library management, study groups, and the user directory. Each
// service wraps the API client; the session, conversation and uploader
// packages own their richer flows themselves.
package services

import (
	"context"
	"fmt"

	"github.com/biwott-v/campus-connect-cli/internal/client/api"
	"github.com/biwott-v/campus-connect-cli/internal/client/models"
	"github.com/biwott-v/campus-connect-cli/internal/filex"
)

// ResourceService manages the shared study-file library.
type ResourceService interface {
	List(ctx context.Context) ([]models.Resource, error)
	Update(ctx context.Context, id int64, patch api.ResourcePatch) error
	Delete(ctx context.Context, id int64) error

	// Download fetches a resource's file into a local downloads directory
	// and returns the path it was written to.
	Download(ctx context.Context, id int64) (string, error)
}

type resourceService struct {
	client api.Client
}

func NewResourceService(client api.Client) ResourceService {
	return &resourceService{client: client}
}

func (s *resourceService) List(ctx context.Context) ([]models.Resource, error) {
	resources, err := s.client.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

func (s *resourceService) Update(ctx context.Context, id int64, patch api.ResourcePatch) error {
	if err := s.client.UpdateResource(ctx, id, patch); err != nil {
		return fmt.Errorf("update resource %d: %w", id, err)
	}
	return nil
}

func (s *resourceService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteResource(ctx, id); err != nil {
		return fmt.Errorf("delete resource %d: %w", id, err)
	}
	return nil
}

func (s *resourceService) Download(ctx context.Context, id int64) (string, error) {
	resources, err := s.client.ListResources(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve resource %d: %w", id, err)
	}

	var fileName string
	for _, r := range resources {
		if r.ID == id {
			fileName = r.FileName
			break
		}
	}
	if fileName == "" {
		return "", fmt.Errorf("resource %d: %w", id, api.ErrNotFound)
	}

	dir, err := filex.EnsureSubDir("downloads")
	if err != nil {
		return "", err
	}
	path, err := s.client.DownloadResource(ctx, fileName, dir)
	if err != nil {
		return "", fmt.Errorf("download resource %d: %w", id, err)
	}
	return path, nil
}
