package client

import (
	"context"
	"net/http"
	"time"
)

type ServerInfo struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Namespace string    `json:"namespace,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type SystemService struct {
	*resourceService
}

func NewSystemService(client *Client) *SystemService {
	return &SystemService{
		resourceService: newResourceService(client, ""),
	}
}

func (s *SystemService) Info(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := s.call(ctx, http.MethodGet, "/", nil, nil, &info, http.StatusOK); err != nil {
		return nil, err
	}

	return &info, nil
}
