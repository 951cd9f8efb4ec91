package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/orchestra-io/orchestra/internal/workshop"
)

// WorkshopList is one page of workshops.
type WorkshopList struct {
	Items []workshop.Workshop `json:"items"`
	Total int                 `json:"total"`
	Page  int                 `json:"page"`
	Size  int                 `json:"size"`
}

type WorkshopStatus struct {
	Name   string          `json:"name"`
	Status workshop.Status `json:"status"`
}

// ListOptions selects a page. Zero values use the server defaults.
type ListOptions struct {
	Page int
	Size int
}

// WorkshopsService handles communication with the workshop endpoints
type WorkshopsService struct {
	*resourceService
}

func NewWorkshopsService(client *Client) *WorkshopsService {
	return &WorkshopsService{
		resourceService: newResourceService(client, "/api/v1/workshops"),
	}
}

func (s *WorkshopsService) Create(ctx context.Context, req *workshop.Request) (*workshop.Workshop, error) {
	var w workshop.Workshop
	if err := s.call(ctx, http.MethodPost, "", s.params(), req, &w, http.StatusCreated); err != nil {
		return nil, err
	}

	return &w, nil
}

func (s *WorkshopsService) List(ctx context.Context, opts ListOptions) (*WorkshopList, error) {
	params := s.params()
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}

	if opts.Size > 0 {
		params.Set("size", strconv.Itoa(opts.Size))
	}

	var list WorkshopList
	if err := s.call(ctx, http.MethodGet, "", params, nil, &list, http.StatusOK); err != nil {
		return nil, err
	}

	return &list, nil
}

// ListAll walks every page in creation order.
func (s *WorkshopsService) ListAll(ctx context.Context) ([]workshop.Workshop, error) {
	var items []workshop.Workshop

	for page := 1; ; page++ {
		list, err := s.List(ctx, ListOptions{Page: page, Size: 100})
		if err != nil {
			return nil, err
		}

		items = append(items, list.Items...)

		if len(list.Items) == 0 || len(items) >= list.Total {
			return items, nil
		}
	}
}

func (s *WorkshopsService) Get(ctx context.Context, name string) (*workshop.Workshop, error) {
	var w workshop.Workshop
	if err := s.call(ctx, http.MethodGet, "/"+url.PathEscape(name), s.params(), nil, &w, http.StatusOK); err != nil {
		return nil, err
	}

	return &w, nil
}

// Delete removes a workshop. Deleting one that is already gone succeeds.
func (s *WorkshopsService) Delete(ctx context.Context, name string) error {
	return s.call(ctx, http.MethodDelete, "/"+url.PathEscape(name), s.params(), nil, nil, http.StatusNoContent)
}

func (s *WorkshopsService) Status(ctx context.Context, name string) (*WorkshopStatus, error) {
	var st WorkshopStatus
	if err := s.call(ctx, http.MethodGet, "/"+url.PathEscape(name)+"/status", s.params(), nil, &st, http.StatusOK); err != nil {
		return nil, err
	}

	return &st, nil
}

func (s *WorkshopsService) params() url.Values {
	params := url.Values{}
	if s.client.namespace != "" {
		params.Set("namespace", s.client.namespace)
	}

	return params
}
