package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// resourceService provides the request plumbing shared by the services
type resourceService struct {
	client  *Client
	baseURL string
}

func newResourceService(client *Client, path string) *resourceService {
	return &resourceService{
		client:  client,
		baseURL: client.baseURL + path,
	}
}

// call sends body as JSON, checks the status against expected and decodes
// the response into result when it is not nil.
func (s *resourceService) call(ctx context.Context, method, path string, params url.Values, body, result any, expected int) error {
	u := s.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		return decodeError(resp)
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	bodyBytes, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(bodyBytes, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(bytes.TrimSpace(bodyBytes))
	}

	return apiErr
}
