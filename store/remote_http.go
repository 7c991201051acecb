package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"questengine/domain"
)

// RemoteClient implements RemoteStore against an HTTP document service.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure RemoteClient implements the RemoteStore interface.
var _ RemoteStore = (*RemoteClient)(nil)

// NewRemoteClient creates a new remote store client.
func NewRemoteClient(baseURL string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Load fetches all session records owned by ownerID.
func (c *RemoteClient) Load(ctx context.Context, ownerID string) ([]*domain.PersistenceRecord, error) {
	u := fmt.Sprintf("%s/v1/owners/%s/sessions", c.baseURL, url.PathEscape(ownerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create load request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load remote sessions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote store returned status %d", resp.StatusCode)
	}

	var records []*domain.PersistenceRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode remote sessions: %w", err)
	}
	return records, nil
}

// Save writes a record to the remote store.
func (c *RemoteClient) Save(ctx context.Context, record *domain.PersistenceRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}

	u := fmt.Sprintf("%s/v1/sessions/%s", c.baseURL, url.PathEscape(record.SessionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to save remote session: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("remote store returned status %d", resp.StatusCode)
	}
	return nil
}

// Delete removes a record from the remote store.
func (c *RemoteClient) Delete(ctx context.Context, sessionID string) error {
	u := fmt.Sprintf("%s/v1/sessions/%s", c.baseURL, url.PathEscape(sessionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete remote session: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remote store returned status %d", resp.StatusCode)
	}
	return nil
}
