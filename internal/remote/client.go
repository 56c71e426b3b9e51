// Package remote talks to the field service REST API.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"brassworks.dev/fieldsmith/internal/field"
)

// ErrNotFound is returned by GetByID when the remote service has no field
// with the requested id.
var ErrNotFound = errors.New("remote field not found")

// Service is the read-only collaborator the generator pulls field metadata
// from. Calls are never retried; a failure is a terminal per-call outcome.
type Service interface {
	// GetByID fetches a single field by its stable identifier.
	GetByID(ctx context.Context, id string) (*field.Field, error)

	// SearchByName returns every field whose display name matches name.
	SearchByName(ctx context.Context, name string) ([]field.Field, error)

	// ListFields returns the full field catalog.
	ListFields(ctx context.Context) ([]field.Field, error)

	// GetOptions fetches the allowed values of an option-backed field.
	GetOptions(ctx context.Context, id string) ([]field.Option, error)
}

// Client implements Service over HTTP.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	log     *zap.Logger
}

// NewClient builds a Client for the API rooted at baseURL. token is sent as
// a bearer credential on every request.
func NewClient(baseURL, token string, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// fieldPayload is the wire shape of a field definition.
type fieldPayload struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
}

func (p fieldPayload) toField() field.Field {
	f := field.Field{ID: p.ID, Name: p.Name, Schema: p.Schema}
	if custom, ok := p.Schema["custom"].(string); ok {
		f.Type = custom
	} else if typ, ok := p.Schema["type"].(string); ok {
		f.Type = typ
	}
	return f
}

func (c *Client) GetByID(ctx context.Context, id string) (*field.Field, error) {
	var payload fieldPayload
	err := c.get(ctx, "/field/"+url.PathEscape(id), &payload)
	if err != nil {
		return nil, err
	}
	f := payload.toField()
	return &f, nil
}

func (c *Client) SearchByName(ctx context.Context, name string) ([]field.Field, error) {
	var page struct {
		Values []fieldPayload `json:"values"`
	}
	q := url.Values{"query": {name}}
	if err := c.get(ctx, "/field/search?"+q.Encode(), &page); err != nil {
		return nil, err
	}
	fields := make([]field.Field, 0, len(page.Values))
	for _, p := range page.Values {
		fields = append(fields, p.toField())
	}
	return fields, nil
}

func (c *Client) ListFields(ctx context.Context) ([]field.Field, error) {
	var payloads []fieldPayload
	if err := c.get(ctx, "/field", &payloads); err != nil {
		return nil, err
	}
	fields := make([]field.Field, 0, len(payloads))
	for _, p := range payloads {
		fields = append(fields, p.toField())
	}
	return fields, nil
}

func (c *Client) GetOptions(ctx context.Context, id string) ([]field.Option, error) {
	var page struct {
		Values []field.Option `json:"values"`
	}
	if err := c.get(ctx, "/field/"+url.PathEscape(id)+"/option", &page); err != nil {
		return nil, err
	}
	return page.Values, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug("remote request", zap.String("url", u))
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", u, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote returned %d for %s: %s", resp.StatusCode, u, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", u, err)
	}
	return nil
}
