package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
)

// Client fetches bulletins from a hazard-status HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a hazard-status API client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Fetch calls GET {base}/status/{dataType}. Types the API does not serve
// (404) are reported as (nil, nil).
func (c *Client) Fetch(ctx context.Context, dataType domain.DataType) (*domain.ExternalDataRecord, error) {
	if !dataType.Supported() {
		return nil, nil
	}

	rec, err := c.doRequest(ctx, fmt.Sprintf("%s/status/%s", c.baseURL, url.PathEscape(string(dataType))), dataType)
	if errors.Is(err, domain.ErrUnknownDataType) {
		c.logger.Debug("data type not served", "data_type", dataType)
		return nil, nil
	}
	return rec, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string, dataType domain.DataType) (*domain.ExternalDataRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s status request: %w", dataType, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", dataType, domain.ErrUnknownDataType)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("hazard status API error: status %d: %s", resp.StatusCode, body)
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if status.Status == "" {
		return nil, fmt.Errorf("%s status response has no status", dataType)
	}

	return &domain.ExternalDataRecord{
		DataType:    dataType,
		Status:      status.Status,
		Message:     status.Message,
		LastUpdated: domain.Now(),
	}, nil
}

// Hazard-status API response type.

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
