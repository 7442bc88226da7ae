// Package search runs candidate searches against the meeting backend with
// confidence-driven constraint relaxation.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/utils"

	"go.uber.org/zap"
)

// Client calls the meeting backend's search endpoint. A failed or slow call
// degrades to an empty candidate list rather than failing the request.
type Client interface {
	Search(ctx context.Context, req models.SearchRequest) ([]models.Meeting, error)
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a search client for the given backend base URL.
func NewClient(baseURL string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	Meetings []models.RawMeeting `json:"meetings"`
}

func (c *httpClient) Search(ctx context.Context, req models.SearchRequest) ([]models.Meeting, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/meetings/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling meeting search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.GetLogger().Warn("meeting search returned non-200",
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("meeting search status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	meetings := make([]models.Meeting, 0, len(out.Meetings))
	for _, raw := range out.Meetings {
		meetings = append(meetings, raw.Canonical())
	}
	return meetings, nil
}
