// Package recommend orchestrates the full recommendation pipeline: prompt
// parsing, query correction, relaxation search, scoring, and the
// collaborative-filtering fallback.
package recommend

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

// BackendClient fetches user context and meeting details from the meeting
// backend. Both calls degrade to empty results on failure.
type BackendClient interface {
	UserContext(ctx context.Context, userID int64) models.UserContext
	MeetingsByIDs(ctx context.Context, ids []int64) []models.Meeting
}

type httpBackendClient struct {
	baseURL string
	http    *http.Client
}

// NewBackendClient builds the default HTTP backend client.
func NewBackendClient(baseURL string, timeout time.Duration) BackendClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpBackendClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

func (c *httpBackendClient) UserContext(ctx context.Context, userID int64) models.UserContext {
	out := models.UserContext{UserID: userID}

	url := fmt.Sprintf("%s/api/users/%d/context", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return out
	}

	resp, err := c.http.Do(req)
	if err != nil {
		utils.GetLogger().Warn("user context fetch failed",
			zap.Int64("user_id", userID), zap.Error(err))
		return out
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.GetLogger().Warn("user context fetch non-200",
			zap.Int64("user_id", userID), zap.Int("status", resp.StatusCode))
		return out
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		utils.GetLogger().Warn("user context decode failed", zap.Error(err))
		return models.UserContext{UserID: userID}
	}
	out.UserID = userID
	return out
}

type batchRequest struct {
	MeetingIDs []int64 `json:"meeting_ids"`
}

type batchResponse struct {
	Meetings []models.RawMeeting `json:"meetings"`
}

func (c *httpBackendClient) MeetingsByIDs(ctx context.Context, ids []int64) []models.Meeting {
	if len(ids) == 0 {
		return nil
	}
	body, err := json.Marshal(batchRequest{MeetingIDs: ids})
	if err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/meetings/batch", bytes.NewReader(body))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		utils.GetLogger().Warn("meeting batch fetch failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.GetLogger().Warn("meeting batch fetch non-200",
			zap.Int("status", resp.StatusCode))
		return nil
	}

	var out batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		utils.GetLogger().Warn("meeting batch decode failed", zap.Error(err))
		return nil
	}

	meetings := make([]models.Meeting, 0, len(out.Meetings))
	for _, raw := range out.Meetings {
		meetings = append(meetings, raw.Canonical())
	}
	return meetings
}
