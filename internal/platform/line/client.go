package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"line-assistant-backend/internal/features/bot/models"
)

const defaultBaseURL = "https://api.line.me"

// LINE buttons templates cap title/text length; longer content is truncated
// rather than rejected.
const (
	maxTemplateTitle = 40
	maxTemplateText  = 160
	maxAltText       = 400
)

// Client talks to the LINE Messaging API: reply, push and profile lookups.
// Reply tokens are single-use on the platform side, so callers must not
// retry a failed Reply with the same token.
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

// Profile is the subset of a LINE user profile this service consumes.
type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}

type apiError struct {
	Message string `json:"message"`
}

func NewClient(channelToken, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		token:   channelToken,
		baseURL: baseURL,
	}
}

// Reply sends a response correlated to an inbound event's reply token.
func (c *Client) Reply(ctx context.Context, replyToken string, resp models.Response) error {
	payload := map[string]interface{}{
		"replyToken": replyToken,
		"messages":   []interface{}{toMessage(resp)},
	}
	return c.post(ctx, "/v2/bot/message/reply", payload)
}

// Push sends a response outside the reply window, addressed by user ID.
func (c *Client) Push(ctx context.Context, to string, resp models.Response) error {
	payload := map[string]interface{}{
		"to":       to,
		"messages": []interface{}{toMessage(resp)},
	}
	return c.post(ctx, "/v2/bot/message/push", payload)
}

// GetProfile fetches the user's profile from the platform.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/bot/profile/"+userID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, c.statusError("get profile", res)
	}

	var p Profile
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return c.statusError(path, res)
	}
	return nil
}

func (c *Client) statusError(operation string, res *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	var apiErr apiError
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("%s: status %d: %s", operation, res.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("%s: status %d", operation, res.StatusCode)
}

// toMessage renders the abstract Response as a LINE message object: plain
// text, or a buttons template for menus.
func toMessage(resp models.Response) interface{} {
	if resp.Menu == nil {
		return map[string]interface{}{
			"type": "text",
			"text": resp.Text,
		}
	}

	m := resp.Menu
	actions := make([]interface{}, 0, len(m.Actions))
	for _, a := range m.Actions {
		switch a.Type {
		case models.ActionURI:
			actions = append(actions, map[string]interface{}{
				"type":  "uri",
				"label": a.Label,
				"uri":   a.URI,
			})
		default:
			actions = append(actions, map[string]interface{}{
				"type":  "message",
				"label": a.Label,
				"text":  a.Text,
			})
		}
	}

	return map[string]interface{}{
		"type":    "template",
		"altText": truncate(m.Title+": "+m.Text, maxAltText),
		"template": map[string]interface{}{
			"type":    "buttons",
			"title":   truncate(m.Title, maxTemplateTitle),
			"text":    truncate(m.Text, maxTemplateText),
			"actions": actions,
		},
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
