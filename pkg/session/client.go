package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go-job-board/pkg/apierror"
)

// Profile is the subset of the profile response the session store cares
// about.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ProfileClient fetches the authenticated profile; it is how the store
// learns the server's opinion of the held token.
type ProfileClient interface {
	FetchProfile(ctx context.Context, token string) (Profile, error)
}

type profileEnvelope struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    Profile `json:"data"`
}

// HTTPProfileClient calls GET /api/users/profile with a bearer header. No
// timeout is configured beyond the transport default, matching the original
// client.
type HTTPProfileClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProfileClient(baseURL string, client *http.Client) *HTTPProfileClient {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPProfileClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *HTTPProfileClient) FetchProfile(ctx context.Context, token string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/profile", nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	var envelope profileEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return Profile{}, fmt.Errorf("decode profile response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !envelope.Success {
		message := envelope.Message
		if message == "" {
			message = "Failed to fetch profile"
		}
		return Profile{}, apierror.New("PROFILE_FETCH", message, "", resp.StatusCode)
	}

	return envelope.Data, nil
}
