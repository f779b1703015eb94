package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/config"
	"github.com/s21platform/messenger-service/internal/model"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.UserService.BaseURL,
		apiKey:  cfg.UserService.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.UserService.Timeout,
		},
	}
}

func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "apikey "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // .

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetUserInfoByUUID fetches the directory record for a single user.
func (c *Client) GetUserInfoByUUID(ctx context.Context, userID uuid.UUID) (*model.UserParams, error) {
	var response model.UserParams
	if err := c.get(ctx, fmt.Sprintf("/api/users/%s", userID), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetDepartmentLead resolves the lead of a department, uuid.Nil when the
// department has no lead assigned.
func (c *Client) GetDepartmentLead(ctx context.Context, departmentID uuid.UUID) (uuid.UUID, error) {
	var response struct {
		LeadID uuid.UUID `json:"lead_id"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/departments/%s/lead", departmentID), &response); err != nil {
		return uuid.Nil, err
	}
	return response.LeadID, nil
}
