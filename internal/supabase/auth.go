// Package supabase talks to the Supabase GoTrue auth API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"promptpilot/internal/models"
)

// AuthClient calls the Supabase auth endpoints with the project's anon key.
type AuthClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewAuthClient returns nil when url or anonKey is empty.
func NewAuthClient(url, anonKey string) *AuthClient {
	if url == "" || anonKey == "" {
		return nil
	}
	return &AuthClient{
		baseURL:    strings.TrimRight(url, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ResendSignupConfirmation posts {"type":"signup","email":...} to /auth/v1/resend.
func (c *AuthClient) ResendSignupConfirmation(ctx context.Context, email string) error {
	body, err := json.Marshal(map[string]string{"type": "signup", "email": email})
	if err != nil {
		return fmt.Errorf("marshal resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/resend", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: supabase resend: %w", models.ErrPersistence, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: supabase resend returned %d: %s", models.ErrPersistence, resp.StatusCode, readMessage(resp.Body))
	}
	return nil
}

// readMessage extracts the GoTrue error message, falling back to the raw body.
func readMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(raw, &e) == nil {
		for _, m := range []string{e.Msg, e.Message, e.ErrorDescription} {
			if m != "" {
				return m
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
