package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"temple-portal/internal/auth"
	"temple-portal/internal/config"
	"temple-portal/internal/logger"
)

// Client talks to the identity provider's admin API. The portal keeps its own
// users table, but the sign-in email lives with the provider, so changing it
// is a separate call from the profile table update.
type Client struct {
	cfg    config.AuthConfig
	client *http.Client
	tokens *auth.RedisTokenCache
	logger *logger.Logger
}

func NewClient(cfg config.AuthConfig, client *http.Client, tokens *auth.RedisTokenCache, logger *logger.Logger) *Client {
	return &Client{cfg: cfg, client: client, tokens: tokens, logger: logger}
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens != nil {
		cached, err := c.tokens.GetToken(ctx)
		if err != nil {
			c.logger.Warn("AUTH", fmt.Sprintf("Token cache lookup failed: %v", err))
		}
		if cached != nil {
			return cached.Token, nil
		}
	}

	resp, err := auth.GetM2MToken(c.cfg, c.client)
	if err != nil {
		return "", err
	}

	if serviceAccount, err := auth.ExtractUserIDFromJWT(resp.AccessToken); err == nil {
		c.logger.Info("AUTH", fmt.Sprintf("M2M token issued for service account %s", serviceAccount))
	}

	if c.tokens != nil {
		if err := c.tokens.SetToken(ctx, resp.AccessToken, resp.ExpiresIn); err != nil {
			c.logger.Warn("AUTH", fmt.Sprintf("Failed to cache M2M token: %v", err))
		}
	}

	return resp.AccessToken, nil
}

// RequestEmailChange updates the actor's sign-in email on the identity
// provider. Failure here fails the whole profile submit.
func (c *Client) RequestEmailChange(ctx context.Context, userID, newEmail string) error {
	token, err := c.token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get admin token: %w", err)
	}

	updateURL := fmt.Sprintf("%s/admin/realms/%s/users/%s", c.cfg.AdminBaseURL, c.cfg.Realm, userID)

	body, err := json.Marshal(map[string]string{"email": newEmail})
	if err != nil {
		return fmt.Errorf("failed to marshal email change: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", updateURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build email change request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email change failed, status %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Info("AUTH", fmt.Sprintf("Email change requested for user %s", userID))
	return nil
}
