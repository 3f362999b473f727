package backend

import (
	"context"
	"fmt"
)

type authResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// ExchangeAuth hands the Google OAuth tokens to the backend and returns the
// session token to use for later calls. Backends that only acknowledge the
// tokens (no "token" in the reply) keep using the access token.
func (c *Client) ExchangeAuth(ctx context.Context, tokens OAuthTokens) (string, error) {
	if tokens.AccessToken == "" {
		return "", fmt.Errorf("exchange auth: access token is empty")
	}

	var result authResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(tokens).
		SetResult(&result).
		SetError(&errorBody{}).
		Post("/database/auth/")
	if err := check("exchange auth", resp, err); err != nil {
		return "", err
	}

	if result.Token != "" {
		return result.Token, nil
	}
	return tokens.AccessToken, nil
}
