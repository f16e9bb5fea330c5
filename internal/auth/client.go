// Package auth consumes the external identity provider (a Cognito-style user
// pool) and keeps the sid-cookie session registry. The rest of the app only
// ever sees a Session: bearer token plus group claims.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrBadCreds = errors.New("invalid email or password")

// Client speaks the user pool's JSON API. All operations pass the app client
// id; the pool itself holds the passwords, confirmation codes and tokens.
type Client struct {
	endpoint string
	clientID string
	http     *http.Client
}

func NewClient(endpoint, clientID string) *Client {
	return &Client{endpoint: endpoint, clientID: clientID, http: &http.Client{Timeout: 15 * time.Second}}
}

// Tokens is the provider's authentication result.
type Tokens struct {
	IDToken      string `json:"IdToken"`
	AccessToken  string `json:"AccessToken"`
	RefreshToken string `json:"RefreshToken"`
	ExpiresIn    int    `json:"ExpiresIn"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (Tokens, error) {
	payload := map[string]any{
		"AuthFlow": "USER_PASSWORD_AUTH",
		"ClientId": c.clientID,
		"AuthParameters": map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	}
	var out struct {
		AuthenticationResult Tokens `json:"AuthenticationResult"`
	}
	if err := c.call(ctx, "AWSCognitoIdentityProviderService.InitiateAuth", payload, &out); err != nil {
		var pe *providerError
		if errors.As(err, &pe) && pe.Denied() {
			return Tokens{}, ErrBadCreds
		}
		return Tokens{}, err
	}
	if out.AuthenticationResult.IDToken == "" {
		return Tokens{}, ErrBadCreds
	}
	return out.AuthenticationResult, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) error {
	payload := map[string]any{
		"ClientId": c.clientID,
		"Username": email,
		"Password": password,
		"UserAttributes": []map[string]string{
			{"Name": "email", "Value": email},
		},
	}
	return c.call(ctx, "AWSCognitoIdentityProviderService.SignUp", payload, nil)
}

func (c *Client) ConfirmSignUp(ctx context.Context, email, code string) error {
	payload := map[string]any{
		"ClientId":         c.clientID,
		"Username":         email,
		"ConfirmationCode": code,
	}
	return c.call(ctx, "AWSCognitoIdentityProviderService.ConfirmSignUp", payload, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	payload := map[string]any{
		"ClientId": c.clientID,
		"Username": email,
	}
	return c.call(ctx, "AWSCognitoIdentityProviderService.ForgotPassword", payload, nil)
}

type providerError struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

func (e *providerError) Error() string {
	return fmt.Sprintf("identity provider: %s: %s", e.Type, e.Message)
}

// Denied covers the provider responses that mean "wrong credentials" rather
// than an operational failure.
func (e *providerError) Denied() bool {
	switch e.Type {
	case "NotAuthorizedException", "UserNotFoundException", "UserNotConfirmedException":
		return true
	}
	return false
}

func (c *Client) call(ctx context.Context, target string, payload any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-amz-json-1.1")
	req.Header.Set("X-Amz-Target", target)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		pe := &providerError{}
		if json.Unmarshal(body, pe) == nil && pe.Type != "" {
			return pe
		}
		return fmt.Errorf("identity provider: status %d", resp.StatusCode)
	}
	if out != nil {
		return json.Unmarshal(body, out)
	}
	return nil
}
