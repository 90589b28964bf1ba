package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	oauthLoginPath  = "/api/auth/oauth/login"
	twoFASetupPath  = "/api/auth/2fa-setup"
	twoFAVerifyPath = "/api/auth/2fa-verify"
)

// OAuth providers supported by the backend.
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// OAuthLogin is the authorization URL to open for a provider.
type OAuthLogin struct {
	Provider string `json:"provider"`
	AuthURL  string `json:"auth_url"`
	State    string `json:"state"`
}

// TwoFactorSetup is a freshly generated TOTP secret.
type TwoFactorSetup struct {
	Email           string `json:"email"`
	Secret          string `json:"secret"`
	QRCode          string `json:"qr_code"`
	ProvisioningURI string `json:"provisioning_uri"`
}

// TwoFactorVerification is a successful 2FA verification.
type TwoFactorVerification struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// OAuthLogin asks the backend for a provider's authorization URL.
func (c *Client) OAuthLogin(ctx context.Context, provider string) (*OAuthLogin, error) {
	p := strings.ToLower(strings.TrimSpace(provider))
	if p != ProviderGoogle && p != ProviderGitHub {
		return nil, fmt.Errorf("%w: %q (valid: %s, %s)", ErrInvalidProvider, provider, ProviderGoogle, ProviderGitHub)
	}

	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   oauthLoginPath,
		query:  url.Values{"provider": {p}},
	})
	if err != nil {
		return nil, err
	}

	var login OAuthLogin
	if decodeErr := decode(body, &login); decodeErr != nil {
		return nil, decodeErr
	}
	if login.AuthURL == "" {
		return nil, fmt.Errorf("%w: response has no auth_url", ErrDecode)
	}
	return &login, nil
}

// TwoFactorSetup starts 2FA enrollment for email.
func (c *Client) TwoFactorSetup(ctx context.Context, email string) (*TwoFactorSetup, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   twoFASetupPath,
		body:   map[string]string{"email": strings.TrimSpace(email)},
	})
	if err != nil {
		return nil, err
	}

	var setup TwoFactorSetup
	if decodeErr := decode(body, &setup); decodeErr != nil {
		return nil, decodeErr
	}
	return &setup, nil
}

// TwoFactorVerify submits a TOTP code and returns the issued session token.
func (c *Client) TwoFactorVerify(ctx context.Context, code string) (*TwoFactorVerification, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   twoFAVerifyPath,
		body:   map[string]string{"code": code},
	})
	if err != nil {
		return nil, err
	}

	var verification TwoFactorVerification
	if decodeErr := decode(body, &verification); decodeErr != nil {
		return nil, decodeErr
	}
	if verification.Token == "" {
		return nil, fmt.Errorf("%w: response has no token", ErrDecode)
	}
	return &verification, nil
}
