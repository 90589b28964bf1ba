package cli_test

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/nutriboard/internal/api"
	"github.com/rshade/nutriboard/internal/session"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestAuthOAuth(t *testing.T) {
	b := newBackend(t)
	b.reply("/api/auth/oauth/login", http.StatusOK, map[string]any{
		"provider": "github",
		"auth_url": "https://github.com/login/oauth/authorize?client_id=abc",
		"state":    "xyz",
	})
	setupCLI(t, b.srv.URL)

	out, _, err := execute(t, "auth", "oauth", "GitHub")
	require.NoError(t, err)
	assert.Contains(t, out, "sign in with GitHub")
	assert.Contains(t, out, "https://github.com/login/oauth/authorize?client_id=abc")
	assert.Contains(t, out, "State: xyz")
	assert.Equal(t, "github", b.received()[0].URL.Query().Get("provider"))

	_, _, err = execute(t, "auth", "oauth", "facebook")
	require.ErrorIs(t, err, api.ErrInvalidProvider)

	_, _, err = execute(t, "auth", "oauth")
	require.Error(t, err)
}

func TestAuth2FASetup(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	b := newBackend(t)
	b.handlers["/api/auth/2fa-setup"] = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"ada@example.com"}`, string(body))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"email":            "ada@example.com",
			"secret":           "JBSWY3DPEHPK3PXP",
			"qr_code":          "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
			"provisioning_uri": "otpauth://totp/Nutriboard:ada@example.com?secret=JBSWY3DPEHPK3PXP",
		})
	}
	setupCLI(t, b.srv.URL)

	qrPath := filepath.Join(t.TempDir(), "qr.png")
	out, _, err := execute(t, "auth", "2fa-setup", "--email", "ada@example.com", "--qr-file", qrPath)
	require.NoError(t, err)
	assert.Contains(t, out, "JBSWY3DPEHPK3PXP")
	assert.Contains(t, out, "otpauth://totp/")
	assert.Contains(t, out, qrPath)

	written, err := os.ReadFile(qrPath)
	require.NoError(t, err)
	assert.Equal(t, png, written)

	_, _, err = execute(t, "auth", "2fa-setup")
	require.Error(t, err, "--email is required")
}

func TestAuth2FAVerifyStatusLogout(t *testing.T) {
	issued := time.Now().Add(-time.Hour).Unix()
	token := signedToken(t, jwt.MapClaims{
		"email":     "ada@example.com",
		"verified":  true,
		"timestamp": issued,
	})

	b := newBackend(t)
	b.reply("/api/auth/2fa-verify", http.StatusOK, map[string]any{
		"message": "2FA verification successful",
		"token":   token,
	})
	home := setupCLI(t, b.srv.URL)

	out, _, err := execute(t, "auth", "2fa-verify", "--code", "123456")
	require.NoError(t, err)
	assert.Contains(t, out, "2FA verification successful")
	assert.Contains(t, out, "Session saved to")

	stored, err := session.NewStore(filepath.Join(home, "session.json")).Load()
	require.NoError(t, err)
	assert.Equal(t, token, stored.Token)

	out, _, err = execute(t, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "active")

	out, _, err = execute(t, "auth", "status", "-o", "json")
	require.NoError(t, err)
	var status struct {
		Active    bool      `json:"active"`
		Email     string    `json:"email"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Active)
	assert.Equal(t, "ada@example.com", status.Email)
	assert.WithinDuration(t, time.Unix(issued, 0).Add(session.DefaultMaxAge), status.ExpiresAt, time.Second)

	out, _, err = execute(t, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Session cleared.")

	out, _, err = execute(t, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not verified")
}

func TestAuthStatus_Expired(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"email": "ada@example.com",
		"exp":   time.Now().Add(-time.Minute).Unix(),
	})
	b := newBackend(t)
	b.reply("/api/auth/2fa-verify", http.StatusOK, map[string]any{"token": token})
	setupCLI(t, b.srv.URL)

	_, _, err := execute(t, "auth", "2fa-verify", "--code", "000000")
	require.NoError(t, err)

	out, _, err := execute(t, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "expired")
}

func TestAuth2FAVerify_Rejected(t *testing.T) {
	b := newBackend(t)
	b.reply("/api/auth/2fa-verify", http.StatusUnauthorized, map[string]any{"error": "Invalid 2FA code"})
	home := setupCLI(t, b.srv.URL)

	_, _, err := execute(t, "auth", "2fa-verify", "--code", "999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid 2FA code")

	_, statErr := os.Stat(filepath.Join(home, "session.json"))
	assert.True(t, os.IsNotExist(statErr), "a rejected code must not store a session")
}
