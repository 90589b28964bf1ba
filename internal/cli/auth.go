package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriboard/internal/session"
	"github.com/rshade/nutriboard/internal/tui"
)

// timeLayout is how session times are printed.
const timeLayout = "2006-01-02 15:04:05 MST"

// errNoQRCode is returned by --qr-file when the backend sent no image.
var errNoQRCode = errors.New("backend returned no QR code")

// sessionStatus is the JSON form of auth status.
type sessionStatus struct {
	Active     bool      `json:"active"`
	Email      string    `json:"email,omitempty"`
	VerifiedAt time.Time `json:"verified_at,omitzero"`
	ExpiresAt  time.Time `json:"expires_at,omitzero"`
	Expired    bool      `json:"expired"`
	Path       string    `json:"path"`
}

// newAuthCmd creates the auth command group.
func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in with OAuth and manage the 2FA session",
	}

	cmd.AddCommand(
		newAuthOAuthCmd(a),
		newAuth2FASetupCmd(a),
		newAuth2FAVerifyCmd(a),
		newAuthStatusCmd(a),
		newAuthLogoutCmd(a),
	)

	return cmd
}

func newAuthOAuthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "oauth <google|github>",
		Short:     "Print the OAuth sign-in URL for a provider",
		Example:   `  nutriboard auth oauth github`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"google", "github"},
		RunE: func(cmd *cobra.Command, args []string) error {
			login, err := a.client.OAuthLogin(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if a.structured() {
				return writeJSON(cmd.OutOrStdout(), login)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Open this URL to sign in with %s:\n\n  %s\n\n",
				titleProvider(login.Provider), login.AuthURL)
			if login.State != "" {
				_, _ = fmt.Fprintf(out, "State: %s\n", login.State)
			}
			return nil
		},
	}
}

func titleProvider(p string) string {
	if p == "github" {
		return "GitHub"
	}
	if p == "" {
		return p
	}
	return strings.ToUpper(p[:1]) + p[1:]
}

func newAuth2FASetupCmd(a *app) *cobra.Command {
	var (
		email  string
		qrFile string
	)

	cmd := &cobra.Command{
		Use:   "2fa-setup",
		Short: "Generate a TOTP secret for two-factor authentication",
		Long: `Asks the backend for a new TOTP secret. Add it to an authenticator app by
entering the secret, opening the provisioning URI, or scanning the QR code
saved with --qr-file.`,
		Example: `  nutriboard auth 2fa-setup --email ada@example.com --qr-file qr.png`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setup, err := a.client.TwoFactorSetup(cmd.Context(), email)
			if err != nil {
				return err
			}

			if qrFile != "" {
				if writeErr := writeQRCode(qrFile, setup.QRCode); writeErr != nil {
					return writeErr
				}
			}

			if a.structured() {
				return writeJSON(cmd.OutOrStdout(), setup)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Two-factor setup for %s\n\n", setup.Email)
			_, _ = fmt.Fprintf(out, "  Secret:           %s\n", setup.Secret)
			_, _ = fmt.Fprintf(out, "  Provisioning URI: %s\n", setup.ProvisioningURI)
			if qrFile != "" {
				_, _ = fmt.Fprintf(out, "  QR code:          %s\n", qrFile)
			}
			_, _ = fmt.Fprintln(out, "\nThen run 'nutriboard auth 2fa-verify --code <code>'.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&qrFile, "qr-file", "", "write the QR code PNG to this file")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// writeQRCode decodes a base64 PNG, with or without a data URI prefix, to path.
func writeQRCode(path, qr string) error {
	if qr == "" {
		return errNoQRCode
	}
	if _, payload, found := strings.Cut(qr, ","); found && strings.HasPrefix(qr, "data:") {
		qr = payload
	}

	data, err := base64.StdEncoding.DecodeString(qr)
	if err != nil {
		return fmt.Errorf("decoding QR code: %w", err)
	}
	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing QR code: %w", writeErr)
	}
	return nil
}

func newAuth2FAVerifyCmd(a *app) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:     "2fa-verify",
		Short:   "Verify a TOTP code and store the session token",
		Example: `  nutriboard auth 2fa-verify --code 123456`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verification, err := a.client.TwoFactorVerify(cmd.Context(), code)
			if err != nil {
				return err
			}

			sess, err := a.sessions.Save(verification.Token)
			if err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			a.logger.Info().Ctx(cmd.Context()).Str("path", a.sessions.Path()).Msg("2FA session saved")

			if a.structured() {
				return writeJSON(cmd.OutOrStdout(), a.describeSession(sess))
			}
			out := cmd.OutOrStdout()
			msg := verification.Message
			if msg == "" {
				msg = "2FA verification successful"
			}
			_, _ = fmt.Fprintln(out, tui.OKStyle.Render(msg))
			_, _ = fmt.Fprintf(out, "Session saved to %s (expires %s)\n",
				a.sessions.Path(), sess.ExpiresAt(session.DefaultMaxAge).Local().Format(timeLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "6-digit code from the authenticator app (required)")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func (a *app) describeSession(sess *session.Session) sessionStatus {
	status := sessionStatus{
		VerifiedAt: sess.VerifiedAt,
		ExpiresAt:  sess.ExpiresAt(session.DefaultMaxAge),
		Path:       a.sessions.Path(),
	}
	if claims, err := sess.Claims(); err == nil {
		status.Email = claims.Email
	}
	status.Expired = sess.Expired(time.Now(), session.DefaultMaxAge)
	status.Active = !status.Expired
	return status
}

func newAuthStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored 2FA session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			sess, err := a.sessions.Load()
			if errors.Is(err, session.ErrNoSession) {
				if a.structured() {
					return writeJSON(out, sessionStatus{Path: a.sessions.Path()})
				}
				_, _ = fmt.Fprintln(out, "Not verified. Run 'nutriboard auth 2fa-verify --code <code>'.")
				return nil
			}
			if err != nil {
				return err
			}

			status := a.describeSession(sess)
			if a.structured() {
				return writeJSON(out, status)
			}

			state := tui.OKStyle.Render("active")
			if status.Expired {
				state = tui.CriticalStyle.Render("expired")
			}
			if status.Email != "" {
				_, _ = fmt.Fprintf(out, "Account:  %s\n", status.Email)
			}
			_, _ = fmt.Fprintf(out, "Session:  %s\n", state)
			_, _ = fmt.Fprintf(out, "Verified: %s\n", status.VerifiedAt.Local().Format(timeLayout))
			_, _ = fmt.Fprintf(out, "Expires:  %s\n", status.ExpiresAt.Local().Format(timeLayout))
			return nil
		},
	}
}

func newAuthLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored 2FA session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.sessions.Clear(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	}
}
