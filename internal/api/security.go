package api

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const securityPath = "/api/security-status"

// Status values reported by the security endpoint.
const (
	StatusEnabled      = "Enabled"
	StatusDisabled     = "Disabled"
	StatusSecure       = "Secure"
	StatusCompromised  = "Compromised"
	StatusCompliant    = "Compliant"
	StatusNonCompliant = "Non-Compliant"
	StatusUnknown      = "Unknown"
)

// SecurityStatus is the backend's security and compliance summary.
type SecurityStatus struct {
	Encryption    string          `json:"encryption"`
	AccessControl string          `json:"access_control"`
	Compliance    string          `json:"compliance"`
	Timestamp     string          `json:"timestamp"`
	Details       SecurityDetails `json:"details"`

	// Error is set when the backend's own check failed.
	Error string `json:"error,omitempty"`
}

// SecurityDetails breaks down how the summary was derived.
type SecurityDetails struct {
	KeyVaultConfigured bool   `json:"keyvault_configured"`
	KeyVaultAccessible bool   `json:"keyvault_accessible"`
	StorageConfigured  bool   `json:"storage_configured"`
	SecurityCheck      string `json:"security_check"`
}

// Healthy reports whether every check passed.
func (s *SecurityStatus) Healthy() bool {
	return s.Encryption == StatusEnabled &&
		s.AccessControl == StatusSecure &&
		s.Compliance == StatusCompliant
}

// FetchSecurityStatus loads the security summary. A failed backend check is
// returned as a status carrying Error, not as an error.
func (c *Client) FetchSecurityStatus(ctx context.Context) (*SecurityStatus, error) {
	body, err := c.doLenient(ctx, request{
		method: http.MethodGet,
		path:   securityPath,
	}, hasField("compliance"))
	if err != nil {
		return nil, err
	}

	var status SecurityStatus
	if decodeErr := decode(body, &status); decodeErr != nil {
		return nil, decodeErr
	}
	return &status, nil
}

// timestampLayouts are the forms the backend emits, most specific first.
//
//nolint:gochecknoglobals // Read-only lookup table.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders a backend timestamp as "YYYY-MM-DD HH:MM:SS UTC".
// Unparseable input is cleaned up textually instead.
func FormatTimestamp(ts string) string {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC().Format("2006-01-02 15:04:05") + " UTC"
		}
	}

	cleaned := strings.Replace(ts, "T", " ", 1)
	if dot := strings.IndexByte(cleaned, '.'); dot >= 0 {
		cleaned = cleaned[:dot]
	}
	return cleaned + " UTC"
}

// hasField accepts an error payload that still carries field.
func hasField(field string) func([]byte) bool {
	return func(body []byte) bool {
		var fields map[string]any
		if decode(body, &fields) != nil {
			return false
		}
		_, ok := fields[field]
		return ok
	}
}
