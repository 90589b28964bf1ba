package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/nutriboard/internal/api"
)

const (
	checkMark = "✓"
	crossMark = "✗"
)

// statusStyle colors a security status value.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case api.StatusEnabled, api.StatusSecure, api.StatusCompliant:
		return OKStyle
	case api.StatusDisabled, api.StatusCompromised, api.StatusNonCompliant:
		return CriticalStyle
	default:
		return WarningStyle
	}
}

// RenderSecurityStatus renders the security summary with color-coded statuses.
func RenderSecurityStatus(s *api.SecurityStatus, width int) string {
	var content strings.Builder
	content.WriteString(HeaderStyle.Render("SECURITY STATUS"))
	content.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Encryption:     ", s.Encryption},
		{"Access Control: ", s.AccessControl},
		{"Compliance:     ", s.Compliance},
	}
	for _, r := range rows {
		value := r.value
		if value == "" {
			value = api.StatusUnknown
		}
		content.WriteString(LabelStyle.Render(r.label))
		content.WriteString(statusStyle(value).Render(value))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(renderCheck("Key Vault configured", s.Details.KeyVaultConfigured))
	content.WriteString(renderCheck("Key Vault accessible", s.Details.KeyVaultAccessible))
	content.WriteString(renderCheck("Storage configured", s.Details.StorageConfigured))
	if s.Details.SecurityCheck != "" {
		content.WriteString(LabelStyle.Render("Check: "))
		content.WriteString(SubtleStyle.Render(s.Details.SecurityCheck))
		content.WriteString("\n")
	}

	if s.Error != "" {
		content.WriteString("\n")
		content.WriteString(CriticalStyle.Render("Check failed: " + s.Error))
		content.WriteString("\n")
	}

	if s.Timestamp != "" {
		content.WriteString("\n")
		content.WriteString(SubtleStyle.Render("Last checked: " + api.FormatTimestamp(s.Timestamp)))
	}

	return BoxStyle.Width(boxWidth(width)).Render(strings.TrimRight(content.String(), "\n"))
}

func renderCheck(label string, ok bool) string {
	if ok {
		return OKStyle.Render(checkMark) + " " + LabelStyle.Render(label) + "\n"
	}
	return CriticalStyle.Render(crossMark) + " " + LabelStyle.Render(label) + "\n"
}
