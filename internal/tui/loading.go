package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultLoadingMessage = "Loading..."

// LoadingState is a spinner plus the message shown next to it.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a loading indicator with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSpinner)
	return &LoadingState{spinner: s, message: defaultLoadingMessage}
}

// Init starts the spinner animation.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// SetMessage replaces the text shown next to the spinner.
func (l *LoadingState) SetMessage(msg string) {
	l.message = msg
}

// Message returns the text shown next to the spinner.
func (l *LoadingState) Message() string {
	return l.message
}

// Update advances the spinner on its own tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(tick)
	return cmd
}

// RenderLoading renders the spinner line.
func RenderLoading(loading *LoadingState) string {
	if loading == nil {
		return InfoStyle.Render(defaultLoadingMessage)
	}
	return loading.spinner.View() + " " + InfoStyle.Render(loading.message)
}
