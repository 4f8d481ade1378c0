// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner is an ASCII spinner with a label. Each Spinner owns its own tick
// stream, so several can run at once.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	isActive  bool
	showTimer bool
}

// Spinner labels used by the chat view.
const (
	TypingMessage   = "Jarvis is typing"
	ExamplesMessage = "Loading examples"
)

// NewSpinner creates a stopped spinner with the given label.
func NewSpinner(message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return Spinner{spinner: s, message: message}
}

// NewTypingIndicator creates the indicator shown while a chat request is in
// flight. It shows elapsed seconds.
func NewTypingIndicator() Spinner {
	s := NewSpinner(TypingMessage)
	s.spinner.Spinner = spinner.Spinner{
		Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
		FPS:    time.Second / 6,
	}
	s.showTimer = true
	return s
}

// Start activates the spinner and returns its first tick.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Tick returns the command that drives the animation of an active spinner.
func (s Spinner) Tick() tea.Cmd {
	return s.spinner.Tick
}

// Stop deactivates the spinner. Pending ticks are dropped by Update.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is currently running.
func (s *Spinner) IsActive() bool {
	return s.isActive
}

// Elapsed returns the time since Start.
func (s *Spinner) Elapsed() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

// Update advances the animation for this spinner's own ticks.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner, or "" when stopped.
func (s Spinner) View(theme *styles.Theme) string {
	if !s.isActive {
		return ""
	}

	out := theme.Spinner.Render(s.spinner.View()) + " " + theme.TypingText.Render(s.message)
	if s.showTimer {
		if secs := int(s.Elapsed().Seconds()); secs > 0 {
			out += theme.Timestamp.Render(fmt.Sprintf(" (%ds)", secs))
		}
	}
	return out
}
