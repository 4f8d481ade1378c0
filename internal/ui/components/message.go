// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/muesli/termenv"

	"github.com/jeranaias/jarvis-tui/internal/markup"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// Renderer modes.
const (
	RenderLite    = "lite"
	RenderGlamour = "glamour"
)

// CitationIcon precedes the citation line of assistant entries.
const CitationIcon = "📄 "

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// MessageRenderer turns transcript entries into terminal text.
//
// Assistant content goes through markup.Parse in "lite" mode, or through
// glamour in "glamour" mode. User and error content is never interpreted.
type MessageRenderer struct {
	theme          *styles.Theme
	width          int
	mode           string
	ShowTimestamps bool

	glamour *glamour.TermRenderer
}

// NewMessageRenderer creates a renderer. Unknown modes fall back to lite.
func NewMessageRenderer(theme *styles.Theme, mode string, width int) *MessageRenderer {
	r := &MessageRenderer{
		theme:          theme,
		mode:           RenderLite,
		width:          width,
		ShowTimestamps: true,
	}
	r.SetMode(mode)
	return r
}

// Mode returns the active renderer mode.
func (r *MessageRenderer) Mode() string {
	return r.mode
}

// SetMode switches between lite and glamour rendering. If glamour cannot be
// initialized the renderer stays in lite mode.
func (r *MessageRenderer) SetMode(mode string) {
	if mode != RenderGlamour {
		r.mode = RenderLite
		r.glamour = nil
		return
	}
	r.mode = RenderGlamour
	r.rebuildGlamour()
}

// SetWidth sets the available width.
func (r *MessageRenderer) SetWidth(width int) {
	if width == r.width {
		return
	}
	r.width = width
	if r.mode == RenderGlamour {
		r.rebuildGlamour()
	}
}

// SetTheme swaps the theme.
func (r *MessageRenderer) SetTheme(theme *styles.Theme) {
	r.theme = theme
	if r.mode == RenderGlamour {
		r.rebuildGlamour()
	}
}

func (r *MessageRenderer) rebuildGlamour() {
	style := "dark"
	if r.theme != nil && !r.theme.IsDark {
		style = "light"
	}
	if r.theme != nil && r.theme.ColorProfile == termenv.Ascii {
		style = "notty"
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(r.innerWidth()),
	)
	if err != nil {
		r.mode = RenderLite
		r.glamour = nil
		return
	}
	r.glamour = tr
}

// bubbleWidth is the widest a bubble may be, borders included.
func (r *MessageRenderer) bubbleWidth() int {
	w := r.width - 6
	if w < 24 {
		w = 24
	}
	return w
}

// innerWidth is the text width inside a bubble.
func (r *MessageRenderer) innerWidth() int {
	return r.bubbleWidth() - 4
}

// RenderTranscript renders entries separated by blank lines.
func (r *MessageRenderer) RenderTranscript(entries []model.Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, r.RenderEntry(e))
	}
	return strings.Join(parts, "\n\n")
}

// RenderEntry renders a single entry with its label line.
func (r *MessageRenderer) RenderEntry(e model.Entry) string {
	switch e.Sender {
	case model.SenderUser:
		body := r.fit(e.Content)
		block := lipgloss.JoinVertical(lipgloss.Right,
			r.label(e, r.theme.UserLabel),
			r.theme.UserBubble.Render(body),
		)
		return lipgloss.PlaceHorizontal(r.width, lipgloss.Right, block)

	case model.SenderAssistant:
		return r.renderAssistant(e)

	default:
		return lipgloss.JoinVertical(lipgloss.Left,
			r.label(e, r.theme.ErrorLabel),
			r.theme.ErrorBubble.Render(r.fit(e.Content)),
		)
	}
}

func (r *MessageRenderer) renderAssistant(e model.Entry) string {
	var body string
	if r.mode == RenderGlamour && r.glamour != nil {
		if out, err := r.glamour.Render(e.Content); err == nil {
			body = strings.Trim(out, "\n")
		}
	}
	if body == "" {
		body = r.fit(r.RenderMarkup(e.Content))
	}

	if e.HasCitation() {
		body += "\n" + r.theme.Citation.Render(r.fit(CitationIcon+e.Citation()))
	}

	if r.mode == RenderGlamour && r.glamour != nil {
		return lipgloss.JoinVertical(lipgloss.Left, r.label(e, r.theme.AssistantLabel), body)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		r.label(e, r.theme.AssistantLabel),
		r.theme.AssistantBubble.Render(body),
	)
}

// RenderMarkup renders lightweight markdown with the theme's inline styles.
func (r *MessageRenderer) RenderMarkup(content string) string {
	var sb strings.Builder
	for _, n := range markup.Parse(content) {
		switch n.Kind {
		case markup.KindText:
			sb.WriteString(n.Text)
		case markup.KindBold:
			sb.WriteString(r.theme.Bold.Render(n.Text))
		case markup.KindCode:
			sb.WriteString(RenderInlineCode(r.theme, n.Text))
		case markup.KindLineBreak:
			sb.WriteByte('\n')
		case markup.KindCodeBlock:
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteByte('\n')
			}
			cb := NewCodeBlock(n.Lang, n.Text)
			cb.MaxWidth = r.innerWidth()
			cb.Highlight = r.theme.ColorProfile != termenv.Ascii
			sb.WriteString(cb.Render(r.theme))
		}
	}
	return sb.String()
}

func (r *MessageRenderer) label(e model.Entry, style lipgloss.Style) string {
	label := style.Render(e.Sender.DisplayName())
	if r.ShowTimestamps && !e.Timestamp.IsZero() {
		label += " " + r.theme.Timestamp.Render(e.Timestamp.Format("15:04"))
	}
	return label
}

// fit wraps text to the bubble's inner width. Words longer than the width
// are broken.
func (r *MessageRenderer) fit(s string) string {
	w := r.innerWidth()
	return wrap.String(wordwrap.String(s, w), w)
}
