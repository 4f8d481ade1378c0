// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/jeranaias/jarvis-tui/internal/markup"
	"github.com/jeranaias/jarvis-tui/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to a standalone HTML page with embedded
// CSS. Assistant content goes through markup.HTML; all other text is escaped.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a document to HTML.
func (e *HTMLExporter) Export(doc *Document) ([]byte, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}

	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", html.EscapeString(doc.Title))
	sb.WriteString("    <meta name=\"generator\" content=\"jarvis\">\n")
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", theme)
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(doc))
	}

	sb.WriteString("        <main class=\"chat-messages\">\n")
	for _, entry := range doc.Entries {
		sb.WriteString(e.renderEntry(entry))
	}
	sb.WriteString("        </main>\n")

	fmt.Fprintf(&sb, "        <footer class=\"footer\">Exported from <strong>jarvis</strong> on %s</footer>\n",
		doc.ExportedAt.Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("    </div>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderHeader(doc *Document) string {
	var sb strings.Builder
	sb.WriteString("        <header class=\"header\">\n")
	fmt.Fprintf(&sb, "            <h1>%s</h1>\n", html.EscapeString(doc.Title))
	sb.WriteString("            <div class=\"metadata\">\n")
	meta := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&sb, "                <span class=\"meta-item\"><strong>%s:</strong> %s</span>\n",
			label, html.EscapeString(value))
	}
	meta("Server", doc.Server)
	meta("Index", doc.Index)
	meta("Model", doc.Model)
	meta("Started", formatTimestamp(doc.StartedAt))
	meta("Messages", fmt.Sprint(len(doc.Entries)))
	sb.WriteString("            </div>\n        </header>\n")
	return sb.String()
}

// renderEntry mirrors the chat widget markup: a message div classed by
// sender with a message-content child.
func (e *HTMLExporter) renderEntry(entry model.Entry) string {
	var body string
	if entry.Sender == model.SenderAssistant {
		body = markup.ToHTML(entry.Content)
	} else {
		body = strings.ReplaceAll(html.EscapeString(entry.Content), "\n", "<br>")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "            <div class=\"message %s\">\n", entry.Sender)
	fmt.Fprintf(&sb, "                <div class=\"message-sender\">%s", entry.Sender.DisplayName())
	if e.options.IncludeTimestamps && !entry.Timestamp.IsZero() {
		fmt.Fprintf(&sb, " <span class=\"timestamp\">%s</span>", formatShortTimestamp(entry.Timestamp))
	}
	sb.WriteString("</div>\n")
	fmt.Fprintf(&sb, "                <div class=\"message-content\">%s", body)
	if entry.HasCitation() {
		fmt.Fprintf(&sb, "<div class=\"sources\">&#128196; %s</div>", html.EscapeString(entry.Citation()))
	}
	sb.WriteString("</div>\n            </div>\n")
	return sb.String()
}

const css = `    <style>
        :root { --radius: 10px; }
        .dark-theme  { --bg: #1a1b26; --fg: #c0caf5; --muted: #565f89; --user: #2a3a5e; --bot: #24283b; --err: #5c2a2a; --code: #16161e; --accent: #7aa2f7; }
        .light-theme { --bg: #f5f5f7; --fg: #1f2328; --muted: #6e7781; --user: #dbeafe; --bot: #ffffff; --err: #fde2e2; --code: #f0f0f3; --accent: #2563eb; }
        body { margin: 0; background: var(--bg); color: var(--fg); font-family: -apple-system, "Segoe UI", Roboto, sans-serif; line-height: 1.5; }
        .container { max-width: 860px; margin: 0 auto; padding: 24px; }
        .header h1 { margin: 0 0 8px; font-size: 1.4em; }
        .metadata { display: flex; flex-wrap: wrap; gap: 16px; color: var(--muted); font-size: 0.9em; margin-bottom: 24px; }
        .message { border-radius: var(--radius); padding: 12px 16px; margin-bottom: 12px; }
        .message.user { background: var(--user); margin-left: 15%; }
        .message.assistant { background: var(--bot); margin-right: 15%; }
        .message.system-error { background: var(--err); }
        .message-sender { font-weight: 600; font-size: 0.85em; color: var(--accent); margin-bottom: 4px; }
        .timestamp { color: var(--muted); font-weight: normal; margin-left: 8px; }
        code { background: var(--code); padding: 1px 5px; border-radius: 4px; font-family: "JetBrains Mono", Consolas, monospace; }
        pre { background: var(--code); padding: 12px; border-radius: 6px; overflow-x: auto; }
        pre code { padding: 0; }
        .sources { margin-top: 8px; color: var(--muted); font-size: 0.85em; }
        .footer { margin-top: 32px; color: var(--muted); font-size: 0.8em; text-align: center; }
    </style>
`
