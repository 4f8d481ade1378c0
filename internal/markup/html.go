// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"html"
	"strings"
)

// HTML renders nodes as an HTML fragment. All text is escaped, so markup in
// an answer can never inject elements.
func HTML(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			sb.WriteString(html.EscapeString(n.Text))
		case KindBold:
			sb.WriteString("<strong>")
			sb.WriteString(html.EscapeString(n.Text))
			sb.WriteString("</strong>")
		case KindCode:
			sb.WriteString("<code>")
			sb.WriteString(html.EscapeString(n.Text))
			sb.WriteString("</code>")
		case KindCodeBlock:
			sb.WriteString("<pre><code")
			if n.Lang != "" {
				sb.WriteString(` class="language-`)
				sb.WriteString(html.EscapeString(n.Lang))
				sb.WriteString(`"`)
			}
			sb.WriteString(">")
			sb.WriteString(html.EscapeString(n.Text))
			sb.WriteString("</code></pre>")
		case KindLineBreak:
			sb.WriteString("<br>")
		}
	}
	return sb.String()
}

// ToHTML is shorthand for HTML(Parse(text)).
func ToHTML(text string) string {
	return HTML(Parse(text))
}
