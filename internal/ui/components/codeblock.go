// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/jarvis-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock is a fenced code block from an assistant answer.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
	// Highlight enables chroma colors. Off for terminals without color.
	Highlight bool
}

// NewCodeBlock creates a new code block with highlighting enabled.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language:  language,
		Code:      code,
		MaxWidth:  80,
		Highlight: true,
	}
}

// Render renders the code block with a language badge and a border.
func (c CodeBlock) Render(theme *styles.Theme) string {
	code := strings.TrimRight(c.Code, "\n")
	if c.Highlight {
		code = highlightCode(code, c.Language)
	}

	var header string
	if c.Language != "" {
		header = theme.CodeLangBadge.Render(c.Language) + "\n"
	}

	maxWidth := c.MaxWidth - 2
	if maxWidth < 20 {
		maxWidth = 20
	}
	return theme.CodeBlock.MaxWidth(maxWidth).Render(header + code)
}

// RenderInlineCode renders `code` spans.
func RenderInlineCode(theme *styles.Theme, code string) string {
	return theme.InlineCode.Render(code)
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode returns code with terminal256 escapes, or code unchanged if
// chroma fails.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
