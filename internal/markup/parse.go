// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"regexp"
	"strings"
)

// Kind identifies a node type.
type Kind int

const (
	KindText Kind = iota
	KindBold
	KindCode
	KindCodeBlock
	KindLineBreak
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBold:
		return "bold"
	case KindCode:
		return "code"
	case KindCodeBlock:
		return "codeblock"
	case KindLineBreak:
		return "br"
	default:
		return "unknown"
	}
}

// Node is one piece of parsed markup. Text holds the literal content (the
// body for code blocks); Lang is set only on code blocks.
type Node struct {
	Kind Kind
	Text string
	Lang string
}

// Node constructors.

func Text(s string) Node { return Node{Kind: KindText, Text: s} }
func Bold(s string) Node { return Node{Kind: KindBold, Text: s} }
func Code(s string) Node { return Node{Kind: KindCode, Text: s} }
func CodeBlock(lang, body string) Node { return Node{Kind: KindCodeBlock, Lang: lang, Text: body} }
func LineBreak() Node { return Node{Kind: KindLineBreak} }

var (
	fenceRe = regexp.MustCompile("(?s)```([A-Za-z0-9_+#.-]*)\n(.*?)```")
	codeRe  = regexp.MustCompile("`([^`\n]+)`")
	boldRe  = regexp.MustCompile(`\*\*([^\n]+?)\*\*`)
)

// Parse tokenizes text. The result never contains two adjacent text nodes.
func Parse(text string) []Node {
	if text == "" {
		return nil
	}

	// Normalize CRLF so line breaks and fences behave the same everywhere.
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out builder
	rest := text
	for {
		loc := fenceRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			out.inline(rest)
			break
		}
		out.inline(rest[:loc[0]])
		lang := rest[loc[2]:loc[3]]
		body := strings.TrimSuffix(rest[loc[4]:loc[5]], "\n")
		out.add(CodeBlock(lang, body))
		rest = rest[loc[1]:]
	}
	return out.nodes
}

type builder struct {
	nodes []Node
}

func (b *builder) add(n Node) {
	if n.Kind == KindText {
		if n.Text == "" {
			return
		}
		if last := len(b.nodes) - 1; last >= 0 && b.nodes[last].Kind == KindText {
			b.nodes[last].Text += n.Text
			return
		}
	}
	b.nodes = append(b.nodes, n)
}

// inline handles a segment with no fenced blocks.
func (b *builder) inline(s string) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.add(LineBreak())
		}
		b.codeSpans(line)
	}
}

func (b *builder) codeSpans(line string) {
	for {
		loc := codeRe.FindStringSubmatchIndex(line)
		if loc == nil {
			b.boldSpans(line)
			return
		}
		b.boldSpans(line[:loc[0]])
		b.add(Code(line[loc[2]:loc[3]]))
		line = line[loc[1]:]
	}
}

func (b *builder) boldSpans(s string) {
	for {
		loc := boldRe.FindStringSubmatchIndex(s)
		if loc == nil {
			b.add(Text(s))
			return
		}
		b.add(Text(s[:loc[0]]))
		b.add(Bold(s[loc[2]:loc[3]]))
		s = s[loc[1]:]
	}
}

// PlainText flattens nodes back to unstyled text: delimiters are dropped,
// line breaks become newlines and code blocks keep their body.
func PlainText(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch n.Kind {
		case KindLineBreak:
			sb.WriteByte('\n')
		case KindCodeBlock:
			sb.WriteString(n.Text)
			sb.WriteByte('\n')
		default:
			sb.WriteString(n.Text)
		}
	}
	return sb.String()
}
