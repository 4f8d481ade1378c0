// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Node
	}{
		{"empty", "", nil},
		{"plain", "hello world", []Node{Text("hello world")}},
		{"bold", "a **b** c", []Node{Text("a "), Bold("b"), Text(" c")}},
		{"two bold", "**x** and **y**", []Node{Bold("x"), Text(" and "), Bold("y")}},
		{"inline code", "run `go test` now", []Node{Text("run "), Code("go test"), Text(" now")}},
		{"line breaks", "one\ntwo\n", []Node{Text("one"), LineBreak(), Text("two"), LineBreak()}},
		{"crlf", "one\r\ntwo", []Node{Text("one"), LineBreak(), Text("two")}},
		{
			"fenced with lang",
			"see:\n```go\nfmt.Println(1)\n```\ndone",
			[]Node{Text("see:"), LineBreak(), CodeBlock("go", "fmt.Println(1)"), LineBreak(), Text("done")},
		},
		{
			"fenced without lang",
			"```\na\nb\n```",
			[]Node{CodeBlock("", "a\nb")},
		},
		{
			"fence content is not re-parsed",
			"```md\n**not bold** `not code`\n```",
			[]Node{CodeBlock("md", "**not bold** `not code`")},
		},
		{
			"code content is not re-parsed",
			"`**x**`",
			[]Node{Code("**x**")},
		},
		{"unmatched bold", "a **b c", []Node{Text("a **b c")}},
		{"unmatched code", "it`s fine", []Node{Text("it`s fine")}},
		{"bold does not span lines", "**a\nb**", []Node{Text("**a"), LineBreak(), Text("b**")}},
		{"code does not span lines", "`a\nb`", []Node{Text("`a"), LineBreak(), Text("b`")}},
		{"unterminated fence", "```go\nx := 1", []Node{Text("```go"), LineBreak(), Text("x := 1")}},
		{"empty bold is literal", "****", []Node{Text("****")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**Hi** there", "<strong>Hi</strong> there"},
		{"use `x < y`", "use <code>x &lt; y</code>"},
		{"a\nb", "a<br>b"},
		{"```py\nprint('<b>')\n```", `<pre><code class="language-py">print(&#39;&lt;b&gt;&#39;)</code></pre>`},
		{"```\nraw\n```", "<pre><code>raw</code></pre>"},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTML(tt.in), "ToHTML(%q)", tt.in)
	}
}

func TestPlainText(t *testing.T) {
	nodes := Parse("**Note**: run `make`\n```sh\nmake all\n```")
	assert.Equal(t, "Note: run make\nmake all\n", PlainText(nodes))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "bold", KindBold.String())
	assert.Equal(t, "codeblock", KindCodeBlock.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
