// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markup converts the lightweight markdown used in assistant answers
// into a small node tree.
//
// Only four constructs are recognized:
//
//	**bold**
//	`inline code`
//	```lang
//	fenced code
//	```
//	newline -> line break
//
// Fenced blocks are found first, then inline code, then bold, so text inside
// code is never re-interpreted. Bold and inline code do not span lines.
// Delimiters without a partner are kept as literal text.
//
// The node tree is rendered to HTML by HTML and to the terminal by the
// ui/components package.
package markup
