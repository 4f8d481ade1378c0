// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/atotto/clipboard"
)

// =============================================================================
// INPUT UTILITIES
// =============================================================================

// trimInput strips surrounding whitespace. Whitespace-only input becomes "".
func trimInput(s string) string {
	return strings.TrimSpace(s)
}

// isCommand reports whether input is a slash command.
func isCommand(s string) bool {
	return strings.HasPrefix(s, "/") && len(s) > 1
}

// =============================================================================
// CLIPBOARD UTILITIES
// =============================================================================

// copyToClipboard copies the given text to the system clipboard.
func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
