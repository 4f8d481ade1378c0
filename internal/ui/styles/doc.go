// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the jarvis TUI.
//
// Colors are lipgloss.AdaptiveColor values resolved against the terminal
// background. The background can be forced with the ui.theme setting.
//
// # Key Types
//
//   - Theme: every lipgloss.Style used by the components
//   - StatusIndicators: ASCII shapes that accompany status colors
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	fmt.Println(theme.UserBubble.Render("hello"))
package styles
