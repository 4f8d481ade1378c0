// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual building blocks of the jarvis TUI.
//
// Components are plain structs with a View method. The ones that animate
// (Spinner) follow the Bubble Tea Update/View contract; the rest are driven
// by the chat model through setters.
//
// # Components
//
//   - Header: title bar with the backend status indicator
//   - MessageRenderer: transcript entries with markup, code blocks and citations
//   - CodeBlock: chroma-highlighted fenced code
//   - ExampleList: numbered example-question buttons with keyboard focus
//   - Welcome: the placeholder shown while the transcript is empty
//   - Spinner: typing indicator and loading spinner
//   - ErrorDialog: modal error overlay
//   - ToastManager: auto-dismissing notifications
package components
