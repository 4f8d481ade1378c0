// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea model for the Jarvis chat screen.
//
// The model wires four behaviors to keys and timers:
//
//   - a status poller that refreshes the header indicator every poll interval
//   - an example-question loader feeding the welcome placeholder and the
//     /examples panel, with a static fallback when the fetch fails
//   - the message pipeline: idle, sending, then either rendering or an error
//     dialog, and back to idle
//   - conversation reset, which clears the transcript and reloads examples
//
// All network calls run inside tea.Cmds; results come back as messages so
// Update stays single-threaded.
package chat
