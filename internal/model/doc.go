// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript and the
// backend status indicator.
//
// # Key Types
//
//   - Transcript: Ordered in-memory list of rendered entries
//   - Entry: Single rendered message with sender, content, sources and timestamp
//   - Sender: Who produced an entry (user, assistant, system-error)
//   - StatusView: Rendering hint for the connection indicator
//
// # Usage
//
//	t := model.NewTranscript()
//	t.Append(model.NewUserEntry("Hello"))
//	t.Append(model.NewAssistantEntry("Hi there", []string{"guide.pdf"}))
//	t.Clear()
package model
