// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the current chat transcript to a file.
//
// Exports are one-way: nothing written here is ever read back by jarvis.
//
// # Key Types
//
//   - Document: a transcript snapshot plus export metadata
//   - Exporter: format-specific renderer (Markdown, HTML, JSON)
//   - Options: output directory, theme and metadata switches
//
// # Usage
//
//	doc := export.FromTranscript(transcript, export.Meta{Server: cfg.Server.URL})
//	exp, err := export.ForFormat("html", nil)
//	path, err := export.ExportToFile(doc, exp, opts)
package export
