// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the jarvis command line.
//
// With no subcommand jarvis starts the full-screen chat. The line-mode
// commands talk to the same backend without taking over the terminal:
//
//	jarvis                      Full-screen chat (default)
//	jarvis status               Backend status
//	jarvis ask <question>       One question, one answer
//	jarvis examples             Suggested questions
//	jarvis chat                 Line-mode chat with input history
//	jarvis config show|path|init
//	jarvis version
//
// Global flags --server, --config and --debug apply to every command.
package cli
