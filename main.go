// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// jarvis - terminal chat for the Jarvis document assistant.
package main

import (
	"os"

	"github.com/jeranaias/jarvis-tui/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
