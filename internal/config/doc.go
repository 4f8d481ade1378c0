// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for jarvis.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - ServerConfig: Backend URL, request timeout, status poll interval
//   - UIConfig: Theme, markdown renderer, response delay, export directory
//   - LogConfig: Log level and rotating log file
//   - Watcher: fsnotify-based hot reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (lowest to highest precedence):
//   - Built-in defaults
//   - ~/.jarvis/config.toml (or the path given with --config / JARVIS_CONFIG)
//   - Environment variables (JARVIS_*)
//   - Command-line flags
//
// # Usage
//
//	cfg, err := config.Load(config.ResolvePath(""))
//	if err != nil {
//	    return err
//	}
//	client := jarvis.NewClient(&jarvis.ClientConfig{BaseURL: cfg.Server.URL})
package config
