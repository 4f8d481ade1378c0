// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/jarvis-tui/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
		Long: `Inspect or create the jarvis config file.

The file lives at ~/.jarvis/config.toml unless --config or JARVIS_CONFIG
names another path. JARVIS_* environment variables override its values.`,
	}
	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigPathCmd(a),
		newConfigInitCmd(a),
	)
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after defaults, the file, environment variables and flags are applied.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.Encode()
			if err != nil {
				return NewCommandError("config show", "encode config", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the config file path",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfgPath == "" {
				return &ConfigError{Err: errors.New("no home directory; pass --config")}
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.cfgPath)
			return nil
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file with the defaults",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfgPath == "" {
				return &ConfigError{Err: errors.New("no home directory; pass --config")}
			}
			if _, err := os.Stat(a.cfgPath); err == nil && !force {
				return NewValidationErrorWithExample("config init", a.cfgPath,
					"file already exists", "jarvis config init --force")
			}
			if err := config.Save(config.Default(), a.cfgPath); err != nil {
				return &ConfigError{Path: a.cfgPath, Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), commandStyle.Render("Wrote ")+a.cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
