// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/jarvis-tui/internal/config"
	"github.com/jeranaias/jarvis-tui/internal/jarvis"
	"github.com/jeranaias/jarvis-tui/internal/logging"
	"github.com/jeranaias/jarvis-tui/internal/ui/chat"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// skipConfigLoad marks commands that must work with a broken config file.
const skipConfigLoad = "skip-config-load"

// =============================================================================
// APPLICATION STATE
// =============================================================================

// globalOptions holds the persistent flags.
type globalOptions struct {
	server     string
	configPath string
	debug      bool
}

// app is shared by every command: resolved config, logger and client factory.
type app struct {
	opts    globalOptions
	cfgPath string
	cfg     *config.Config
	log     *logging.Logger
}

// setup resolves the config path, loads the config, applies flags and
// opens the log.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.cfgPath = config.ResolvePath(a.opts.configPath)
	a.log = logging.Nop()
	if cmd.Annotations[skipConfigLoad] == "true" {
		return nil
	}

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return &ConfigError{Path: a.cfgPath, Err: err}
	}
	if a.opts.server != "" {
		if err := validateServerURL(a.opts.server); err != nil {
			return err
		}
	}
	a.applyFlags(cfg)
	a.cfg = cfg

	logger, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    a.opts.debug && cmd.Parent() != nil,
	})
	if err != nil {
		return &ConfigError{Path: a.cfgPath, Err: err}
	}
	a.log = logger
	a.log.Debug().
		Str("command", cmd.CommandPath()).
		Str("server", cfg.Server.URL).
		Str("config", a.cfgPath).
		Msg("starting")
	return nil
}

// applyFlags layers the global flags over a loaded config.
func (a *app) applyFlags(cfg *config.Config) {
	if a.opts.server != "" {
		cfg.Server.URL = a.opts.server
	}
	if a.opts.debug {
		cfg.Log.Level = "debug"
	}
}

// reloadHandler returns the watcher callback: flags are re-applied so a
// reloaded file never undoes them.
func (a *app) reloadHandler(send func(tea.Msg)) func(*config.Config) {
	return func(cfg *config.Config) {
		a.applyFlags(cfg)
		send(chat.ConfigReloadedMsg{Config: cfg})
	}
}

// close flushes the log.
func (a *app) close() {
	if a.log != nil {
		_ = a.log.Close()
	}
}

// client builds the backend client from the loaded config.
func (a *app) client() *jarvis.Client {
	return jarvis.NewClient(&jarvis.ClientConfig{
		BaseURL: a.cfg.Server.URL,
		Timeout: a.cfg.Server.RequestTimeout.Std(),
		Logger:  &a.log.Logger,
	})
}

// validateServerURL checks a --server value.
func validateServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NewValidationErrorWithExample("--server", raw, "must be an http(s) URL with a host", "--server http://127.0.0.1:5000")
	}
	return nil
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCmd builds the jarvis command tree.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd()
	return root
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{log: logging.Nop()}

	root := &cobra.Command{
		Use:   "jarvis",
		Short: "Terminal chat for the Jarvis document assistant",
		Long: `Jarvis answers questions about your documents.

Run without a subcommand to open the full-screen chat. Use 'jarvis ask'
for scripts and 'jarvis chat' for a line-mode session.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setup,
		RunE:              a.runTUI,
	}
	root.SetVersionTemplate(versionString() + "\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.server, "server", "", "backend URL (overrides config and JARVIS_SERVER_URL)")
	flags.StringVar(&a.opts.configPath, "config", "", "config file (default ~/.jarvis/config.toml or JARVIS_CONFIG)")
	flags.BoolVar(&a.opts.debug, "debug", false, "log at debug level")

	root.AddCommand(
		newStatusCmd(a),
		newAskCmd(a),
		newExamplesCmd(a),
		newChatCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root, a
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root, a := newRootCmd()
	defer a.close()

	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	if err != nil {
		jsonMode := false
		if f := cmd.Flags().Lookup("json"); f != nil && f.Value.String() == "true" {
			jsonMode = true
		}
		DisplayError(stderr, err, jsonMode)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// =============================================================================
// FULL-SCREEN CHAT
// =============================================================================

// runTUI starts the Bubble Tea chat and live-reloads the config file.
func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	if err := RequiresTTY("jarvis"); err != nil {
		return err
	}

	m := chat.New(chat.Options{
		Backend: a.client(),
		Config:  a.cfg,
		Logger:  &a.log.Logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if a.cfgPath != "" {
		watcher, err := config.NewWatcher(a.cfgPath,
			a.reloadHandler(p.Send),
			config.WithReloadError(func(err error) { p.Send(chat.ConfigErrorMsg{Err: err}) }),
			config.WithWatchLogger(a.log.Logger),
		)
		if err != nil {
			a.log.Warn().Err(err).Str("path", a.cfgPath).Msg("config hot reload disabled")
		} else {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		return NewCommandError("jarvis", "terminal UI exited", err)
	}
	return nil
}

// =============================================================================
// VERSION
// =============================================================================

func versionString() string {
	return fmt.Sprintf("jarvis %s (commit %s, built %s, %s/%s)",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return nil
		},
	}
}
