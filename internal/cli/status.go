// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/jarvis-tui/internal/model"
)

// ErrOffline is returned by 'jarvis status' when the backend answers but is
// not running.
var ErrOffline = errors.New("backend is not running")

// statusJSON is the --json output of 'jarvis status'.
type statusJSON struct {
	Server  string `json:"server"`
	Online  bool   `json:"online"`
	Text    string `json:"text"`
	Status  string `json:"status,omitempty"`
	Index   string `json:"pinecone_index,omitempty"`
	Model   string `json:"openai_model,omitempty"`
	Problem string `json:"error,omitempty"`
}

func newStatusCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the backend is up",
		Long: `Query the backend status endpoint once and print the indicator.

Exits non-zero when the backend is unreachable or not running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client().Status(cmd.Context())

			view := model.UnreachableStatus()
			out := statusJSON{Server: a.cfg.Server.URL}
			if err != nil {
				a.log.Warn().Err(err).Str("endpoint", "/status").Msg("status check failed")
				out.Problem = err.Error()
			} else {
				view = resp.View()
				out.Status = resp.Status
				out.Index = resp.PineconeIndex
				out.Model = resp.OpenAIModel
			}
			out.Online = view.Online()
			out.Text = view.Text

			w := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(out); encErr != nil {
					return encErr
				}
			} else {
				fmt.Fprintln(w, statusLine(view))
				fmt.Fprintln(w, labelStyle.Render("Server: ")+a.cfg.Server.URL)
			}

			if err != nil {
				return err
			}
			if !view.Online() {
				return ErrOffline
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the status as JSON")
	return cmd
}
