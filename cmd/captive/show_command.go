package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"captive/internal/ipc"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show details for one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionDescribe(id)
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}
				session := resp.Session
				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				for _, line := range renderSectionHeader("Session "+session.ID, colorize) {
					fmt.Fprintln(stdout, line)
				}
				stateKind := statusInfo
				state := "finished"
				if session.Active {
					stateKind = statusOK
					state = "active"
				}
				fmt.Fprintln(stdout, renderStatusLine("State", stateKind, state, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Platform", statusInfo, session.Platform, colorize))
				if session.Title != "" {
					fmt.Fprintln(stdout, renderStatusLine("Title", statusInfo, session.Title, colorize))
				}
				fmt.Fprintln(stdout, renderStatusLine("Started", statusInfo, session.StartedAt, colorize))
				if session.EndedAt != "" {
					fmt.Fprintln(stdout, renderStatusLine("Ended", statusInfo, session.EndedAt, colorize))
				}
				fmt.Fprintln(stdout, renderStatusLine("Captions", statusInfo, fmt.Sprintf("%d", session.CaptionCount), colorize))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the session as JSON")
	return cmd
}
