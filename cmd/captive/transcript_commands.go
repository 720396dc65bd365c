package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"captive/internal/ipc"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded capture sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionList()
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Sessions) == 0 {
					fmt.Fprintln(stdout, "No sessions recorded")
					return nil
				}
				rows := make([][]string, 0, len(resp.Sessions))
				for _, session := range resp.Sessions {
					rows = append(rows, []string{
						session.ID,
						session.Platform,
						session.Title,
						session.StartedAt,
						yesNo(session.Active),
						fmt.Sprintf("%d", session.CaptionCount),
					})
				}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight}
				fmt.Fprintln(stdout, renderTable([]string{"ID", "Platform", "Title", "Started", "Active", "Captions"}, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit sessions as JSON")
	return cmd
}

func newTranscriptCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "transcript [session-id]",
		Short: "Print a session transcript",
		Long:  "Print a session transcript. Without a session id the active session is used, falling back to the most recent one.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := ""
			if len(args) == 1 {
				sessionID = strings.TrimSpace(args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Transcript(sessionID)
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Captions) == 0 {
					fmt.Fprintf(stdout, "Session %s has no captions\n", resp.SessionID)
					return nil
				}
				for _, caption := range resp.Captions {
					speaker := caption.Speaker
					if speaker == "" {
						speaker = "Speaker"
					}
					fmt.Fprintf(stdout, "%s: %s\n", speaker, caption.Text)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the transcript as JSON")
	return cmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var sessionFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a session transcript to the export directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Export(strings.TrimSpace(sessionFlag), strings.TrimSpace(formatFlag))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported session %s to %s\n", resp.SessionID, resp.Path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Export format (text, markdown, json)")
	cmd.Flags().StringVarP(&sessionFlag, "session", "s", "", "Session id (defaults to the active or most recent session)")
	return cmd
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "db-health",
		Short: "Check session database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.DatabaseHealth()
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				for _, line := range renderSectionHeader("Database Health", colorize) {
					fmt.Fprintln(stdout, line)
				}
				readableKind := statusError
				if resp.DatabaseReadable {
					readableKind = statusOK
				}
				integrityKind := statusError
				if resp.IntegrityCheck {
					integrityKind = statusOK
				}
				fmt.Fprintln(stdout, renderStatusLine("Path", statusInfo, resp.DBPath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Readable", readableKind, "", colorize))
				fmt.Fprintln(stdout, renderStatusLine("Integrity", integrityKind, "", colorize))
				fmt.Fprintln(stdout, renderStatusLine("Schema", statusInfo, resp.SchemaVersion, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Sessions", statusInfo, fmt.Sprintf("%d", resp.TotalSessions), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Captions", statusInfo, fmt.Sprintf("%d", resp.TotalCaptions), colorize))
				if resp.Error != "" {
					fmt.Fprintln(stdout, renderStatusLine("Error", statusError, resp.Error, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit health report as JSON")
	return cmd
}
