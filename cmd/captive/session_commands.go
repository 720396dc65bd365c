package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"captive/internal/ipc"
)

func newStartCommand(ctx *commandContext) *cobra.Command {
	var platformFlag string
	var titleFlag string

	cmd := &cobra.Command{
		Use:   "start <url>",
		Short: "Start capturing captions from a meeting page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(args[0])
			if url == "" {
				return errors.New("meeting URL is required")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Start(ipc.StartRequest{
					URL:      url,
					Platform: strings.TrimSpace(platformFlag),
					Title:    strings.TrimSpace(titleFlag),
				})
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if !resp.Started {
					if resp.Message != "" {
						return errors.New(resp.Message)
					}
					return errors.New("session was not started")
				}
				fmt.Fprintf(stdout, "Capture session %s started (%s)\n", resp.Session.ID, resp.Session.Platform)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&platformFlag, "platform", "p", "", "Caption platform (meet, youtube, teams, zoom); defaults to the configured platform")
	cmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Session title used in exports and notifications")
	return cmd
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the active capture session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if !resp.Stopped {
					if resp.Message != "" {
						fmt.Fprintln(stdout, resp.Message)
						return nil
					}
					fmt.Fprintln(stdout, "No active session")
					return nil
				}
				fmt.Fprintf(stdout, "Session %s stopped with %d captions\n", resp.Session.ID, resp.Session.CaptionCount)
				return nil
			})
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and capture status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, resp)
				}

				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(stdout, line)
				}
				runningKind := statusError
				if resp.Running {
					runningKind = statusOK
				}
				fmt.Fprintln(stdout, renderStatusLine("Running", runningKind, fmt.Sprintf("pid %d", resp.PID), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Database", statusInfo, resp.DBPath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Scriber", statusInfo, yesNo(resp.ScriberEnabled), colorize))
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Capture", colorize) {
					fmt.Fprintln(stdout, line)
				}
				if !resp.Capture.Capturing {
					fmt.Fprintln(stdout, renderStatusLine("Session", statusInfo, "idle", colorize))
					return nil
				}
				detectKind := statusWarn
				detectMsg := "waiting for captions"
				if resp.Capture.CaptionsDetected {
					detectKind = statusOK
					detectMsg = fmt.Sprintf("%d captions captured", resp.Capture.CaptionCount)
				}
				fmt.Fprintln(stdout, renderStatusLine("Session", statusOK, resp.Capture.SessionID, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Captions", detectKind, detectMsg, colorize))
				if resp.Session != nil && resp.Session.Title != "" {
					fmt.Fprintln(stdout, renderStatusLine("Title", statusInfo, resp.Session.Title, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit status as JSON")
	return cmd
}
