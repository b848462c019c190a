package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"actograph/internal/bootstrap"
	plugindto "actograph/internal/modules/plugin/dto"
	workspacedto "actograph/internal/modules/workspace/dto"
	"actograph/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var workspacePath, backend string

	root := &cobra.Command{
		Use:           "actograph",
		Short:         "Time and motion study tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&workspacePath, "workspace", ".", "workspace path")
	root.PersistentFlags().StringVar(&backend, "backend", config.BackendSQLite, "storage backend: sqlite|vault")

	root.AddCommand(newTUICmd(&workspacePath, &backend))
	root.AddCommand(newSessionCmd(&workspacePath, &backend))
	root.AddCommand(newTrackCmd(&workspacePath, &backend))
	root.AddCommand(newActivityCmd(&workspacePath, &backend))
	root.AddCommand(newReportCmd(&workspacePath, &backend))
	root.AddCommand(newPluginCmd(&workspacePath, &backend))
	return root
}

func loadApp(workspacePath, backend string) (*bootstrap.App, error) {
	cfg, err := config.New(workspacePath, backend)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func withApp(workspacePath, backend *string, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(*workspacePath, *backend)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newTUICmd(workspacePath, backend *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run actograph terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(*workspacePath, app)
			})
		},
	}
}

func newSessionCmd(workspacePath, backend *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Study session lifecycle"}

	session.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a session and make it current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.WorkspaceCLI.Create(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session created: %s (%s)\n", out.Name, out.ID)
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				sessions, err := app.WorkspaceCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					marker := " "
					if s.Current {
						marker = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%s\tevents=%d\ttotal=%s\n", marker, s.ID, s.Name, s.Status, s.EventCount, formatDuration(s.TotalDurationMS))
				}
				return nil
			})
		},
	})

	var sessionID string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show session details and its event log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				var detail workspacedto.SessionDetailOutput
				var err error
				if strings.TrimSpace(sessionID) == "" {
					detail, err = app.WorkspaceCLI.Current(context.Background())
				} else {
					detail, err = app.WorkspaceCLI.Get(context.Background(), sessionID)
				}
				if err != nil {
					return err
				}
				printSessionDetail(cmd, detail)
				return nil
			})
		},
	}
	show.Flags().StringVar(&sessionID, "id", "", "session id (defaults to current session)")
	session.AddCommand(show)

	session.AddCommand(&cobra.Command{
		Use:   "load <id>",
		Short: "Make a session current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				// Loading goes through the tracker so the stopwatch rebinds
				// idle; the previous session's open event stays open.
				out, err := app.TrackerCLI.Switch(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session loaded: %s (%s)\n", out.SessionName, out.SessionID)
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session and its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				if err := app.WorkspaceCLI.Delete(context.Background(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session deleted: %s\n", args[0])
				return nil
			})
		},
	})

	var exportID, exportOut string
	export := &cobra.Command{
		Use:   "export",
		Short: "Export a session snapshot as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				payload, err := app.WorkspaceCLI.Export(context.Background(), exportID)
				if err != nil {
					return err
				}
				if exportOut == "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
					return nil
				}
				if err := os.WriteFile(exportOut, payload, 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", exportOut)
				return nil
			})
		},
	}
	export.Flags().StringVar(&exportID, "id", "", "session id (defaults to current session)")
	export.Flags().StringVar(&exportOut, "out", "", "output file (defaults to stdout)")
	session.AddCommand(export)

	session.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import a session snapshot as a new session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				payload, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read import file: %w", err)
				}
				out, err := app.WorkspaceCLI.Import(context.Background(), payload)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session imported: %s (%s)\n", out.Name, out.ID)
				return nil
			})
		},
	})

	var notesID string
	notes := &cobra.Command{
		Use:   "notes <text>",
		Short: "Set session notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.WorkspaceCLI.SetNotes(context.Background(), notesID, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "notes updated: %s\n", out.ID)
				return nil
			})
		},
	}
	notes.Flags().StringVar(&notesID, "id", "", "session id (defaults to current session)")
	session.AddCommand(notes)

	var videoID string
	video := &cobra.Command{
		Use:   "video <ref>",
		Short: "Attach a video reference to a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.WorkspaceCLI.SetVideo(context.Background(), videoID, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "video set: %s\n", out.ID)
				return nil
			})
		},
	}
	video.Flags().StringVar(&videoID, "id", "", "session id (defaults to current session)")
	session.AddCommand(video)

	var statusID string
	status := &cobra.Command{
		Use:   "status <draft|active|completed|archived>",
		Short: "Set session status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.WorkspaceCLI.SetStatus(context.Background(), statusID, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "status set: %s -> %s\n", out.ID, out.Status)
				return nil
			})
		},
	}
	status.Flags().StringVar(&statusID, "id", "", "session id (defaults to current session)")
	session.AddCommand(status)

	var noteID string
	note := &cobra.Command{
		Use:   "note",
		Short: "Write a markdown study note for a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				path, err := app.WorkspaceCLI.WriteNote(context.Background(), noteID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "note written: %s\n", path)
				return nil
			})
		},
	}
	note.Flags().StringVar(&noteID, "id", "", "session id (defaults to current session)")
	session.AddCommand(note)

	return session
}

func printSessionDetail(cmd *cobra.Command, detail workspacedto.SessionDetailOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nname: %s\nstatus: %s\ncreated: %s\nupdated: %s\n",
		detail.ID, detail.Name, detail.Status, formatTimestamp(detail.CreatedAt), formatTimestamp(detail.UpdatedAt))
	if detail.VideoRef != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "video: %s\n", detail.VideoRef)
	}
	if detail.Notes != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "notes: %s\n", detail.Notes)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total: %s events: %d\n", formatDuration(detail.TotalDurationMS), detail.EventCount)
	for _, event := range detail.Events {
		duration := "open"
		if event.DurationMS != nil {
			duration = formatDuration(*event.DurationMS)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s  %-20s %s\n", formatTimestamp(event.TimestampMS), event.ActivityName, duration)
	}
}

func newTrackCmd(workspacePath, backend *string) *cobra.Command {
	track := &cobra.Command{Use: "track", Short: "Live activity tracking"}

	track.AddCommand(&cobra.Command{
		Use:   "log <activity-id>",
		Short: "Log an activity switch on the current session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.LogActivity(context.Background(), args[0])
				if err != nil {
					return err
				}
				if out.Closed != nil && out.Closed.DurationMS != nil {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "closed %s after %s\n", out.Closed.ActivityName, formatDuration(*out.Closed.DurationMS))
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logging %s on session %s\n", out.Opened.ActivityName, out.SessionID)
				return nil
			})
		},
	})

	track.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop tracking and close the open event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.TrackerCLI.Stop(context.Background())
				if err != nil {
					return err
				}
				if !out.Stopped {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not tracking")
					return nil
				}
				if out.Closed != nil && out.Closed.DurationMS != nil {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "closed %s after %s\n", out.Closed.ActivityName, formatDuration(*out.Closed.DurationMS))
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "tracking stopped")
				return nil
			})
		},
	})

	track.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset the stopwatch without closing the open event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				if err := app.TrackerCLI.Reset(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "stopwatch reset")
				return nil
			})
		},
	})

	track.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show tracking status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				status, err := app.TrackerCLI.Status(context.Background())
				if err != nil {
					return err
				}
				if status.Mode == "idle" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "idle")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logging %s on %s elapsed=%s running=%t\n", status.ActivityName, status.SessionName, formatDuration(status.ElapsedMS), status.Running)
				return nil
			})
		},
	})

	track.AddCommand(&cobra.Command{
		Use:   "switch <session-id>",
		Short: "Switch tracking to another session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				status, err := app.TrackerCLI.Switch(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tracking session: %s\n", status.SessionName)
				return nil
			})
		},
	})

	return track
}

func newActivityCmd(workspacePath, backend *string) *cobra.Command {
	activity := &cobra.Command{Use: "activity", Short: "Activity catalog"}

	activity.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				activities, err := app.WorkspaceCLI.ListActivities(context.Background())
				if err != nil {
					return err
				}
				for _, a := range activities {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.ColorTag, a.Description)
				}
				return nil
			})
		},
	})

	var activityID, colorTag, description string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an activity to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.WorkspaceCLI.AddActivity(context.Background(), activityID, args[0], colorTag, description)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "activity added: %s (%s)\n", out.Name, out.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&activityID, "id", "", "activity id (defaults to a slug of the name)")
	add.Flags().StringVar(&colorTag, "color", "gray", "color tag")
	add.Flags().StringVar(&description, "description", "", "activity description")
	activity.AddCommand(add)

	return activity
}

func newReportCmd(workspacePath, backend *string) *cobra.Command {
	report := &cobra.Command{Use: "report", Short: "Session reports"}

	var summaryID string
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Per-activity totals for a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.ReportCLI.Summary(context.Background(), summaryID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s total=%s\n", out.SessionName, formatDuration(out.TotalDurationMS))
				if out.OpenCount > 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "unfinished events: %d\n", out.OpenCount)
				}
				for _, stat := range out.Stats {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\t%.1f%%\tcount=%d\tavg=%s\n", stat.Name, formatDuration(stat.DurationMS), stat.Percentage, stat.Count, formatDuration(stat.AvgDurationMS))
				}
				return nil
			})
		},
	}
	summary.Flags().StringVar(&summaryID, "id", "", "session id (defaults to current session)")
	report.AddCommand(summary)

	var timelineID string
	var bucketMinutes int
	timeline := &cobra.Command{
		Use:   "timeline",
		Short: "Bucketed per-activity timeline for a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.ReportCLI.Timeline(context.Background(), timelineID, int64(bucketMinutes)*60*1000)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s buckets=%d bucket=%s\n", out.SessionName, len(out.Buckets), formatDuration(out.BucketMS))
				for _, bucket := range out.Buckets {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s", bucket.Label)
					for activity, ms := range bucket.PerActivityMS {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s=%s", activity, formatDuration(ms))
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	}
	timeline.Flags().StringVar(&timelineID, "id", "", "session id (defaults to current session)")
	timeline.Flags().IntVar(&bucketMinutes, "bucket-minutes", 5, "bucket width in minutes")
	report.AddCommand(timeline)

	return report
}

func newPluginCmd(workspacePath, backend *string) *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Report plugin operations"}

	plugin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				plugins, err := app.PluginCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(plugins) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
					return nil
				}
				for _, p := range plugins {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s\n", p.Name, p.Version, p.Enabled, p.Binary)
				}
				return nil
			})
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				results, err := app.PluginCLI.Doctor(context.Background())
				if err != nil {
					return err
				}
				if len(results) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
					return nil
				}
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
					if r.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	})

	var commandPluginName string
	commandsCmd := &cobra.Command{
		Use:   "commands --plugin <name>",
		Short: "List commands exposed by a plugin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(commandPluginName) == "" {
				return fmt.Errorf("--plugin is required")
			}
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				commands, err := app.PluginCLI.ListCommands(context.Background(), commandPluginName)
				if err != nil {
					return err
				}
				if len(commands) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no commands")
					return nil
				}
				for _, item := range commands {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s kind=%s timeout_ms=%d title=%q\n", item.ID, item.Kind, item.TimeoutMS, item.Title)
				}
				return nil
			})
		},
	}
	commandsCmd.Flags().StringVar(&commandPluginName, "plugin", "", "plugin name")
	plugin.AddCommand(commandsCmd)

	var runPluginName, runCommandID, runInputJSON, runSessionID string
	runCmd := &cobra.Command{
		Use:   "run --plugin <name> --command <id>",
		Short: "Run a render-capability plugin command",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(runPluginName) == "" || strings.TrimSpace(runCommandID) == "" {
				return fmt.Errorf("--plugin and --command are required")
			}
			if err := validateJSONInput(runInputJSON); err != nil {
				return err
			}
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.PluginCLI.Run(context.Background(), plugindto.ExecuteInput{
					PluginName:    runPluginName,
					CommandID:     runCommandID,
					InputJSON:     runInputJSON,
					SessionID:     runSessionID,
					WorkspacePath: *workspacePath,
					Cwd:           *workspacePath,
				})
				if err != nil {
					return err
				}
				printExecuteOutput(cmd, out)
				return nil
			})
		},
	}
	runCmd.Flags().StringVar(&runPluginName, "plugin", "", "plugin name")
	runCmd.Flags().StringVar(&runCommandID, "command", "", "command id")
	runCmd.Flags().StringVar(&runInputJSON, "input-json", "", "JSON input payload")
	runCmd.Flags().StringVar(&runSessionID, "session-id", "", "optional session id")
	plugin.AddCommand(runCmd)

	var analyzePluginName, analyzeCommandID, analyzeInputJSON, analyzeSessionID string
	analyzeCmd := &cobra.Command{
		Use:   "analyze --plugin <name> --command <id>",
		Short: "Run an analyze-capability plugin command",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(analyzePluginName) == "" || strings.TrimSpace(analyzeCommandID) == "" {
				return fmt.Errorf("--plugin and --command are required")
			}
			if err := validateJSONInput(analyzeInputJSON); err != nil {
				return err
			}
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.PluginCLI.Analyze(context.Background(), plugindto.ExecuteInput{
					PluginName:    analyzePluginName,
					CommandID:     analyzeCommandID,
					InputJSON:     analyzeInputJSON,
					SessionID:     analyzeSessionID,
					WorkspacePath: *workspacePath,
					Cwd:           *workspacePath,
				})
				if err != nil {
					return err
				}
				printExecuteOutput(cmd, out)
				return nil
			})
		},
	}
	analyzeCmd.Flags().StringVar(&analyzePluginName, "plugin", "", "plugin name")
	analyzeCmd.Flags().StringVar(&analyzeCommandID, "command", "", "command id")
	analyzeCmd.Flags().StringVar(&analyzeInputJSON, "input-json", "", "JSON input payload")
	analyzeCmd.Flags().StringVar(&analyzeSessionID, "session-id", "", "optional session id")
	plugin.AddCommand(analyzeCmd)

	var reportPluginName, reportCommandID, reportSessionID string
	reportCmd := &cobra.Command{
		Use:   "report --plugin <name> --command <id>",
		Short: "Render a session report through a plugin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(reportPluginName) == "" || strings.TrimSpace(reportCommandID) == "" {
				return fmt.Errorf("--plugin and --command are required")
			}
			return withApp(workspacePath, backend, func(app *bootstrap.App) error {
				out, err := app.PluginCLI.RenderReport(context.Background(), plugindto.RenderReportInput{
					PluginName:    reportPluginName,
					CommandID:     reportCommandID,
					SessionID:     reportSessionID,
					WorkspacePath: *workspacePath,
					Cwd:           *workspacePath,
				})
				if err != nil {
					return err
				}
				printExecuteOutput(cmd, out)
				return nil
			})
		},
	}
	reportCmd.Flags().StringVar(&reportPluginName, "plugin", "", "plugin name")
	reportCmd.Flags().StringVar(&reportCommandID, "command", "", "command id")
	reportCmd.Flags().StringVar(&reportSessionID, "session-id", "", "session id (defaults to current session)")
	plugin.AddCommand(reportCmd)

	return plugin
}

func printExecuteOutput(cmd *cobra.Command, out plugindto.ExecuteOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plugin=%s command=%s exit=%d\n", out.PluginName, out.CommandID, out.ExitCode)
	if strings.TrimSpace(out.Stdout) != "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Stdout)
	}
	if strings.TrimSpace(out.Stderr) != "" {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), out.Stderr)
	}
	if strings.TrimSpace(out.OutputJSON) != "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.OutputJSON)
	}
}

func validateJSONInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	if !json.Valid([]byte(input)) {
		return fmt.Errorf("--input-json must be valid JSON")
	}
	return nil
}

func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func formatDuration(ms int64) string {
	seconds := ms / 1000
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm%02ds", minutes, seconds%60)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
