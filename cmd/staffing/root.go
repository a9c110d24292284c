package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"staffing/internal/service"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "staffing",
		Short:         "Availability and capacity forecasting service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (yaml or json)")

	root.AddCommand(
		newServeCmd(opts),
		newAvailabilityCmd(opts),
		newForecastCmd(opts),
		newImportCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// withApp loads the configuration, opens the store and closes it after fn.
func withApp(ctx context.Context, opts *rootOptions, fn func(*app) error) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	application, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			application.log.Errorf("close: %v", err)
		}
	}()
	return fn(application)
}

func newAvailabilityCmd(opts *rootOptions) *cobra.Command {
	var request service.AvailabilityRequest
	var minHours int

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Print free capacity per person for a date window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("min-hours") {
				request.MinHours = &minHours
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				result, err := a.svc.Availability(cmd.Context(), request)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().StringVar(&request.StartDate, "start", "", "window start (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&request.EndDate, "end", "", "window end (YYYY-MM-DD), defaults to the configured window after start")
	cmd.Flags().StringSliceVar(&request.SkillIDs, "skills", nil, "skill ids, any of which must match")
	cmd.Flags().StringVar(&request.RoleID, "role", "", "role id")
	cmd.Flags().StringVar(&request.PracticeID, "practice", "", "practice id")
	cmd.Flags().IntVar(&minHours, "min-hours", 0, "minimum available hours")
	return cmd
}

func newForecastCmd(opts *rootOptions) *cobra.Command {
	var weeks int
	var summary bool

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print the weekly capacity forecast",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var horizon *int
			if cmd.Flags().Changed("weeks") {
				horizon = &weeks
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				if summary {
					result, err := a.svc.ForecastSummary(cmd.Context(), horizon)
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), result)
				}
				result, err := a.svc.Forecast(cmd.Context(), horizon)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().IntVarP(&weeks, "weeks", "w", 0, "number of weeks, defaults to the configured horizon")
	cmd.Flags().BoolVar(&summary, "summary", false, "print aggregate statistics instead of weekly rows")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the stored snapshot with a JSON document (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				return a.svc.ImportSnapshot(cmd.Context(), raw)
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored snapshot as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				payload, err := a.svc.ExportSnapshot(cmd.Context())
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(append(payload, '\n'))
					return err
				}
				return os.WriteFile(output, payload, 0o600)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, defaults to stdout")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if strings.TrimSpace(path) == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return raw, nil
}

func writeJSON(w io.Writer, value any) error {
	body, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(body, '\n'))
	return err
}
