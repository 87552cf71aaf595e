package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

// migrationRow is one line of migrate output.
type migrationRow struct {
	Version   int64      `json:"version"`
	File      string     `json:"file"`
	State     string     `json:"state"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
	Duration  string     `json:"duration,omitempty"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Manage the contacts table schema",
		Long: `Apply, roll back, or list the embedded schema migrations for the
configured TABLE_DRIVER (postgres or sqlite). A hosted supabase table is
managed by its project and is not migrated from here.

Examples:
  contactsd migrate up
  contactsd migrate status --format json`,
		Args:          cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs:     []string{"up", "down", "status"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			return runMigrate(cmd, rootOpts, action)
		},
	}
	return cmd
}

func runMigrate(cmd *cobra.Command, rootOpts *RootOptions, action string) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, dialect, err := openMigrationDB(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open database", err)
	}
	defer db.Close()

	provider, err := newMigrationProvider(dialect, db)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot load migrations", err)
	}
	formatter.VerboseLog("migrate %s: driver=%s dialect=%s", action, cfg.Driver, dialect)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var rows []migrationRow
	switch action {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return WrapExitError(ExitFailure, "migrate up failed", err)
		}
		for _, r := range results {
			rows = append(rows, resultRow(r))
		}
	case "down":
		r, err := provider.Down(ctx)
		switch {
		case errors.Is(err, goose.ErrNoNextVersion):
		case err != nil:
			return WrapExitError(ExitFailure, "migrate down failed", err)
		default:
			rows = append(rows, resultRow(r))
		}
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return WrapExitError(ExitFailure, "migrate status failed", err)
		}
		for _, s := range statuses {
			row := migrationRow{Version: s.Source.Version, File: s.Source.Path, State: string(s.State)}
			if !s.AppliedAt.IsZero() {
				at := s.AppliedAt.UTC()
				row.AppliedAt = &at
			}
			rows = append(rows, row)
		}
	}

	if rows == nil {
		rows = []migrationRow{}
	}
	return formatter.Success(rows, func(w io.Writer) error {
		return writeMigrationRows(w, action, rows)
	})
}

func resultRow(r *goose.MigrationResult) migrationRow {
	state := "applied"
	if r.Direction == "down" {
		state = "rolled back"
	}
	return migrationRow{
		Version:  r.Source.Version,
		File:     r.Source.Path,
		State:    state,
		Duration: r.Duration.Round(time.Millisecond).String(),
	}
}

func writeMigrationRows(w io.Writer, action string, rows []migrationRow) error {
	if len(rows) == 0 {
		switch action {
		case "down":
			_, err := fmt.Fprintln(w, "no migrations to roll back")
			return err
		default:
			_, err := fmt.Fprintln(w, "schema is up to date")
			return err
		}
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tFILE\tSTATE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Version, r.File, r.State)
	}
	return tw.Flush()
}
