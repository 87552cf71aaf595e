package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/generator"
	"github.com/pkordes/numberfinder/backend/internal/service"
)

// UploadOptions holds flags for the upload command.
type UploadOptions struct {
	Total     int
	BatchSize int
	Pause     time.Duration
}

// uploadOutput is the JSON payload of the upload command.
type uploadOutput struct {
	RunID         string               `json:"run_id"`
	Total         int                  `json:"total_count"`
	Uploaded      int                  `json:"uploaded_count"`
	FailedBatches int                  `json:"failed_batches"`
	Outcome       domain.UploadOutcome `json:"outcome"`
}

// NewUploadCommand creates the upload command.
func NewUploadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UploadOptions{}

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Generate contacts and upload them in batches",
		Long: `Generate a set of synthetic contacts and insert them into the configured
table in fixed-size batches, printing progress after each batch. A failed
batch is reported and skipped; the run continues with the next one.

Defaults come from UPLOAD_TOTAL and UPLOAD_BATCH_SIZE. Unlike the server,
the command does not pause between batches unless --pause is given.

Examples:
  contactsd upload --total 50
  contactsd upload --total 20 --batch-size 5 --pause 300ms --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Total, "total", "n", -1, "number of contacts to generate (default UPLOAD_TOTAL)")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 0, "contacts per insert (default UPLOAD_BATCH_SIZE)")
	cmd.Flags().DurationVar(&opts.Pause, "pause", 0, "pause between batches")

	return cmd
}

func runUpload(cmd *cobra.Command, rootOpts *RootOptions, opts *UploadOptions) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
	log := commandLogger(rootOpts, cmd.ErrOrStderr())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	total := opts.Total
	if total < 0 {
		total = cfg.UploadTotal
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = cfg.UploadBatchSize
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := OpenBackend(ctx, cfg, log)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open contacts table", err)
	}
	defer backend.Close()

	progressW := formatter.GetErrWriter()
	if rootOpts.Format == "text" {
		progressW = formatter.Writer
	}
	// last keeps the run's final counters; the pipeline resets to idle right after.
	var last domain.UploadProgress
	pipeline := service.NewUploadPipeline(backend.Contacts, generator.New(),
		service.WithBatchSize(batchSize),
		service.WithBatchPause(opts.Pause),
		service.WithHoldInterval(0),
		service.WithUploadLogger(log),
		service.WithProgressObserver(progressPrinter(progressW, rootOpts.Format == "text" || rootOpts.Verbose)),
		service.WithProgressObserver(func(ev domain.UploadProgress) {
			if ev.Phase != domain.PhaseIdle {
				last = ev
			}
		}),
	)

	outcome, err := pipeline.Upload(ctx, total)
	if err != nil {
		return WrapExitError(ExitCommandError, "upload could not start", err)
	}

	out := uploadOutput{
		RunID:         last.RunID,
		Total:         last.Total,
		Uploaded:      last.Uploaded,
		FailedBatches: last.FailedBatches,
		Outcome:       outcome,
	}
	if err := formatter.Success(out, func(w io.Writer) error {
		return writeUploadText(w, out)
	}); err != nil {
		return err
	}

	switch outcome.Kind {
	case domain.OutcomePartiallyFailed:
		return NewExitError(ExitFailure, fmt.Sprintf("%d batch(es) failed", outcome.FailedBatches))
	case domain.OutcomeAborted:
		return NewExitError(ExitFailure, "upload aborted: "+outcome.Reason)
	}
	return nil
}

// progressPrinter writes one line per uploading event when enabled.
func progressPrinter(w io.Writer, enabled bool) service.ProgressObserver {
	return func(ev domain.UploadProgress) {
		if !enabled {
			return
		}
		switch ev.Phase {
		case domain.PhaseGenerating:
			fmt.Fprintf(w, "generating %d contacts\n", ev.Total)
		case domain.PhaseUploading:
			fmt.Fprintf(w, "uploaded %d/%d (%d%%)", ev.Uploaded, ev.Total, ev.Percent)
			if ev.FailedBatches > 0 {
				fmt.Fprintf(w, ", %d failed batch(es)", ev.FailedBatches)
			}
			fmt.Fprintln(w)
		}
	}
}

func writeUploadText(w io.Writer, out uploadOutput) error {
	var err error
	switch out.Outcome.Kind {
	case domain.OutcomeSucceeded:
		_, err = fmt.Fprintf(w, "upload complete: %d contacts\n", out.Total)
	case domain.OutcomePartiallyFailed:
		_, err = fmt.Fprintf(w, "upload complete with %d failed batch(es): %d contacts attempted\n",
			out.Outcome.FailedBatches, out.Total)
	case domain.OutcomeAborted:
		_, err = fmt.Fprintf(w, "upload aborted after %d/%d: %s\n", out.Uploaded, out.Total, out.Outcome.Reason)
	}
	return err
}
