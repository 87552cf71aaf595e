package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pkordes/numberfinder/backend/internal/domain"
	"github.com/pkordes/numberfinder/backend/internal/service"
)

// searchOutput is the JSON payload of the search command.
type searchOutput struct {
	Query       string              `json:"query"`
	Status      domain.SearchStatus `json:"status"`
	ResultCount int                 `json:"result_count"`
	Contacts    []domain.Contact    `json:"contacts"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Find contacts by name or phone number",
		Long: `Search the configured contacts table for names (case-insensitive) or
phone numbers containing the query. Multiple arguments are joined with
spaces. At most 20 contacts are returned.

Examples:
  contactsd search ahmad
  contactsd search 0551 --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, rootOpts, strings.Join(args, " "))
		},
	}
	return cmd
}

func runSearch(cmd *cobra.Command, rootOpts *RootOptions, query string) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
	log := commandLogger(rootOpts, cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backend, err := OpenBackend(ctx, cfg, log)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open contacts table", err)
	}
	defer backend.Close()

	result := service.NewSearchService(backend.Contacts, log).Search(ctx, query)
	formatter.VerboseLog("search %q: status=%s rows=%d", result.Query, result.Status, len(result.Contacts))

	if result.Status == domain.SearchFailed {
		_ = formatter.Error("search_failed", result.Err.Error(), nil)
		return WrapExitError(ExitFailure, "search failed", result.Err)
	}

	out := searchOutput{
		Query:       result.Query,
		Status:      result.Status,
		ResultCount: len(result.Contacts),
		Contacts:    result.Contacts,
	}
	return formatter.Success(out, func(w io.Writer) error {
		return writeSearchText(w, out)
	})
}

func writeSearchText(w io.Writer, out searchOutput) error {
	switch out.Status {
	case domain.SearchEmptyQuery:
		_, err := fmt.Fprintln(w, "enter a name or number to search")
		return err
	case domain.SearchNotFound:
		_, err := fmt.Fprintf(w, "no contacts match %q\n", out.Query)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE")
	for _, c := range out.Contacts {
		id := "-"
		if c.ID != nil {
			id = fmt.Sprint(*c.ID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id, c.Name, c.Phone)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d result(s)\n", out.ResultCount)
	return err
}
