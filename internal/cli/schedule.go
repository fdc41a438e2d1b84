package cli

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/hockey-pbp/internal/logger"
	"github.com/pfrederiksen/hockey-pbp/internal/providers/statsapi"
)

const dateLayout = "2006-01-02"

type scheduleOptions struct {
	*rootOptions

	from    string
	to      string
	output  string
	idsOnly bool
}

func newScheduleCmd(root *rootOptions) *cobra.Command {
	opts := &scheduleOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "List the games played in a date range",
		Long: `List the games played between --from and --to (inclusive, YYYY-MM-DD).
With --ids only the game ids are printed, one per line, ready to pass to scrape.
With --output ics the games are written as an iCalendar document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchedule(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "First date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.to, "to", "", "Last date, YYYY-MM-DD (defaults to --from)")
	cmd.Flags().StringVar(&opts.output, "output", "text", "Output format: text, json or ics")
	cmd.Flags().BoolVar(&opts.idsOnly, "ids", false, "Print only game ids")

	_ = cmd.MarkFlagRequired("from")

	return cmd
}

// dates parses the --from/--to pair.
func (o *scheduleOptions) dates() (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, strings.TrimSpace(o.from))
	if err != nil {
		return time.Time{}, time.Time{}, errors.Newf("invalid --from date %q (want YYYY-MM-DD)", o.from)
	}
	to := from
	if o.to != "" {
		if to, err = time.Parse(dateLayout, strings.TrimSpace(o.to)); err != nil {
			return time.Time{}, time.Time{}, errors.Newf("invalid --to date %q (want YYYY-MM-DD)", o.to)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("--from must not be after --to")
	}
	return from, to, nil
}

// runSchedule is the schedule command logic
func runSchedule(cmd *cobra.Command, opts *scheduleOptions) error {
	format := OutputFormat(strings.ToLower(opts.output))
	if format != FormatText && format != FormatJSON && format != FormatICS {
		return errors.Newf("invalid output: %s (must be 'text', 'json' or 'ics')", opts.output)
	}
	from, to, err := opts.dates()
	if err != nil {
		return err
	}

	cfg, log, err := opts.load(cmd)
	if err != nil {
		return err
	}

	api := statsapi.New(fetchClient(cfg, log, nil), cfg.StatsAPIURL)
	games, err := api.Schedule(cmd.Context(), from, to)
	if err != nil {
		return errors.Wrap(err, "fetching schedule")
	}
	log.Debug("fetched schedule", logger.Fields{"from": opts.from, "to": to.Format(dateLayout), "games": len(games)})

	return writeSchedule(cmd.OutOrStdout(), games, format, opts.idsOnly)
}
