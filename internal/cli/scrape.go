package cli

import (
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/hockey-pbp/internal/config"
	"github.com/pfrederiksen/hockey-pbp/internal/filter"
	"github.com/pfrederiksen/hockey-pbp/internal/logger"
	"github.com/pfrederiksen/hockey-pbp/internal/metrics"
	"github.com/pfrederiksen/hockey-pbp/internal/pipeline"
	"github.com/pfrederiksen/hockey-pbp/internal/providers/espn"
	"github.com/pfrederiksen/hockey-pbp/internal/providers/statsapi"
	"github.com/pfrederiksen/hockey-pbp/internal/scraper"
	"github.com/pfrederiksen/hockey-pbp/internal/storage"
)

type scrapeOptions struct {
	*rootOptions

	fromManifest string
	events       string
	teams        string
	periods      string
	format       string
	outDir       string
	concurrency  int
	skipAPI      bool
	metricsFile  string
	output       string
	sortOrder    string
	verbose      bool
}

func newScrapeCmd(root *rootOptions) *cobra.Command {
	opts := &scrapeOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "scrape [game-id...]",
		Short: "Reconstruct the play-by-play tables of one or more games",
		Long: `Reconstruct the play-by-play tables of one or more games.
Game ids are ten digits: season start year, game type and game number,
e.g. 2019020001. Each game is written to <out-dir>/<game-id>.csv (or .json)
and the run is summarised in <out-dir>/manifest.json.

Exit code 0 means every game succeeded or was skipped, 2 that some games
failed and 1 that the run could not start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.fromManifest, "from-manifest", "", "Retry the failed and pending games of a previous run's manifest")
	cmd.Flags().StringVar(&opts.events, "events", "", "Keep only these event types, e.g. GOAL,SHOT")
	cmd.Flags().StringVar(&opts.teams, "teams", "", "Keep only events by these team codes, e.g. TOR,MTL")
	cmd.Flags().StringVar(&opts.periods, "periods", "", "Keep only these periods, e.g. 1-3 or OT,SO")
	cmd.Flags().StringVar(&opts.format, "format", "", "Table format: csv or json")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "Output directory for game tables and the manifest")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Games processed at once")
	cmd.Flags().BoolVar(&opts.skipAPI, "skip-api", false, "Take coordinates from the secondary site only")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write run metrics to this file in Prometheus text format")
	cmd.Flags().StringVar(&opts.output, "output", "text", "Summary format: text or json")
	cmd.Flags().StringVar(&opts.sortOrder, "sort", "input", "Summary order: input, id, status or duration")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Show merge statistics and failure reasons")

	return cmd
}

// apply layers the flags the user set over the loaded config.
func (o *scrapeOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = strings.ToLower(o.format)
	}
	if flags.Changed("out-dir") {
		cfg.OutDir = o.outDir
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = o.concurrency
	}
	if flags.Changed("skip-api") {
		cfg.SkipAPI = o.skipAPI
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = o.metricsFile
	}
	return cfg.Validate(cmd.Context())
}

// gameIDs merges the positional ids with the retry list of a manifest,
// keeping first occurrences.
func (o *scrapeOptions) gameIDs(args []string) ([]string, error) {
	ids := append([]string{}, args...)
	if o.fromManifest != "" {
		m, err := storage.LoadManifest(o.fromManifest)
		if err != nil {
			return nil, errors.Wrap(err, "loading manifest")
		}
		ids = append(ids, m.RetryIDs()...)
	}

	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, errors.New("no game ids given (pass ids or --from-manifest)")
	}
	return out, nil
}

// runScrape is the scrape command logic
func runScrape(cmd *cobra.Command, opts *scrapeOptions, args []string) error {
	format := OutputFormat(strings.ToLower(opts.output))
	if format != FormatText && format != FormatJSON {
		return errors.Newf("invalid output: %s (must be 'text' or 'json')", opts.output)
	}
	order := SortOrder(strings.ToLower(opts.sortOrder))
	if !order.valid() {
		return errors.Newf("invalid sort: %s (must be input, id, status or duration)", opts.sortOrder)
	}

	cfg, log, err := opts.load(cmd)
	if err != nil {
		return err
	}
	if err := opts.apply(cmd, cfg); err != nil {
		return err
	}

	ids, err := opts.gameIDs(args)
	if err != nil {
		return err
	}
	rows, err := filter.Parse(opts.events, opts.teams, opts.periods)
	if err != nil {
		return err
	}
	store, err := storage.New(cfg.OutDir)
	if err != nil {
		return errors.Wrap(err, "initializing storage")
	}

	m := metrics.NewManager()
	fc := fetchClient(cfg, log, m.RecordRetry)
	p := pipeline.New(
		scraper.New(fc, cfg.ReportsURL),
		statsapi.New(fc, cfg.StatsAPIURL),
		espn.New(fc, cfg.SiteURL, cfg.ScoreboardTTL),
		pipeline.WithSkipAPI(cfg.SkipAPI),
		pipeline.WithLogger(log),
	)

	w := &gameWriter{store: store, filter: rows, format: cfg.Format, log: log}
	batch := pipeline.NewBatch(p,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(log),
		pipeline.WithMetrics(m),
		pipeline.WithOutcomeHook(w.write),
	)

	log.Debug("starting scrape", logger.Fields{
		"games": len(ids), "out_dir": store.Dir(), "format": cfg.Format, "filter": rows.String(),
	})
	rep, err := batch.Run(cmd.Context(), ids)
	if err != nil {
		return errors.Wrap(err, "running batch")
	}

	manifest := storage.NewManifest(rep)
	for id, werr := range w.writeErrors() {
		manifest.MarkFailed(id, werr)
	}
	manifestPath, err := store.WriteManifest(manifest)
	if err != nil {
		return err
	}
	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		log.Warn("writing metrics", logger.Fields{"reason": err.Error()})
	}

	result := newOutputResult(rep, w, manifestPath, rows)
	sortGames(result.Games, order)
	if err := WriteOutput(cmd.OutOrStdout(), result, format, opts.verbose); err != nil {
		return errors.Wrap(err, "writing output")
	}

	if n := len(manifest.Failed) + len(manifest.Pending); n > 0 {
		return &exitError{code: ExitPartial, err: errors.Newf("%d of %d games did not complete", n, len(ids))}
	}
	return nil
}

// gameWriter writes each successful game as soon as the batch reports it.
type gameWriter struct {
	store  *storage.Store
	filter *filter.Filter
	format string
	log    *logger.Logger

	mu      sync.Mutex
	written map[string]writtenGame
	failed  map[string]error
}

type writtenGame struct {
	path string
	rows int
}

func (w *gameWriter) write(o pipeline.Outcome) {
	if o.Status != pipeline.StatusSuccess || o.Game == nil {
		return
	}
	game := w.filter.Apply(o.Game)
	start := time.Now()
	path, err := w.store.WriteGame(game, w.format)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.log.Error("writing game", logger.Fields{"game_id": o.GameID}, err)
		if w.failed == nil {
			w.failed = make(map[string]error)
		}
		w.failed[o.GameID] = err
		return
	}
	w.log.Debug("wrote game", logger.Fields{
		"game_id": o.GameID, "path": path, "rows": len(game.Records), "took": time.Since(start).String(),
	})
	if w.written == nil {
		w.written = make(map[string]writtenGame)
	}
	w.written[o.GameID] = writtenGame{path: path, rows: len(game.Records)}
}

func (w *gameWriter) writeErrors() map[string]error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failed
}

func (w *gameWriter) lookup(id string) (writtenGame, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written[id], w.failed[id]
}
