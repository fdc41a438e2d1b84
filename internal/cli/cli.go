package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/hockey-pbp/internal/config"
	"github.com/pfrederiksen/hockey-pbp/internal/fetch"
	"github.com/pfrederiksen/hockey-pbp/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitPartial = 2
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = "dev"

// exitError carries a non-default exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "hockey-pbp",
		Short: "Reconstruct NHL play-by-play tables from the league's game reports",
		Long: `A CLI tool to rebuild full play-by-play tables for NHL games.
Combines the HTML game reports with the league API and a secondary site for
rink coordinates, and tracks which players were on the ice for every event.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (or env: "+config.EnvConfigFile+")")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(newScrapeCmd(opts), newScheduleCmd(opts), newVersionCmd())
	return cmd
}

// load reads the configuration and installs the default logger. The
// returned logger writes to stderr.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(cmd.Context(), o.configPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading config")
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	log := logger.New(logger.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr())
	logger.SetDefault(log)
	return cfg, log, nil
}

// fetchClient builds the HTTP client shared by every source. onRetry may be nil.
func fetchClient(cfg *config.Config, log *logger.Logger, onRetry func()) *fetch.Client {
	hook := func(url string, err error, wait time.Duration) {
		log.Warn("retrying request", logger.Fields{"url": url, "wait": wait.String(), "reason": err.Error()})
		if onRetry != nil {
			onRetry()
		}
	}
	return fetch.New(append(cfg.FetchOptions(), fetch.WithRetryHook(hook))...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hockey-pbp %s\n", Version)
		},
	}
}

// Run executes the command line in args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the running batch; games
// already assembled are still written.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	_ = logger.Default().Sync()
	os.Exit(code)
}
