package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/txnload/internal/adapters/dynamo"
	"github.com/bft-labs/txnload/internal/adapters/fs"
	"github.com/bft-labs/txnload/internal/app"
	"github.com/bft-labs/txnload/internal/cliconfig"
	"github.com/bft-labs/txnload/internal/ports"
	"github.com/bft-labs/txnload/internal/watch"
	"github.com/bft-labs/txnload/pkg/log"
)

const helpDescription = `
Import a JSON file of bank transactions into a DynamoDB table.

Records are written with BatchWriteItem in groups of up to 25. Items the
service leaves unprocessed are resubmitted with exponential backoff until
they are accepted or the retry limit is reached. Numbers are stored as
exact decimals taken from the literal text in the file.

Configuration is read from $HOME/.txnload/config.toml, TXNLOAD_* environment
variables (a .env file in the working directory is loaded first) and flags,
with flags taking precedence.
`

var exampleUsage = strings.TrimSpace(`
  txnload
  txnload --file transactions.json --table Transaction_Information --report run.json
  txnload --endpoint http://localhost:8000 --region us-east-1 --watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	// A missing .env file is normal.
	_ = godotenv.Load()

	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "txnload",
		Short:         "Import bank transactions from a JSON file into DynamoDB",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// TXNLOAD_* override the file but not explicit flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := log.New(log.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
			if err != nil {
				return err
			}
			logger.Info("configuration", log.Any("config", cfg))

			return run(cmd.Context(), cfg, logger.With(log.String("table", cfg.Table)))
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.txnload/config.toml)")
	root.Flags().StringVar(&cfg.File, "file", cfg.File, "JSON file containing an array of transaction records")
	root.Flags().StringVar(&cfg.Table, "table", cfg.Table, "DynamoDB table to write to")

	root.Flags().StringVar(&cfg.Profile, "profile", cfg.Profile, "AWS shared config profile")
	root.Flags().StringVar(&cfg.Region, "region", cfg.Region, "AWS region")
	root.Flags().StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "DynamoDB endpoint override (e.g. DynamoDB Local)")
	root.Flags().IntVar(&cfg.SDKMaxAttempts, "sdk-max-attempts", cfg.SDKMaxAttempts, "attempts per API call made by the AWS SDK retryer (0 keeps the SDK default)")

	root.Flags().IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "put requests per BatchWriteItem call (1..25)")
	root.Flags().IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "resubmissions of unprocessed items per batch (0 = unlimited)")
	root.Flags().DurationVar(&cfg.RetryInitial, "retry-initial", cfg.RetryInitial, "initial backoff before resubmitting unprocessed items")
	root.Flags().DurationVar(&cfg.RetryMax, "retry-max", cfg.RetryMax, "maximum backoff between resubmissions")

	root.Flags().StringVar(&cfg.ReportPath, "report", cfg.ReportPath, "write a JSON run report to this path")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "re-import the file whenever it changes")
	root.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "quiet period after a change before re-importing")
	if err := root.Flags().MarkHidden("debounce"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to hide debounce flag:", err)
	}

	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console or json)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fallback, _ := log.New(log.Options{})
		fallback.Error("txnload", log.Err(err))
		os.Exit(1)
	}
}

// run performs one import and, in watch mode, one more per change of the
// input file until ctx is cancelled.
func run(ctx context.Context, cfg cliconfig.Config, logger log.Logger) error {
	client, err := dynamo.NewClient(ctx, dynamo.Options{
		Profile:     cfg.Profile,
		Region:      cfg.Region,
		Endpoint:    cfg.Endpoint,
		MaxAttempts: cfg.SDKMaxAttempts,
	})
	if err != nil {
		return fmt.Errorf("create dynamodb client: %w", err)
	}

	var reports ports.ReportRepository
	if cfg.ReportPath != "" {
		reports = fs.NewReportFileRepository(cfg.ReportPath)
	}

	pipeline := app.NewPipeline(app.PipelineConfig{
		File:      cfg.File,
		Table:     cfg.Table,
		BatchSize: cfg.BatchSize,
		Retry:     cfg.RetryPolicy(),
	}, dynamo.NewTableWriter(client), reports, logger)

	_, err = pipeline.Run(ctx)
	if !cfg.Watch {
		return err
	}
	if err != nil {
		// Watch mode keeps going so a fixed file is picked up.
		logger.Warn("initial import failed, waiting for changes", log.Err(err))
	}

	w := watch.New(cfg.File, cfg.Debounce, logger)
	err = w.Run(ctx, func(ctx context.Context) {
		if _, err := pipeline.Run(ctx); err != nil {
			logger.Warn("import failed, waiting for changes", log.Err(err))
		}
	})
	if err != nil {
		return err
	}
	logger.Info("received signal, stopping")
	return nil
}
