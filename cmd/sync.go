package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/confetti-clj/s3-deploy/core/config"
	"github.com/confetti-clj/s3-deploy/core/hash"
	"github.com/confetti-clj/s3-deploy/core/logger"
	"github.com/confetti-clj/s3-deploy/core/manifest"
	"github.com/confetti-clj/s3-deploy/core/storage"
	"github.com/confetti-clj/s3-deploy/core/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncPrefix      string
	syncPrune       bool
	syncDryRun      bool
	syncConcurrency int
	yesConfirm      bool
)

// syncCmd reconciles a local directory with the configured bucket.
var syncCmd = &cobra.Command{
	Use:   "sync <dir>",
	Short: "Upload changed files and optionally prune removed ones",
	Long: `Sync reconciles the bucket with a local directory.

Local files are fingerprinted and compared against the bucket listing.
New files are uploaded, changed files are updated, and with --prune remote
objects with no local counterpart are deleted. Deletions always run after
every upload has completed.

Examples:
  # Upload what changed, leave extra remote objects alone
  s3-deploy sync ./public

  # Show what would happen without touching the bucket
  s3-deploy sync ./public --dry-run

  # Full reconcile including deletions (with interactive confirmation)
  s3-deploy sync ./public --prune

  # Non-interactive prune
  s3-deploy sync ./public --prune --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncPrefix, "prefix", "", "Bucket key prefix to deploy under")
	syncCmd.Flags().BoolVar(&syncPrune, "prune", false, "Delete remote objects absent from the local directory")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report operations without mutating the bucket")
	syncCmd.Flags().IntVar(&syncConcurrency, "concurrency", 0, "Parallel uploads (0 = config default)")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	l = logger.WithRunID(l, logger.NewRunID())

	opts := buildOptions(cfg, l)

	// Prune deletes data; require confirmation unless --yes or dry-run.
	if opts.Prune && !opts.DryRun {
		if !confirmDestructiveAction() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	entries, err := manifest.FromDir(args[0], prefixOrDefault(cfg), hash.New(hash.Algorithm(cfg.Sync.HashAlgorithm)))
	if err != nil {
		return fmt.Errorf("failed to build local manifest: %w", err)
	}

	l.Info("Starting sync",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("dir", args[0]),
		zap.Int("files", len(entries)),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("prune", opts.Prune),
	)

	ex := sync.NewExecutor(client, cfg.Storage.Bucket, l)
	res, err := ex.Sync(ctx, entries, prefixOrDefault(cfg), opts)
	if res != nil {
		printSyncResult(l, res)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if opts.DryRun {
		l.Info("Dry-run mode: No changes were made.")
	}
	return nil
}

func buildOptions(cfg *config.Config, l *zap.Logger) sync.Options {
	concurrency := cfg.Sync.Concurrency
	if syncConcurrency > 0 {
		concurrency = syncConcurrency
	}
	return sync.Options{
		DryRun:      syncDryRun || cfg.Sync.DryRun,
		Prune:       syncPrune || cfg.Sync.Prune,
		Concurrency: concurrency,
		Report: func(op sync.Operation) {
			l.Info("Planned operation",
				zap.String("kind", string(op.Kind)),
				zap.String("key", op.Key),
			)
		},
	}
}

func prefixOrDefault(cfg *config.Config) string {
	if syncPrefix != "" {
		return syncPrefix
	}
	return cfg.Sync.Prefix
}

// printSyncResult prints the per-category outcome of a run using the logger.
func printSyncResult(l *zap.Logger, res *sync.Result) {
	l.Info("Sync result",
		zap.Int("uploaded", len(res.Uploaded)),
		zap.Int("updated", len(res.Updated)),
		zap.Int("deleted", len(res.Deleted)),
		zap.Int("unchanged", len(res.Unchanged)),
	)
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
