package cmd

import (
	"context"
	"fmt"

	"github.com/confetti-clj/s3-deploy/core/config"
	"github.com/confetti-clj/s3-deploy/core/hash"
	"github.com/confetti-clj/s3-deploy/core/logger"
	"github.com/confetti-clj/s3-deploy/core/manifest"
	"github.com/confetti-clj/s3-deploy/core/storage"
	"github.com/confetti-clj/s3-deploy/core/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var planPrefix string

// planCmd computes and prints the operation plan without executing it.
var planCmd = &cobra.Command{
	Use:   "plan <dir>",
	Short: "Show the operations a sync would perform",
	Long: `Plan diffs a local directory against the bucket and prints the ordered
operation sequence a sync would execute, without mutating anything.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planPrefix, "prefix", "", "Bucket key prefix to deploy under")
	RootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	prefix := planPrefix
	if prefix == "" {
		prefix = cfg.Sync.Prefix
	}

	entries, err := manifest.FromDir(args[0], prefix, hash.New(hash.Algorithm(cfg.Sync.HashAlgorithm)))
	if err != nil {
		return fmt.Errorf("failed to build local manifest: %w", err)
	}

	remote, err := sync.RemoteIndex(ctx, client, cfg.Storage.Bucket, prefix)
	if err != nil {
		return fmt.Errorf("failed to list bucket: %w", err)
	}

	ops, err := sync.Plan(remote, entries)
	if err != nil {
		return fmt.Errorf("failed to plan: %w", err)
	}

	var uploads, updates, deletes, unchanged int
	for _, op := range ops {
		switch op.Kind {
		case sync.OpUpload:
			uploads++
		case sync.OpUpdate:
			updates++
		case sync.OpDelete:
			deletes++
		case sync.OpNone:
			unchanged++
		}
		if op.Kind == sync.OpNone {
			continue
		}
		l.Info("Planned operation",
			zap.String("kind", string(op.Kind)),
			zap.String("key", op.Key),
		)
	}

	l.Info("Plan summary",
		zap.Int("uploads", uploads),
		zap.Int("updates", updates),
		zap.Int("deletes", deletes),
		zap.Int("unchanged", unchanged),
	)
	return nil
}
