package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/cli/config"
	"github.com/secmon-lab/riskledger/pkg/repository/firestore"
	"github.com/secmon-lab/riskledger/pkg/usecase"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
	"github.com/secmon-lab/riskledger/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var firestoreIndexes bool
	var dryRun bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "firestore-indexes",
			Usage:       "Also migrate Firestore composite indexes (firestore backend only)",
			Sources:     cli.EnvVars("RISKLEDGER_FIRESTORE_INDEXES"),
			Destination: &firestoreIndexes,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Preview index changes without applying",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Persist the normalized form of legacy risks and optionally migrate Firestore indexes",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if firestoreIndexes {
				if repoCfg.Backend() != config.BackendFirestore {
					return goerr.New("--firestore-indexes requires the firestore backend",
						goerr.V("backend", repoCfg.Backend()))
				}
				if err := migrateIndexes(ctx, &repoCfg, dryRun); err != nil {
					return err
				}
				if dryRun {
					return nil
				}
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			migrated, err := usecase.New(repo).Risk.MigrateLegacyRisks(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to migrate legacy risks", goerr.V("migrated", migrated))
			}

			logger.Info("Legacy risks migrated", "migrated", migrated)
			return nil
		},
	}
}

func migrateIndexes(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()

	logger.Info("Migrate configuration",
		"projectID", repoCfg.ProjectID(),
		"databaseID", repoCfg.DatabaseID(),
		"dryRun", dryRun)

	indexConfig := getIndexConfig(repoCfg.CollectionPrefix())

	client, err := fireconf.NewClient(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID())
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close fireconf client", "error", err.Error())
		}
	}()

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		plan, err := client.GetMigrationPlan(ctx, indexConfig)
		if err != nil {
			return goerr.Wrap(err, "failed to create migration plan")
		}

		if len(plan.Steps) == 0 {
			logger.Info("No changes required")
			return nil
		}

		for _, step := range plan.Steps {
			logger.Info("Migration step",
				"collection", step.Collection,
				"operation", step.Operation,
				"description", step.Description,
				"destructive", step.Destructive)
		}
		return nil
	}

	logger.Info("Applying index migrations")
	if err := client.Migrate(ctx, indexConfig); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Index migrations applied successfully")
	return nil
}

// getIndexConfig returns the composite indexes used by risk queries, which
// combine an equality filter with the created_at range of the aging sweep
func getIndexConfig(prefix string) *fireconf.Config {
	byCreatedAt := func(field string) fireconf.Index {
		return fireconf.Index{
			Fields: []fireconf.IndexField{
				{Path: field, Order: fireconf.OrderAscending},
				{Path: "created_at", Order: fireconf.OrderAscending},
			},
		}
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.RisksCollection(prefix),
				Indexes: []fireconf.Index{
					byCreatedAt("department_key"),
					byCreatedAt("owner_id"),
					byCreatedAt("status"),
				},
			},
		},
	}
}
