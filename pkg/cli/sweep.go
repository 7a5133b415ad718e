package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/cli/config"
	"github.com/secmon-lab/riskledger/pkg/usecase"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
	"github.com/secmon-lab/riskledger/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdSweep() *cli.Command {
	var repoCfg config.Repository
	var policyCfg config.Policy

	var flags []cli.Flag
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:  "sweep",
		Usage: "Run one aging sweep, moving old unresolved risks to Existing",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			policy, err := policyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load policy")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			aged, err := usecase.New(repo, usecase.WithPolicy(policy)).Risk.RunAgingSweep(ctx)
			if err != nil {
				return goerr.Wrap(err, "aging sweep failed")
			}

			logging.Default().Info("Aging sweep finished", "aged", aged)
			return nil
		},
	}
}
