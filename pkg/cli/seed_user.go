package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskledger/pkg/cli/config"
	"github.com/secmon-lab/riskledger/pkg/domain/model"
	"github.com/secmon-lab/riskledger/pkg/domain/types"
	"github.com/secmon-lab/riskledger/pkg/usecase"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
	"github.com/secmon-lab/riskledger/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdSeedUser() *cli.Command {
	var repoCfg config.Repository
	var id, name, email, role, department string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "id",
			Usage:       "User ID as asserted by the auth proxy",
			Required:    true,
			Destination: &id,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Display name",
			Destination: &name,
		},
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Email address",
			Destination: &email,
		},
		&cli.StringFlag{
			Name:        "role",
			Usage:       "Role [user|manager|admin|unit_head]",
			Value:       string(types.RoleUser),
			Destination: &role,
		},
		&cli.StringFlag{
			Name:        "department",
			Usage:       "Department, required for user and manager",
			Destination: &department,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed-user",
		Usage: "Register or update a user",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			parsedRole, err := types.ParseRole(role)
			if err != nil {
				return goerr.Wrap(err, "invalid role")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			user, err := usecase.New(repo).User.RegisterUser(ctx, &model.User{
				ID:         model.UserID(id),
				Name:       name,
				Email:      email,
				Role:       parsedRole,
				Department: department,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to register user")
			}

			logging.Default().Info("User registered",
				"id", user.ID,
				"role", user.Role,
				"department", user.Department)
			return nil
		},
	}
}
