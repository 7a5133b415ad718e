package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/riskledger/pkg/cli/config"
	httpctrl "github.com/secmon-lab/riskledger/pkg/controller/http"
	"github.com/secmon-lab/riskledger/pkg/service/worker"
	"github.com/secmon-lab/riskledger/pkg/usecase"
	"github.com/secmon-lab/riskledger/pkg/utils/logging"
	"github.com/secmon-lab/riskledger/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var sweepOnStart bool
	var sweepInterval time.Duration
	var repoCfg config.Repository
	var policyCfg config.Policy

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("RISKLEDGER_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "sweep-on-start",
			Category:    "Aging sweep",
			Usage:       "Run the aging sweep in the background when the server starts",
			Value:       true,
			Sources:     cli.EnvVars("RISKLEDGER_SWEEP_ON_START"),
			Destination: &sweepOnStart,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Category:    "Aging sweep",
			Usage:       "Interval of the periodic aging sweep, 0 disables it",
			Value:       time.Hour,
			Sources:     cli.EnvVars("RISKLEDGER_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
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

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			uc := usecase.New(repo,
				usecase.WithPolicy(policy),
				usecase.WithMetrics(usecase.NewMetrics(reg)),
			)

			var sweepWorker *worker.AgingSweepWorker
			if sweepOnStart || sweepInterval > 0 {
				sweepWorker = worker.NewAgingSweepWorker(uc.Risk, sweepInterval,
					worker.WithStartupSweep(sweepOnStart))
				if err := sweepWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start aging sweep worker")
				}
			}

			server := &http.Server{
				Addr: addr,
				Handler: httpctrl.New(uc,
					httpctrl.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
				),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"repository", repoCfg,
					"policy", policyCfg)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				if sweepWorker != nil {
					sweepWorker.Stop()
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if sweepWorker != nil {
					sweepWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
