// Package worker runs the background subscription jobs without the HTTP API.
package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/proxypanel/internal/infrastructure/database"
	httpRouter "github.com/orris-inc/proxypanel/internal/interfaces/http"
	"github.com/orris-inc/proxypanel/internal/interfaces/cli/bootstrap"
)

const shutdownTimeout = 30 * time.Second

var (
	env  string
	once bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run background subscription jobs",
		Long: `Run expiry, auto-renewal, traffic flush and status snapshot jobs on their
configured intervals. With --once every job runs a single time and the
command exits, which suits an external cron.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&once, "once", false, "Run every job once and exit")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, log, err := bootstrap.InitWithDatabase(env)
	if err != nil {
		return err
	}
	defer database.Close()

	redisClient, err := bootstrap.OpenRedis(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	container, err := httpRouter.NewContainer(database.Get(), redisClient, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	if once {
		log.Infow("running subscription jobs once", "environment", env)
		runErr = container.Scheduler().RunOnce(ctx)
	} else {
		log.Infow("starting subscription worker", "environment", env)
		container.Scheduler().Start()
		<-ctx.Done()
		log.Infow("received signal, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Errorw("worker shutdown incomplete", "error", err)
	}

	log.Infow("subscription worker stopped")
	return runErr
}
