// Package events streams subscription events published on Redis.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orris-inc/proxypanel/internal/infrastructure/pubsub"
	"github.com/orris-inc/proxypanel/internal/interfaces/cli/bootstrap"
)

var (
	env        string
	eventTypes []string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Subscription event tools",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.AddCommand(newTailCommand())

	return cmd
}

func newTailCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print subscription events as JSON lines until interrupted",
		RunE:  runTail,
	}

	cmd.Flags().StringSliceVarP(&eventTypes, "type", "t", nil, "Only print these event types")

	return cmd
}

func runTail(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(env)
	if err != nil {
		return err
	}

	redisClient, err := bootstrap.OpenRedis(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := pubsub.NewRedisSubscriptionEventBus(redisClient, cfg.Subscription.EventChannel, log)
	err = bus.Subscribe(ctx, NewPrinter(os.Stdout, eventTypes), nil)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("event stream failed: %w", err)
	}
	return nil
}

// NewPrinter writes each envelope whose type is in types (all when empty) as
// one JSON line. Handlers run concurrently, so writes are serialised.
func NewPrinter(w io.Writer, types []string) pubsub.SubscriptionEventHandler {
	var mu sync.Mutex
	enc := json.NewEncoder(w)

	return func(_ context.Context, envelope pubsub.EventEnvelope) {
		if len(types) > 0 && !slices.Contains(types, envelope.EventType) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		_ = enc.Encode(envelope)
	}
}
