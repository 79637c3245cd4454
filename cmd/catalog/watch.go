package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/catalog/internal/catalog"
	"github.com/groblegark/catalog/internal/events"
	"github.com/groblegark/catalog/internal/model"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the product list and keep it updated from live events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		rec := catalog.NewReconciler()

		// The snapshot is authoritative until the first event arrives.
		if err := loadSnapshot(ctx, filter, rec); err != nil {
			return apiError(err)
		}
		render(rec)

		natsURL := os.Getenv("CATALOG_NATS_URL")
		if f, _ := cmd.Flags().GetString("nats"); f != "" {
			natsURL = f
		}
		if natsURL != "" {
			return watchEvents(ctx, natsURL, filter, rec)
		}
		return watchPoll(ctx, interval, filter, rec)
	},
}

// watchEvents merges the live event stream into the reconciled list and
// rerenders on change. After a reconnect the snapshot is re-fetched because
// events published during the gap were missed.
func watchEvents(ctx context.Context, natsURL string, filter model.ProductFilter, rec *catalog.Reconciler) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ch := events.NewChannel(natsURL, logger)
	if err := ch.Connect(); err != nil {
		return fmt.Errorf("connecting to event stream: %w", err)
	}
	defer ch.Disconnect()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	stream := ch.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-stream:
			if !ok {
				return nil
			}
			rec.Apply(ev)
		case <-ch.Reconnects():
			if err := loadSnapshot(ctx, filter, rec); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				fmt.Fprintf(os.Stderr, "Error refreshing after reconnect: %v\n", err)
			}
		case <-rec.Changes():
			debounce.Reset(200 * time.Millisecond)
		case <-debounce.C:
			render(rec)
		}
	}
}

// watchPoll re-fetches the snapshot at the given interval when no event
// stream is configured.
func watchPoll(ctx context.Context, interval time.Duration, filter model.ProductFilter, rec *catalog.Reconciler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := loadSnapshot(ctx, filter, rec); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		select {
		case <-rec.Changes():
			render(rec)
		default:
		}
	}
}

func loadSnapshot(ctx context.Context, filter model.ProductFilter, rec *catalog.Reconciler) error {
	snapshot, err := api.FetchSnapshot(ctx, filter)
	if err != nil {
		return err
	}
	rec.Initialize(snapshot)
	return nil
}

func render(rec *catalog.Reconciler) {
	if jsonOutput {
		printJSON(rec.Products())
		return
	}
	fmt.Print("\033[H\033[2J")
	printProductTable(rec.Products())
}

func init() {
	addFilterFlags(watchCmd)
	watchCmd.Flags().String("nats", "", "event stream URL (defaults to CATALOG_NATS_URL)")
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval when no event stream is configured")
}
