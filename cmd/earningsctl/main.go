// Command earningsctl is the earnings calendar operations CLI.
//
// Usage:
//
//	earningsctl watchlist list
//	earningsctl watchlist add NVDA --name "NVIDIA Corporation"
//	earningsctl watchlist remove NVDA
//	earningsctl watchlist reset
//	earningsctl settings get
//	earningsctl settings set --time 07:30 --daily=true --changes=false
//	earningsctl settings reset
//	earningsctl poll
//	earningsctl notify test
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/valeriluca/earnings-calendar/internal/config"
	"github.com/valeriluca/earnings-calendar/internal/db"
	"github.com/valeriluca/earnings-calendar/internal/dispatch"
	"github.com/valeriluca/earnings-calendar/internal/model"
	"github.com/valeriluca/earnings-calendar/internal/provider"
	"github.com/valeriluca/earnings-calendar/internal/scheduler"
	"github.com/valeriluca/earnings-calendar/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "earningsctl",
		Short: "Earnings calendar operations CLI",
	}

	root.AddCommand(watchlistCmd())
	root.AddCommand(settingsCmd())
	root.AddCommand(pollCmd())
	root.AddCommand(notifyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// watchlist command
// --------------------------------------------------------------------------

func watchlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Manage tracked symbols",
	}
	cmd.AddCommand(watchlistListCmd())
	cmd.AddCommand(watchlistAddCmd())
	cmd.AddCommand(watchlistRemoveCmd())
	cmd.AddCommand(watchlistResetCmd())
	return cmd
}

func watchlistListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				entries, err := store.NewWatchlist(pool.Pool).All(ctx)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println("watchlist is empty")
					return nil
				}
				for _, e := range entries {
					fmt.Printf("%-8s %-30s added %s\n", e.Symbol, e.Name, e.AddedAt.Format(model.DateLayout))
				}
				return nil
			})
		},
	}
}

func watchlistAddCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add SYMBOL",
		Short: "Add a symbol to the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				symbol := strings.ToUpper(args[0])
				if err := store.NewWatchlist(pool.Pool).Add(ctx, symbol, name); err != nil {
					return err
				}
				logger.Info("Symbol added", "symbol", symbol)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Company name")
	return cmd
}

func watchlistRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove SYMBOL",
		Short: "Remove a symbol from the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				symbol := strings.ToUpper(args[0])
				if err := store.NewWatchlist(pool.Pool).Remove(ctx, symbol); err != nil {
					return err
				}
				logger.Info("Symbol removed", "symbol", symbol)
				return nil
			})
		},
	}
}

func watchlistResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default starter watchlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := store.NewWatchlist(pool.Pool).Reset(ctx); err != nil {
					return err
				}
				logger.Info("Watchlist reset to defaults")
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// settings command
// --------------------------------------------------------------------------

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage notification settings",
	}
	cmd.AddCommand(settingsGetCmd())
	cmd.AddCommand(settingsSetCmd())
	cmd.AddCommand(settingsResetCmd())
	return cmd
}

func settingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show current notification settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				settings, err := store.NewSettings(pool.Pool).Get(ctx)
				if err != nil {
					return err
				}
				printSettings(settings)
				return nil
			})
		},
	}
}

func settingsSetCmd() *cobra.Command {
	var (
		enabled, daily, changes bool
		notifyTime, timezone    string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update notification settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				settingsStore := store.NewSettings(pool.Pool)
				settings, err := settingsStore.Get(ctx)
				if err != nil {
					return err
				}
				// Only flags the caller passed override stored values.
				if cmd.Flags().Changed("enabled") {
					settings.Enabled = enabled
				}
				if cmd.Flags().Changed("daily") {
					settings.DailyReminderEnabled = daily
				}
				if cmd.Flags().Changed("changes") {
					settings.ChangeDetectionEnabled = changes
				}
				if cmd.Flags().Changed("time") {
					if _, err := time.Parse("15:04", notifyTime); err != nil {
						return fmt.Errorf("invalid --time %q: want HH:MM", notifyTime)
					}
					settings.NotificationTime = notifyTime
				}
				if cmd.Flags().Changed("timezone") {
					if _, err := time.LoadLocation(timezone); err != nil {
						return fmt.Errorf("invalid --timezone %q: %w", timezone, err)
					}
					settings.Timezone = timezone
				}
				if err := settingsStore.Save(ctx, settings); err != nil {
					return err
				}
				printSettings(settings)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&enabled, "enabled", true, "Master notification switch")
	cmd.Flags().BoolVar(&daily, "daily", true, "Daily reminder enabled")
	cmd.Flags().BoolVar(&changes, "changes", true, "Change-detection notifications enabled")
	cmd.Flags().StringVar(&notifyTime, "time", "06:00", "Daily reminder time (HH:MM)")
	cmd.Flags().StringVar(&timezone, "timezone", "UTC", "IANA timezone for the reminder time")
	return cmd
}

func settingsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore default notification settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := store.NewSettings(pool.Pool).Reset(ctx); err != nil {
					return err
				}
				printSettings(model.DefaultSettings())
				return nil
			})
		},
	}
}

func printSettings(s model.NotificationSettings) {
	fmt.Printf("enabled:           %t\n", s.Enabled)
	fmt.Printf("notification time: %s (%s)\n", s.NotificationTime, s.Timezone)
	fmt.Printf("daily reminder:    %t\n", s.DailyReminderEnabled)
	fmt.Printf("change detection:  %t\n", s.ChangeDetectionEnabled)
}

// --------------------------------------------------------------------------
// poll command
// --------------------------------------------------------------------------

func pollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Run one change-detection cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				fetcher, err := provider.New(cfg, logger)
				if err != nil {
					return err
				}
				sched := newScheduler(cfg, pool, fetcher)

				start := time.Now()
				if err := sched.PollOnce(ctx); err != nil {
					return fmt.Errorf("poll cycle: %w", err)
				}
				logger.Info("Poll cycle finished", "duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// notify command
// --------------------------------------------------------------------------

func notifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Notification delivery checks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Send a test notification to every configured surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := newDispatchers(cfg, pool).Show(ctx, "Test Notification",
					"Notifications are working correctly", dispatch.TagTest); err != nil {
					return fmt.Errorf("test notification: %w", err)
				}
				logger.Info("Test notification sent")
				return nil
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// shared wiring
// --------------------------------------------------------------------------

func newDispatchers(cfg *config.Config, pool *db.Pool) dispatch.Multi {
	history := store.NewHistory(pool.Pool)
	subscriptions := store.NewSubscriptions(pool.Pool)
	dispatchers := dispatch.Multi{dispatch.NewLocal(history, logger)}
	if wp := dispatch.NewWebPush(subscriptions, cfg.VAPIDSubscriber,
		cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, logger); wp != nil {
		dispatchers = append(dispatchers, wp)
	}
	return dispatchers
}

func newScheduler(cfg *config.Config, pool *db.Pool, fetcher provider.Fetcher) *scheduler.Scheduler {
	return scheduler.New(fetcher,
		store.NewWatchlist(pool.Pool),
		store.NewSettings(pool.Pool),
		store.NewFingerprint(pool.Pool),
		newDispatchers(cfg, pool),
		logger,
		scheduler.Options{PollInterval: cfg.PollInterval, WindowDays: cfg.FetchWindowDays})
}

// run handles config loading, DB connection, and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
