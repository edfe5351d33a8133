package main

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"ScreenSentinel/internal/notifier"
	"ScreenSentinel/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled screens and answer Telegram commands",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	run, rec, err := buildRunner(ctx)
	if err != nil {
		return err
	}
	defer rec.Close()

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)

	sched := scheduler.NewScheduler(ctx, run, tn, log)
	if err := sched.RegisterAll(cfg.Schedules); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, running every schedule now")
		jobs := sched.Jobs()
		sort.Strings(jobs)
		go func() {
			for _, name := range jobs {
				if err := sched.RunNow(name); err != nil {
					log.Error().Err(err).Str("job", name).Msg("run on start")
				}
			}
		}()
	}

	log.Info().Int("schedules", len(cfg.Schedules)).Msg("ScreenSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	return nil
}
