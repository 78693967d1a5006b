package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"tagwatch/pkg/collector"
	"tagwatch/pkg/logger"
	"tagwatch/pkg/twitter"
)

var (
	// Watch command flags
	schedule string
	runNow   bool
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run collection on a schedule",
	Long: `Run collection runs on a recurring schedule until interrupted.

The schedule accepts standard cron expressions as well as the
@every shorthand, for example "@every 15m" or "0 * * * *".
Overlapping runs are skipped: if a run is still in flight when the
next tick fires, that tick is dropped.`,
	Example: `  # Collect every fifteen minutes
  tagwatch watch --schedule "@every 15m"

  # Collect at the top of every hour, running once immediately
  tagwatch watch --schedule "0 * * * *" --now`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runWatch(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&schedule, "schedule", "@every 15m", "cron expression or @every interval")
	watchCmd.Flags().BoolVar(&runNow, "now", false, "run a collection immediately before the first tick")

	watchCmd.Flags().StringVar(&bearerToken, "bearer-token", "", "Twitter API bearer token")
	watchCmd.Flags().StringVar(&storePath, "store", "", "path to the document store database")
	watchCmd.Flags().IntVar(&searchCount, "count", 0, "tweets requested per page")
	watchCmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum pages to fetch per run")
	watchCmd.Flags().StringVarP(&profileName, "profile", "p", "", "use a specific stored credential profile")
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg := loadRunConfig()

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open document store:", err)
		os.Exit(1)
	}
	defer st.Close()

	log := logger.GetLogger()
	client := twitter.NewClient(cfg, log)

	runOnce := func() {
		// A fresh collector per run so reference data is re-read from
		// the store every time
		stats, err := collector.New(cfg, client, st, log).Run()
		if err != nil {
			log.WithError(err).Error("Scheduled collection run failed")
			return
		}
		log.WithFields(map[string]interface{}{
			"fetched":    stats.Fetched,
			"saved":      stats.Saved,
			"duplicates": stats.Duplicates,
			"failed":     stats.Failed,
		}).Info("Scheduled collection run completed")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, runOnce); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid schedule:", err)
		os.Exit(1)
	}

	if runNow {
		runOnce()
	}

	log.WithField("schedule", schedule).Info("Watch started")
	c.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down, waiting for running jobs")
	ctx := c.Stop()
	<-ctx.Done()
}
