package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"tagwatch/pkg/auth"
	"tagwatch/pkg/collector"
	"tagwatch/pkg/config"
	"tagwatch/pkg/logger"
	"tagwatch/pkg/store"
	"tagwatch/pkg/twitter"
)

var (
	// Run command flags
	bearerToken string
	storePath   string
	searchCount int
	maxPages    int
	profileName string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a single collection run",
	Long: `Execute one collection run: read the saved search and cursor from the
document store, page through the Twitter search API, format and filter
the results, and persist every new tweet.

Credentials are resolved in order from:
  - The --bearer-token flag
  - A stored credential profile (use 'tagwatch auth login' to store)
  - Environment variables (TAGWATCH_BEARER_TOKEN)
  - Configuration file`,
	Example: `  # Run with the default configuration
  tagwatch run

  # Run against a specific store with a higher page limit
  tagwatch run --store ./tweets.db --max-pages 5

  # Use a specific stored credential profile
  tagwatch run --profile work`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runCollect(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&bearerToken, "bearer-token", "", "Twitter API bearer token")
	runCmd.Flags().StringVar(&storePath, "store", "", "path to the document store database")
	runCmd.Flags().IntVar(&searchCount, "count", 0, "tweets requested per page")
	runCmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum pages to fetch per run")
	runCmd.Flags().StringVarP(&profileName, "profile", "p", "", "use a specific stored credential profile")
}

func runCollect(cmd *cobra.Command, args []string) {
	cfg := loadRunConfig()

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open document store:", err)
		os.Exit(1)
	}
	defer st.Close()

	log := logger.GetLogger()
	client := twitter.NewClient(cfg, log)
	c := collector.New(cfg, client, st, log)

	stats, err := c.Run()
	if err != nil {
		log.WithError(err).Error("Collection run failed")
		fmt.Fprintln(os.Stderr, "Collection run failed:", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"fetched":     stats.Fetched,
		"blacklisted": stats.Blacklisted,
		"saved":       stats.Saved,
		"duplicates":  stats.Duplicates,
		"failed":      stats.Failed,
	}).Info("Collection run completed")

	fmt.Printf("Fetched %d tweets: %d saved, %d duplicates, %d blacklisted, %d failed\n",
		stats.Fetched, stats.Saved, stats.Duplicates, stats.Blacklisted, stats.Failed)
	if stats.LastResultID != "" {
		fmt.Printf("Cursor advanced to %s\n", stats.LastResultID)
	}
}

// loadRunConfig builds the configuration for a collection run, resolving
// credentials from flags, stored profiles and the environment
func loadRunConfig() *config.Config {
	flags := make(map[string]interface{})
	if bearerToken != "" {
		flags["bearer-token"] = bearerToken
	}
	if storePath != "" {
		flags["store"] = storePath
	}
	if searchCount != 0 {
		flags["count"] = searchCount
	}
	if maxPages != 0 {
		flags["max-pages"] = maxPages
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("Tagwatch starting")

	// Stored profiles fill in the token when flags and env did not
	if cfg.Twitter.BearerToken == "" || profileName != "" {
		manager, err := auth.NewManager()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to initialize credential manager:", err)
			os.Exit(1)
		}

		var profile *auth.Profile
		if profileName != "" {
			profile, err = manager.Retrieve(profileName)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Profile not found:", profileName)
				fmt.Fprintln(os.Stderr, "Use 'tagwatch auth list' to see stored profiles")
				os.Exit(1)
			}
		} else {
			profile, _ = manager.RetrieveDefault()
		}

		if profile != nil {
			cfg.Twitter.BearerToken = profile.BearerToken
			log.WithField("profile", profile.Name).Info("Using stored credentials")
		}
	}

	if cfg.Twitter.BearerToken == "" {
		log.Error("No Twitter credentials found")
		fmt.Fprintln(os.Stderr, "No Twitter credentials found")
		fmt.Fprintln(os.Stderr, "\nTo store credentials securely, run:")
		fmt.Fprintln(os.Stderr, "  tagwatch auth login")
		fmt.Fprintln(os.Stderr, "\nOr set the environment variable:")
		fmt.Fprintln(os.Stderr, "  export TAGWATCH_BEARER_TOKEN=your_token")
		os.Exit(1)
	}

	return cfg
}

// openStore opens the document store selected by the configuration
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite", "":
		return store.NewSQLiteStore(cfg.Store.Path)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}
