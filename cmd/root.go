package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/stepwise/internal/client"
	"github.com/abhisek/stepwise/internal/config"
	"github.com/abhisek/stepwise/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "stepwise",
	Short: "Step-by-step programming and aptitude tutor",
	Long: "Stepwise teaches a topic one step at a time: each step ends with a checkpoint\n" +
		"question and a recap, and practice questions are generated on demand.\n\n" +
		"Run without arguments to open the terminal client, or `stepwise serve` to\n" +
		"run the tutoring service.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STEPWISE_DB env var)")
	rootCmd.PersistentFlags().String("server", "", "Tutoring service base URL (overrides config and STEPWISE_SERVER_URL)")
	rootCmd.PersistentFlags().String("config", "", "Path to client config YAML (default $XDG_CONFIG_HOME/stepwise/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then STEPWISE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadClientConfig reads the client profile and applies --server.
func loadClientConfig(cmd *cobra.Command) (config.Client, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadClient(path)
	if err != nil {
		return config.Client{}, err
	}
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		cfg.ServerURL = s
	}
	return cfg, nil
}

// newClient builds an HTTP client for the profile's server.
func newClient(cfg config.Client) (*client.Client, error) {
	c, err := client.New(cfg.ServerURL,
		client.WithTimeout(cfg.Timeout),
		client.WithUserAgent("stepwise/"+version),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}
