package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/stepwise/internal/app"
)

// runApp loads the client profile and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadClientConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	return app.Run(app.Options{
		Remote:  c,
		Config:  cfg.TutorConfig(),
		Timeout: cfg.Timeout,
	})
}
