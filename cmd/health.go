package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/stepwise/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the tutoring service and its version compatibility",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadClientConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		c, err := newClient(cfg)
		if err != nil {
			return err
		}

		h, err := c.Health(cmd.Context())
		if err != nil {
			return err
		}

		provider := h.Provider
		if !h.LLMConfigured {
			provider = "none (offline content)"
		}
		fmt.Printf("Server:    %s\n", c.BaseURL())
		fmt.Printf("Status:    %s\n", h.Status)
		fmt.Printf("Version:   %s\n", h.Version)
		fmt.Printf("LLM:       %s\n", provider)
		if h.Message != "" {
			fmt.Printf("Message:   %s\n", h.Message)
		}

		if err := client.CheckCompatible(version, h.Version); err != nil {
			return err
		}
		if client.Newer(version, h.Version) {
			fmt.Printf("\nThe server runs a newer version (%s) than this client (%s).\n", h.Version, version)
		}
		return nil
	},
}
