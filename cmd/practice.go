package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/stepwise/internal/api"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Generate practice questions for a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadClientConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyTopicFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		c, err := newClient(cfg)
		if err != nil {
			return err
		}

		session, _ := cmd.Flags().GetString("session")
		resp, err := c.Practice(cmd.Context(), api.PracticeRequest{
			Subject:   cfg.Subject,
			Topic:     cfg.Topic,
			Level:     cfg.Level,
			SessionID: session,
		})
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		showAnswers, _ := cmd.Flags().GetBool("answers")
		fmt.Printf("Session: %s\n\n", resp.SessionID)
		for i, item := range resp.Practice {
			fmt.Printf("%d. [%s] %s\n", i+1, item.Kind, item.Question)
			if showAnswers && item.Answer != "" {
				fmt.Printf("   Answer: %s\n", item.Answer)
			}
		}
		return nil
	},
}

func init() {
	addTopicFlags(practiceCmd)
	practiceCmd.Flags().String("session", "", "Session id from a previous lesson step")
	practiceCmd.Flags().Bool("answers", false, "Show model answers when available")
	practiceCmd.Flags().Bool("json", false, "Print the raw response as JSON")
	_ = practiceCmd.MarkFlagRequired("session")
}
