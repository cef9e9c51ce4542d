package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/stepwise/internal/api"
	"github.com/abhisek/stepwise/internal/config"
	"github.com/abhisek/stepwise/internal/tutor"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Request a single lesson step",
	Long: "Request one lesson step and print it. Pass --session to continue an existing\n" +
		"session, --answer to reply to the previous checkpoint question.",
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
		answer, _ := cmd.Flags().GetString("answer")
		confused, _ := cmd.Flags().GetBool("confused")

		resp, err := c.LessonStep(cmd.Context(), api.LessonStepRequest{
			Subject:        cfg.Subject,
			Topic:          cfg.Topic,
			Level:          cfg.Level,
			SessionID:      session,
			LastAnswer:     answer,
			Confusion:      confused,
			Misconceptions: cfg.Misconceptions,
		})
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		fmt.Printf("Session: %s\n\n", resp.SessionID)
		fmt.Println(tutor.FormatStep(resp.Step, resp.CheckpointQuestion, resp.Recap))
		return nil
	},
}

func init() {
	addTopicFlags(lessonCmd)
	lessonCmd.Flags().String("session", "", "Continue this session id")
	lessonCmd.Flags().String("answer", "", "Answer to the previous checkpoint question")
	lessonCmd.Flags().Bool("confused", false, "Ask for the step to be re-explained")
	lessonCmd.Flags().StringSlice("misconception", nil, "Known misconception to address (repeatable)")
	lessonCmd.Flags().Bool("json", false, "Print the raw response as JSON")
}

// addTopicFlags registers the subject/topic/level overrides on cmd.
func addTopicFlags(cmd *cobra.Command) {
	cmd.Flags().String("subject", "", "Subject (Java, Logical Reasoning, Aptitude, Data Structures, Full Stack Development)")
	cmd.Flags().String("topic", "", "Topic to study")
	cmd.Flags().String("level", "", "Level (beginner, intermediate)")
}

// applyTopicFlags overlays any set topic flags on cfg.
func applyTopicFlags(cmd *cobra.Command, cfg *config.Client) {
	if v, _ := cmd.Flags().GetString("subject"); v != "" {
		cfg.Subject = v
	}
	if v, _ := cmd.Flags().GetString("topic"); v != "" {
		cfg.Topic = v
	}
	if v, _ := cmd.Flags().GetString("level"); v != "" {
		cfg.Level = v
	}
	if cmd.Flags().Lookup("misconception") != nil {
		if v, _ := cmd.Flags().GetStringSlice("misconception"); len(v) > 0 {
			cfg.Misconceptions = v
		}
	}
}
