package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/thomnico/fiches-mots/internal/config"
)

// app carries the loaded configuration to the subcommands
type app struct {
	configPath string
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "fiches",
		Short: "Vocabulary card generator for French preschool classes",
		Long: `Fiches builds printable PDF vocabulary cards: one image per word and the
word written in capitals, script and cursive.

Run the web interface with "fiches serve" or build a document from a word
list with "fiches generate".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if a.configPath == "" {
				a.configPath = os.Getenv("FICHES_CONFIG")
			}
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML configuration file (env: FICHES_CONFIG)")

	// Add subcommands
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newGenerateCmd(a))
	cmd.AddCommand(newWordsCmd(a))

	return cmd
}
