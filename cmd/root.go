package cmd

import (
	"fmt"
	"os"

	"github.com/andrewpaige1/lingodeck-api/config"
	"github.com/andrewpaige1/lingodeck-api/logger"
	"github.com/spf13/cobra"
)

var (
	env config.Environment
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lingodeck",
	Short: "Backend for the LingoDeck language learning app",
	Long: `LingoDeck serves flashcard decks with SM-2 review scheduling, goals,
learning paths, typing practice and achievements.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		env, err = config.LoadEnvironment()
		if err != nil {
			return fmt.Errorf("load environment: %w", err)
		}
		log, err = logger.New(env.LogMode)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
