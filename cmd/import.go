package cmd

import (
	"fmt"

	"github.com/andrewpaige1/lingodeck-api/config"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/spf13/cobra"
)

var (
	importUser     string
	importNickname string
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a deck file (json, csv or xlsx) for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if importUser == "" {
			return fmt.Errorf("--user is required")
		}
		f, err := services.ReadDeckFile(args[0])
		if err != nil {
			return err
		}

		db, err := config.Connect(env)
		if err != nil {
			return err
		}
		store := services.New(db, env.Location, log)

		user, err := store.SyncUser(cmd.Context(), importUser, importNickname)
		if err != nil {
			return err
		}
		deck, err := store.ImportDeck(cmd.Context(), user.ID, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards to deck %q (%s)\n", len(f.Cards), deck.Name, deck.PublicID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importUser, "user", "u", "", "Subject of the user that will own the deck")
	importCmd.Flags().StringVarP(&importNickname, "nickname", "n", "", "Nickname to give the user if they do not exist yet")
}
