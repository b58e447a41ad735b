package cmd

import (
	"fmt"
	"time"

	"github.com/andrewpaige1/lingodeck-api/auth"
	"github.com/spf13/cobra"
)

var (
	tokenNickname string
	tokenTTL      time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token [subject]",
	Short: "Sign a development token for subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := auth.CreateToken(auth.Options{
			SecretKey: env.JWTSecretKey,
			Issuer:    env.JWTIssuer,
			Audience:  env.JWTAudience,
		}, args[0], tokenNickname, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVarP(&tokenNickname, "nickname", "n", "", "Nickname claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "How long the token stays valid")
}
