package cmd

import (
	"github.com/spf13/cobra"

	"boscoin.io/agora/cmd/agora/cmd/key"
)

var (
	keyCmd *cobra.Command
)

func init() {
	keyCmd = &cobra.Command{
		Use:   "key",
		Short: "Keypair management",
		Run: func(c *cobra.Command, args []string) {
			// bare `key` generates, like `key generate` with the defaults
			key.GenerateCmd.Run(c, args)
		},
	}

	keyCmd.AddCommand(key.GenerateCmd)
	keyCmd.AddCommand(key.PaillierCmd)
	rootCmd.AddCommand(keyCmd)
}
