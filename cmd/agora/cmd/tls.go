package cmd

import (
	"os"
	"path/filepath"

	logging "github.com/inconshreveable/log15"
	"github.com/spf13/cobra"

	"boscoin.io/agora/lib/network"

	cmdcommon "boscoin.io/agora/cmd/agora/common"
)

var (
	tlsCmd            *cobra.Command
	flagTLSOutputPath = "."
)

func init() {
	tlsCmd = &cobra.Command{
		Use:   "tls",
		Short: "Generate a self signed tls certificate and key",
		Run: func(c *cobra.Command, args []string) {
			generateTLS()
		},
	}

	tlsCmd.Flags().StringVar(&flagTLSCertFile, "cert", flagTLSCertFile, "tls certificate file name")
	tlsCmd.Flags().StringVar(&flagTLSKeyFile, "key", flagTLSKeyFile, "tls key file name")
	tlsCmd.Flags().StringVar(&flagTLSOutputPath, "output", flagTLSOutputPath, "output directory")

	rootCmd.AddCommand(tlsCmd)
}

func generateTLS() {
	network.NewKeyGenerator(flagTLSOutputPath, flagTLSCertFile, flagTLSKeyFile)

	var err error
	if _, err = os.Stat(flagTLSOutputPath); os.IsNotExist(err) {
		cmdcommon.PrintFlagsError(tlsCmd, "output", err)
	}
	if _, err = os.Stat(filepath.Join(flagTLSOutputPath, flagTLSCertFile)); os.IsNotExist(err) {
		cmdcommon.PrintFlagsError(tlsCmd, "cert", err)
	}
	if _, err = os.Stat(filepath.Join(flagTLSOutputPath, flagTLSKeyFile)); os.IsNotExist(err) {
		cmdcommon.PrintFlagsError(tlsCmd, "key", err)
	}

	log = logging.New("module", "tls")
	log.Info("generated tls certificate and key", "cert", flagTLSCertFile, "key", flagTLSKeyFile, "out", flagTLSOutputPath)
}
