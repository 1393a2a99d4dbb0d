package key

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/spf13/cobra"

	"boscoin.io/agora/lib/paillier"

	"boscoin.io/agora/cmd/agora/common"
)

var (
	PaillierCmd *cobra.Command

	flagBits int
	flagOut  string
)

func init() {
	PaillierCmd = &cobra.Command{
		Use:   "paillier",
		Short: "Generate paillier keypair for an election",
		Run: func(c *cobra.Command, args []string) {
			if flagBits < 128 {
				common.PrintFlagsError(c, "--bits", fmt.Errorf("too small, %d bits", flagBits))
			}

			seed, err := paillier.NewSeed(flagBits)
			if err != nil {
				common.PrintError(c, err)
			}

			scheme, err := seed.Scheme()
			if err != nil {
				common.PrintError(c, err)
			}

			seedPEM := seed.MarshalPEM()
			publicKeyPEM := paillier.MarshalPublicKeyPEM(scheme.PublicKey())

			if len(flagOut) > 0 {
				if err := ioutil.WriteFile(flagOut, seedPEM, 0600); err != nil {
					common.PrintFlagsError(c, "--out", err)
				}
			} else {
				os.Stdout.Write(seedPEM)
			}

			os.Stdout.Write(publicKeyPEM)
		},
	}

	PaillierCmd.Flags().IntVar(&flagBits, "bits", paillier.DefaultKeyBits, "key size in bits")
	PaillierCmd.Flags().StringVar(&flagOut, "out", flagOut, "write the secret seed pem to this file instead of stdout")
}
