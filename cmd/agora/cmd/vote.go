package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"boscoin.io/agora/lib/client"
	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/election"
	"boscoin.io/agora/lib/operation"
	"boscoin.io/agora/lib/paillier"

	cmdcommon "boscoin.io/agora/cmd/agora/common"
)

var (
	voteCmd *cobra.Command

	flagEndpoint string = common.GetENVValue("AGORA_NODE", "https://127.0.0.1:12345")
	flagChoice   int
)

func init() {
	voteCmd = &cobra.Command{
		Use:   "vote <election address> <voter secret seed>",
		Short: "Encrypt a choice and submit it as a vote",
		Args:  cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			var err error
			var voter keypair.KP

			electionAddress := args[0]

			if voter, err = keypair.Parse(args[1]); err != nil {
				cmdcommon.PrintFlagsError(c, "<voter secret seed>", err)
			} else if _, ok := voter.(*keypair.Full); !ok {
				cmdcommon.PrintFlagsError(c, "<voter secret seed>", fmt.Errorf("provided key is an address, not a secret seed"))
			}

			if len(flagNetworkID) == 0 {
				cmdcommon.PrintFlagsError(c, "--network-id", errors.New("--network-id must be given"))
			}

			cl := client.NewClient(flagEndpoint)

			var el client.Election
			if el, err = cl.Election(electionAddress); err != nil {
				cmdcommon.PrintError(c, fmt.Errorf("could not fetch election: %v", err))
			}

			// The node rechecks the window on submit; this only saves the
			// voter an encryption that cannot land.
			if el.State != election.StateOPEN.String() {
				fmt.Fprintf(os.Stderr, "election is not open for voting (state %s)\n", el.State)
				os.Exit(1)
			}

			var options []client.Option
			if options, err = cl.Options(electionAddress); err != nil {
				cmdcommon.PrintError(c, fmt.Errorf("could not fetch options: %v", err))
			}

			if flagChoice < 0 || flagChoice >= len(options) {
				cmdcommon.PrintFlagsError(c, "--choice",
					fmt.Errorf("choice out of range, the election has %d options", len(options)))
			}

			publicKey, err := paillier.ParsePublicKeyPEM([]byte(el.PublicKey))
			if err != nil {
				cmdcommon.PrintError(c, fmt.Errorf("election carries a bad public key: %v", err))
			}

			bundle, err := paillier.EncryptBundle(paillier.NewEncryptOnly(publicKey), len(options), flagChoice)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			op, err := operation.NewOperation(voter.Address(), operation.NewVote(electionAddress, bundle.Encode()))
			if err != nil {
				cmdcommon.PrintError(c, err)
			}
			op.Sign(voter, []byte(flagNetworkID))

			body, err := op.Serialize()
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			res, err := cl.SubmitOperation(body)
			if err != nil {
				if p, ok := err.(client.Problem); ok {
					fmt.Fprintf(os.Stderr, "vote rejected: %s\n", p.Error())
					os.Exit(1)
				}
				cmdcommon.PrintError(c, err)
			}

			fmt.Printf("voted '%s', choice %d of %d\n", options[flagChoice].Name, flagChoice, len(options))
			fmt.Println("    hash:", res.Hash)
			fmt.Println("sequence:", res.Sequence)
		},
	}

	voteCmd.Flags().IntVar(&flagChoice, "choice", 0, "index of the option to vote for")
	voteCmd.Flags().StringVar(&flagEndpoint, "endpoint", flagEndpoint, "endpoint to send the operation to")
	voteCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")
	voteCmd.MarkFlagRequired("choice")

	rootCmd.AddCommand(voteCmd)
}
