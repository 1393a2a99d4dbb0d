package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/url"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"boscoin.io/agora/lib/client"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/operation"
	"boscoin.io/agora/lib/paillier"

	cmdcommon "boscoin.io/agora/cmd/agora/common"
)

var (
	tallyCmd *cobra.Command

	flagPublish     string
	flagConcurrency int
)

func init() {
	tallyCmd = &cobra.Command{
		Use:   "tally <election address> <paillier seed pem file>",
		Short: "Decrypt the cast ballots and sum the votes per option",
		Args:  cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			electionAddress := args[0]

			pemBytes, err := ioutil.ReadFile(args[1])
			if err != nil {
				cmdcommon.PrintFlagsError(c, "<paillier seed pem file>", err)
			}

			seed, err := paillier.ParseSeedPEM(pemBytes)
			if err != nil {
				cmdcommon.PrintFlagsError(c, "<paillier seed pem file>", err)
			}

			scheme, err := seed.Scheme()
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			var manager keypair.KP
			if len(flagPublish) > 0 {
				if manager, err = keypair.Parse(flagPublish); err != nil {
					cmdcommon.PrintFlagsError(c, "--publish", err)
				} else if _, ok := manager.(*keypair.Full); !ok {
					cmdcommon.PrintFlagsError(c, "--publish", fmt.Errorf("provided key is an address, not a secret seed"))
				}
				if len(flagNetworkID) == 0 {
					cmdcommon.PrintFlagsError(c, "--network-id", errors.New("--network-id must be given"))
				}
			}

			if flagConcurrency < 1 {
				cmdcommon.PrintFlagsError(c, "--concurrency", fmt.Errorf("must be positive, got %d", flagConcurrency))
			}

			cl := client.NewClient(flagEndpoint)

			options, err := cl.Options(electionAddress)
			if err != nil {
				cmdcommon.PrintError(c, fmt.Errorf("could not fetch options: %v", err))
			}

			bundles, err := fetchAllBundles(cl, electionAddress)
			if err != nil {
				cmdcommon.PrintError(c, fmt.Errorf("could not fetch ballots: %v", err))
			}

			tally, err := decryptTally(scheme, bundles, len(options), flagConcurrency)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			fmt.Println("results for", electionAddress)
			var total uint64
			for i, opt := range options {
				fmt.Printf("%4d  %-30s %d\n", i, opt.Name, tally[i])
				total += tally[i]
			}
			fmt.Println("ballots:", len(bundles))

			if total != uint64(len(bundles)) {
				fmt.Fprintf(os.Stderr, "warning: tally sums to %d but %d ballots were cast\n", total, len(bundles))
			}

			if len(flagPublish) > 0 {
				op, err := operation.NewOperation(manager.Address(), operation.NewPublishResults(electionAddress, tally))
				if err != nil {
					cmdcommon.PrintError(c, err)
				}
				op.Sign(manager, []byte(flagNetworkID))

				body, err := op.Serialize()
				if err != nil {
					cmdcommon.PrintError(c, err)
				}

				res, err := cl.SubmitOperation(body)
				if err != nil {
					if p, ok := err.(client.Problem); ok {
						fmt.Fprintf(os.Stderr, "publish rejected: %s\n", p.Error())
						os.Exit(1)
					}
					cmdcommon.PrintError(c, err)
				}

				fmt.Println("results published")
				fmt.Println("    hash:", res.Hash)
				fmt.Println("sequence:", res.Sequence)
			}
		},
	}

	tallyCmd.Flags().StringVar(&flagEndpoint, "endpoint", flagEndpoint, "endpoint to fetch the ballots from")
	tallyCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")
	tallyCmd.Flags().StringVar(&flagPublish, "publish", flagPublish, "sign and submit the results with this manager secret seed")
	tallyCmd.Flags().IntVar(&flagConcurrency, "concurrency", runtime.NumCPU(), "number of decryption workers")

	rootCmd.AddCommand(tallyCmd)
}

// fetchAllBundles pages through the ballots of the election and collects
// the encrypted bundles. The cursor of the next page comes from the `next`
// link the API puts on every page.
func fetchAllBundles(cl *client.Client, electionAddress string) (bundles []string, err error) {
	var cursor string
	for {
		queries := []client.Q{{Key: client.QueryLimit, Value: strconv.Itoa(fetchPageSize)}}
		if len(cursor) > 0 {
			queries = append(queries, client.Q{Key: client.QueryCursor, Value: cursor})
		}

		var page client.BallotsPage
		if page, err = cl.Ballots(electionAddress, queries...); err != nil {
			return nil, err
		}

		if len(page.Embedded.Records) == 0 {
			break
		}

		for _, rec := range page.Embedded.Records {
			bundles = append(bundles, rec.Bundle)
		}

		if cursor, err = nextCursor(page.Links.Next.Href); err != nil {
			return nil, err
		}
		if len(cursor) == 0 {
			break
		}
	}

	return
}

const fetchPageSize = 100

func nextCursor(href string) (string, error) {
	if len(href) == 0 {
		return "", nil
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", err
	}

	return u.Query().Get(client.QueryCursor.String()), nil
}

// decryptTally decrypts every bundle with `workers` goroutines and sums
// the unit vectors per option. A bundle whose length does not match the
// option count stops the whole tally.
func decryptTally(scheme paillier.Scheme, bundles []string, optionCount, workers int) ([]uint64, error) {
	decrypted := make([][]uint64, len(bundles))

	g, ctx := errgroup.WithContext(context.Background())

	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range bundles {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				b, err := paillier.DecodeBundle(bundles[i])
				if err != nil {
					return err
				}

				values, err := paillier.DecryptBundle(scheme, b)
				if err != nil {
					return err
				}
				if len(values) != optionCount {
					return fmt.Errorf("ballot #%d holds %d values, the election has %d options", i, len(values), optionCount)
				}

				decrypted[i] = values
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	tally := make([]uint64, optionCount)
	for _, values := range decrypted {
		for j, v := range values {
			tally[j] += v
		}
	}

	return tally, nil
}
