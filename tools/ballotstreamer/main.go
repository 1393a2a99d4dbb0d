//
// Ballot streamer is a simple utility for tests
//
// It subscribes to the ballot stream of one or more elections, and
// waits for each election to hold a certain number of ballots.
// Once every count is reached, it exits with a 0 status code.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"boscoin.io/agora/lib/client"
)

type Expectation struct {
	election string
	count    uint64
}

// This program expects an uneven number of arguments (>3):
// - the server address (without trailing slash)
// - a pair of election address + ballot count
func main() {
	if len(os.Args) < 4 {
		fmt.Println("ERROR: At least three arguments expected")
		os.Exit(1)
	}

	server := os.Args[1]
	args := os.Args[2:]
	if (len(args) % 2) != 0 {
		fmt.Println("ERROR: Arguments should be <server> <election count>+")
		os.Exit(1)
	}

	var exps []Expectation
	for i := 0; i < len(args); i += 2 {
		count, err := strconv.ParseUint(args[i+1], 10, 64)
		if err != nil {
			fmt.Println("ERROR: ", err)
			os.Exit(1)
		}
		exps = append(exps, Expectation{election: args[i], count: count})
	}

	cli := client.NewClient(server)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(exps))
	for _, exp := range exps {
		exp := exp
		wg.Add(1)
		go func() {
			defer wg.Done()

			streamCtx, done := context.WithCancel(ctx)
			defer done()

			var seen uint64
			handler := func(b client.Ballot) {
				// We log the stream so if something fails, we have
				// a history of what the client saw
				tnow := time.Now()
				fmt.Printf("%02d-%02d-%02d:%s:%s\n",
					tnow.Hour(), tnow.Minute(), tnow.Second(), exp.election, b.Voter)
				seen++
				if seen >= exp.count {
					done()
				}
			}

			if err := cli.StreamBallots(streamCtx, exp.election, nil, handler); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		fmt.Println("ERROR: ", err)
		os.Exit(1)
	}
}
