// +build client_integration_tests

package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/agora/lib/client"
	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/operation"
	"boscoin.io/agora/lib/paillier"
)

// TestElectionRoundTrip walks one election from deployment to published
// results: deploy, add candidates, register a voter, vote, revote, close,
// tally, publish.
func TestElectionRoundTrip(t *testing.T) {
	c := newClient()
	registryManager := parseSecret(t, registryManagerSecret)
	factoryManager := parseSecret(t, factoryManagerSecret)

	// a short key keeps the test fast; real elections use DefaultKeyBits
	seed, err := paillier.NewSeed(512)
	require.NoError(t, err)
	scheme, err := seed.Scheme()
	require.NoError(t, err)
	publicKey := string(paillier.MarshalPublicKeyPEM(scheme.PublicKey()))

	start := common.FormatISO8601(time.Now().Add(3 * time.Second))
	submit(t, c, factoryManager, operation.NewCreateElection(
		factoryAddress, "integration election", "round trip", start, 8, publicKey))

	// the newest deployed election of the factory is ours
	ePage, err := c.DeployedElections(factoryAddress,
		client.Q{Key: client.QueryReverse, Value: "true"},
		client.Q{Key: client.QueryLimit, Value: "1"},
	)
	require.NoError(t, err)
	require.Equal(t, 1, len(ePage.Embedded.Records))
	electionAddress := ePage.Embedded.Records[0].Address
	require.Equal(t, "integration election", ePage.Embedded.Records[0].Title)
	require.Equal(t, "CONFIGURING", ePage.Embedded.Records[0].State)

	submit(t, c, factoryManager, operation.NewAddOption(electionAddress, "yes", "approve"))
	submit(t, c, factoryManager, operation.NewAddOption(electionAddress, "no", "reject"))

	options, err := c.Options(electionAddress)
	require.NoError(t, err)
	require.Equal(t, 2, len(options))
	require.Equal(t, "yes", options[0].Name)

	voter := keypair.Random()
	submit(t, c, registryManager, operation.NewRegisterVoter(
		registryAddress, voter.Address(), "round trip voter", ""))

	// voting before the window opens must be refused
	early, err := paillier.EncryptBundle(scheme, 2, 0)
	require.NoError(t, err)
	p := submitExpectProblem(t, c, voter, operation.NewVote(electionAddress, early.Encode()))
	require.Equal(t, 400, p.Status)

	waitState(t, c, electionAddress, "OPEN")

	// watch the ballots while voting
	streamCtx, cancelStream := context.WithCancel(context.Background())
	defer cancelStream()

	var mtx sync.Mutex
	var streamed []client.Ballot
	streamDone := make(chan error, 1)
	go func() {
		streamDone <- c.StreamBallots(streamCtx, electionAddress, nil, func(b client.Ballot) {
			mtx.Lock()
			streamed = append(streamed, b)
			mtx.Unlock()
		})
	}()

	bundle, err := paillier.EncryptBundle(scheme, 2, 0)
	require.NoError(t, err)
	submit(t, c, voter, operation.NewVote(electionAddress, bundle.Encode()))

	ballot, err := c.EncryptedVote(electionAddress, voter.Address())
	require.NoError(t, err)
	require.Equal(t, voter.Address(), ballot.Voter)
	require.Equal(t, bundle.Encode(), ballot.Bundle)

	// a revote replaces the bundle without recounting the voter
	bundle2, err := paillier.EncryptBundle(scheme, 2, 1)
	require.NoError(t, err)
	submit(t, c, voter, operation.NewVote(electionAddress, bundle2.Encode()))

	el, err := c.Election(electionAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(1), el.BallotsCast)

	streamDeadline := time.Now().Add(10 * time.Second)
	for {
		mtx.Lock()
		n := len(streamed)
		mtx.Unlock()
		if n >= 2 {
			break
		}
		if time.Now().After(streamDeadline) {
			t.Fatalf("expected 2 streamed ballots, got %d", n)
		}
		time.Sleep(100 * time.Millisecond)
	}
	cancelStream()
	require.NoError(t, <-streamDone)

	// results stay hidden until published
	_, err = c.Results(electionAddress)
	rp, ok := err.(client.Problem)
	require.True(t, ok)
	require.Equal(t, 404, rp.Status)

	// publishing while the window is open must be refused
	p = submitExpectProblem(t, c, factoryManager,
		operation.NewPublishResults(electionAddress, []uint64{0, 1}))
	require.Equal(t, 400, p.Status)

	waitState(t, c, electionAddress, "CLOSED")

	// the manager decrypts every stored bundle and sums per option
	tally := make([]uint64, 2)
	bPage, err := c.Ballots(electionAddress)
	require.NoError(t, err)
	require.Equal(t, 1, len(bPage.Embedded.Records))
	for _, b := range bPage.Embedded.Records {
		decoded, err := paillier.DecodeBundle(b.Bundle)
		require.NoError(t, err)
		values, err := paillier.DecryptBundle(scheme, decoded)
		require.NoError(t, err)
		require.Equal(t, 2, len(values))
		for i, v := range values {
			tally[i] += v
		}
	}
	require.Equal(t, []uint64{0, 1}, tally)

	submit(t, c, factoryManager, operation.NewPublishResults(electionAddress, tally))

	results, err := c.Results(electionAddress)
	require.NoError(t, err)
	require.Equal(t, tally, results.Results)
	require.Equal(t, uint64(1), results.BallotsCast)

	el, err = c.Election(electionAddress)
	require.NoError(t, err)
	require.Equal(t, "PUBLISHED", el.State)

	// terminal: a second publish is refused
	p = submitExpectProblem(t, c, factoryManager,
		operation.NewPublishResults(electionAddress, tally))
	require.Equal(t, 409, p.Status)
}

func TestOperationHistory(t *testing.T) {
	c := newClient()
	manager := parseSecret(t, registryManagerSecret)
	voter := keypair.Random()

	res := submit(t, c, manager, operation.NewRegisterVoter(
		registryAddress, voter.Address(), "history voter", ""))

	// the same envelope is a duplicate, not a new operation
	_, err := c.Operation(res.Hash)
	require.NoError(t, err)

	oPage, err := c.OperationsBySource(manager.Address(),
		client.Q{Key: client.QueryReverse, Value: "true"},
		client.Q{Key: client.QueryLimit, Value: "1"},
	)
	require.NoError(t, err)
	require.Equal(t, 1, len(oPage.Embedded.Records))
	require.Equal(t, res.Hash, oPage.Embedded.Records[0].Hash)

	// filtering on type drops everything else
	oPage, err = c.OperationsBySource(manager.Address(),
		client.Q{Key: client.QueryType, Value: "vote"},
	)
	require.NoError(t, err)
	for _, op := range oPage.Embedded.Records {
		require.Equal(t, "vote", op.Type)
	}
}
