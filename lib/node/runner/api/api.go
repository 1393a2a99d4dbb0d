package api

import (
	"encoding/json"
	"fmt"

	obs "boscoin.io/agora/lib/common/observer"
	"boscoin.io/agora/lib/election"
	"boscoin.io/agora/lib/network"
	"boscoin.io/agora/lib/node"
	"boscoin.io/agora/lib/node/runner/api/resource"
	"boscoin.io/agora/lib/operation"
	"boscoin.io/agora/lib/storage"
)

const APIVersionV1 = "v1"

// API Endpoint patterns
const (
	GetRegistryHandlerPattern           = "/registries/{id}"
	GetVoterHandlerPattern              = "/registries/{id}/voters/{address}"
	GetFactoryHandlerPattern            = "/factories/{id}"
	GetElectionsByFactoryHandlerPattern = "/factories/{id}/elections"
	GetElectionHandlerPattern           = "/elections/{id}"
	GetElectionOptionsHandlerPattern    = "/elections/{id}/options"
	GetBallotsByElectionHandlerPattern  = "/elections/{id}/ballots"
	GetBallotByVoterHandlerPattern      = "/elections/{id}/ballots/{address}"
	GetElectionResultsHandlerPattern    = "/elections/{id}/results"
	GetOperationsHandlerPattern         = "/operations"
	GetOperationByHashHandlerPattern    = "/operations/{id}"
	GetAccountOperationsHandlerPattern  = "/accounts/{id}/operations"
	PostOperationPattern                = "/operations"
	GetNodeInfoPattern                  = "/"
	PostSubscribePattern                = "/subscribe"
)

type NetworkHandlerAPI struct {
	localNode *node.LocalNode
	network   *network.HTTP2Network
	storage   *storage.LevelDBBackend
	urlPrefix string
	version   string
	nodeInfo  node.NodeInfo

	// Both are set by the runner after construction; `GetNodeStats` reads
	// live counters for the node info endpoint and `ApplyOperation` runs a
	// submitted operation through the apply pipeline.
	GetNodeStats   func() node.NodeStats
	ApplyOperation func(operation.Operation) (*operation.Record, error)
}

func NewNetworkHandlerAPI(localNode *node.LocalNode, network *network.HTTP2Network, storage *storage.LevelDBBackend, urlPrefix string, nodeInfo node.NodeInfo) *NetworkHandlerAPI {
	return &NetworkHandlerAPI{
		localNode: localNode,
		network:   network,
		storage:   storage,
		urlPrefix: urlPrefix,
		version:   APIVersionV1,
		nodeInfo:  nodeInfo,
	}
}

func (api NetworkHandlerAPI) HandlerURLPattern(pattern string) string {
	return fmt.Sprintf("%s/%s%s", api.urlPrefix, api.version, pattern)
}

func renderEventStream(args ...interface{}) ([]byte, error) {
	if len(args) <= 1 {
		return nil, fmt.Errorf("render: value is empty")
	}
	i := args[1]

	if i == nil {
		return []byte{}, nil
	}

	switch v := i.(type) {
	case *election.Voter:
		r := resource.NewVoter(v)
		return json.Marshal(r.Resource())
	case *election.Election:
		r := resource.NewElection(v)
		return json.Marshal(r.Resource())
	case *election.Ballot:
		r := resource.NewBallot(v)
		return json.Marshal(r.Resource())
	case *operation.Record:
		r := resource.NewOperation(v)
		return json.Marshal(r.Resource())
	}

	return json.Marshal(i)
}

// TriggerEvent feeds the subscribe observer after an operation commits. The
// affected records are read back from the committed storage so subscribers
// never see state that an aborted apply produced.
func TriggerEvent(st *storage.LevelDBBackend, rd *operation.Record) {
	var (
		t  = obs.ResourceObserver.Trigger
		ev = obs.NewEvent
	)

	t(ev(obs.ResourceOperation, obs.ConditionAll, "").String(), rd)
	t(ev(obs.ResourceOperation, obs.ConditionOpHash, rd.Hash).String(), rd)
	t(ev(obs.ResourceOperation, obs.ConditionSource, rd.Source).String(), rd)
	t(ev(obs.ResourceOperation, obs.ConditionType, string(rd.Type)).String(), rd)

	triggerElection := func(address string) *election.Election {
		el, err := election.GetElection(st, address)
		if err != nil {
			return nil
		}
		t(ev(obs.ResourceElection, obs.ConditionAll, "").String(), el)
		t(ev(obs.ResourceElection, obs.ConditionAddress, el.Address).String(), el)
		t(ev(obs.ResourceElection, obs.ConditionFactory, el.Factory).String(), el)
		return el
	}

	switch body := rd.Operation.B.Data.(type) {
	case operation.RegisterVoter:
		vt, err := election.GetVoter(st, body.Registry, body.Address)
		if err != nil {
			return
		}
		t(ev(obs.ResourceVoter, obs.ConditionAll, "").String(), vt)
		t(ev(obs.ResourceVoter, obs.ConditionAddress, vt.Address).String(), vt)
		t(ev(obs.ResourceVoter, obs.ConditionRegistry, vt.Registry).String(), vt)
	case operation.UnregisterVoter:
		vt, err := election.GetVoter(st, body.Registry, body.Address)
		if err != nil {
			return
		}
		t(ev(obs.ResourceVoter, obs.ConditionAll, "").String(), vt)
		t(ev(obs.ResourceVoter, obs.ConditionAddress, vt.Address).String(), vt)
		t(ev(obs.ResourceVoter, obs.ConditionRegistry, vt.Registry).String(), vt)
	case operation.CreateElection:
		// the handle of the new election is not part of the operation body;
		// it is the last entry of the factory's deployed index
		fa, err := election.GetFactory(st, body.Factory)
		if err != nil || fa.ElectionCount < 1 {
			return
		}
		address, err := election.GetDeployedElection(st, fa.Address, fa.ElectionCount-1)
		if err != nil {
			return
		}
		triggerElection(address)
	case operation.AddOption:
		triggerElection(body.Election)
	case operation.PublishResults:
		triggerElection(body.Election)
	case operation.Vote:
		triggerElection(body.Election)

		bt, err := election.GetBallot(st, body.Election, rd.Source)
		if err != nil {
			return
		}
		t(ev(obs.ResourceBallot, obs.ConditionAll, "").String(), bt)
		t(ev(obs.ResourceBallot, obs.ConditionElection, bt.Election).String(), bt)
		t(ev(obs.ResourceBallot, obs.ConditionAddress, bt.Voter).String(), bt)
	}
}
