package resource

const (
	APIVersionV1 = "/v1"
	APIPrefix    = "/api"

	URLRegistries        = APIPrefix + APIVersionV1 + "/registries/{id}"
	URLVoters            = APIPrefix + APIVersionV1 + "/registries/{id}/voters/{address}"
	URLFactories         = APIPrefix + APIVersionV1 + "/factories/{id}"
	URLFactoryElections  = APIPrefix + APIVersionV1 + "/factories/{id}/elections"
	URLElections         = APIPrefix + APIVersionV1 + "/elections/{id}"
	URLElectionOptions   = APIPrefix + APIVersionV1 + "/elections/{id}/options"
	URLElectionBallots   = APIPrefix + APIVersionV1 + "/elections/{id}/ballots"
	URLElectionResults   = APIPrefix + APIVersionV1 + "/elections/{id}/results"
	URLBallotByVoter     = APIPrefix + APIVersionV1 + "/elections/{id}/ballots/{address}"
	URLOperations        = APIPrefix + APIVersionV1 + "/operations"
	URLOperationByHash   = APIPrefix + APIVersionV1 + "/operations/{id}"
	URLAccountOperations = APIPrefix + APIVersionV1 + "/accounts/{id}/operations"
)
