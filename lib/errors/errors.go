package errors

var (
	StorageRecordDoesNotExist  = NewError(100, "record does not exist in storage")
	StorageRecordAlreadyExists = NewError(101, "record already exists in storage")
	StorageCoreError           = NewError(102, "storage error")
	NotImplemented             = NewError(103, "not implemented")
	ContextValueNotFound       = NewError(104, "value not found in context")

	InvalidMessage            = NewError(105, "invalid message")
	InvalidOperation          = NewError(106, "invalid operation")
	OperationBodyInsufficient = NewError(107, "operation body insufficient")
	InvalidHash               = NewError(108, "invalid hash")
	InvalidSignature          = NewError(109, "invalid signature")

	NotRegistryManager = NewError(110, "caller is not the registry manager")
	NotFactoryManager  = NewError(111, "caller is not the factory manager")
	NotElectionManager = NewError(112, "caller is not the election manager")
	NotEligibleVoter   = NewError(113, "caller is not a registered voter")
	BadPublicAddress   = NewError(114, "failed to parse public address")

	OutsideVotingWindow = NewError(120, "vote is outside the voting window")
	VotingStillOpen     = NewError(121, "voting window has not closed yet")

	ResultsAlreadyPublished = NewError(130, "results have already been published")
	ResultsLengthMismatch   = NewError(131, "results length does not match options")
	VotesAlreadyCast        = NewError(132, "election has already accepted votes")
	ResultsNotPublished     = NewError(133, "results have not been published")

	RegistryNotFound  = NewError(140, "voter registry does not exist")
	FactoryNotFound   = NewError(141, "election factory does not exist")
	ElectionNotFound  = NewError(142, "election does not exist")
	VoterNotFound     = NewError(143, "voter does not exist")
	BallotNotFound    = NewError(144, "ballot does not exist")
	OperationNotFound = NewError(145, "operation does not exist")

	DuplicatedOperation     = NewError(150, "operation already applied")
	InvalidQueryString      = NewError(151, "invalid query string")
	BadRequestParameter     = NewError(152, "bad request parameter")
	PageQueryLimitMaxExceed = NewError(153, "page query limit exceeds maximum")
	InvalidContentType      = NewError(154, "invalid content-type")
	TooManyRequests         = NewError(155, "too many requests")
	OutOfRangeIndex         = NewError(156, "index out of range")
	UnknownOperationType    = NewError(157, "unknown operation type")
	HTTPRouterNotFound      = NewError(158, "http router does not exist")
)

// New makes an uncoded Error for internal invariant violations that callers
// are not expected to match on.
func New(message string) *Error {
	return NewError(0, message)
}
