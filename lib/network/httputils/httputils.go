package httputils

import (
	"net/http"

	"boscoin.io/agora/lib/errors"
)

// IsEventStream checks request header accept is text/event-stream
func IsEventStream(r *http.Request) bool {
	if r.Header.Get("Accept") == "text/event-stream" {
		return true
	}
	return false
}

var (
	ErrorsToStatus = map[uint]int{
		errors.StorageRecordDoesNotExist.Code:  http.StatusNotFound,
		errors.StorageRecordAlreadyExists.Code: http.StatusConflict,
		errors.NotImplemented.Code:             http.StatusNotImplemented,

		errors.InvalidMessage.Code:            http.StatusBadRequest,
		errors.InvalidOperation.Code:          http.StatusBadRequest,
		errors.OperationBodyInsufficient.Code: http.StatusBadRequest,
		errors.InvalidHash.Code:               http.StatusBadRequest,
		errors.InvalidSignature.Code:          http.StatusBadRequest,

		errors.NotRegistryManager.Code: http.StatusForbidden,
		errors.NotFactoryManager.Code:  http.StatusForbidden,
		errors.NotElectionManager.Code: http.StatusForbidden,
		errors.NotEligibleVoter.Code:   http.StatusForbidden,
		errors.BadPublicAddress.Code:   http.StatusBadRequest,

		errors.OutsideVotingWindow.Code: http.StatusBadRequest,
		errors.VotingStillOpen.Code:     http.StatusBadRequest,

		errors.ResultsAlreadyPublished.Code: http.StatusConflict,
		errors.ResultsLengthMismatch.Code:   http.StatusBadRequest,
		errors.VotesAlreadyCast.Code:        http.StatusConflict,
		errors.ResultsNotPublished.Code:     http.StatusNotFound,

		errors.RegistryNotFound.Code:  http.StatusNotFound,
		errors.FactoryNotFound.Code:   http.StatusNotFound,
		errors.ElectionNotFound.Code:  http.StatusNotFound,
		errors.VoterNotFound.Code:     http.StatusNotFound,
		errors.BallotNotFound.Code:    http.StatusNotFound,
		errors.OperationNotFound.Code: http.StatusNotFound,

		errors.DuplicatedOperation.Code:     http.StatusConflict,
		errors.InvalidQueryString.Code:      http.StatusBadRequest,
		errors.BadRequestParameter.Code:     http.StatusBadRequest,
		errors.PageQueryLimitMaxExceed.Code: http.StatusBadRequest,
		errors.InvalidContentType.Code:      http.StatusBadRequest,
		errors.TooManyRequests.Code:         http.StatusTooManyRequests,
		errors.OutOfRangeIndex.Code:         http.StatusNotFound,
		errors.UnknownOperationType.Code:    http.StatusBadRequest,
	}
)

// StatusCode maps an error to the http status it should be reported with.
// Coded errors without a mapping fall back to 500.
func StatusCode(err error) int {
	if e, ok := err.(*errors.Error); ok {
		if status, ok := ErrorsToStatus[e.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}
