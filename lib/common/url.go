package common

import (
	"strings"

	"boscoin.io/agora/lib/errors"
)

var (
	TrueQueryStringValue  = []string{"true", "yes", "1"}
	FalseQueryStringValue = []string{"false", "no", "0"}
)

// ParseBoolQueryString reads a boolean query parameter; 'true', 'yes'
// and '1' are true, 'false', 'no' and '0' are false, anything else is
// errors.InvalidQueryString.
func ParseBoolQueryString(v string) (yesno bool, err error) {
	lowered := strings.ToLower(v)
	if _, yesno = InStringArray(TrueQueryStringValue, lowered); yesno {
		return
	}
	if _, ok := InStringArray(FalseQueryStringValue, lowered); ok {
		return
	}

	err = errors.InvalidQueryString
	return
}
