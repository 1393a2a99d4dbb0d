package election

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"boscoin.io/agora/lib/common"
)

// NewHandle makes the stable identifier of a freshly created record. The
// unique id keeps two otherwise identical records apart.
func NewHandle(kind string, parts ...string) string {
	seed := fmt.Sprintf("%s:%s", kind, common.GetUniqueIDFromUUID())
	for _, p := range parts {
		seed += ":" + p
	}

	return base58.Encode(common.MakeHash([]byte(seed)))
}
