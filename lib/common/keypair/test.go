// Test helpers; not for production use.
package keypair

import (
	stellar "github.com/stellar/go/keypair"
)

// Random returns a fresh keypair and panics when the entropy source
// fails. Production code uses RandomCanFail.
func Random() *Full {
	kp, err := stellar.Random()
	if err != nil {
		panic(err)
	}
	return kp
}
