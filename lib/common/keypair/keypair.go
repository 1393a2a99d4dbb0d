// Wraps Stellar's keypair package with the few conveniences the rest
// of the module needs. Seeds and addresses use Stellar's strkey form:
// S... for secret seeds, G... for public addresses.
package keypair

import (
	stellar "github.com/stellar/go/keypair"
)

type Full = stellar.Full
type KP = stellar.KP

var (
	Master        = stellar.Master
	Parse         = stellar.Parse
	RandomCanFail = stellar.Random
)

// MakeSignature signs the hash bound to the network id, so a
// signature made for one network never verifies on another.
func MakeSignature(kp KP, networkID []byte, hash string) ([]byte, error) {
	return kp.Sign(append(networkID, []byte(hash)...))
}
