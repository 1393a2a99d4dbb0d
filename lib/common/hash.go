package common

import (
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/argon2"
)

// Argon2 parameters for record hashes. Changing any of these changes
// every stored hash, so treat them as part of the data format.
const (
	hashTime    = 3
	hashMemory  = 32 * 1024
	hashThreads = 4
	hashSize    = 32
)

var HashSalt = []byte("agora")

func MakeHash(b []byte) []byte {
	return argon2.Key(b, HashSalt, hashTime, hashMemory, hashThreads, hashSize)
}

// MakeObjectHash hashes the rlp encoding of i; unexported fields stay
// out of the encoding.
func MakeObjectHash(i interface{}) (b []byte, err error) {
	var e []byte
	if e, err = rlp.EncodeToBytes(i); err != nil {
		return
	}

	b = MakeHash(e)

	return
}

func MustMakeObjectHash(i interface{}) (b []byte) {
	b, _ = MakeObjectHash(i)
	return
}
