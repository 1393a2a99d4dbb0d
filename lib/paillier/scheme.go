//
// Package paillier provides the homomorphic capability the election core
// treats as opaque: encrypt a small plaintext against a public key, decrypt
// with the private counterpart and combine two ciphertexts additively.
//
// The node itself never calls into this package; ballots stay opaque strings
// on the wire and in storage. The `vote` and `tally` commands and the tests
// are the consumers.
//
package paillier

import (
	"math/big"
)

type Scheme interface {
	Name() string
	KeyBits() int

	Encrypt(value *big.Int) ([]byte, error)
	Decrypt(ciphertext []byte) (*big.Int, error)
	Add(ciphertext1, ciphertext2 []byte) ([]byte, error)
}
