package paillier

import (
	"crypto/rand"
	"encoding/json"
	"encoding/pem"
	"math/big"

	"github.com/roasbeef/go-go-gadget-paillier"

	"boscoin.io/agora/lib/errors"
)

const (
	MinSeedLength = 32

	pemTypePublicKey = "AGORA PAILLIER PUBLIC KEY"
	pemTypeSeed      = "AGORA PAILLIER SEED"
)

// Seed holds the secret material a keypair is derived from.
type Seed struct {
	Bytes []byte
	Bits  int
}

func NewSeed(bits int) (seed Seed, err error) {
	b := make([]byte, MinSeedLength)
	if _, err = rand.Read(b); err != nil {
		return
	}

	seed = Seed{Bytes: b, Bits: bits}
	return
}

func (s Seed) Scheme() (*Paillier, error) {
	return NewFromSeed(s.Bytes, s.Bits)
}

func (s Seed) MarshalPEM() []byte {
	encoded, _ := json.Marshal(map[string]interface{}{
		"seed": s.Bytes,
		"bits": s.Bits,
	})

	return pem.EncodeToMemory(&pem.Block{Type: pemTypeSeed, Bytes: encoded})
}

func ParseSeedPEM(b []byte) (seed Seed, err error) {
	block, _ := pem.Decode(b)
	if block == nil || block.Type != pemTypeSeed {
		err = errors.New("not a paillier seed")
		return
	}

	var decoded struct {
		Seed []byte `json:"seed"`
		Bits int    `json:"bits"`
	}
	if err = json.Unmarshal(block.Bytes, &decoded); err != nil {
		return
	}

	seed = Seed{Bytes: decoded.Seed, Bits: decoded.Bits}
	return
}

// MarshalPublicKeyPEM flattens a public key to the string elections carry as
// their opaque key material. Only the modulus is stored; `G` and `N^2` are
// fixed functions of it.
func MarshalPublicKeyPEM(publicKey *paillier.PublicKey) []byte {
	encoded, _ := json.Marshal(map[string]string{
		"n": publicKey.N.String(),
	})

	return pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: encoded})
}

func ParsePublicKeyPEM(b []byte) (publicKey *paillier.PublicKey, err error) {
	block, _ := pem.Decode(b)
	if block == nil || block.Type != pemTypePublicKey {
		err = errors.New("not a paillier public key")
		return
	}

	var decoded struct {
		N string `json:"n"`
	}
	if err = json.Unmarshal(block.Bytes, &decoded); err != nil {
		return
	}

	n, ok := new(big.Int).SetString(decoded.N, 10)
	if !ok {
		err = errors.New("invalid paillier modulus")
		return
	}

	publicKey = &paillier.PublicKey{
		N:        n,
		G:        new(big.Int).Add(n, big.NewInt(1)),
		NSquared: new(big.Int).Mul(n, n),
	}

	return
}
