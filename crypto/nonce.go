package crypto

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// The seed for the first chain unit of every message in a session.
type Nonce int64

// ChainBound returns the largest power of two not above the
// modulus. A nonce below this bound keeps every chain unit below the
// modulus, since XOR with a byte can not set any higher bit.
func ChainBound(modulus int64) int64 {
	bound := int64(1)
	for bound <= modulus/2 {
		bound *= 2
	}
	return bound
}

// NewRandomNonce picks a fresh nonce usable with the given modulus.
func NewRandomNonce(modulus int64) Nonce {
	u := uuid.New()
	value := int64(binary.BigEndian.Uint64(u[0:8]) >> 2)
	return Nonce(value % ChainBound(modulus))
}
