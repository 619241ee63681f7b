package crypto

import (
	"fmt"

	"github.com/go-errors/errors"
)

// ChainEncrypt mixes a plaintext byte with the chaining seed.
func ChainEncrypt(b byte, seed int64) int64 {
	return int64(b) ^ seed
}

// ChainDecrypt is the inverse of ChainEncrypt. XOR is its own
// inverse so only the low byte of the result is significant.
func ChainDecrypt(unit int64, seed int64) byte {
	return byte(unit ^ seed)
}

// EncryptMessage encrypts a single message for the holder of the
// private half of key.
//
// The chain always starts at the session nonce, never at the tail of
// the previous message. Each following byte is chained against the
// previous chain unit (the value before exponentiation).
func EncryptMessage(plain []byte, key PublicKey, nonce Nonce) []int64 {
	result := make([]int64, 0, len(plain))
	seed := int64(nonce)

	for _, b := range plain {
		chain_unit := ChainEncrypt(b, seed)
		result = append(result, ModExp(chain_unit, key.Exponent, key.Modulus))
		seed = chain_unit
	}

	bytesEncryptedCounter.Add(float64(len(plain)))
	return result
}

// DecryptMessage reverses EncryptMessage using the private exponent.
// A damaged unit garbles its own byte and the byte after it, the
// seed is taken from the received unit so recovery resumes after
// that.
func DecryptMessage(units []int64, key KeyPair, nonce Nonce) []byte {
	result := make([]byte, 0, len(units))
	seed := int64(nonce)

	for _, unit := range units {
		chain_unit := ModExp(unit, key.PrivateExponent, key.Modulus)
		result = append(result, ChainDecrypt(chain_unit, seed))
		seed = chain_unit
	}

	bytesDecryptedCounter.Add(float64(len(result)))
	return result
}

// SignAnnouncement wraps text under the authority private exponent,
// one unit per byte with no chaining.
func SignAnnouncement(text []byte, authority KeyPair) []int64 {
	result := make([]int64, 0, len(text))
	for _, b := range text {
		result = append(result, ModExp(
			int64(b), authority.PrivateExponent, authority.Modulus))
	}
	return result
}

// VerifyAnnouncement recovers text signed with SignAnnouncement. Any
// unit which does not recover to a byte means the announcement was
// not produced by the authority.
func VerifyAnnouncement(units []int64, authority PublicKey) ([]byte, error) {
	result := make([]byte, 0, len(units))
	for idx, unit := range units {
		if unit < 0 || unit >= authority.Modulus {
			return nil, errors.New(fmt.Sprintf(
				"Announcement unit %d out of range: %d", idx, unit))
		}

		value := ModExp(unit, authority.Exponent, authority.Modulus)
		if value > 255 {
			return nil, errors.New(fmt.Sprintf(
				"Announcement unit %d does not recover a byte: %d", idx, value))
		}
		result = append(result, byte(value))
	}
	return result, nil
}
