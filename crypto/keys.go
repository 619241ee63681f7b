package crypto

import (
	"fmt"

	"github.com/go-errors/errors"
)

// The public half of a key pair. This is all a client ever learns
// about the server key.
type PublicKey struct {
	Exponent int64 `yaml:"public_exponent" json:"e"`
	Modulus  int64 `yaml:"modulus" json:"n"`
}

func (self PublicKey) String() string {
	return fmt.Sprintf("(e=%d, n=%d)", self.Exponent, self.Modulus)
}

// Validate checks that the key can carry every byte value.
func (self PublicKey) Validate() error {
	if self.Exponent <= 0 {
		return errors.New(fmt.Sprintf(
			"Public exponent must be positive: %d", self.Exponent))
	}

	if self.Modulus <= 255 {
		return errors.New(fmt.Sprintf(
			"Modulus %d is too small to carry a byte", self.Modulus))
	}
	return nil
}

type KeyPair struct {
	PublicExponent  int64 `yaml:"public_exponent"`
	PrivateExponent int64 `yaml:"private_exponent,omitempty"`
	Modulus         int64 `yaml:"modulus"`
}

func (self KeyPair) Public() PublicKey {
	return PublicKey{
		Exponent: self.PublicExponent,
		Modulus:  self.Modulus,
	}
}

func (self KeyPair) String() string {
	return fmt.Sprintf("(e=%d, d=%d, n=%d)",
		self.PublicExponent, self.PrivateExponent, self.Modulus)
}

func (self KeyPair) Validate() error {
	err := self.Public().Validate()
	if err != nil {
		return err
	}

	if self.PrivateExponent <= 0 {
		return errors.New(fmt.Sprintf(
			"Private exponent must be positive: %d", self.PrivateExponent))
	}
	return nil
}

// Verify checks the round trip law x == (x^e)^d mod n in both
// directions for every x below limit. Key selection must guarantee
// this for all values a session can produce, it is never checked
// while a session runs.
func (self KeyPair) Verify(limit int64) error {
	err := self.Validate()
	if err != nil {
		return err
	}

	if limit > self.Modulus {
		return errors.New(fmt.Sprintf(
			"Limit %d exceeds modulus %d", limit, self.Modulus))
	}

	for x := int64(0); x < limit; x++ {
		encrypted := ModExp(x, self.PublicExponent, self.Modulus)
		if ModExp(encrypted, self.PrivateExponent, self.Modulus) != x {
			return errors.New(fmt.Sprintf(
				"Key %v does not round trip %d", self, x))
		}

		signed := ModExp(x, self.PrivateExponent, self.Modulus)
		if ModExp(signed, self.PublicExponent, self.Modulus) != x {
			return errors.New(fmt.Sprintf(
				"Key %v does not round trip signed %d", self, x))
		}
	}
	return nil
}
