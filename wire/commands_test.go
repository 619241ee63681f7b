package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"www.velocidex.com/golang/seclink/crypto"
)

func TestKeys(t *testing.T) {
	key := crypto.PublicKey{Exponent: 13, Modulus: 41989}
	assert.Equal(t, "KEYS 13 41989", string(FormatKeys(key)))

	parsed, err := ParseKeys(FormatKeys(key))
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	_, err = ParseKeys([]byte("KEYS 13"))
	assert.True(t, IsMalformed(err))

	_, err = ParseKeys([]byte("KEYS 13 x"))
	assert.True(t, IsMalformed(err))

	_, err = ParseKeys([]byte("NONCE 13"))
	assert.True(t, IsProtocolViolation(err))
}

func TestNonce(t *testing.T) {
	assert.Equal(t, "NONCE 23\r\n", string(FormatNonce(23)))
	assert.Equal(t, "NONCE -7\r\n", string(FormatNonce(-7)))

	nonce, err := ParseNonce([]byte("NONCE 23\r\n"))
	require.NoError(t, err)
	assert.Equal(t, crypto.Nonce(23), nonce)

	_, err = ParseNonce([]byte("NONCE abc\r\n"))
	assert.True(t, IsMalformed(err))

	_, err = ParseNonce([]byte("ACK 220 nOnce received\r\n"))
	assert.True(t, IsProtocolViolation(err))
}

func TestAck(t *testing.T) {
	assert.Equal(t, "ACK 226 public key received\r\n", string(AckKeyReceived.Line()))
	assert.Equal(t, "ACK 220 nOnce received\r\n", string(AckNonceReceived.Line()))

	ack, err := ParseAck([]byte("ACK 220 nOnce received\r\n"))
	require.NoError(t, err)
	assert.Equal(t, AckNonceReceived, ack)

	assert.NoError(t, ExpectAck([]byte("ACK 226 public key received\r\n"), AckKeyReceived))

	err = ExpectAck([]byte("ACK 220 nOnce received\r\n"), AckKeyReceived)
	assert.True(t, IsProtocolViolation(err))

	err = ExpectAck([]byte("HELLO\r\n"), AckKeyReceived)
	assert.True(t, IsProtocolViolation(err))

	_, err = ParseAck([]byte("ACK abc\r\n"))
	assert.True(t, IsMalformed(err))
}
