package wire

import (
	"fmt"
	"strconv"
	"strings"

	"www.velocidex.com/golang/seclink/constants"
	"www.velocidex.com/golang/seclink/crypto"
)

const (
	VERB_KEYS  = "KEYS"
	VERB_NONCE = "NONCE"
	VERB_ACK   = "ACK"
)

type Ack struct {
	Code int
	Text string
}

func (self Ack) String() string {
	return fmt.Sprintf("%s %d %s", VERB_ACK, self.Code, self.Text)
}

// Line returns the acknowledgment as a terminated wire line.
func (self Ack) Line() []byte {
	return []byte(self.String() + constants.LINE_TERMINATOR)
}

var (
	AckKeyReceived = Ack{
		Code: constants.ACK_KEY_RECEIVED,
		Text: constants.ACK_KEY_RECEIVED_TEXT,
	}
	AckNonceReceived = Ack{
		Code: constants.ACK_NONCE_RECEIVED,
		Text: constants.ACK_NONCE_RECEIVED_TEXT,
	}
)

// FormatKeys renders the key announcement text. It is signed before
// it goes on the wire so it carries no terminator.
func FormatKeys(key crypto.PublicKey) []byte {
	return []byte(fmt.Sprintf("%s %d %d", VERB_KEYS, key.Exponent, key.Modulus))
}

func ParseKeys(text []byte) (crypto.PublicKey, error) {
	fields, err := splitCommand(text, VERB_KEYS)
	if err != nil {
		return crypto.PublicKey{}, err
	}

	if len(fields) != 2 {
		return crypto.PublicKey{}, malformed(
			fmt.Sprintf("KEYS needs 2 fields, got %d", len(fields)), nil)
	}

	e, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return crypto.PublicKey{}, malformed("KEYS exponent", err)
	}

	n, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return crypto.PublicKey{}, malformed("KEYS modulus", err)
	}

	return crypto.PublicKey{Exponent: e, Modulus: n}, nil
}

func FormatNonce(nonce crypto.Nonce) []byte {
	return []byte(fmt.Sprintf("%s %d%s", VERB_NONCE, int64(nonce),
		constants.LINE_TERMINATOR))
}

func ParseNonce(line []byte) (crypto.Nonce, error) {
	fields, err := splitCommand(TrimTerminator(line), VERB_NONCE)
	if err != nil {
		return 0, err
	}

	if len(fields) != 1 {
		return 0, malformed(
			fmt.Sprintf("NONCE needs 1 field, got %d", len(fields)), nil)
	}

	value, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, malformed("NONCE value", err)
	}
	return crypto.Nonce(value), nil
}

func ParseAck(line []byte) (Ack, error) {
	text := string(TrimTerminator(line))
	parts := strings.SplitN(text, " ", 3)
	if parts[0] != VERB_ACK {
		return Ack{}, &ProtocolViolation{Expected: VERB_ACK, Got: text}
	}

	if len(parts) < 2 {
		return Ack{}, malformed("ACK without code", nil)
	}

	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return Ack{}, malformed("ACK code", err)
	}

	result := Ack{Code: code}
	if len(parts) == 3 {
		result.Text = parts[2]
	}
	return result, nil
}

// ExpectAck requires the line to be exactly the expected
// acknowledgment.
func ExpectAck(line []byte, expected Ack) error {
	ack, err := ParseAck(line)
	if err != nil {
		return err
	}

	if ack != expected {
		return &ProtocolViolation{
			Expected: expected.String(),
			Got:      string(TrimTerminator(line)),
		}
	}
	return nil
}

// The verb must match exactly, the remaining fields are returned.
func splitCommand(text []byte, verb string) ([]string, error) {
	fields := strings.Fields(string(text))
	if len(fields) == 0 || fields[0] != verb {
		return nil, &ProtocolViolation{Expected: verb, Got: string(text)}
	}
	return fields[1:], nil
}
