package session

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/go-errors/errors"
	"www.velocidex.com/golang/seclink/constants"
	"www.velocidex.com/golang/seclink/crypto"
	"www.velocidex.com/golang/seclink/wire"
)

// Client is the connecting side. It learns the server key from a
// signed announcement, hands over its nonce and then encrypts every
// message to the server.
type Client struct {
	*peer

	authority    crypto.PublicKey
	server_key   crypto.PublicKey
	nonce_source NonceSource
}

// NonceSource picks the session nonce once the server key is known.
type NonceSource func(server_key crypto.PublicKey) crypto.Nonce

func FixedNonce(nonce crypto.Nonce) NonceSource {
	return func(server_key crypto.PublicKey) crypto.Nonce {
		return nonce
	}
}

// RandomNonce keeps every chain unit below the server modulus.
func RandomNonce(server_key crypto.PublicKey) crypto.Nonce {
	return crypto.NewRandomNonce(server_key.Modulus)
}

func NewClient(transport wire.Transport,
	authority crypto.PublicKey, nonce_source NonceSource, opts Options) *Client {
	return &Client{
		peer:         newPeer(ROLE_CLIENT, transport, opts),
		authority:    authority,
		nonce_source: nonce_source,
	}
}

// ServerKey is only valid after a successful Handshake.
func (self *Client) ServerKey() crypto.PublicKey {
	return self.server_key
}

func (self *Client) Handshake(ctx context.Context) error {
	err := self.expect(AwaitingKey)
	if err != nil {
		return err
	}

	defer self.watch(ctx)()

	line, err := self.receive()
	if err != nil {
		return self.fail(ctx, err)
	}

	key, err := self.parseAnnouncement(line)
	if err != nil {
		return self.fail(ctx, err)
	}
	self.server_key = key
	self.nonce = self.nonce_source(key)

	err = self.advanceAndEmit(AwaitingKeyAck, &Event{Type: KeyReceived, Key: key})
	if err != nil {
		return self.fail(ctx, err)
	}

	err = self.send(wire.AckKeyReceived.Line())
	if err != nil {
		return self.fail(ctx, err)
	}

	err = self.advanceAndEmit(AwaitingNonce, &Event{Type: KeyAcked, Key: key})
	if err != nil {
		return self.fail(ctx, err)
	}

	err = self.send(wire.FormatNonce(self.nonce))
	if err != nil {
		return self.fail(ctx, err)
	}

	err = self.advanceAndEmit(AwaitingNonceAck,
		&Event{Type: NonceSent, Nonce: self.nonce})
	if err != nil {
		return self.fail(ctx, err)
	}

	line, err = self.receive()
	if err != nil {
		return self.fail(ctx, err)
	}

	err = wire.ExpectAck(line, wire.AckNonceReceived)
	if err != nil {
		return self.fail(ctx, err)
	}

	err = self.advanceAndEmit(Exchanging,
		&Event{Type: NonceAcked, Nonce: self.nonce})
	if err != nil {
		return self.fail(ctx, err)
	}

	self.logger.Debug("session %v: handshake complete with key %v nonce %v",
		self.id, key, self.nonce)
	return nil
}

// The announcement is KEYS e n signed by the authority. Anything that
// does not verify, parse and give a usable key ends the session
// before we send a single byte.
func (self *Client) parseAnnouncement(line []byte) (crypto.PublicKey, error) {
	units, err := wire.Decode(line)
	if err != nil {
		return crypto.PublicKey{}, err
	}

	text, err := crypto.VerifyAnnouncement(units, self.authority)
	if err != nil {
		return crypto.PublicKey{}, &wire.FormatError{
			Kind:   wire.Malformed,
			Detail: "key announcement does not verify",
			Err:    err,
		}
	}

	key, err := wire.ParseKeys(text)
	if err != nil {
		return crypto.PublicKey{}, err
	}

	err = key.Validate()
	if err != nil {
		return crypto.PublicKey{}, &wire.ProtocolViolation{
			Expected: "a usable public key",
			Got:      key.String(),
		}
	}
	return key, nil
}

// Exchange sends one encrypted message and waits for the reply line.
func (self *Client) Exchange(ctx context.Context, text []byte) (string, error) {
	err := self.expect(Exchanging)
	if err != nil {
		return "", err
	}

	defer self.watch(ctx)()

	units := crypto.EncryptMessage(text, self.server_key, self.nonce)
	err = self.send(wire.Encode(units))
	if err != nil {
		return "", self.fail(ctx, err)
	}

	line, err := self.receive()
	if err != nil {
		return "", self.fail(ctx, err)
	}

	reply := string(wire.TrimTerminator(line))
	err = self.advanceAndEmit(Exchanging, &Event{
		Type:  MessageExchanged,
		Text:  string(text),
		Reply: reply,
	})
	if err != nil {
		return "", self.fail(ctx, err)
	}
	return reply, nil
}

// Run sends every line of input as a message. A line starting with
// the sentinel, or the end of input, closes the session without
// sending anything further. The handshake runs first if it has not
// happened yet. Cancelling ctx ends the session even while waiting
// for input.
func (self *Client) Run(ctx context.Context, input io.Reader) error {
	if self.State() == AwaitingKey {
		err := self.Handshake(ctx)
		if err != nil {
			return err
		}
	}

	sub_ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := readLines(sub_ctx, input)
	for {
		select {
		case <-ctx.Done():
			return self.fail(ctx, ctx.Err())

		case item, ok := <-lines:
			if !ok || (errors.Is(item.err, io.EOF) && item.line == "") {
				return self.Close()
			}

			if item.err != nil && !errors.Is(item.err, io.EOF) {
				return self.fail(ctx, errors.Wrap(item.err, 0))
			}

			text := strings.TrimSuffix(
				strings.TrimSuffix(item.line, "\n"), "\r")
			if strings.HasPrefix(text, constants.SESSION_SENTINEL) {
				return self.Close()
			}

			_, err := self.Exchange(ctx, []byte(text))
			if err != nil {
				return err
			}
		}
	}
}

type inputLine struct {
	line string
	err  error
}

// readLines feeds input to the channel one line at a time. The last
// item carries the read error and the channel is closed after it. A read already blocked when ctx is
// done stays blocked until the input returns.
func readLines(ctx context.Context, input io.Reader) <-chan inputLine {
	output := make(chan inputLine)

	go func() {
		defer close(output)

		reader := bufio.NewReader(input)
		for {
			line, err := reader.ReadString('\n')
			select {
			case output <- inputLine{line: line, err: err}:
			case <-ctx.Done():
				return
			}

			if err != nil {
				return
			}
		}
	}()

	return output
}
