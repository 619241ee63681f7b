package session

import (
	"context"
	"fmt"

	"www.velocidex.com/golang/seclink/constants"
	"www.velocidex.com/golang/seclink/crypto"
	"www.velocidex.com/golang/seclink/wire"
)

// Server is the accepting side of one connection. It owns the
// private key and answers every message in clear text.
type Server struct {
	*peer

	authority crypto.KeyPair
	key       crypto.KeyPair
}

func NewServer(transport wire.Transport,
	authority crypto.KeyPair, key crypto.KeyPair, opts Options) *Server {
	return &Server{
		peer:      newPeer(ROLE_SERVER, transport, opts),
		authority: authority,
		key:       key,
	}
}

func (self *Server) Handshake(ctx context.Context) error {
	err := self.expect(AwaitingKey)
	if err != nil {
		return err
	}

	defer self.watch(ctx)()

	public_key := self.key.Public()
	announcement := crypto.SignAnnouncement(
		wire.FormatKeys(public_key), self.authority)

	err = self.send(wire.Encode(announcement))
	if err != nil {
		return self.fail(ctx, err)
	}

	err = self.advanceAndEmit(AwaitingKeyAck,
		&Event{Type: KeyAnnounced, Key: public_key})
	if err != nil {
		return self.fail(ctx, err)
	}

	line, err := self.receive()
	if err != nil {
		return self.fail(ctx, err)
	}

	err = wire.ExpectAck(line, wire.AckKeyReceived)
	if err != nil {
		return self.fail(ctx, err)
	}

	err = self.advanceAndEmit(AwaitingNonce,
		&Event{Type: KeyAcked, Key: public_key})
	if err != nil {
		return self.fail(ctx, err)
	}

	line, err = self.receive()
	if err != nil {
		return self.fail(ctx, err)
	}

	nonce, err := wire.ParseNonce(line)
	if err != nil {
		return self.fail(ctx, err)
	}
	self.nonce = nonce

	err = self.advanceAndEmit(AwaitingNonceAck,
		&Event{Type: NonceSent, Nonce: nonce})
	if err != nil {
		return self.fail(ctx, err)
	}

	err = self.send(wire.AckNonceReceived.Line())
	if err != nil {
		return self.fail(ctx, err)
	}

	err = self.advanceAndEmit(Exchanging,
		&Event{Type: NonceAcked, Nonce: nonce})
	if err != nil {
		return self.fail(ctx, err)
	}

	self.logger.Debug("session %v: handshake complete, nonce %v",
		self.id, nonce)
	return nil
}

// Serve answers messages until the client goes away. A client
// disconnecting between messages is the normal end of a session and
// returns nil.
func (self *Server) Serve(ctx context.Context) error {
	if self.State() == AwaitingKey {
		err := self.Handshake(ctx)
		if err != nil {
			return err
		}
	}

	err := self.expect(Exchanging)
	if err != nil {
		return err
	}

	defer self.watch(ctx)()

	for {
		line, err := self.receive()
		if err != nil {
			if wire.IsDisconnect(err) && ctx.Err() == nil {
				return self.Close()
			}
			return self.fail(ctx, err)
		}

		units, err := wire.Decode(line)
		if err != nil {
			return self.fail(ctx, err)
		}

		plain := crypto.DecryptMessage(units, self.key, self.nonce)
		reply := FormatReply(plain)

		err = self.send([]byte(reply + constants.LINE_TERMINATOR))
		if err != nil {
			return self.fail(ctx, err)
		}

		err = self.advanceAndEmit(Exchanging, &Event{
			Type:  MessageExchanged,
			Text:  string(plain),
			Reply: reply,
		})
		if err != nil {
			return self.fail(ctx, err)
		}
	}
}

// FormatReply builds the clear text answer to a decrypted message.
func FormatReply(plain []byte) string {
	return fmt.Sprintf(
		"The client typed '%s' - %d bytes of information was received",
		plain, len(plain))
}
