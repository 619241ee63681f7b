package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"www.velocidex.com/golang/seclink/config"
	"www.velocidex.com/golang/seclink/crypto"
	"www.velocidex.com/golang/seclink/logging"
	"www.velocidex.com/golang/seclink/session"
	"www.velocidex.com/golang/seclink/wire"
)

const dialTimeout = 10 * time.Second

// GetNonceSource returns the configured fixed nonce or a random one
// per session.
func GetNonceSource(config_obj *config.Config) session.NonceSource {
	if config_obj.Client.Nonce != nil {
		return session.FixedNonce(crypto.Nonce(*config_obj.Client.Nonce))
	}
	return session.RandomNonce
}

// Connect dials the configured server and prepares a session. The
// handshake has not happened yet.
func Connect(ctx context.Context, config_obj *config.Config,
	sink session.EventSink) (*session.Client, error) {
	err := config.ValidateClientConfig(config_obj)
	if err != nil {
		return nil, err
	}

	address := net.JoinHostPort(config_obj.Client.ServerAddress,
		fmt.Sprintf("%d", config_obj.Client.ServerPort))

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, &wire.TransportError{Op: "connect", Err: err}
	}

	logger := logging.GetLogger(config_obj, &logging.ClientComponent)
	logger.Info("Connected to %v", address)

	transport := wire.NewConn(conn,
		config_obj.Protocol.MaxLineLength, config_obj.Protocol.IOTimeout())

	return session.NewClient(transport, config_obj.Authority.Public(),
		GetNonceSource(config_obj), session.Options{
			Sink:   sink,
			Logger: logger,
		}), nil
}

// Run connects, performs the handshake and sends every input line
// until the sentinel or the end of input.
func Run(ctx context.Context, config_obj *config.Config,
	input io.Reader, sink session.EventSink) error {
	client, err := Connect(ctx, config_obj, sink)
	if err != nil {
		return err
	}
	defer client.Close()

	err = client.Handshake(ctx)
	if err != nil {
		return err
	}

	logger := logging.GetLogger(config_obj, &logging.ClientComponent)
	logger.Info("Session %v established, server key %v, nonce %v",
		client.Id(), client.ServerKey(), client.Nonce())

	return client.Run(ctx, input)
}
