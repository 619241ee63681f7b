package session

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"www.velocidex.com/golang/seclink/crypto"
	"www.velocidex.com/golang/seclink/vtesting"
	"www.velocidex.com/golang/seclink/wire"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// Announcements which fail to verify or give an unusable key abort
// the client before it sends anything.
func TestClientRejectsBadAnnouncement(t *testing.T) {
	for _, tc := range []struct {
		name  string
		line  []byte
		check func(err error) bool
	}{
		{"not numbers", []byte("hello there\r\n"), IsMalformed},
		{"wrong signer", wire.Encode(crypto.SignAnnouncement(
			[]byte("KEYS 13 41989"), serverKey)), IsMalformed},
		{"wrong verb", wire.Encode(crypto.SignAnnouncement(
			[]byte("KEY 13 41989"), authorityKey)), IsProtocolViolation},
		{"missing field", wire.Encode(crypto.SignAnnouncement(
			[]byte("KEYS 13"), authorityKey)), IsMalformed},
		{"tiny modulus", wire.Encode(crypto.SignAnnouncement(
			[]byte("KEYS 3 33"), authorityKey)), IsProtocolViolation},
	} {
		t.Run(tc.name, func(t *testing.T) {
			client_conn, server_conn := vtesting.Pipe(t)
			recorder := &EventRecorder{}
			client := NewClient(client_conn, authorityKey.Public(), FixedNonce(23),
				Options{Sink: recorder})

			sent := make(chan []byte, 1)
			go func() {
				server_conn.Send(tc.line)

				// Anything the client says before hanging up.
				line, _ := server_conn.ReceiveLine()
				sent <- line
			}()

			err := client.Handshake(testContext(t))
			assert.True(t, tc.check(err), "unexpected error %v", err)
			assert.Equal(t, Closed, client.State())

			assert.Empty(t, <-sent)
			assert.Equal(t, []EventType{LineReceived, SessionClosed},
				recorder.Types())
			assert.Equal(t, err, recorder.Events[1].Err)
		})
	}
}

func TestClientRejectsWrongNonceAck(t *testing.T) {
	client_conn, server_conn := vtesting.Pipe(t)
	client := NewClient(client_conn, authorityKey.Public(), FixedNonce(5), Options{})

	go func() {
		server_conn.Send(wire.Encode(crypto.SignAnnouncement(
			wire.FormatKeys(serverKey.Public()), authorityKey)))
		server_conn.ReceiveLine()
		server_conn.ReceiveLine()
		server_conn.Send([]byte("ACK 220 nonce received\r\n"))
	}()

	err := client.Handshake(testContext(t))
	assert.True(t, IsProtocolViolation(err))
	assert.Contains(t, err.Error(), "ACK 220 nOnce received")
	assert.Equal(t, Closed, client.State())
}

func TestServerRejectsWrongKeyAck(t *testing.T) {
	client_conn, server_conn := vtesting.Pipe(t)
	server := NewServer(server_conn, authorityKey, serverKey, Options{})

	received := make(chan error, 1)
	go func() {
		client_conn.ReceiveLine()
		client_conn.Send([]byte("ACK 200 ok\r\n"))

		// The server hangs up instead of waiting for a nonce.
		_, err := client_conn.ReceiveLine()
		received <- err
	}()

	err := server.Serve(testContext(t))
	assert.True(t, IsProtocolViolation(err))
	assert.True(t, IsDisconnect(<-received))
	assert.Equal(t, Closed, server.State())
}

func TestServerRejectsBadNonce(t *testing.T) {
	client_conn, server_conn := vtesting.Pipe(t)
	server := NewServer(server_conn, authorityKey, serverKey, Options{})

	go func() {
		client_conn.ReceiveLine()
		client_conn.Send(wire.AckKeyReceived.Line())
		client_conn.Send([]byte("NONCE twenty\r\n"))
	}()

	err := server.Handshake(testContext(t))
	assert.True(t, IsMalformed(err))
}

func TestServerMalformedMessage(t *testing.T) {
	client_conn, server_conn := vtesting.Pipe(t)
	server := NewServer(server_conn, authorityKey, serverKey, Options{})
	client := NewClient(client_conn, authorityKey.Public(), FixedNonce(23), Options{})

	ctx := testContext(t)
	result := make(chan error, 1)
	go func() {
		result <- server.Serve(ctx)
	}()

	require.NoError(t, client.Handshake(ctx))
	require.NoError(t, client_conn.Send([]byte("41184 x7549\r\n")))

	assert.True(t, IsMalformed(<-result))
}

func TestServerTruncatedMessage(t *testing.T) {
	a, b := net.Pipe()
	client_conn := wire.NewConn(a, 1024, 0)
	server_conn := wire.NewConn(b, 64, 0)
	defer client_conn.Close()

	server := NewServer(server_conn, authorityKey, serverKey, Options{})
	client := NewClient(client_conn, authorityKey.Public(), FixedNonce(23), Options{})

	ctx := testContext(t)
	result := make(chan error, 1)
	go func() {
		result <- server.Serve(ctx)
	}()

	require.NoError(t, client.Handshake(ctx))

	// The write fails once the server gives up and closes.
	go client_conn.Send([]byte(strings.Repeat("1 ", 100) + "\r\n"))

	assert.True(t, IsTruncated(<-result))
}

func TestServerDisconnectMidLine(t *testing.T) {
	client_conn, server_conn := vtesting.Pipe(t)
	server := NewServer(server_conn, authorityKey, serverKey, Options{})
	client := NewClient(client_conn, authorityKey.Public(), FixedNonce(23), Options{})

	ctx := testContext(t)
	result := make(chan error, 1)
	go func() {
		result <- server.Serve(ctx)
	}()

	require.NoError(t, client.Handshake(ctx))
	require.NoError(t, client_conn.Send([]byte("41184 75")))
	client_conn.Close()

	err := <-result
	assert.True(t, IsTransportError(err))
	assert.False(t, IsDisconnect(err))
}

func TestFormatReply(t *testing.T) {
	assert.Equal(t,
		"The client typed 'hello' - 5 bytes of information was received",
		FormatReply([]byte("hello")))
}

func TestRandomNonceRoundTrips(t *testing.T) {
	ctx := testContext(t)

	for i := 0; i < 5; i++ {
		client_conn, server_conn := vtesting.Pipe(t)
		server := NewServer(server_conn, authorityKey, serverKey, Options{})
		client := NewClient(client_conn, authorityKey.Public(), RandomNonce, Options{})

		result := make(chan error, 1)
		go func() {
			result <- server.Serve(ctx)
		}()

		text := "\xff\x00 every byte value survives \x80"
		require.NoError(t, client.Run(ctx, strings.NewReader(text+"\n")))
		require.NoError(t, <-result)

		assert.Equal(t, client.Nonce(), server.Nonce())
		assert.True(t, int64(client.Nonce()) < crypto.ChainBound(serverKey.Modulus))
	}
}
