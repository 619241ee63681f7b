package server

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"www.velocidex.com/golang/seclink/client"
	"www.velocidex.com/golang/seclink/config"
	"www.velocidex.com/golang/seclink/constants"
	"www.velocidex.com/golang/seclink/session"
	"www.velocidex.com/golang/seclink/vtesting"
	"www.velocidex.com/golang/seclink/wire"
)

type ServerTestSuite struct {
	suite.Suite

	config_obj *config.Config
	ctx        context.Context
	cancel     func()
	server     *Server
	hook       *test.Hook
	done       chan error
	stopped    bool
}

func (self *ServerTestSuite) SetupTest() {
	self.config_obj = vtesting.GetTestConfig(self.T())
	self.ctx, self.cancel = context.WithTimeout(
		context.Background(), 20*time.Second)

	logger, hook := vtesting.NullLogger()
	self.hook = hook

	server, err := NewServer(self.config_obj, logger)
	require.NoError(self.T(), err)
	self.server = server

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(self.T(), err)

	self.config_obj.Client.ServerAddress = "127.0.0.1"
	self.config_obj.Client.ServerPort = uint32(
		listener.Addr().(*net.TCPAddr).Port)

	self.done = make(chan error, 1)
	self.stopped = false
	go func() {
		self.done <- self.server.Serve(self.ctx, listener)
	}()

	vtesting.WaitUntil(5*time.Second, self.T(), func() bool {
		return self.server.Addr() != nil
	})
}

func (self *ServerTestSuite) TearDownTest() {
	self.cancel()
	if !self.stopped {
		self.waitForStop()
	}
}

func (self *ServerTestSuite) waitForStop() {
	self.stopped = true
	select {
	case err := <-self.done:
		assert.NoError(self.T(), err)
	case <-time.After(5 * time.Second):
		self.T().Fatalf("server did not stop")
	}
}

func (self *ServerTestSuite) runClient(nonce int64, input string) *session.EventRecorder {
	self.config_obj.Client.Nonce = &nonce
	recorder := &session.EventRecorder{}

	err := client.Run(self.ctx, self.config_obj,
		strings.NewReader(input), recorder)
	require.NoError(self.T(), err)
	return recorder
}

func replies(recorder *session.EventRecorder) []string {
	var result []string
	for _, event := range recorder.Events {
		if event.Type == session.MessageExchanged {
			result = append(result, event.Reply)
		}
	}
	return result
}

func count(result string) float64 {
	return testutil.ToFloat64(sessionsTotal.WithLabelValues(result))
}

func (self *ServerTestSuite) TestSequentialClients() {
	before := count(RESULT_OK)

	for i := int64(0); i < 3; i++ {
		recorder := self.runClient(100+i, "hello\nsecond message\n.\n")
		assert.Equal(self.T(), []string{
			"The client typed 'hello' - 5 bytes of information was received",
			"The client typed 'second message' - 14 bytes of information was received",
		}, replies(recorder))
	}

	vtesting.WaitUntil(5*time.Second, self.T(), func() bool {
		return count(RESULT_OK) == before+3
	})
}

func (self *ServerTestSuite) TestBrokenClientDoesNotStopServer() {
	before := count(RESULT_PROTOCOL_VIOLATION)

	conn, err := net.Dial("tcp", self.server.Addr().String())
	require.NoError(self.T(), err)

	transport := wire.NewConn(conn, constants.DEFAULT_MAX_LINE_LENGTH, 5*time.Second)
	defer transport.Close()

	_, err = transport.ReceiveLine()
	require.NoError(self.T(), err)
	require.NoError(self.T(), transport.Send([]byte("ACK 999 nope\r\n")))

	// The server hangs up on us.
	_, err = transport.ReceiveLine()
	assert.True(self.T(), wire.IsDisconnect(err))

	// A client which connects and leaves at once.
	conn, err = net.Dial("tcp", self.server.Addr().String())
	require.NoError(self.T(), err)
	conn.Close()

	recorder := self.runClient(7, "still here\n")
	assert.Equal(self.T(), []string{
		"The client typed 'still here' - 10 bytes of information was received",
	}, replies(recorder))

	vtesting.WaitUntil(5*time.Second, self.T(), func() bool {
		return count(RESULT_PROTOCOL_VIOLATION) == before+1
	})
	vtesting.LogsContain(self.T(), self.hook, "ended with protocol_violation")
}

func (self *ServerTestSuite) TestNonceReuseIsLogged() {
	before := testutil.ToFloat64(nonceReuseTotal)

	self.runClient(23, "one\n")
	self.runClient(23, "two\n")

	vtesting.WaitUntil(5*time.Second, self.T(), func() bool {
		return vtesting.LogsContainRegex(self.hook,
			"nonce 23 from .+ was already used")
	})
	assert.Equal(self.T(), before+1, testutil.ToFloat64(nonceReuseTotal))
}

func (self *ServerTestSuite) TestNegativeNonce() {
	recorder := self.runClient(-17, "hi\n")
	assert.Equal(self.T(), []string{
		"The client typed 'hi' - 2 bytes of information was received",
	}, replies(recorder))
}

func (self *ServerTestSuite) TestCancelStopsServer() {
	// An idle client in the middle of the handshake.
	conn, err := net.Dial("tcp", self.server.Addr().String())
	require.NoError(self.T(), err)
	defer conn.Close()

	vtesting.WaitUntil(5*time.Second, self.T(), func() bool {
		return testutil.ToFloat64(activeSessions) > 0
	})

	self.cancel()
	self.waitForStop()
}

func (self *ServerTestSuite) TestServeAgainAfterStop() {
	self.runClient(23, "before\n")

	self.cancel()
	self.waitForStop()

	// Serve again with a fresh listener on the same Server.
	self.ctx, self.cancel = context.WithTimeout(
		context.Background(), 20*time.Second)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(self.T(), err)
	self.config_obj.Client.ServerPort = uint32(
		listener.Addr().(*net.TCPAddr).Port)

	self.done = make(chan error, 1)
	self.stopped = false
	go func() {
		self.done <- self.server.Serve(self.ctx, listener)
	}()

	// The nonce cache started empty again.
	reused := testutil.ToFloat64(nonceReuseTotal)

	recorder := self.runClient(23, "after\n")
	assert.Equal(self.T(), []string{
		"The client typed 'after' - 5 bytes of information was received",
	}, replies(recorder))
	assert.Equal(self.T(), reused, testutil.ToFloat64(nonceReuseTotal))
}

func TestServer(t *testing.T) {
	suite.Run(t, &ServerTestSuite{})
}

func TestClassifyResult(t *testing.T) {
	assert.Equal(t, RESULT_OK, classifyResult(nil))
	assert.Equal(t, RESULT_CANCELLED, classifyResult(context.Canceled))
	assert.Equal(t, RESULT_PROTOCOL_VIOLATION,
		classifyResult(&wire.ProtocolViolation{Expected: "ACK"}))
	assert.Equal(t, RESULT_FORMAT_ERROR,
		classifyResult(&wire.FormatError{Kind: wire.Truncated}))
	assert.Equal(t, RESULT_TRANSPORT_ERROR,
		classifyResult(&wire.TransportError{Op: "receive"}))
}

func TestNewServerValidatesConfig(t *testing.T) {
	config_obj := config.GetDefaultConfig()
	config_obj.Server.MaxSessions = 0

	_, err := NewServer(config_obj, nil)
	assert.Error(t, err)
}
