package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Velocidex/ttlcache/v2"
	"github.com/alitto/pond/v2"
	"github.com/go-errors/errors"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"www.velocidex.com/golang/seclink/config"
	"www.velocidex.com/golang/seclink/crypto"
	"www.velocidex.com/golang/seclink/logging"
	"www.velocidex.com/golang/seclink/session"
	"www.velocidex.com/golang/seclink/wire"
)

// Server accepts connections and runs one session per connection.
// Sessions share nothing except the logger and the nonce cache.
type Server struct {
	config_obj *config.Config
	logger     *logging.LogContext
	sink       session.EventSink

	// Paces accepts. Nil when accepts_per_second is not set.
	limiter *rate.Limiter

	mu       sync.Mutex
	listener net.Listener
}

func NewServer(config_obj *config.Config,
	logger *logging.LogContext) (*Server, error) {
	err := config.ValidateServerConfig(config_obj)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.GetLogger(config_obj, &logging.ServerComponent)
	}

	self := &Server{
		config_obj: config_obj,
		logger:     logger,
	}

	if config_obj.Server.AcceptsPerSecond > 0 {
		self.limiter = rate.NewLimiter(
			rate.Limit(config_obj.Server.AcceptsPerSecond), 1)
	}

	return self, nil
}

// newNonceCache remembers nonces for the reuse window. Nil when the
// window is 0.
func (self *Server) newNonceCache() *ttlcache.Cache {
	window := self.config_obj.Server.NonceReuseWindow
	if window == 0 {
		return nil
	}

	nonces := ttlcache.NewCache()
	_ = nonces.SetTTL(time.Duration(window) * time.Second)
	nonces.SkipTTLExtensionOnHit(true)
	return nonces
}

// SetEventSink forwards the events of every session to sink.
func (self *Server) SetEventSink(sink session.EventSink) {
	self.sink = sink
}

// Listen binds the configured address. The listener never hands out
// more than max_sessions connections at once.
func (self *Server) Listen() (net.Listener, error) {
	address := net.JoinHostPort(self.config_obj.Server.BindAddress,
		fmt.Sprintf("%d", self.config_obj.Server.BindPort))

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	self.logger.Info("Listening on %v", listener.Addr())
	return listener, nil
}

// Addr is the address Serve is accepting on, or nil before Serve.
func (self *Server) Addr() net.Addr {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.listener == nil {
		return nil
	}
	return self.listener.Addr()
}

// Run listens and serves until ctx is done, together with the
// metrics endpoint when one is configured.
func (self *Server) Run(ctx context.Context) error {
	listener, err := self.Listen()
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return self.Serve(ctx, listener)
	})
	group.Go(func() error {
		return StartMonitoring(ctx, self.config_obj)
	})

	return group.Wait()
}

// Start binds the listener and serves in the background until ctx
// is done.
func (self *Server) Start(ctx context.Context, wg *sync.WaitGroup) error {
	listener, err := self.Listen()
	if err != nil {
		return err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		err := self.Serve(ctx, listener)
		if err != nil {
			self.logger.Error("Server stopped: %v", err)
		}
	}()
	return nil
}

// Serve accepts until ctx is done or the listener fails. A failing
// session is logged and counted but never stops the loop. Serve
// waits for running sessions before it returns. Every call gets its
// own worker pool and nonce cache so a Server may serve again.
func (self *Server) Serve(ctx context.Context, listener net.Listener) error {
	listener = netutil.LimitListener(listener, self.config_obj.Server.MaxSessions)

	self.mu.Lock()
	self.listener = listener
	self.mu.Unlock()

	pool := pond.NewPool(self.config_obj.Server.MaxSessions)
	nonces := self.newNonceCache()

	defer func() {
		pool.StopAndWait()
		if nonces != nil {
			nonces.Close()
		}
	}()

	sub_ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-sub_ctx.Done()
		listener.Close()
	}()

	for {
		if self.limiter != nil {
			err := self.limiter.Wait(sub_ctx)
			if err != nil {
				return nil
			}
		}

		conn, err := listener.Accept()
		if err != nil {
			if sub_ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, 0)
		}

		pool.Submit(func() {
			self.handleConnection(sub_ctx, conn, nonces)
		})
	}
}

func (self *Server) handleConnection(
	ctx context.Context, conn net.Conn, nonces *ttlcache.Cache) {
	activeSessions.Inc()
	defer activeSessions.Dec()

	transport := wire.NewConn(conn,
		self.config_obj.Protocol.MaxLineLength,
		self.config_obj.Protocol.IOTimeout())
	defer transport.Close()

	remote := transport.RemoteAddr()
	sess := session.NewServer(transport,
		self.config_obj.Authority, self.config_obj.Server.Key,
		session.Options{
			Sink:   self.sink,
			Logger: self.logger,
		})

	self.logger.Info("Session %v: accepted connection from %v",
		sess.Id(), remote)

	err := sess.Handshake(ctx)
	if err == nil {
		self.checkNonce(nonces, sess.Id(), remote, sess.Nonce())
		err = sess.Serve(ctx)
	}

	result := classifyResult(err)
	sessionsTotal.WithLabelValues(result).Inc()

	if err != nil {
		self.logger.Error("Session %v from %v ended with %v: %v",
			sess.Id(), remote, result, err)
		return
	}
	self.logger.Info("Session %v: client %v disconnected", sess.Id(), remote)
}

// checkNonce warns about a nonce seen recently. The session carries
// on regardless since the nonce is chosen by the client.
func (self *Server) checkNonce(nonces *ttlcache.Cache,
	id, remote string, nonce crypto.Nonce) {
	if nonces == nil {
		return
	}

	key := fmt.Sprintf("%d", int64(nonce))
	previous, err := nonces.Get(key)
	if err == nil {
		nonceReuseTotal.Inc()
		self.logger.Warn("Session %v: nonce %v from %v was already used by %v",
			id, nonce, remote, previous)
	}

	_ = nonces.Set(key, remote)
}
