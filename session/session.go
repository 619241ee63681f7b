package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"www.velocidex.com/golang/seclink/crypto"
	"www.velocidex.com/golang/seclink/logging"
	"www.velocidex.com/golang/seclink/wire"
)

const (
	ROLE_CLIENT = "client"
	ROLE_SERVER = "server"
)

type Options struct {
	// Generated when empty.
	SessionId string

	Sink   EventSink
	Logger *logging.LogContext
}

// peer holds what both sides of a session share: the transport, the
// state and the event plumbing. A peer is owned by one goroutine,
// only Close may be called from elsewhere.
type peer struct {
	stateTracker

	id        string
	role      string
	transport wire.Transport
	sink      EventSink
	logger    *logging.LogContext
	nonce     crypto.Nonce

	close_once sync.Once
}

func newPeer(role string, transport wire.Transport, opts Options) *peer {
	self := &peer{
		id:        opts.SessionId,
		role:      role,
		transport: transport,
		sink:      opts.Sink,
		logger:    opts.Logger,
	}

	if self.id == "" {
		self.id = uuid.New().String()
	}

	if self.sink == nil {
		self.sink = nullSink{}
	}

	if self.logger == nil {
		self.logger = logging.GetLogger(nil, &logging.GenericComponent)
	}

	return self
}

func (self *peer) Id() string {
	return self.id
}

func (self *peer) Nonce() crypto.Nonce {
	return self.nonce
}

func (self *peer) emit(event *Event) {
	event.SessionId = self.id
	event.Role = self.role
	event.State = self.State()
	event.Time = time.Now()
	self.sink.OnEvent(event)
}

func (self *peer) send(line []byte) error {
	err := self.transport.Send(line)
	if err != nil {
		return err
	}
	self.emit(&Event{Type: LineSent, Line: line})
	return nil
}

func (self *peer) receive() ([]byte, error) {
	line, err := self.transport.ReceiveLine()
	if err != nil {
		return nil, err
	}
	self.emit(&Event{Type: LineReceived, Line: line})
	return line, nil
}

// advanceAndEmit moves to the next state and reports the event from
// there.
func (self *peer) advanceAndEmit(to State, event *Event) error {
	err := self.advance(to)
	if err != nil {
		return err
	}
	self.emit(event)
	return nil
}

// watch closes the transport when ctx is cancelled so blocked reads
// and writes return. Call the returned func when the operation is
// done.
func (self *peer) watch(ctx context.Context) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			self.transport.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// fail ends the session with err. Cancellation wins over whatever
// transport error the forced close produced.
func (self *peer) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	self.logger.Debug("session %v (%v): closing in %v: %v",
		self.id, self.role, self.State(), err)
	self.shutdown(err)
	return err
}

func (self *peer) shutdown(err error) {
	self.close_once.Do(func() {
		self.transport.Close()
		self.stateTracker.close()
		self.emit(&Event{Type: SessionClosed, Err: err})
	})
}

// Close ends the session without sending anything.
func (self *peer) Close() error {
	self.shutdown(nil)
	return nil
}
