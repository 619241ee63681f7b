package session

import (
	"fmt"
	"sync"

	"www.velocidex.com/golang/seclink/wire"
)

// State is where a session is in the handshake. Both peers walk the
// same sequence, each from its own side.
type State int

const (
	// Key announcement not yet delivered.
	AwaitingKey State = iota

	// Announcement delivered, waiting for ACK 226.
	AwaitingKeyAck

	// Key acknowledged, the nonce comes next.
	AwaitingNonce

	// Nonce delivered, waiting for ACK 220.
	AwaitingNonceAck

	// Encrypted messages flow until the session ends.
	Exchanging

	Closed
)

func (self State) String() string {
	switch self {
	case AwaitingKey:
		return "AwaitingKey"
	case AwaitingKeyAck:
		return "AwaitingKeyAck"
	case AwaitingNonce:
		return "AwaitingNonce"
	case AwaitingNonceAck:
		return "AwaitingNonceAck"
	case Exchanging:
		return "Exchanging"
	case Closed:
		return "Closed"
	}
	return fmt.Sprintf("State(%d)", int(self))
}

// canAdvance permits only the next state in sequence, the
// Exchanging self loop, or closing from anywhere.
func canAdvance(from, to State) bool {
	switch {
	case from == Closed:
		return false
	case to == Closed:
		return true
	case from == Exchanging && to == Exchanging:
		return true
	}
	return to == from+1
}

type stateTracker struct {
	mu    sync.Mutex
	state State
}

func (self *stateTracker) State() State {
	self.mu.Lock()
	defer self.mu.Unlock()

	return self.state
}

func (self *stateTracker) advance(to State) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	if !canAdvance(self.state, to) {
		return &wire.ProtocolViolation{
			Expected: fmt.Sprintf("transition out of %v", self.state),
			Got:      to.String(),
		}
	}
	self.state = to
	return nil
}

// expect fails unless the session is currently in state.
func (self *stateTracker) expect(state State) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.state != state {
		return &wire.ProtocolViolation{
			Expected: state.String(),
			Got:      self.state.String(),
		}
	}
	return nil
}

// close moves to Closed and reports if this call did it.
func (self *stateTracker) close() bool {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.state == Closed {
		return false
	}
	self.state = Closed
	return true
}
