package session

import (
	"time"

	"github.com/Velocidex/ordereddict"
	"www.velocidex.com/golang/seclink/crypto"
)

type EventType string

const (
	// Server side: the signed announcement went out.
	KeyAnnounced EventType = "KeyAnnounced"

	// Client side: the announcement verified and parsed.
	KeyReceived EventType = "KeyReceived"

	// ACK 226 was sent (client) or received (server).
	KeyAcked EventType = "KeyAcked"

	// NONCE was sent (client) or received (server).
	NonceSent EventType = "NonceSent"

	// ACK 220 was received (client) or sent (server).
	NonceAcked EventType = "NonceAcked"

	// One full request and reply.
	MessageExchanged EventType = "MessageExchanged"

	LineSent      EventType = "LineSent"
	LineReceived  EventType = "LineReceived"
	SessionClosed EventType = "SessionClosed"
)

// Event reports session progress. Only the fields relevant to the
// Type are set.
type Event struct {
	Type      EventType
	SessionId string
	Role      string
	State     State
	Time      time.Time

	Key   crypto.PublicKey
	Nonce crypto.Nonce

	// Raw wire line for LineSent and LineReceived.
	Line []byte

	// Plain text of the message and the reply for MessageExchanged.
	Text  string
	Reply string

	// Why the session ended. Nil for a clean close.
	Err error
}

// ToDict renders the event with a stable key order.
func (self *Event) ToDict() *ordereddict.Dict {
	result := ordereddict.NewDict().
		Set("time", self.Time.UTC().Format(time.RFC3339Nano)).
		Set("session_id", self.SessionId).
		Set("role", self.Role).
		Set("event", string(self.Type)).
		Set("state", self.State.String())

	switch self.Type {
	case KeyAnnounced, KeyReceived:
		result.Set("exponent", self.Key.Exponent).
			Set("modulus", self.Key.Modulus)

	case NonceSent, NonceAcked:
		result.Set("nonce", int64(self.Nonce))

	case LineSent, LineReceived:
		result.Set("line", string(self.Line))

	case MessageExchanged:
		result.Set("text", self.Text).Set("reply", self.Reply)

	case SessionClosed:
		if self.Err != nil {
			result.Set("error", self.Err.Error())
		}
	}
	return result
}

type EventSink interface {
	OnEvent(event *Event)
}

// EventSinkFunc adapts a plain function to an EventSink.
type EventSinkFunc func(event *Event)

func (self EventSinkFunc) OnEvent(event *Event) {
	self(event)
}

type nullSink struct{}

func (self nullSink) OnEvent(event *Event) {}

// EventRecorder keeps every event. Useful in tests and for
// transcripts.
type EventRecorder struct {
	Events []*Event
}

func (self *EventRecorder) OnEvent(event *Event) {
	self.Events = append(self.Events, event)
}

func (self *EventRecorder) Types() []EventType {
	result := make([]EventType, 0, len(self.Events))
	for _, e := range self.Events {
		result = append(result, e.Type)
	}
	return result
}
