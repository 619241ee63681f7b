package session

import (
	"www.velocidex.com/golang/seclink/wire"
)

// The session surfaces the wire error taxonomy unchanged. These
// aliases let callers classify failures without importing wire.
type (
	FormatError       = wire.FormatError
	TransportError    = wire.TransportError
	ProtocolViolation = wire.ProtocolViolation
)

var (
	IsFormatError       = wire.IsFormatError
	IsTruncated         = wire.IsTruncated
	IsMalformed         = wire.IsMalformed
	IsTransportError    = wire.IsTransportError
	IsProtocolViolation = wire.IsProtocolViolation
	IsDisconnect        = wire.IsDisconnect
)
