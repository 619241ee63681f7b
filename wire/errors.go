package wire

import (
	"fmt"
	"io"

	"github.com/go-errors/errors"
)

type FormatErrorKind int

const (
	// A token or field did not parse.
	Malformed FormatErrorKind = iota

	// The line limit was reached before a terminator.
	Truncated
)

func (self FormatErrorKind) String() string {
	switch self {
	case Malformed:
		return "Malformed"
	case Truncated:
		return "Truncated"
	}
	return fmt.Sprintf("FormatErrorKind(%d)", int(self))
}

// A received line could not be decoded.
type FormatError struct {
	Kind   FormatErrorKind
	Detail string
	Err    error
}

func (self *FormatError) Error() string {
	if self.Err != nil {
		return fmt.Sprintf("FormatError %v: %s: %v", self.Kind, self.Detail, self.Err)
	}
	return fmt.Sprintf("FormatError %v: %s", self.Kind, self.Detail)
}

func (self *FormatError) Unwrap() error {
	return self.Err
}

func malformed(detail string, err error) error {
	return &FormatError{Kind: Malformed, Detail: detail, Err: err}
}

// The underlying byte stream failed.
type TransportError struct {
	Op  string
	Err error
}

func (self *TransportError) Error() string {
	return fmt.Sprintf("TransportError during %s: %v", self.Op, self.Err)
}

func (self *TransportError) Unwrap() error {
	return self.Err
}

// The peer sent something valid that is not allowed at this point.
type ProtocolViolation struct {
	Expected string
	Got      string
}

func (self *ProtocolViolation) Error() string {
	return fmt.Sprintf("ProtocolViolation: expected %q but got %q",
		self.Expected, self.Got)
}

func IsFormatError(err error) bool {
	var target *FormatError
	return errors.As(err, &target)
}

func IsTruncated(err error) bool {
	var target *FormatError
	return errors.As(err, &target) && target.Kind == Truncated
}

func IsMalformed(err error) bool {
	var target *FormatError
	return errors.As(err, &target) && target.Kind == Malformed
}

func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

func IsProtocolViolation(err error) bool {
	var target *ProtocolViolation
	return errors.As(err, &target)
}

// IsDisconnect is true when the peer closed the stream cleanly
// between lines.
func IsDisconnect(err error) bool {
	var target *TransportError
	return errors.As(err, &target) && target.Err == io.EOF
}
