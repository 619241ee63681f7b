package wire

import (
	"net"
	"sync"
	"time"
)

// Transport is the byte stream a session runs over. Sends are whole
// lines, receives block until a line terminator arrives.
type Transport interface {
	Send(line []byte) error
	ReceiveLine() ([]byte, error)
	Close() error
}

// Conn implements Transport over a net.Conn.
type Conn struct {
	conn       net.Conn
	reader     *LineReader
	io_timeout time.Duration

	close_once sync.Once
	close_err  error
}

// NewConn wraps conn. A zero io_timeout blocks forever.
func NewConn(conn net.Conn,
	max_line_length uint64, io_timeout time.Duration) *Conn {
	return &Conn{
		conn:       conn,
		reader:     NewLineReader(conn, max_line_length),
		io_timeout: io_timeout,
	}
}

func (self *Conn) Send(line []byte) error {
	if self.io_timeout > 0 {
		err := self.conn.SetWriteDeadline(time.Now().Add(self.io_timeout))
		if err != nil {
			return &TransportError{Op: "send", Err: err}
		}
	}

	// net.Conn.Write only returns early with an error.
	_, err := self.conn.Write(line)
	if err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	return nil
}

func (self *Conn) ReceiveLine() ([]byte, error) {
	if self.io_timeout > 0 {
		err := self.conn.SetReadDeadline(time.Now().Add(self.io_timeout))
		if err != nil {
			return nil, &TransportError{Op: "receive", Err: err}
		}
	}
	return self.reader.ReadLine()
}

func (self *Conn) Close() error {
	self.close_once.Do(func() {
		self.close_err = self.conn.Close()
	})
	return self.close_err
}

func (self *Conn) RemoteAddr() string {
	return self.conn.RemoteAddr().String()
}
