package wire

import (
	"bufio"
	"fmt"
	"io"
)

// LineReader reads terminator delimited lines with an upper bound
// on the line length.
type LineReader struct {
	reader          *bufio.Reader
	max_line_length uint64
}

func NewLineReader(reader io.Reader, max_line_length uint64) *LineReader {
	return &LineReader{
		reader:          bufio.NewReader(reader),
		max_line_length: max_line_length,
	}
}

// ReadLine returns the next line including its terminator.
//
// A stream which ends before any byte of the line is read reports a
// TransportError wrapping io.EOF, ending part way through a line
// wraps io.ErrUnexpectedEOF instead.
func (self *LineReader) ReadLine() ([]byte, error) {
	line := make([]byte, 0, 128)
	for {
		c, err := self.reader.ReadByte()
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				err = io.ErrUnexpectedEOF
			}
			return nil, &TransportError{Op: "receive", Err: err}
		}

		line = append(line, c)
		if c == '\n' {
			return line, nil
		}

		if self.max_line_length > 0 &&
			uint64(len(line)) >= self.max_line_length {
			return nil, &FormatError{
				Kind: Truncated,
				Detail: fmt.Sprintf(
					"no line terminator within %d bytes", self.max_line_length),
			}
		}
	}
}
