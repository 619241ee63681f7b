// Test helpers shared by the seclink packages.

package vtesting

import (
	"net"
	"runtime/debug"
	"strings"
	"testing"
	"time"

	"www.velocidex.com/golang/seclink/constants"
	"www.velocidex.com/golang/seclink/wire"
)

func ContainsString(expected string, watched []string) bool {
	for _, line := range watched {
		if strings.Contains(line, expected) {
			return true
		}
	}
	return false
}

func WaitUntil(deadline time.Duration, t *testing.T, cb func() bool) {
	end_time := time.Now().Add(deadline)

	for end_time.After(time.Now()) {
		ok := cb()
		if ok {
			return
		}

		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("Timed out " + string(debug.Stack()))
}

// Pipe returns two connected in memory transports. Both ends are
// closed when the test finishes.
func Pipe(t *testing.T) (*wire.Conn, *wire.Conn) {
	a, b := net.Pipe()
	left := wire.NewConn(a, constants.DEFAULT_MAX_LINE_LENGTH, 0)
	right := wire.NewConn(b, constants.DEFAULT_MAX_LINE_LENGTH, 0)

	t.Cleanup(func() {
		left.Close()
		right.Close()
	})
	return left, right
}

// Transcript renders wire lines the way the console shows them, with
// the terminator spelled out.
type Transcript struct {
	lines []string
}

func (self *Transcript) Add(direction string, line []byte) {
	self.lines = append(self.lines, direction+" "+
		strings.ReplaceAll(string(line), "\r\n", `\r\n`))
}

func (self *Transcript) Bytes() []byte {
	return []byte(strings.Join(self.lines, "\n") + "\n")
}
