// Renders session events for people. The session code itself never
// writes to a terminal.

package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"www.velocidex.com/golang/seclink/json"
	"www.velocidex.com/golang/seclink/session"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiCyan  = "\x1b[36m"
)

var lineEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`)

// Console is a session.EventSink which prints events either as text
// or as one JSON object per line.
type Console struct {
	mu sync.Mutex

	out         io.Writer
	json_output bool
	color       bool

	// Wire lines are only shown when set.
	ShowWire bool
}

// NewConsole colours its output only when out is a terminal.
func NewConsole(out io.Writer, json_output bool) *Console {
	self := &Console{
		out:         out,
		json_output: json_output,
		ShowWire:    true,
	}

	fd, ok := out.(*os.File)
	if ok && !json_output {
		self.color = isatty.IsTerminal(fd.Fd()) ||
			isatty.IsCygwinTerminal(fd.Fd())
	}
	return self
}

func (self *Console) OnEvent(event *session.Event) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.json_output {
		_ = json.WriteJsonl(self.out, event.ToDict())
		return
	}

	text, color := self.render(event)
	if text == "" {
		return
	}

	if self.color && color != "" {
		text = color + text + ansiReset
	}
	fmt.Fprintln(self.out, text)
}

func (self *Console) render(event *session.Event) (string, string) {
	is_client := event.Role == session.ROLE_CLIENT

	switch event.Type {
	case session.LineSent:
		if self.ShowWire {
			return "---> " + lineEscaper.Replace(string(event.Line)), ansiCyan
		}

	case session.LineReceived:
		if self.ShowWire {
			return "<--- " + lineEscaper.Replace(string(event.Line)), ansiCyan
		}

	case session.KeyAnnounced:
		return fmt.Sprintf("Announced public key %v", event.Key), ""

	case session.KeyReceived:
		return fmt.Sprintf("Received public key %v", event.Key), ""

	case session.NonceSent:
		if is_client {
			return fmt.Sprintf("Sent nonce %d", int64(event.Nonce)), ""
		}
		return fmt.Sprintf("Received nonce %d", int64(event.Nonce)), ""

	case session.NonceAcked:
		return fmt.Sprintf("Session %v ready", event.SessionId), ansiGreen

	case session.MessageExchanged:
		size := humanize.Bytes(uint64(len(event.Text)))
		if is_client {
			return fmt.Sprintf("Sent %s, reply: %s", size, event.Reply), ""
		}
		return fmt.Sprintf("Decrypted %s: '%s'", size, event.Text), ""

	case session.SessionClosed:
		if event.Err != nil {
			return fmt.Sprintf("Session closed: %v", event.Err), ansiRed
		}
		return "Session closed", ""
	}

	return "", ""
}
