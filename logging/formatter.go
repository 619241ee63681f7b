package logging

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/Velocidex/json"
	"github.com/sirupsen/logrus"
)

// Formatter writes one line per entry:
// [LEVEL] time component message {fields}
type Formatter struct {
	component string
}

func (self *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}

	levelText := strings.ToUpper(entry.Level.String())
	fmt.Fprintf(b, "[%s] %v %s %s", levelText,
		entry.Time.Format(time.RFC3339), self.component,
		strings.TrimRight(entry.Message, "\r\n"))

	if len(entry.Data) > 0 {
		serialized, err := json.Marshal(entry.Data)
		if err == nil {
			fmt.Fprintf(b, " %s", serialized)
		}
	}
	b.WriteByte('\n')

	return b.Bytes(), nil
}
