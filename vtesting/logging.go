package vtesting

import (
	"regexp"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"www.velocidex.com/golang/seclink/logging"
)

// NullLogger returns a logger which only records into the hook.
func NullLogger() (*logging.LogContext, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return &logging.LogContext{Logger: logger}, hook
}

func LogsContain(t assert.TestingT, hook *test.Hook, regex string,
	msgAndArgs ...interface{}) {
	if !LogsContainRegex(hook, regex) {
		t.Errorf("Unable to find '%v' in logs %v", regex, msgAndArgs)
	}
}

func LogsContainRegex(hook *test.Hook, regex string) bool {
	re := regexp.MustCompile(regex)

	for _, entry := range hook.AllEntries() {
		if re.MatchString(entry.Message) {
			return true
		}
	}
	return false
}
