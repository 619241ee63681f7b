package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"www.velocidex.com/golang/seclink/config"
)

func TestPrintfHelpers(t *testing.T) {
	null_logger, hook := test.NewNullLogger()
	null_logger.SetLevel(logrus.DebugLevel)
	logger := &LogContext{Logger: null_logger}

	logger.Info("session %v from %v", 1, "127.0.0.1")
	logger.Warn("nonce %d reused", 23)
	logger.Debug("plain")

	require.Equal(t, 3, len(hook.AllEntries()))
	assert.Equal(t, "session 1 from 127.0.0.1", hook.AllEntries()[0].Message)
	assert.Equal(t, logrus.WarnLevel, hook.AllEntries()[1].Level)
	assert.Equal(t, "nonce 23 reused", hook.AllEntries()[1].Message)
}

func TestGetLoggerIsCached(t *testing.T) {
	manager := NewLogManager()
	config_obj := config.GetDefaultConfig()

	a := manager.GetLogger(config_obj, &ServerComponent)
	b := manager.GetLogger(config_obj, &ServerComponent)
	c := manager.GetLogger(config_obj, &ClientComponent)

	assert.True(t, a == b)
	assert.False(t, a == c)
	assert.Equal(t, logrus.InfoLevel, a.GetLevel())

	config_obj.Logging.Debug = true
	manager.Reset()
	assert.Equal(t, logrus.DebugLevel,
		manager.GetLogger(config_obj, &ServerComponent).GetLevel())
}

func TestAddHook(t *testing.T) {
	manager := NewLogManager()
	hook := test.NewLocal(logrus.New())
	manager.AddHook(hook, &ToolComponent)

	logger := manager.GetLogger(nil, &ToolComponent)
	logger.SetOutput(discard{})
	logger.Error("failed: %v", "boom")

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "failed: boom", hook.LastEntry().Message)
}

func TestFormatter(t *testing.T) {
	formatter := &Formatter{component: "SeclinkServer"}
	entry := &logrus.Entry{
		Level:   logrus.InfoLevel,
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Message: "hello\r\n",
		Data:    logrus.Fields{"nonce": 23},
	}

	out, err := formatter.Format(entry)
	require.NoError(t, err)
	assert.Equal(t,
		"[INFO] 2024-01-02T03:04:05Z SeclinkServer hello {\"nonce\":23}\n",
		string(out))
}

func TestInitLoggingWritesFiles(t *testing.T) {
	dir := t.TempDir()

	config_obj := config.GetDefaultConfig()
	config_obj.Logging.OutputDirectory = dir

	defer func() {
		Manager = NewLogManager()
	}()
	Manager = NewLogManager()

	require.NoError(t, InitLogging(config_obj))

	logger := GetLogger(config_obj, &ServerComponent)
	logger.SetOutput(discard{})
	logger.Info("listening on %v", 1234)

	matches, err := filepath.Glob(filepath.Join(dir, "seclinkserver.*.log"))
	require.NoError(t, err)
	require.Equal(t, 1, len(matches))

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "listening on 1234"))
}
