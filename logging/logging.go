package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/Velocidex/file-rotatelogs"
	"github.com/go-errors/errors"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"www.velocidex.com/golang/seclink/config"
)

var (
	GenericComponent = "SeclinkGeneric"
	ServerComponent  = "SeclinkServer"
	ClientComponent  = "SeclinkClient"
	ToolComponent    = "SeclinkTool"

	// When set nothing is printed on stderr. Log files still
	// receive everything.
	SuppressLogging = false

	Manager = NewLogManager()
)

// LogContext keeps printf style helpers on top of logrus.
type LogContext struct {
	*logrus.Logger
}

func (self *LogContext) Debug(format string, v ...interface{}) {
	self.Logger.Debug(fmt.Sprintf(format, v...))
}

func (self *LogContext) Info(format string, v ...interface{}) {
	self.Logger.Info(fmt.Sprintf(format, v...))
}

func (self *LogContext) Warn(format string, v ...interface{}) {
	self.Logger.Warn(fmt.Sprintf(format, v...))
}

func (self *LogContext) Error(format string, v ...interface{}) {
	self.Logger.Error(fmt.Sprintf(format, v...))
}

type LogManager struct {
	mu       sync.Mutex
	contexts map[*string]*LogContext
	hooks    map[*string][]logrus.Hook
	debug    bool
}

func NewLogManager() *LogManager {
	return &LogManager{
		contexts: make(map[*string]*LogContext),
		hooks:    make(map[*string][]logrus.Hook),
	}
}

// Reset drops all cached loggers so they are rebuilt with the
// current settings.
func (self *LogManager) Reset() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.contexts = make(map[*string]*LogContext)
}

func (self *LogManager) AddHook(hook logrus.Hook, component *string) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.hooks[component] = append(self.hooks[component], hook)
	delete(self.contexts, component)
}

func (self *LogManager) GetLogger(
	config_obj *config.Config, component *string) *LogContext {
	self.mu.Lock()
	defer self.mu.Unlock()

	ctx, pres := self.contexts[component]
	if pres {
		return ctx
	}

	logger := logrus.New()
	logger.SetFormatter(&Formatter{component: *component})
	logger.SetOutput(os.Stderr)
	if SuppressLogging {
		logger.SetOutput(discard{})
	}

	logger.SetLevel(logrus.InfoLevel)
	if self.debug || (config_obj != nil && config_obj.Logging.Debug) {
		logger.SetLevel(logrus.DebugLevel)
	}

	for _, hook := range self.hooks[component] {
		logger.AddHook(hook)
	}

	ctx = &LogContext{Logger: logger}
	self.contexts[component] = ctx
	return ctx
}

func GetLogger(config_obj *config.Config, component *string) *LogContext {
	return Manager.GetLogger(config_obj, component)
}

// InitLogging attaches rotated log files for every component when
// the config names an output directory.
func InitLogging(config_obj *config.Config) error {
	Manager.mu.Lock()
	Manager.debug = config_obj.Logging.Debug
	Manager.mu.Unlock()

	directory := config_obj.Logging.OutputDirectory
	if directory == "" {
		Manager.Reset()
		return nil
	}

	err := os.MkdirAll(directory, 0700)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	max_age := time.Duration(config_obj.Logging.MaxAge) * time.Second
	if max_age == 0 {
		max_age = 7 * 24 * time.Hour
	}

	rotation_time := time.Duration(config_obj.Logging.RotationTime) * time.Second
	if rotation_time == 0 {
		rotation_time = 24 * time.Hour
	}

	for _, component := range []*string{
		&GenericComponent, &ServerComponent,
		&ClientComponent, &ToolComponent} {
		base_filename := filepath.Join(directory, strings.ToLower(*component))
		writer, err := rotatelogs.New(
			base_filename+".%Y%m%d%H%M%S.log",
			rotatelogs.WithLinkName(base_filename+".log"),
			rotatelogs.WithMaxAge(max_age),
			rotatelogs.WithRotationTime(rotation_time))
		if err != nil {
			return errors.Wrap(err, 0)
		}

		Manager.AddHook(lfshook.NewHook(lfshook.WriterMap{
			logrus.DebugLevel: writer,
			logrus.InfoLevel:  writer,
			logrus.WarnLevel:  writer,
			logrus.ErrorLevel: writer,
		}, &logrus.JSONFormatter{}), component)
	}

	return nil
}

type discard struct{}

func (self discard) Write(b []byte) (int, error) {
	return len(b), nil
}
