package logging

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

/*
Config 描述日志的输出方式。

	FileLevel 写入文件的最低级别；
	ConsoleLevel 输出到控制台的最低级别；
	FileDir 日志文件目录，为空时不写文件；
	DisableConsole 关闭控制台输出；
*/
type Config struct {
	FileLevel      logrus.Level
	ConsoleLevel   logrus.Level
	FileDir        string
	DisableConsole bool
}

func GenerateTestConfig(t testing.TB) *Config {
	return &Config{
		FileLevel:      logrus.DebugLevel,
		ConsoleLevel:   logrus.DebugLevel,
		FileDir:        t.TempDir(),
		DisableConsole: false,
	}
}

var (
	lock          sync.Mutex
	defaultConfig = Config{ConsoleLevel: logrus.InfoLevel, FileLevel: logrus.InfoLevel}
	defaultLogger *logrus.Logger
	logFile       *os.File
)

// SetDefaultConfig 替换全局日志配置，之后 NewLogger 与 Default 均使用新配置。
func SetDefaultConfig(config *Config) {
	lock.Lock()
	defer lock.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	defaultConfig = *config
	if len(defaultConfig.FileDir) != 0 {
		file, err := openLogFile(defaultConfig.FileDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file in [%s] fail, file logging disabled: %v\n", defaultConfig.FileDir, err)
			defaultConfig.FileDir = ""
		} else {
			logFile = file
		}
	}

	defaultLogger = newLogger(&defaultConfig, logFile)
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("maestro-%s.log", time.Now().Format("20060102"))
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func NewLogger() *logrus.Logger {
	lock.Lock()
	defer lock.Unlock()

	return newLogger(&defaultConfig, logFile)
}

// Default 返回共享的日志实例。
func Default() *logrus.Logger {
	lock.Lock()
	defer lock.Unlock()

	if defaultLogger == nil {
		defaultLogger = newLogger(&defaultConfig, logFile)
	}
	return defaultLogger
}

// newLogger 中 file 为 nil 时不写文件。
func newLogger(config *Config, file *os.File) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	level := logrus.PanicLevel
	if !config.DisableConsole {
		logger.AddHook(&levelHook{
			writer:    os.Stderr,
			formatter: &logrus.TextFormatter{FullTimestamp: true},
			maxLevel:  config.ConsoleLevel,
		})
		level = maxLevel(level, config.ConsoleLevel)
	}

	if file != nil {
		logger.AddHook(&levelHook{
			writer:    file,
			formatter: &logrus.JSONFormatter{},
			maxLevel:  config.FileLevel,
		})
		level = maxLevel(level, config.FileLevel)
	}

	logger.SetLevel(level)
	return logger
}

func maxLevel(a, b logrus.Level) logrus.Level {
	if a > b {
		return a
	}
	return b
}
