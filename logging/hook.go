package logging

import (
	"github.com/sirupsen/logrus"
	"io"
	"sync"
)

// levelHook 将不高于 maxLevel 的日志以指定格式写入 writer。
type levelHook struct {
	mu        sync.Mutex
	writer    io.Writer
	formatter logrus.Formatter
	maxLevel  logrus.Level
}

func (h *levelHook) Levels() []logrus.Level {
	levels := make([]logrus.Level, 0, len(logrus.AllLevels))
	for _, level := range logrus.AllLevels {
		if level <= h.maxLevel {
			levels = append(levels, level)
		}
	}
	return levels
}

func (h *levelHook) Fire(entry *logrus.Entry) error {
	data, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err = h.writer.Write(data)
	return err
}

// ParseLevel 解析配置中的级别，无法识别时返回 fallback。
func ParseLevel(level string, fallback logrus.Level) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fallback
	}
	return parsed
}
