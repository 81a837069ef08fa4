package axon

import (
	"github.com/sirupsen/logrus"
)

// printfLogger 将 gorm 与 retryablehttp 的 Printf 日志降级为 Debug。
type printfLogger struct {
	logger *logrus.Logger
}

func (l *printfLogger) Printf(fmt string, args ...interface{}) {
	l.logger.Debugf(fmt, args...)
}
