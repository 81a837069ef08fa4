package utils

import (
	"github.com/cockroachdb/errors"
)

// WrapError 为 err 附加上下文信息，err 为 nil 时返回 nil。
func WrapError(err error, msg string) error {
	return errors.WrapWithDepth(1, err, msg)
}

func WrapErrorf(err error, format string, args ...interface{}) error {
	return errors.WrapWithDepthf(1, err, format, args...)
}
