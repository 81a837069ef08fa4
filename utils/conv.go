package utils

import (
	"strconv"
	"time"
)

// FormatScore 将分数格式化为两位小数，用于展示。
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}

func DurationToSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
