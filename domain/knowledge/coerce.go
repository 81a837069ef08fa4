package knowledge

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"github.com/spf13/cast"
	"math"
	"strings"
)

// coerceFloat 将单元格转换为有限实数，失败（包括缺失、NaN、Inf、布尔值）时返回 fallback。
func coerceFloat(value any, fallback float64) float64 {
	switch v := value.(type) {
	case nil, bool:
		return fallback
	case string:
		value = strings.TrimSpace(v)
	case []byte:
		value = strings.TrimSpace(string(v))
	case json.Number:
		value = v.String()
	}

	if s, ok := value.(string); ok && len(s) == 0 {
		return fallback
	}

	f, err := cast.ToFloat64E(value)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}

	return f
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	}

	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return s
}

// canonicalTarget 与查询串使用同一规则：转大写并去除首尾空白。
func canonicalTarget(value any) string {
	return strings.TrimSpace(strings.ToUpper(coerceString(value)))
}

func coerceNullString(value any) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: coerceString(value), Valid: true}
}
