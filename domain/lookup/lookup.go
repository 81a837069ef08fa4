package lookup

import (
	"maestro-dashboard/domain/knowledge"
	"strings"
)

// PreviewLimit 未命中时提示的靶点数量上限。
const PreviewLimit = 15

type Kind int

const (
	KindNoQuery Kind = iota
	KindEmptyTable
	KindNoMatch
	KindMatch
)

func (k Kind) String() string {
	switch k {
	case KindNoQuery:
		return "no_query"
	case KindEmptyTable:
		return "empty_table"
	case KindNoMatch:
		return "no_match"
	case KindMatch:
		return "match"
	default:
		return "unknown"
	}
}

/*
Outcome 是一次查询的结果。

	Query 规范化后的查询串；
	Row Kind 为 KindMatch 时指向命中的行；
	Preview Kind 为 KindNoMatch 时为表中前 15 个不重复的 target_id；
*/
type Outcome struct {
	Kind    Kind
	Query   string
	Row     *knowledge.Row
	Preview []string
}

// Canonical 转大写并去除首尾空白。
func Canonical(query string) string {
	return strings.TrimSpace(strings.ToUpper(query))
}

/*
Lookup 在 table 中按 target_id 精确匹配 query。

表为空时返回 KindEmptyTable；规范化后的 query 为空时返回 KindNoQuery；
存在多行匹配时取表中顺序的第一行。
*/
func Lookup(table *knowledge.Table, query string) Outcome {
	canonical := Canonical(query)

	if table == nil || table.Empty() {
		return Outcome{Kind: KindEmptyTable, Query: canonical}
	}

	if len(canonical) == 0 {
		return Outcome{Kind: KindNoQuery}
	}

	for i := range table.Rows {
		if table.Rows[i].TargetID == canonical {
			return Outcome{
				Kind:  KindMatch,
				Query: canonical,
				Row:   &table.Rows[i],
			}
		}
	}

	return Outcome{
		Kind:    KindNoMatch,
		Query:   canonical,
		Preview: Preview(table, PreviewLimit),
	}
}

// Preview 按表中顺序返回前 limit 个不重复的 target_id。
func Preview(table *knowledge.Table, limit int) []string {
	ret := make([]string, 0, limit)
	seen := make(map[string]struct{})

	for i := range table.Rows {
		if len(ret) >= limit {
			break
		}

		target := table.Rows[i].TargetID
		if _, exist := seen[target]; exist {
			continue
		}
		seen[target] = struct{}{}
		ret = append(ret, target)
	}

	return ret
}
