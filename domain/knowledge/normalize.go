package knowledge

import (
	"maestro-dashboard/repository/axon"
)

// 业务常量：无法转换为数字时使用的默认分数。
const (
	DefaultInitialScore  = 0.8
	DefaultToxicityIndex = 0.1
)

// normalizedColumns 归一化后一定存在的列。
var normalizedColumns = []string{ColumnTargetID, ColumnInitialScore, ColumnToxicityIndex, ColumnCESScore}

// CES 综合效能评分。
func CES(initialScore, toxicityIndex float64) float64 {
	return initialScore * (1 - toxicityIndex)
}

/*
Normalize 将远端记录转换为 Table：

 1. 按首次出现的顺序收集列名；
 2. 记录为空时直接返回空表；
 3. target_id 转为字符串、大写、去除首尾空白；
 4. initial_score 转为实数，失败时为 0.8；
 5. toxicity_index 转为实数，失败时为 0.1；
 6. 计算 ces_score = initial_score * (1 - toxicity_index)。

对自身输出再次执行 Normalize（经 Table.Records）得到相同的表。
*/
func Normalize(records []axon.Record) *Table {
	if len(records) == 0 {
		return EmptyTable()
	}

	table := &Table{
		Columns: collectColumns(records),
		Rows:    make([]Row, 0, len(records)),
	}

	for i := range records {
		table.Rows = append(table.Rows, normalizeRow(&records[i], table.Columns))
	}

	return table
}

func collectColumns(records []axon.Record) []string {
	seen := make(map[string]struct{})
	columns := make([]string, 0)

	add := func(column string) {
		if _, exist := seen[column]; exist {
			return
		}
		seen[column] = struct{}{}
		columns = append(columns, column)
	}

	for _, record := range records {
		for _, column := range record.Columns {
			add(column)
		}
	}

	for _, column := range normalizedColumns {
		add(column)
	}

	return columns
}

// normalizeRow 中 Extras 包含表的全部未知列，记录中缺失的列取 nil。
func normalizeRow(record *axon.Record, columns []string) Row {
	values := record.Values

	row := Row{
		ID:            values[ColumnID],
		SourceID:      values[ColumnSourceID],
		TargetID:      canonicalTarget(values[ColumnTargetID]),
		ActionVerb:    coerceNullString(values[ColumnActionVerb]),
		DescriptionL0: coerceNullString(values[ColumnDescription]),
		PdbID:         coerceNullString(values[ColumnPdbID]),
		InitialScore:  coerceFloat(values[ColumnInitialScore], DefaultInitialScore),
		ToxicityIndex: coerceFloat(values[ColumnToxicityIndex], DefaultToxicityIndex),
	}
	row.CESScore = CES(row.InitialScore, row.ToxicityIndex)

	for _, column := range columns {
		if isKnownColumn(column) {
			continue
		}
		if row.Extras == nil {
			row.Extras = make(map[string]any)
		}
		row.Extras[column] = values[column]
	}

	return row
}

func isKnownColumn(column string) bool {
	switch column {
	case ColumnID, ColumnSourceID, ColumnTargetID, ColumnActionVerb, ColumnDescription,
		ColumnPdbID, ColumnInitialScore, ColumnToxicityIndex, ColumnCESScore:
		return true
	default:
		return false
	}
}
