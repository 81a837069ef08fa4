package knowledge

import (
	"database/sql"
	"maestro-dashboard/repository/axon"
)

const (
	ColumnID            = "id"
	ColumnSourceID      = "source_id"
	ColumnTargetID      = "target_id"
	ColumnActionVerb    = "action_verb"
	ColumnDescription   = "description_l0"
	ColumnPdbID         = "pdb_id"
	ColumnInitialScore  = "initial_score"
	ColumnToxicityIndex = "toxicity_index"
	ColumnCESScore      = "ces_score"
)

/*
Row 是 axon_knowledge 中的一条记录（归一化之后）。

	ID、SourceID 不透明的标识，保留远端原值（字符串或 json.Number）；
	TargetID 大写且去除首尾空白的靶点标识；
	ActionVerb、DescriptionL0、PdbID 可能缺失，缺失时 Valid 为 false；
	InitialScore 先验评分（VTG），无法转换为数字时为 0.8；
	ToxicityIndex 毒性指数（TMI），无法转换为数字时为 0.1；
	CESScore 派生列，InitialScore * (1 - ToxicityIndex)；
	Extras 其余未知列，原样保留；
*/
type Row struct {
	ID            any
	SourceID      any
	TargetID      string
	ActionVerb    sql.NullString
	DescriptionL0 sql.NullString
	PdbID         sql.NullString
	InitialScore  float64
	ToxicityIndex float64
	CESScore      float64
	Extras        map[string]any
}

// Value 按列名取值，缺失的单元格返回 nil。
func (r *Row) Value(column string) any {
	switch column {
	case ColumnID:
		return r.ID
	case ColumnSourceID:
		return r.SourceID
	case ColumnTargetID:
		return r.TargetID
	case ColumnActionVerb:
		return nullStringValue(r.ActionVerb)
	case ColumnDescription:
		return nullStringValue(r.DescriptionL0)
	case ColumnPdbID:
		return nullStringValue(r.PdbID)
	case ColumnInitialScore:
		return r.InitialScore
	case ColumnToxicityIndex:
		return r.ToxicityIndex
	case ColumnCESScore:
		return r.CESScore
	default:
		return r.Extras[column]
	}
}

func nullStringValue(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	return s.String
}

// Table 是归一化后的整张知识表，创建后只读。
type Table struct {
	Columns []string
	Rows    []Row
}

func EmptyTable() *Table {
	return &Table{
		Columns: []string{},
		Rows:    []Row{},
	}
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Head 返回前 n 行，不复制行数据。
func (t *Table) Head(n int) []Row {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return t.Rows[:n]
}

// Records 将表还原为记录列表，是 Normalize 的逆过程。
func (t *Table) Records() []axon.Record {
	records := make([]axon.Record, 0, len(t.Rows))
	for i := range t.Rows {
		record := axon.NewRecord()
		for _, column := range t.Columns {
			record.Set(column, t.Rows[i].Value(column))
		}
		records = append(records, record)
	}
	return records
}
