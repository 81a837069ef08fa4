package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"maestro-dashboard/domain/knowledge"
	"maestro-dashboard/domain/lookup"
	"maestro-dashboard/utils"
	"strconv"
)

const ContentType = "text/csv; charset=utf-8"

type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Filename 生成下载文件名：MAESTRO_<QUERY>_Report.csv，无查询时为 MAESTRO_Report.csv。
func Filename(query string) string {
	canonical := lookup.Canonical(query)
	if len(canonical) == 0 {
		return "MAESTRO_Report.csv"
	}
	return fmt.Sprintf("MAESTRO_%s_Report.csv", canonical)
}

/*
Export 将 rows 按 columns 的顺序导出为 CSV，首行为表头（包含 ces_score）。

对合法的行不会失败；写入内存缓冲区出错属于程序错误，直接 panic。
*/
func Export(columns []string, rows []knowledge.Row, query string) *Report {
	builder := csvBuilder{columns: columns}

	if err := builder.build(rows); err != nil {
		panic(utils.WrapErrorf(err, "export %d rows to csv fail", len(rows)))
	}

	return &Report{
		Filename:    Filename(query),
		ContentType: ContentType,
		Data:        builder.data.Bytes(),
	}
}

type csvBuilder struct {
	// input
	columns []string

	// output
	data bytes.Buffer
}

func (b *csvBuilder) build(rows []knowledge.Row) error {
	writer := csv.NewWriter(&b.data)

	// 表头
	if err := writer.Write(b.columns); err != nil {
		return utils.WrapError(err, "write header fail")
	}

	record := make([]string, len(b.columns))
	for i := range rows {
		for j, column := range b.columns {
			record[j] = formatCell(rows[i].Value(column))
		}

		if err := writer.Write(record); err != nil {
			return utils.WrapErrorf(err, "write row [%s] fail", rows[i].TargetID)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
