package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maestro-dashboard/domain/knowledge"
	"maestro-dashboard/domain/lookup"
	"maestro-dashboard/repository/axon"
	"strconv"
	"testing"
)

func mettl3Table() *knowledge.Table {
	record := axon.NewRecord()
	record.Set("id", json.Number("1"))
	record.Set("target_id", " mettl3 ")
	record.Set("initial_score", "0.9")
	record.Set("toxicity_index", "0.2")
	record.Set("description_l0", "RNA methyltransferase, \"writer\" of m6A.\nSecond line.")
	record.Set("pdb_id", "5IL0")
	record.Set("source_id", "X")
	record.Set("action_verb", "INHIBIT")
	record.Set("notes", nil)
	return knowledge.Normalize([]axon.Record{record})
}

func parse(t *testing.T, data []byte) [][]string {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.Nil(t, err)
	return records
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "MAESTRO_METTL3_Report.csv", Filename(" mettl3 "))
	assert.Equal(t, "MAESTRO_Report.csv", Filename(""))
	assert.Equal(t, "MAESTRO_Report.csv", Filename("  \t"))
}

func TestExport_Mettl3(t *testing.T) {
	table := mettl3Table()
	outcome := lookup.Lookup(table, "mettl3")
	require.Equal(t, lookup.KindMatch, outcome.Kind)

	report := Export(table.Columns, []knowledge.Row{*outcome.Row}, outcome.Query)
	assert.Equal(t, "MAESTRO_METTL3_Report.csv", report.Filename)
	assert.Equal(t, ContentType, report.ContentType)

	records := parse(t, report.Data)
	require.Len(t, records, 2)

	header := records[0]
	assert.Equal(t, table.Columns, header)
	assert.Contains(t, header, "ces_score")

	values := make(map[string]string)
	for i, column := range header {
		values[column] = records[1][i]
	}

	ces, err := strconv.ParseFloat(values["ces_score"], 64)
	require.Nil(t, err)
	assert.InDelta(t, 0.72, ces, 0.005)
	assert.Equal(t, "METTL3", values["target_id"])
	assert.Equal(t, "1", values["id"])
	assert.Equal(t, "", values["notes"])
	assert.Equal(t, "RNA methyltransferase, \"writer\" of m6A.\nSecond line.", values["description_l0"])
}

func TestExport_RoundTrip(t *testing.T) {
	records := make([]axon.Record, 0)
	for _, target := range []string{"KRAS", "EGFR", "ME,TTL3"} {
		record := axon.NewRecord()
		record.Set("id", target+"-id")
		record.Set("target_id", target)
		record.Set("initial_score", 0.6)
		record.Set("toxicity_index", "0.35")
		record.Set("pathway", "MAPK")
		records = append(records, record)
	}
	table := knowledge.Normalize(records)

	report := Export(table.Columns, table.Rows, "")
	assert.Equal(t, "MAESTRO_Report.csv", report.Filename)

	parsed := parse(t, report.Data)
	require.Len(t, parsed, len(table.Rows)+1)
	assert.ElementsMatch(t, table.Columns, parsed[0])

	for i, row := range table.Rows {
		for j, column := range parsed[0] {
			cell := parsed[i+1][j]
			switch expect := row.Value(column).(type) {
			case float64:
				actual, err := strconv.ParseFloat(cell, 64)
				require.Nil(t, err)
				assert.InDelta(t, expect, actual, 0.005, column)
			default:
				assert.Equal(t, formatCell(expect), cell, column)
			}
		}
	}
}

func TestExport_HeaderOnly(t *testing.T) {
	table := mettl3Table()
	report := Export(table.Columns, nil, "x")

	parsed := parse(t, report.Data)
	require.Len(t, parsed, 1)
	assert.Equal(t, table.Columns, parsed[0])
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", formatCell(nil))
	assert.Equal(t, "0.72", formatCell(0.72))
	assert.Equal(t, "12345678901234567", formatCell(json.Number("12345678901234567")))
	assert.Equal(t, "7", formatCell(7))
	assert.Equal(t, "true", formatCell(true))
	assert.Equal(t, "abc", formatCell([]byte("abc")))
}
