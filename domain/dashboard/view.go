package dashboard

import (
	"fmt"
	"maestro-dashboard/domain/knowledge"
	"maestro-dashboard/domain/lookup"
	"maestro-dashboard/domain/report"
	"maestro-dashboard/utils"
	"strings"
)

const (
	WelcomeRowLimit = 10

	DescriptionFallback = "Analysis in progress for this cluster."
	WelcomeMessage      = "Welcome to MAESTRO. Enter a target identifier (e.g. METTL3, KRAS, EGFR) to inspect its scores."
	EmptyTableMessage   = "The axon_knowledge table returned no rows. Check the remote access permissions (RLS policies) for the publishable key."
	noMatchFormat       = "Target %s not found in AXON. Available targets include:"
)

type Status struct {
	Rows    int    `json:"rows"`
	Message string `json:"message"`
}

type Hierarchy struct {
	ID         string `json:"id"`
	SourceID   string `json:"source_id"`
	ActionVerb string `json:"action_verb"`
}

/*
Target 是命中行的展示数据，分数均已格式化为两位小数。

	Download 导出文件名；
*/
type Target struct {
	TargetID      string    `json:"target_id"`
	InitialScore  string    `json:"initial_score"`
	ToxicityIndex string    `json:"toxicity_index"`
	CESScore      string    `json:"ces_score"`
	Description   string    `json:"description"`
	PdbID         string    `json:"pdb_id,omitempty"`
	Hierarchy     Hierarchy `json:"hierarchy"`
	Download      string    `json:"download"`
}

type WelcomeRow struct {
	TargetID     string `json:"target_id"`
	InitialScore string `json:"initial_score"`
	CESScore     string `json:"ces_score"`
}

// View 是展示层需要的全部数据，HTML 页面、JSON 接口与终端共用。
type View struct {
	Kind    string       `json:"kind"`
	Query   string       `json:"query"`
	Status  Status       `json:"status"`
	Errors  []string     `json:"errors"`
	Message string       `json:"message,omitempty"`
	Target  *Target      `json:"target,omitempty"`
	Preview []string     `json:"preview,omitempty"`
	Welcome []WelcomeRow `json:"welcome,omitempty"`
}

func (v *View) Matched() bool {
	return v.Target != nil
}

// Build 根据查询结果生成 View，errors 为本次加载过程中上报的错误信息。
func Build(table *knowledge.Table, outcome lookup.Outcome, errors []string) *View {
	if table == nil {
		table = knowledge.EmptyTable()
	}
	if errors == nil {
		errors = []string{}
	}

	view := &View{
		Kind:   outcome.Kind.String(),
		Query:  outcome.Query,
		Status: buildStatus(table),
		Errors: errors,
	}

	switch outcome.Kind {
	case lookup.KindMatch:
		view.Target = buildTarget(outcome.Row, outcome.Query)
	case lookup.KindNoMatch:
		view.Message = fmt.Sprintf(noMatchFormat, outcome.Query)
		view.Preview = outcome.Preview
	case lookup.KindEmptyTable:
		view.Message = EmptyTableMessage
	case lookup.KindNoQuery:
		view.Message = WelcomeMessage
		view.Welcome = buildWelcome(table)
	}

	return view
}

func buildStatus(table *knowledge.Table) Status {
	return Status{
		Rows:    table.Len(),
		Message: fmt.Sprintf("AXON connected: %d records loaded", table.Len()),
	}
}

func buildTarget(row *knowledge.Row, query string) *Target {
	description := DescriptionFallback
	if row.DescriptionL0.Valid && len(strings.TrimSpace(row.DescriptionL0.String)) != 0 {
		description = row.DescriptionL0.String
	}

	target := &Target{
		TargetID:      row.TargetID,
		InitialScore:  utils.FormatScore(row.InitialScore),
		ToxicityIndex: utils.FormatScore(row.ToxicityIndex),
		CESScore:      utils.FormatScore(row.CESScore),
		Description:   description,
		Hierarchy: Hierarchy{
			ID:         display(row.ID),
			SourceID:   display(row.SourceID),
			ActionVerb: display(row.Value(knowledge.ColumnActionVerb)),
		},
		Download: report.Filename(query),
	}

	if row.PdbID.Valid {
		target.PdbID = strings.TrimSpace(row.PdbID.String)
	}

	return target
}

func buildWelcome(table *knowledge.Table) []WelcomeRow {
	rows := table.Head(WelcomeRowLimit)
	ret := make([]WelcomeRow, 0, len(rows))
	for i := range rows {
		ret = append(ret, WelcomeRow{
			TargetID:     rows[i].TargetID,
			InitialScore: utils.FormatScore(rows[i].InitialScore),
			CESScore:     utils.FormatScore(rows[i].CESScore),
		})
	}
	return ret
}

func display(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
