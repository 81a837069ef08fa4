package cmd

import (
	"github.com/pterm/pterm"
	"maestro-dashboard/domain/dashboard"
	"maestro-dashboard/domain/lookup"
	"maestro-dashboard/utils"
	"strings"
)

// renderView 将 View 渲染为终端文本，内容与网页一致。
func renderView(view *dashboard.View) (string, error) {
	var sb strings.Builder

	sb.WriteString(pterm.Success.Sprintln(view.Status.Message))
	for _, msg := range view.Errors {
		sb.WriteString(pterm.Error.Sprintln(msg))
	}
	sb.WriteString("\n")

	if view.Target != nil {
		content, err := renderTarget(view.Target)
		if err != nil {
			return "", err
		}
		sb.WriteString(content)
		return sb.String(), nil
	}

	if view.Kind == lookup.KindEmptyTable.String() {
		sb.WriteString(pterm.Error.Sprintln(view.Message))
		return sb.String(), nil
	}

	if len(view.Message) != 0 {
		sb.WriteString(pterm.Info.Sprintln(view.Message))
	}

	if len(view.Preview) != 0 {
		items := make([]pterm.BulletListItem, 0, len(view.Preview))
		for _, target := range view.Preview {
			items = append(items, pterm.BulletListItem{Level: 0, Text: target})
		}
		content, err := pterm.DefaultBulletList.WithItems(items).Srender()
		if err != nil {
			return "", utils.WrapError(err, "render preview fail")
		}
		sb.WriteString(content)
	}

	if len(view.Welcome) != 0 {
		data := pterm.TableData{{"target_id", "initial_score", "ces_score"}}
		for _, row := range view.Welcome {
			data = append(data, []string{row.TargetID, row.InitialScore, row.CESScore})
		}
		content, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return "", utils.WrapError(err, "render welcome table fail")
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func renderTarget(target *dashboard.Target) (string, error) {
	var sb strings.Builder

	sb.WriteString(pterm.DefaultHeader.WithFullWidth().Sprintln(target.TargetID))

	scores, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"initial_score (VTG)", "toxicity_index (TMI)", "ces_score"},
		{target.InitialScore, target.ToxicityIndex, target.CESScore},
	}).Srender()
	if err != nil {
		return "", utils.WrapError(err, "render scores fail")
	}
	sb.WriteString(scores)
	sb.WriteString("\n\n")

	sb.WriteString(pterm.DefaultSection.Sprintln("Description"))
	sb.WriteString(target.Description)
	sb.WriteString("\n")
	if len(target.PdbID) != 0 {
		sb.WriteString(pterm.Info.Sprintfln("PDB: %s", target.PdbID))
	}

	sb.WriteString(pterm.DefaultSection.Sprintln("Hierarchy"))
	hierarchy, err := pterm.DefaultTable.WithData(pterm.TableData{
		{"id", target.Hierarchy.ID},
		{"source_id", target.Hierarchy.SourceID},
		{"action_verb", target.Hierarchy.ActionVerb},
	}).Srender()
	if err != nil {
		return "", utils.WrapError(err, "render hierarchy fail")
	}
	sb.WriteString(hierarchy)
	sb.WriteString("\n\n")

	sb.WriteString(pterm.Info.Sprintfln("Export with: maestro export %s (writes %s)", target.TargetID, target.Download))

	return sb.String(), nil
}
