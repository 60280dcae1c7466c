package classify

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/wipflags/internal/model"
)

func line(desc, unit string) model.BudgetLine {
	return model.BudgetLine{Description: desc, Unit: unit}
}

func TestDefault_OtherNRETravel(t *testing.T) {
	rs := Default()
	l := line("Other NRE Travel Reimbursement", "Trip")

	assert.True(t, rs.Member(model.OtherNRE, l))
	assert.True(t, rs.Member(model.Travel, l))
	assert.False(t, rs.Member(model.BeginningWIP, l))
	assert.False(t, rs.Member(model.NumberOfKits, l))
	assert.False(t, rs.Member(model.Milestones, l))
}

func TestDefault_Memberships(t *testing.T) {
	rs := Default()
	tests := []struct {
		line model.BudgetLine
		want []model.Category
	}{
		{line("Engineering Labor", "Hour"), []model.Category{model.EngineeringLabor}},
		{line("Manufacturing Labor", "Hour"), []model.Category{model.ManufacturingLabor}},
		{line("Material - Panels", "Lot"), []model.Category{model.MaterialReceipts}},
		{
			line("Kit Assembly", "Each"),
			[]model.Category{model.NumberOfKits, model.BeginningWIP, model.KitSales},
		},
		{
			// hourly kit lines are labor, not kit sales or WIP
			line("Kit Rework", "Hour"),
			[]model.Category{model.NumberOfKits},
		},
		{
			line("NRE Design Review", "Milestone"),
			[]model.Category{model.NumberOfKits, model.BeginningWIP, model.Milestones},
		},
		{
			line("TRAVEL to site", "Trip"),
			[]model.Category{
				model.NumberOfKits, model.BeginningWIP, model.OtherNRE,
				model.Milestones, model.Travel,
			},
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rs.Classify(tt.line), tt.line.Description)
	}
}

func TestDefault_CaseInsensitive(t *testing.T) {
	rs := Default()
	assert.True(t, rs.Member(model.EngineeringLabor, line("ENGINEERING LABOR", "")))
	assert.True(t, rs.Member(model.OtherNRE, line("other nre costs", "")))
	assert.False(t, rs.Member(model.KitSales, line("kit labour", "HOURS")))
}

func TestDefault_QtyTextExcludedFromKitCount(t *testing.T) {
	rs := Default()
	l := line("Kit 1", "Each")
	l.QtyText = true
	assert.False(t, rs.Member(model.NumberOfKits, l))
	assert.True(t, rs.Member(model.KitSales, l))
}

func TestPartition_Unclassified(t *testing.T) {
	rs := Default()
	lines := []model.BudgetLine{
		line("Engineering Labor", "Hour"),
		line("Contingency", ""),
		line("Kit 1", "Each"),
	}
	res := rs.Partition(lines)

	require.Len(t, res.Unclassified, 1)
	assert.Equal(t, "Contingency", res.Unclassified[0].Description)
	assert.Len(t, res.Lines(model.EngineeringLabor), 1)
	assert.Len(t, res.Lines(model.KitSales), 1)
	assert.Empty(t, res.Lines(model.EndingWIP))
}

func TestMember_LaterRulesNarrow(t *testing.T) {
	rs := &RuleSet{Rules: []Rule{
		{Category: model.OtherNRE, Action: Include, Field: Description, Any: []string{"nre"}},
		{Category: model.OtherNRE, Action: Exclude, Field: Description, Any: []string{"review"}},
		{Category: model.OtherNRE, Action: Include, Field: Unit, Any: []string{"trip"}},
	}}
	assert.True(t, rs.Member(model.OtherNRE, line("NRE fixture", "")))
	assert.False(t, rs.Member(model.OtherNRE, line("NRE review", "")))
	assert.True(t, rs.Member(model.OtherNRE, line("NRE review", "Trip")))
	assert.False(t, rs.Member(model.OtherNRE, line("fixture", "")))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	bad := []RuleSet{
		{Rules: []Rule{{Category: model.OtherNRE, Action: "maybe", Field: Description, Any: []string{"x"}}}},
		{Rules: []Rule{{Category: model.OtherNRE, Action: Include, Field: "notes", Any: []string{"x"}}}},
		{Rules: []Rule{{Category: model.OtherNRE, Action: Include, Field: Description}}},
		{Rules: []Rule{{Category: model.OtherNRE, Action: Exclude, Field: Description, Any: []string{"x"}}}},
		{Rules: []Rule{{Category: model.EndingWIP, Action: Include, Field: Description, Any: []string{"x"}}}},
	}
	for i, rs := range bad {
		assert.Error(t, rs.Validate(), "case %d", i)
	}
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Encode(&buf))
	assert.Contains(t, buf.String(), "category: other_nre")

	rs, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, Default().Rules, rs.Rules)
}

func TestLoad(t *testing.T) {
	rs, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Rules, rs.Rules)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	yml := strings.Join([]string{
		"rules:",
		"  - category: Engineering Labor",
		"    action: include",
		"    field: description",
		"    any: [engineering, design]",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	rs, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{model.EngineeringLabor}, rs.Categories())
	assert.True(t, rs.Member(model.EngineeringLabor, line("Design work", "")))

	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - category: bogus\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}
