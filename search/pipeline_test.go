package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/skillrouter/catalog"
)

func fixtureSkills() []catalog.SkillRecord {
	return []catalog.SkillRecord{
		{
			ID:          "scanpy",
			Name:        "Scanpy Analysis",
			Description: "Single-cell RNA sequencing analysis with scanpy",
			Category:    "bioinformatics",
			Triggers:    []string{"scanpy", "single-cell", "rna", "单细胞"},
			Source:      "builtin",
			Path:        "skills/scanpy",
		},
		{
			ID:          "docker-deploy",
			Name:        "Docker Deploy",
			Description: "Deploy applications with docker containers and kubernetes",
			Category:    "devops",
			Triggers:    []string{"docker", "container", "kubernetes"},
			Source:      "builtin",
			Path:        "skills/docker-deploy",
		},
		{
			ID:          "react-components",
			Name:        "React Components",
			Description: "Build reusable react components with hooks and jsx",
			Category:    "frontend",
			Triggers:    []string{"react", "component"},
			Source:      "builtin",
			Path:        "skills/react-components",
		},
		{
			ID:          "pdf-extract",
			Name:        "PDF Extract",
			Description: "Extract text and tables from pdf documents",
			Category:    "document",
			Triggers:    []string{"pdf", "extract"},
			Source:      "builtin",
			Path:        "skills/pdf-extract",
		},
		{
			ID:          "data-viz",
			Name:        "Data Visualization",
			Description: "Create charts and plots for data visualization",
			Category:    "data",
			Triggers:    []string{"chart", "visualization", "plot"},
			Source:      "builtin",
			Path:        "skills/data-viz",
		},
	}
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p := NewPipeline(nil)
	p.SetSkills(fixtureSkills())
	return p
}

func TestPipelineBilingualQueryFindsScanpy(t *testing.T) {
	p := newTestPipeline(t)

	results := p.Search("分析单细胞RNA数据", 5, "")
	require.NotEmpty(t, results)

	found := false
	for _, r := range results {
		if r.Skill.ID == "scanpy" {
			found = true
		}
	}
	assert.True(t, found, "scanpy must be in top 5 for the Chinese single-cell query")
	assert.Equal(t, "scanpy", results[0].Skill.ID, "scanpy should rank first")
}

func TestPipelineDevopsQuery(t *testing.T) {
	p := newTestPipeline(t)

	results := p.Search("docker container deployment", 5, "")
	require.NotEmpty(t, results)

	top := results[0]
	assert.Equal(t, "docker-deploy", top.Skill.ID)
	assert.Equal(t, "devops", top.Skill.Category)
	assert.Contains(t, top.Reason, "trigger")
}

func TestPipelineSelfRetrievalByID(t *testing.T) {
	p := newTestPipeline(t)

	for _, skill := range fixtureSkills() {
		results := p.Search(skill.ID, 5, "")
		require.NotEmpty(t, results, "query %q returned nothing", skill.ID)
		assert.Equal(t, skill.ID, results[0].Skill.ID,
			"query %q should retrieve its own skill first", skill.ID)
	}
}

func TestPipelineTriggerPlacesSkillInTopK(t *testing.T) {
	p := newTestPipeline(t)

	for _, skill := range fixtureSkills() {
		require.NotEmpty(t, skill.Triggers)
		trigger := skill.Triggers[0]

		results := p.Search(trigger, 10, "")
		found := false
		for _, r := range results {
			if r.Skill.ID == skill.ID {
				found = true
				break
			}
		}
		assert.True(t, found, "trigger %q should place %s in top 10", trigger, skill.ID)
	}
}

func TestPipelineCategoryFilter(t *testing.T) {
	p := newTestPipeline(t)

	results := p.Search("deploy my application", 5, "devops")
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "devops", r.Skill.Category)
	}
}

func TestPipelineEmptyQuery(t *testing.T) {
	p := newTestPipeline(t)

	assert.Empty(t, p.Search("", 5, ""))
	assert.Empty(t, p.Search("   ", 5, ""))
}

func TestPipelineLimit(t *testing.T) {
	p := newTestPipeline(t)

	results := p.Search("create build data docker pdf react", 2, "")
	assert.LessOrEqual(t, len(results), 2)
}

func TestPipelineScoresNonIncreasing(t *testing.T) {
	p := newTestPipeline(t)

	results := p.Search("analyze data with charts and plots", 5, "")
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestPipelineDuplicateIDFirstWins(t *testing.T) {
	p := NewPipeline(nil)
	records := []catalog.SkillRecord{
		{ID: "dup", Name: "First", Description: "alpha skill", Category: "data", Triggers: []string{"alpha"}},
		{ID: "dup", Name: "Second", Description: "beta skill", Category: "data", Triggers: []string{"beta"}},
	}
	p.SetSkills(records)

	assert.Equal(t, 1, p.SkillCount())
	skill, ok := p.Skill("dup")
	require.True(t, ok)
	assert.Equal(t, "First", skill.Name)
}

func TestPipelineReasonPriority(t *testing.T) {
	p := newTestPipeline(t)

	// 触发词命中时 reason 列出触发词
	results := p.Search("extract tables from pdf", 5, "")
	require.NotEmpty(t, results)
	assert.Equal(t, "pdf-extract", results[0].Skill.ID)
	assert.Contains(t, results[0].Reason, "pdf")

	// 无触发词但意图分类命中时给出意图原因
	results = p.Search("可视化统计结果", 5, "")
	require.NotEmpty(t, results)
	for _, r := range results {
		if r.Skill.ID == "data-viz" {
			assert.NotEmpty(t, r.Reason)
		}
	}
}

func TestPipelineExactIDBoostFirstWordHyphenPrefix(t *testing.T) {
	_ = newTestPipeline(t)

	// 首词 "docker" (长度≥4) 是 "docker-deploy" 的连字符前缀
	assert.True(t, matchesExactID("docker deployment", "docker-deploy"))
	// 短首词不触发
	assert.False(t, matchesExactID("pdf tools", "pdf-extract"))
	// 查询包含完整 id 时触发
	assert.True(t, matchesExactID("use pdf-extract on this file", "pdf-extract"))
}
