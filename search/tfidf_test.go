package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineSearchRanksSharedTermsHigher(t *testing.T) {
	e := NewEngine(nil)
	e.AddDocument("scanpy", "single-cell rna sequencing analysis scanpy")
	e.AddDocument("docker-deploy", "deploy applications with docker containers")
	e.AddDocument("pdf-extract", "extract text and tables from pdf documents")

	results := e.Search("single-cell rna analysis", 10)
	require.NotEmpty(t, results)
	assert.Equal(t, "scanpy", results[0].ID)

	// 零重叠的文档不出现在结果中
	for _, r := range results {
		assert.NotEqual(t, "pdf-extract", r.ID)
	}
}

func TestEngineSearchRespectsLimitAndOrder(t *testing.T) {
	e := NewEngine(nil)
	e.AddDocument("a", "alpha beta")
	e.AddDocument("b", "alpha beta gamma")
	e.AddDocument("c", "alpha")
	e.AddDocument("d", "delta")

	results := e.Search("alpha beta gamma", 2)
	require.Len(t, results, 2)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestEngineSearchEmptyQuery(t *testing.T) {
	e := NewEngine(nil)
	e.AddDocument("a", "alpha")

	assert.Empty(t, e.Search("", 10))
	assert.Empty(t, e.Search("!!! ???", 10))
}

func TestEngineIDF(t *testing.T) {
	e := NewEngine(nil)
	e.AddDocument("a", "alpha common")
	e.AddDocument("b", "beta common")

	// 两篇文档都含 common: ln(3/3)+1 = 1
	assert.InDelta(t, 1.0, e.IDF("common"), 1e-9)
	// 只有一篇含 alpha: ln(3/2)+1
	assert.InDelta(t, math.Log(1.5)+1, e.IDF("alpha"), 1e-9)
	// 没见过的 term: ln(3/1)+1，仍然为正
	assert.InDelta(t, math.Log(3)+1, e.IDF("missing"), 1e-9)
	// 稀有词得分更高
	assert.Greater(t, e.IDF("alpha"), e.IDF("common"))
}

func TestEngineAddDocumentOverwritesDuplicateID(t *testing.T) {
	e := NewEngine(nil)
	e.AddDocument("doc", "alpha alpha")
	e.AddDocument("other", "beta")

	idfBefore := e.IDF("alpha")

	// 重复 id 是删除后重插，不累加文档频率
	e.AddDocument("doc", "alpha gamma")
	assert.Equal(t, 2, e.DocumentCount())
	assert.InDelta(t, idfBefore, e.IDF("alpha"), 1e-9)

	// 新文本生效
	results := e.Search("gamma", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "doc", results[0].ID)
}

func TestEngineOverwriteDropsOldTerms(t *testing.T) {
	e := NewEngine(nil)
	e.AddDocument("doc", "alpha")
	e.AddDocument("doc", "beta")

	assert.Empty(t, e.Search("alpha", 10))
	assert.Len(t, e.Search("beta", 10), 1)
}

func TestEngineClear(t *testing.T) {
	e := NewEngine(nil)
	e.AddDocument("a", "alpha")
	e.Clear()

	assert.Equal(t, 0, e.DocumentCount())
	assert.Empty(t, e.Search("alpha", 10))
}
