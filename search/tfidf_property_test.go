package search

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// 词表刻意很小，保证文档之间有重叠。
var propVocab = []string{"alpha", "beta", "gamma", "delta", "epsilon", "deploy", "docker", "rna"}

func genText() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		words := rapid.SliceOfN(rapid.SampledFrom(propVocab), 1, 12).Draw(t, "words")
		return strings.Join(words, " ")
	})
}

func TestEngineSearchProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := NewEngine(nil)

		docCount := rapid.IntRange(0, 10).Draw(t, "docCount")
		for i := 0; i < docCount; i++ {
			e.AddDocument(fmt.Sprintf("doc-%d", i), genText().Draw(t, "doc"))
		}

		query := genText().Draw(t, "query")
		limit := rapid.IntRange(1, 8).Draw(t, "limit")

		results := e.Search(query, limit)

		// 不超过 limit
		if len(results) > limit {
			t.Fatalf("got %d results, limit %d", len(results), limit)
		}

		// 得分非增
		for i := 1; i < len(results); i++ {
			if results[i].Score > results[i-1].Score {
				t.Fatalf("results not in non-increasing order at %d: %f > %f",
					i, results[i].Score, results[i-1].Score)
			}
		}

		// 无重复 id，且得分为正
		seen := make(map[string]bool)
		for _, r := range results {
			if seen[r.ID] {
				t.Fatalf("duplicate result id %s", r.ID)
			}
			seen[r.ID] = true
			if r.Score <= 0 {
				t.Fatalf("non-positive score %f for %s", r.Score, r.ID)
			}
		}
	})
}
