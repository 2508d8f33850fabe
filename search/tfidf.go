package search

import (
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// =============================================================================
// 📚 TF-IDF 倒排索引引擎
// =============================================================================

// document 引擎内部的已索引文档。
type document struct {
	id         string
	termFreq   map[string]float64
	tokenCount int
}

// ScoredDoc 一次 Search 调用返回的单个命中。
// Score 仅在同一次调用的结果集内可比较——量纲依赖查询本身的组成。
type ScoredDoc struct {
	ID    string
	Score float64
}

// Engine TF-IDF 检索引擎。
//
// 持有文档语料、每文档词频与全局文档频率。索引整体重建
// (Clear + 逐个 AddDocument)，不支持单文档删除。
// 读写由 RWMutex 保护，保证并发 Search 不会观察到重建到一半的索引。
type Engine struct {
	mu      sync.RWMutex
	docs    map[string]*document
	order   []string // 插入顺序，用于同分时的稳定排序
	docFreq map[string]int
	logger  *zap.Logger
}

// NewEngine 创建空引擎。logger 为 nil 时使用 Nop。
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		docs:    make(map[string]*document),
		docFreq: make(map[string]int),
		logger:  logger.With(zap.String("component", "tfidf_engine")),
	}
}

// AddDocument 索引一篇文档。
// 重复 id 采用删除后重插语义: 旧文档的文档频率贡献先被撤销，
// 再以新文本重新索引，保证结果确定。
func (e *Engine) AddDocument(id, text string) {
	tokens := Tokenize(text)
	freq := TermFrequency(tokens)

	e.mu.Lock()
	defer e.mu.Unlock()

	if old, ok := e.docs[id]; ok {
		for term := range old.termFreq {
			if e.docFreq[term] <= 1 {
				delete(e.docFreq, term)
			} else {
				e.docFreq[term]--
			}
		}
		for i, existing := range e.order {
			if existing == id {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}

	for term := range freq {
		e.docFreq[term]++
	}
	e.docs[id] = &document{id: id, termFreq: freq, tokenCount: len(tokens)}
	e.order = append(e.order, id)
}

// DocumentCount 返回已索引文档数。
func (e *Engine) DocumentCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs)
}

// IDF 返回 term 的逆文档频率: ln((N+1)/(df+1)) + 1。
// 对见过的 term 恒为正，N→0 时也不会除零。
func (e *Engine) IDF(term string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.idfLocked(term)
}

func (e *Engine) idfLocked(term string) float64 {
	n := float64(len(e.docs))
	df := float64(e.docFreq[term])
	return math.Log((n+1)/(df+1)) + 1
}

// Search 对每篇文档累加共享 term 的 queryWeight * docWeight * idf²，
// 按得分降序返回前 limit 篇。零重叠的文档不出现在结果中。
//
// idf 取平方是刻意的: 技能文档普遍很短，单次 IDF 对稀有判别词的
// 区分度不足，平方放大稀有词的权重。
// 同分文档按插入顺序稳定排序。
func (e *Engine) Search(query string, limit int) []ScoredDoc {
	queryFreq := TermFrequency(Tokenize(query))
	if len(queryFreq) == 0 {
		return nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var results []ScoredDoc
	for _, id := range e.order {
		doc := e.docs[id]
		score := 0.0
		for term, qw := range queryFreq {
			dw, ok := doc.termFreq[term]
			if !ok {
				continue
			}
			idf := e.idfLocked(term)
			score += qw * dw * idf * idf
		}
		if score > 0 {
			results = append(results, ScoredDoc{ID: id, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Clear 清空索引，用于整体重建。
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.docs = make(map[string]*document)
	e.docFreq = make(map[string]int)
	e.order = nil

	e.logger.Debug("index cleared")
}
