package search

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BaSui01/skillrouter/catalog"
)

// =============================================================================
// 🏆 排序管线
// =============================================================================

const (
	// 超取倍率: 先向引擎多要候选，给后续加权重排留出空间。
	overfetchFactor = 3

	categoryBoost = 1.5
	exactIDBoost  = 3.0
	triggerBoost  = 2.0

	// 查询首词至少这么长才参与精确 ID 匹配，避免短的泛用词误触发。
	minFirstWordLen = 4
)

// Result 单条检索结果。Score 是相对量，只在同一次查询的结果集内可比。
type Result struct {
	Skill  catalog.SkillRecord
	Score  float64
	Reason string
}

// Pipeline 排序管线: 意图识别 + 查询扩展 + TF-IDF 检索 + 乘法加权。
//
// SetSkills 整体换入技能集并重建索引；与 Search 可以并发调用，
// 内部读写锁保证检索不会观察到重建到一半的索引。
type Pipeline struct {
	engine     *Engine
	expander   *Expander
	classifier *Classifier
	logger     *zap.Logger

	mu     sync.RWMutex
	skills map[string]catalog.SkillRecord
}

// NewPipeline 创建排序管线。
func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		engine:     NewEngine(logger),
		expander:   NewExpander(),
		classifier: NewClassifier(),
		logger:     logger.With(zap.String("component", "rank_pipeline")),
		skills:     make(map[string]catalog.SkillRecord),
	}
}

// SetSkills 整体换入技能集: 去重（首次出现保留）、清空索引、逐条重建。
func (p *Pipeline) SetSkills(records []catalog.SkillRecord) {
	records = catalog.Deduplicate(records)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.engine.Clear()
	p.skills = make(map[string]catalog.SkillRecord, len(records))
	for _, r := range records {
		p.skills[r.ID] = r
		p.engine.AddDocument(r.ID, r.IndexText())
	}

	p.logger.Info("skill index rebuilt", zap.Int("skills", len(records)))
}

// SkillCount 返回已索引的技能数。
func (p *Pipeline) SkillCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.skills)
}

// Skill 按 id 查找已索引的技能记录。
func (p *Pipeline) Skill(id string) (catalog.SkillRecord, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.skills[id]
	return r, ok
}

// Intent 暴露意图识别，供工具层在结果中回显。
func (p *Pipeline) Intent(rawQuery string) Intent {
	return p.classifier.Detect(rawQuery)
}

// Search 执行完整检索。
//
// 流程: 意图识别 → 同义词扩展 → 拼接意图关键词成增强查询 →
// 超取 TF-IDF 候选 → 乘法加权（意图分类 ×1.5、精确 ID ×3.0、触发词 ×2.0，
// 加权相互叠加）→ 分类过滤（纯事后限制，不影响加权计算）→ 排序截断。
//
// 空查询与零命中都是正常结果（空列表），不是错误。
func (p *Pipeline) Search(rawQuery string, limit int, categoryFilter string) []Result {
	if limit <= 0 {
		limit = 5
	}
	rawLower := strings.ToLower(strings.TrimSpace(rawQuery))

	intent := p.classifier.Detect(rawQuery)
	expanded := p.expander.Expand(rawQuery)

	enhanced := expanded
	if kws := p.classifier.Keywords(intent); len(kws) > 0 {
		enhanced = expanded + " " + strings.Join(kws, " ")
	}

	intentCats := make(map[string]struct{})
	for _, c := range p.classifier.Categories(intent) {
		intentCats[c] = struct{}{}
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	candidates := p.engine.Search(enhanced, limit*overfetchFactor)

	results := make([]Result, 0, len(candidates))
	for _, cand := range candidates {
		skill, ok := p.skills[cand.ID]
		if !ok {
			continue
		}

		score := cand.Score
		_, intentMatch := intentCats[skill.Category]
		if intentMatch {
			score *= categoryBoost
		}
		if matchesExactID(rawLower, skill.ID) {
			score *= exactIDBoost
		}
		matchedTriggers := matchTriggers(rawLower, skill.Triggers)
		if len(matchedTriggers) > 0 {
			score *= triggerBoost
		}

		if categoryFilter != "" && skill.Category != categoryFilter {
			continue
		}

		results = append(results, Result{
			Skill:  skill,
			Score:  score,
			Reason: buildReason(matchedTriggers, intentMatch, intent),
		})
	}

	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}

	p.logger.Debug("search completed",
		zap.String("intent", string(intent)),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
	)
	return results
}

// matchesExactID 精确 ID 匹配: 原始查询（小写）包含 id 作为子串，
// 或查询首词（长度 ≥4）等于 id 或是 id 的连字符前缀。
func matchesExactID(rawLower, id string) bool {
	if id == "" || rawLower == "" {
		return false
	}
	if strings.Contains(rawLower, id) {
		return true
	}
	first := rawLower
	if i := strings.IndexAny(rawLower, " \t\n"); i >= 0 {
		first = rawLower[:i]
	}
	if len(first) < minFirstWordLen {
		return false
	}
	return first == id || strings.HasPrefix(id, first+"-")
}

// matchTriggers 返回在查询中以子串出现的触发词。
func matchTriggers(rawLower string, triggers []string) []string {
	var matched []string
	for _, t := range triggers {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if strings.Contains(rawLower, t) {
			matched = append(matched, t)
		}
	}
	return matched
}

// buildReason 生成可读的命中原因。
// 优先级: 触发词（最多列 3 个）> 意图分类 > 语义兜底。
func buildReason(matchedTriggers []string, intentMatch bool, intent Intent) string {
	if len(matchedTriggers) > 0 {
		shown := matchedTriggers
		if len(shown) > 3 {
			shown = shown[:3]
		}
		return fmt.Sprintf("matched trigger keywords: %s", strings.Join(shown, ", "))
	}
	if intentMatch {
		return fmt.Sprintf("category matches %s intent", intent)
	}
	return "semantic/category similarity"
}

// 稳定排序: 同分保持引擎给出的顺序。
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
