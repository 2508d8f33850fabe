package search

import (
	"regexp"
	"strings"
)

// =============================================================================
// 🎯 意图分类器
// =============================================================================

// Intent 任务意图分类。
type Intent string

const (
	IntentCreate   Intent = "create"
	IntentResearch Intent = "research"
	IntentDebug    Intent = "debug"
	IntentDeploy   Intent = "deploy"
	IntentAnalyze  Intent = "analyze"
	IntentWrite    Intent = "write"
	IntentDesign   Intent = "design"
	IntentAutomate Intent = "automate"
	IntentUnknown  Intent = "unknown"
)

// intentRule 意图规则。表按顺序匹配，任一正则命中即产生候选。
// 所有权重相同，因此分类等价于"表序中第一个命中的意图获胜"。
// 这保持了对表序的敏感性——换成按命中数取最大会改变分类结果，
// 调整前需要先评估对现有查询的影响。
type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
	weight   float64
}

var intentRules = []intentRule{
	{IntentDebug, compileAll(
		`\b(debug|fix|error|bug|crash|troubleshoot|broken)\b`,
		`调试|修复|报错|出错|错误|崩溃|排查`,
	), 1.0},
	{IntentDeploy, compileAll(
		`\b(deploy|deployment|release|publish|ship|rollout)\b`,
		`部署|发布|上线`,
	), 1.0},
	{IntentResearch, compileAll(
		`\b(research|investigate|explore|study|survey|literature|review)\b`,
		`研究|调研|探索|综述|文献`,
	), 1.0},
	{IntentAnalyze, compileAll(
		`\b(analy[sz]e|analysis|statistic\w*|visuali[sz]e|metric\w*)\b`,
		`分析|统计|可视化`,
	), 1.0},
	{IntentWrite, compileAll(
		`\b(write|draft|summari[sz]e|document|translate)\b`,
		`撰写|写作|总结|翻译`,
	), 1.0},
	{IntentDesign, compileAll(
		`\b(design|layout|style|prototype|mockup)\b`,
		`设计|排版|原型`,
	), 1.0},
	{IntentAutomate, compileAll(
		`\b(automate|automation|schedule|batch|pipeline|workflow)\b`,
		`自动化|批量|定时`,
	), 1.0},
	{IntentCreate, compileAll(
		`\b(create|build|make|generate|implement|develop|new|scaffold)\b`,
		`创建|新建|构建|生成|制作|开发|实现`,
	), 1.0},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(expr))
	}
	return out
}

// 领域词表，用于二次覆写。
var (
	scienceVocab = []string{
		"protein", "molecule", "molecular", "compound", "enzyme", "crispr",
		"gene", "genome", "rna", "dna", "sequencing", "cell", "antibody",
		"chemistry", "chemical", "biology", "bioinformatics",
		"蛋白", "分子", "化合物", "基因", "细胞", "测序", "化学", "生物",
	}
	devopsVocab = []string{
		"docker", "kubernetes", "k8s", "container", "helm", "terraform",
		"ci/cd", "cicd", "容器", "集群", "运维",
	}
	browserVocab = []string{
		"browser", "playwright", "selenium", "puppeteer", "浏览器", "网页操作",
	}
)

// Classifier 基于固定规则表的意图分类器，无状态、可并发使用。
type Classifier struct{}

// NewClassifier 创建分类器。
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Detect 对原始查询做意图分类。
//
// 主通道: 按表序找第一个命中的意图。
// 领域覆写:
//   - 出现化学/生物词汇时，unknown 或 design 升级为 research
//     （"design a new protein" 是科研任务而非界面设计）
//   - 主通道空手而归时，devops 词汇兜底为 deploy，
//     浏览器自动化词汇兜底为 create
func (c *Classifier) Detect(query string) Intent {
	raw := strings.ToLower(query)

	intent := IntentUnknown
	for _, rule := range intentRules {
		for _, p := range rule.patterns {
			if p.MatchString(raw) {
				intent = rule.intent
				break
			}
		}
		if intent != IntentUnknown {
			break
		}
	}

	if containsAnyWord(raw, scienceVocab) && (intent == IntentUnknown || intent == IntentDesign) {
		return IntentResearch
	}
	if intent == IntentUnknown {
		if containsAnyWord(raw, devopsVocab) {
			return IntentDeploy
		}
		if containsAnyWord(raw, browserVocab) {
			return IntentCreate
		}
	}
	return intent
}

func containsAnyWord(s string, vocab []string) bool {
	for _, w := range vocab {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// intentKeywords 意图附加查询关键词，用于拼接增强查询。
var intentKeywords = map[Intent][]string{
	IntentCreate:   {"create", "build", "generate", "scaffold"},
	IntentResearch: {"research", "literature", "investigate", "analysis"},
	IntentDebug:    {"debug", "fix", "error", "troubleshoot"},
	IntentDeploy:   {"deploy", "docker", "kubernetes", "release"},
	IntentAnalyze:  {"analysis", "data", "visualization", "statistics"},
	IntentWrite:    {"write", "document", "summary"},
	IntentDesign:   {"design", "ui", "layout"},
	IntentAutomate: {"automation", "workflow", "batch"},
}

// intentCategories 意图 → 目录分类标签，命中时排序管线给予分类加权。
var intentCategories = map[Intent][]string{
	IntentCreate:   {"frontend", "backend", "automation"},
	IntentResearch: {"research", "bioinformatics", "data"},
	IntentDebug:    {"testing", "backend", "devops"},
	IntentDeploy:   {"devops", "backend"},
	IntentAnalyze:  {"data", "bioinformatics"},
	IntentWrite:    {"document", "research"},
	IntentDesign:   {"design", "frontend"},
	IntentAutomate: {"automation", "devops"},
}

// Keywords 返回意图的固定关键词表。unknown 返回空表。
func (c *Classifier) Keywords(intent Intent) []string {
	return intentKeywords[intent]
}

// Categories 返回意图对应的目录分类标签。unknown 返回空表（无分类加权）。
func (c *Classifier) Categories(intent Intent) []string {
	return intentCategories[intent]
}
