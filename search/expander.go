package search

import (
	"regexp"
	"strings"
)

// =============================================================================
// 🔤 双语同义词 / 领域别名扩展器
// =============================================================================

// synonymEntry 中文短语 → 英文扩展词。
// 对原始查询做子串包含匹配（不经过分词），因此互相重叠的 key 可以同时命中。
type synonymEntry struct {
	phrase string
	terms  []string
}

// aliasEntry 领域别名 → 相关词。
// 用整词边界正则匹配，避免 "reaction" 误触发 "react" 这类子串误报。
type aliasEntry struct {
	word    string
	pattern *regexp.Regexp
	terms   []string
}

var chineseSynonyms = []synonymEntry{
	{"单细胞", []string{"single-cell", "scrna", "scrna-seq"}},
	{"细胞", []string{"cell"}},
	{"蛋白质", []string{"protein"}},
	{"蛋白", []string{"protein"}},
	{"基因", []string{"gene", "genomics"}},
	{"测序", []string{"sequencing", "seq"}},
	{"分析", []string{"analysis", "analyze"}},
	{"数据", []string{"data"}},
	{"数据库", []string{"database", "sql"}},
	{"可视化", []string{"visualization", "plot", "chart"}},
	{"爬虫", []string{"crawler", "scraper", "scraping"}},
	{"抓取", []string{"scraping", "crawl"}},
	{"网页", []string{"web", "webpage", "html"}},
	{"网站", []string{"website", "web"}},
	{"前端", []string{"frontend", "ui"}},
	{"后端", []string{"backend", "api", "server"}},
	{"部署", []string{"deploy", "deployment"}},
	{"容器", []string{"docker", "container"}},
	{"集群", []string{"cluster", "kubernetes"}},
	{"调试", []string{"debug", "debugging", "fix"}},
	{"测试", []string{"test", "testing"}},
	{"文档", []string{"document", "documentation", "pdf"}},
	{"报告", []string{"report"}},
	{"表格", []string{"spreadsheet", "excel", "table"}},
	{"图表", []string{"chart", "plot", "diagram"}},
	{"翻译", []string{"translate", "translation"}},
	{"搜索", []string{"search", "query"}},
	{"论文", []string{"paper", "literature", "research"}},
	{"文献", []string{"literature", "paper", "citation"}},
	{"自动化", []string{"automation", "automate", "workflow"}},
	{"浏览器", []string{"browser", "playwright", "automation"}},
	{"机器学习", []string{"machine-learning", "ml", "model"}},
	{"模型", []string{"model"}},
	{"视频", []string{"video"}},
	{"图片", []string{"image"}},
	{"图像", []string{"image"}},
	{"音频", []string{"audio"}},
}

var domainAliases = []aliasEntry{
	newAlias("react", "frontend", "component", "jsx", "ui"),
	newAlias("vue", "frontend", "component", "ui"),
	newAlias("frontend", "ui", "web", "component"),
	newAlias("backend", "api", "server", "service"),
	newAlias("api", "backend", "rest", "endpoint"),
	newAlias("docker", "container", "devops", "deployment"),
	newAlias("k8s", "kubernetes", "container", "devops"),
	newAlias("kubernetes", "k8s", "container", "devops", "cluster"),
	newAlias("ci", "pipeline", "devops", "automation"),
	newAlias("rna", "sequencing", "bioinformatics", "gene"),
	newAlias("dna", "sequencing", "bioinformatics", "gene"),
	newAlias("scrna", "single-cell", "bioinformatics"),
	newAlias("scanpy", "single-cell", "bioinformatics", "scrna"),
	newAlias("protein", "bioinformatics", "structure", "biology"),
	newAlias("genomics", "bioinformatics", "gene", "sequencing"),
	newAlias("pdf", "document", "extract"),
	newAlias("excel", "spreadsheet", "xlsx", "table"),
	newAlias("sql", "database", "query"),
	newAlias("postgres", "database", "sql"),
	newAlias("scraping", "crawler", "scraper", "web"),
	newAlias("crawler", "scraping", "web"),
	newAlias("browser", "playwright", "automation", "web"),
	newAlias("playwright", "browser", "automation", "testing"),
	newAlias("ml", "machine-learning", "model", "training"),
	newAlias("pytorch", "machine-learning", "model", "training"),
	newAlias("viz", "visualization", "chart", "plot"),
	newAlias("plot", "visualization", "chart"),
	newAlias("latex", "document", "paper", "typesetting"),
}

func newAlias(word string, terms ...string) aliasEntry {
	return aliasEntry{
		word:    word,
		pattern: regexp.MustCompile(`(^|[^a-z0-9-])` + regexp.QuoteMeta(word) + `($|[^a-z0-9-])`),
		terms:   terms,
	}
}

// Expander 查询扩展器。表是静态的，Expander 无状态、可并发使用。
type Expander struct{}

// NewExpander 创建扩展器。
func NewExpander() *Expander {
	return &Expander{}
}

// Expand 把原始查询改写为扩展后的查询串。
//
// 结果 = 原始空白切分 token ∪ 所有命中的扩展词，按首次出现顺序去重，
// 以空格重新拼接。扩展发生在分词之前，作用于未处理的原文。
func (x *Expander) Expand(query string) string {
	raw := strings.ToLower(query)

	var out []string
	seen := make(map[string]struct{})
	add := func(term string) {
		if term == "" {
			return
		}
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}

	for _, tok := range strings.Fields(raw) {
		add(tok)
	}
	for _, entry := range chineseSynonyms {
		if strings.Contains(raw, entry.phrase) {
			for _, term := range entry.terms {
				add(term)
			}
		}
	}
	for _, entry := range domainAliases {
		if entry.pattern.MatchString(raw) {
			for _, term := range entry.terms {
				add(term)
			}
		}
	}

	return strings.Join(out, " ")
}
