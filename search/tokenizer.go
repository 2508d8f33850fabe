package search

import (
	"regexp"
	"strings"
	"unicode"
)

// asciiTermPattern 匹配英文 token: 小写字母数字串，允许内部连字符，
// 因此 "single-cell" 是一个完整 term。
var asciiTermPattern = regexp.MustCompile(`[a-z0-9]+(?:-[a-z0-9]+)*`)

// Tokenize 将文本切分为 term 序列。
//
// 规则:
//   - 全部转小写
//   - 提取 ASCII 字母数字串（允许内部连字符）
//   - 每个 CJK 汉字作为单字 term
//   - 相邻 CJK 汉字的滑动窗口 bigram 也作为 term，
//     使 "单细胞" 这类双字/三字技术词无需分词即可整体匹配
//
// 输出顺序不承载语义；重复 term 保留（词频信号）。
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ToLower(text)

	tokens := asciiTermPattern.FindAllString(text, -1)

	// CJK 单字 + bigram。连续汉字构成一个 run，非汉字字符截断窗口。
	var run []rune
	flush := func() {
		for i, r := range run {
			tokens = append(tokens, string(r))
			if i+1 < len(run) {
				tokens = append(tokens, string(run[i:i+2]))
			}
		}
		run = run[:0]
	}
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			run = append(run, r)
			continue
		}
		if len(run) > 0 {
			flush()
		}
	}
	if len(run) > 0 {
		flush()
	}

	return tokens
}

// TermFrequency 计算归一化词频: 每个 term 的出现次数除以 token 总数，
// 所有 term 的频率之和为 1，避免长文档仅靠长度压倒短文档。
func TermFrequency(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return map[string]float64{}
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	total := float64(len(tokens))
	freq := make(map[string]float64, len(counts))
	for term, n := range counts {
		freq[term] = float64(n) / total
	}
	return freq
}
