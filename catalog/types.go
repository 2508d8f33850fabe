package catalog

import "strings"

// SkillRecord 目录中的一条技能记录。外部供给，加载后不可变。
//
// id 在整个目录内唯一；索引行为在重复 id 下未定义，
// 调用方必须先用 Deduplicate 做首次出现保留的去重。
type SkillRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Triggers    []string `json:"triggers"`
	Source      string   `json:"source"`
	Path        string   `json:"path"`

	// FullDescription 仅用于索引的扩展文本，不参与简要展示。
	FullDescription string `json:"fullDescription,omitempty"`
}

// IndexText 返回用于建索引的文本: 名称、描述（优先扩展描述）、
// 触发词与分类拼接而成。
func (r SkillRecord) IndexText() string {
	desc := r.Description
	if r.FullDescription != "" {
		desc = r.FullDescription
	}

	parts := []string{r.ID, r.Name, desc, r.Category}
	parts = append(parts, r.Triggers...)
	return strings.Join(parts, " ")
}

// BriefDescription 返回截断到 max 个 rune 的描述，用于工具结果展示。
func (r SkillRecord) BriefDescription(max int) string {
	runes := []rune(r.Description)
	if max <= 0 || len(runes) <= max {
		return r.Description
	}
	return string(runes[:max])
}

// Deduplicate 按首次出现保留去重。
func Deduplicate(records []SkillRecord) []SkillRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]SkillRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
