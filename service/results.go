package service

// briefDescriptionLimit 工具结果中描述的最大长度（rune 数）。
const briefDescriptionLimit = 200

// SkillSummary find_skills 结果中的单条技能摘要。
// Score 四舍五入到两位小数，仅在同一次查询内可比。
type SkillSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Source      string  `json:"source"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason"`
}

// FindSkillsResult find_skills 的结构化结果。
// 无命中是正常结果: Matched=false，Results 为空。
type FindSkillsResult struct {
	RequestID   string         `json:"requestId"`
	Intent      string         `json:"intent"`
	Query       string         `json:"query"`
	Matched     bool           `json:"matched"`
	Results     []SkillSummary `json:"results"`
	TotalSkills int            `json:"totalSkills"`
}

// SkillFailure load_skills 中单个技能的失败详情。
type SkillFailure struct {
	SkillID string `json:"skillId"`
	Error   string `json:"error"`
}

// LoadSkillsResult load_skills 的结构化结果。
type LoadSkillsResult struct {
	Success       bool           `json:"success"`
	Loaded        []string       `json:"loaded"`
	AlreadyLoaded []string       `json:"already_loaded"`
	Failed        []SkillFailure `json:"failed"`
}

// UnloadSkillResult unload_skill 的结构化结果。
type UnloadSkillResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ActiveSkill list_active_skills 中的一个激活条目。
type ActiveSkill struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	IsSymlink bool   `json:"isSymlink"`
}

// ListActiveResult list_active_skills 的结构化结果。
type ListActiveResult struct {
	Active    []ActiveSkill `json:"active"`
	Available int           `json:"available"`
	Message   string        `json:"message"`
}
