package activation

import "strings"

// maxIDLength 清洗后技能 id 的长度上限。
const maxIDLength = 64

// SanitizeID 清洗技能 id: 转小写，非 [a-z0-9-] 字符替换为连字符，
// 连续连字符折叠为一个，去掉首尾连字符，截断到 64 字符。
//
// LoadSkill 把清洗当安全门: 清洗改变了输入即拒绝（畸形或恶意 id），
// 不会拿清洗结果静默继续。UnloadSkill 则用清洗结果去找条目，
// 保证未清洗的别名也能卸载到正确的链接。
func SanitizeID(id string) string {
	var b strings.Builder
	b.Grow(len(id))

	lastHyphen := false
	for _, r := range strings.ToLower(id) {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if ok {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	out := strings.Trim(b.String(), "-")
	if len(out) > maxIDLength {
		out = strings.TrimRight(out[:maxIDLength], "-")
	}
	return out
}
