package activation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// 🔒 路径安全校验
// =============================================================================

// SecurityError 路径被拒绝的原因。消息只点名规则类别，
// 不回显无关的文件系统结构。
type SecurityError struct {
	Rule    string // "traversal" | "blocked" | "not_allowed"
	Message string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("path rejected (%s): %s", e.Rule, e.Message)
}

// Validator 源路径校验器: 先查拒绝表再查放行表，
// 因此落在放行根下的嵌套敏感子路径仍然会被拒绝。
type Validator struct {
	allowed []string
	blocked []string
}

// NewValidator 用给定的放行/拒绝前缀创建校验器。
func NewValidator(allowed, blocked []string) *Validator {
	return &Validator{allowed: cleanPrefixes(allowed), blocked: cleanPrefixes(blocked)}
}

// DefaultBlockedRoots 默认拒绝前缀: 系统目录与凭据目录（SSH/GPG/云凭据）。
func DefaultBlockedRoots() []string {
	blocked := []string{
		"/etc", "/usr", "/bin", "/sbin", "/boot", "/sys", "/proc", "/dev",
	}
	if home, _ := os.UserHomeDir(); home != "" {
		blocked = append(blocked,
			filepath.Join(home, ".ssh"),
			filepath.Join(home, ".gnupg"),
			filepath.Join(home, ".aws"),
			filepath.Join(home, ".kube"),
			filepath.Join(home, ".config", "gcloud"),
		)
	}
	return blocked
}

// DefaultAllowedRoots 默认放行根: 当前工作目录、用户配置目录、
// 常见项目根、临时目录。
func DefaultAllowedRoots() []string {
	var allowed []string
	if home, _ := os.UserHomeDir(); home != "" {
		allowed = append(allowed,
			filepath.Join(home, ".skillrouter"),
			filepath.Join(home, "projects"),
			filepath.Join(home, "workspace"),
			filepath.Join(home, "src"),
		)
	}
	if cwd, err := os.Getwd(); err == nil {
		allowed = append(allowed, cwd)
	}
	return append(allowed, os.TempDir(), "/tmp")
}

// DefaultValidator 返回使用默认放行/拒绝表的校验器。
func DefaultValidator() *Validator {
	return NewValidator(DefaultAllowedRoots(), DefaultBlockedRoots())
}

// Validate 校验源路径，通过返回 nil，否则返回 *SecurityError。
//
// 含字面 ".." 段的可疑输入直接拒绝，即便规范化后是合法路径——
// 对可疑输入选择拒绝而不是静默修正。
func (v *Validator) Validate(path string) error {
	if strings.TrimSpace(path) == "" {
		return &SecurityError{Rule: "not_allowed", Message: "empty path"}
	}

	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return &SecurityError{Rule: "traversal", Message: "path contains a parent-directory segment"}
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return &SecurityError{Rule: "not_allowed", Message: "path cannot be resolved"}
	}
	if filepath.Clean(abs) != abs {
		return &SecurityError{Rule: "traversal", Message: "path does not normalize cleanly"}
	}

	for _, prefix := range v.blocked {
		if hasPathPrefix(abs, prefix) {
			return &SecurityError{Rule: "blocked", Message: "path is under a protected system or credential directory"}
		}
	}

	for _, prefix := range v.allowed {
		if hasPathPrefix(abs, prefix) {
			return nil
		}
	}

	sample := v.allowed
	if len(sample) > 3 {
		sample = sample[:3]
	}
	return &SecurityError{
		Rule:    "not_allowed",
		Message: fmt.Sprintf("path is outside allowed roots (e.g. %s)", strings.Join(sample, ", ")),
	}
}

func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}

func cleanPrefixes(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}
