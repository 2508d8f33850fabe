package catalog

import (
	"fmt"
	"strings"
)

// FieldError 单条记录的单个字段校验错误。
type FieldError struct {
	Index   int    // 记录在输入数组中的下标
	ID      string // 记录 id（可能为空，即出错字段本身）
	Field   string
	Message string
}

func (e FieldError) Error() string {
	id := e.ID
	if id == "" {
		id = fmt.Sprintf("#%d", e.Index)
	}
	return fmt.Sprintf("skill %s: field %q %s", id, e.Field, e.Message)
}

// ValidationErrors 一次校验收集到的全部字段错误。
type ValidationErrors []FieldError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("catalog validation failed (%d errors): %s",
		len(errs), strings.Join(msgs, "; "))
}

// Validate 校验目录记录，返回逐字段错误列表；合法时返回 nil。
//
// 校验不做部分放行: 任何一条记录出错都整体拒绝。
// 降级运行需要跳过校验时走 passthrough 模式（见 StoreConfig.Passthrough）。
func Validate(records []SkillRecord) ValidationErrors {
	var errs ValidationErrors
	for i, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			errs = append(errs, FieldError{Index: i, ID: r.ID, Field: "id", Message: "must be non-empty"})
		}
		if strings.TrimSpace(r.Name) == "" {
			errs = append(errs, FieldError{Index: i, ID: r.ID, Field: "name", Message: "must be non-empty"})
		}
		if r.Triggers == nil {
			errs = append(errs, FieldError{Index: i, ID: r.ID, Field: "triggers", Message: "must be an array (may be empty)"})
		}
		for j, trig := range r.Triggers {
			if strings.TrimSpace(trig) == "" {
				errs = append(errs, FieldError{
					Index: i, ID: r.ID, Field: fmt.Sprintf("triggers[%d]", j),
					Message: "must be non-empty",
				})
			}
		}
	}
	return errs
}
