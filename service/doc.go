// Package service 组装目录、检索与激活，对宿主协议暴露工具面:
// find_skills / load_skills / unload_skill / list_active_skills。
//
// 工具调用对预期内的情况（无命中、not_found、路径被拒）一律返回
// 结构化结果，不抛错误；只有真正意外的失败才以 error 形式向上传播。
package service
