// Package metrics 提供检索与激活操作的 prometheus 指标收集。
//
// Collector 是 nil 安全的: 未配置 registry 时传 nil Collector，
// 所有记录方法都是空操作，组件无需判空。
package metrics
