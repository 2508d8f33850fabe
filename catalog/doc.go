// Package catalog 定义技能目录的记录类型、模式校验与加载。
//
// 目录来自本地 JSON 文件或远端 HTTP 端点；Store 持有带 TTL 的缓存副本，
// 过期后下一次请求触发同步重取（singleflight 去重，避免重取风暴）。
package catalog
