// Package activation 管理技能的文件系统激活。
//
// 激活即在一个固定的激活目录下为技能源目录创建同名符号链接，
// 供宿主进程发现加载。Manager 只会删除自己这类符号链接，
// 绝不触碰用户自管的真实目录；所有源路径先过安全校验再落盘。
package activation
