// Package search 实现技能目录的检索与排序引擎。
//
// 核心流程: 原始查询 → 同义词/别名扩展 + 意图识别 → TF-IDF 检索 →
// 乘法加权(意图分类/精确 ID/触发词) → 排序截断。
//
// 分词器对英文提取单词 token(允许内部连字符)，对中文提取单字与相邻双字
// bigram，以此在没有分词器的情况下支持中英混合查询。
package search
