package api

import "encoding/json"

// 文档注释：对象查询返回结构（对外）
// 背景：统一对外序列化模型，仅包含必要字段；id 以十进制字符串输出，
// 规避 JSON 数字在 2^53 之上的精度丢失
// 约束：字段稳定；新增字段需评估兼容性与前端依赖
type objectResult struct {
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	Name    string          `json:"name,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// 统计返回结构：解析统计 + 当前序列长度
type statsResult struct {
	NumLoaded uint64 `json:"num_loaded"`
	BadIDs    uint64 `json:"bad_ids"`
	BadJSONs  uint64 `json:"bad_jsons"`
	Entries   int    `json:"entries"`
}
