package types

// Model 模型目录条目
type Model struct {
	ID          string `json:"id"`           // 模型 ID（带服务商前缀，如 anthropic.claude-3-haiku-20240307）
	DisplayName string `json:"display_name"` // 显示名称
}
