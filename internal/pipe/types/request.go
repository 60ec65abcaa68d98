package types

import (
	"encoding/json"
	"fmt"
)

// 角色常量
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ContentPart 类型标签
const (
	PartTypeText     = "text"
	PartTypeImageURL = "image_url"
)

// CompletionRequest 聊天补全请求（来自前端 UI 的通用格式）
type CompletionRequest struct {
	Model         string        `json:"model" binding:"required"`
	Messages      []ChatMessage `json:"messages" binding:"required,min=1"`
	MaxTokens     *int          `json:"max_tokens,omitempty"`
	Temperature   *float64      `json:"temperature,omitempty"`
	TopK          *int          `json:"top_k,omitempty"`
	TopP          *float64      `json:"top_p,omitempty"`
	StopSequences []string      `json:"stop_sequences,omitempty"`
	Stream        bool          `json:"stream,omitempty"`
}

// 采样参数默认值
const (
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.8
	DefaultTopK        = 40
	DefaultTopP        = 0.9
)

// ResolveMaxTokens 返回 max_tokens（未设置时使用默认值）
func (r *CompletionRequest) ResolveMaxTokens() int {
	if r.MaxTokens != nil {
		return *r.MaxTokens
	}
	return DefaultMaxTokens
}

// ResolveTemperature 返回 temperature（未设置时使用默认值）
func (r *CompletionRequest) ResolveTemperature() float64 {
	if r.Temperature != nil {
		return *r.Temperature
	}
	return DefaultTemperature
}

// ResolveTopK 返回 top_k（未设置时使用默认值）
func (r *CompletionRequest) ResolveTopK() int {
	if r.TopK != nil {
		return *r.TopK
	}
	return DefaultTopK
}

// ResolveTopP 返回 top_p（未设置时使用默认值）
func (r *CompletionRequest) ResolveTopP() float64 {
	if r.TopP != nil {
		return *r.TopP
	}
	return DefaultTopP
}

// ChatMessage 单条聊天消息
type ChatMessage struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// MessageContent 消息内容（纯文本或内容块列表，JSON 中两种形式都可能出现）
type MessageContent struct {
	Text  string
	Parts []ContentPart
}

// IsPlain 判断是否为纯文本内容
func (c *MessageContent) IsPlain() bool {
	return c.Parts == nil
}

// PlainText 返回内容的字符串形式（内容块列表时拼接所有文本块）
func (c *MessageContent) PlainText() string {
	if c.Parts == nil {
		return c.Text
	}

	var text string
	for _, part := range c.Parts {
		if part.Type == PartTypeText {
			text += part.Text
		}
	}
	return text
}

// UnmarshalJSON 同时支持 "content": "..." 和 "content": [...] 两种形式
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &c.Parts)
	}
	return json.Unmarshal(data, &c.Text)
}

// MarshalJSON 按原始形式序列化
func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.Parts != nil {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

// ContentPart 内容块（text 或 image_url，OpenAI 风格的标签联合）
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL 图片引用（http(s) URL 或 data: URI）
type ImageURL struct {
	URL string `json:"url"`
}

// Validate 校验请求的基本形状
func (r *CompletionRequest) Validate() error {
	if r.Model == "" {
		return fmt.Errorf("model is required")
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("messages must not be empty")
	}
	for i, msg := range r.Messages {
		switch msg.Role {
		case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		default:
			return fmt.Errorf("message %d: unknown role %q", i, msg.Role)
		}
	}
	return nil
}
