package types

import "time"

// 默认值
const (
	DefaultBaseURL        = "https://api.anthropic.com"
	DefaultConnectTimeout = 3 * time.Second
	DefaultReadTimeout    = 60 * time.Second
	DefaultStreamDelay    = 10 * time.Millisecond
)

// Config 管道配置。API Key 在构造时从环境读取，之后只读；
// 缺失的 Key 不做前置校验，由服务端以认证失败的形式暴露。
type Config struct {
	APIKey         string        // API Key
	BaseURL        string        // API 基础 URL
	ConnectTimeout time.Duration // 连接超时
	ReadTimeout    time.Duration // 读取超时
	StreamDelay    time.Duration // 流式增量之间的节流间隔
}

// Normalize 填充缺省字段
func (c *Config) Normalize() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.StreamDelay == 0 {
		c.StreamDelay = DefaultStreamDelay
	}
}
