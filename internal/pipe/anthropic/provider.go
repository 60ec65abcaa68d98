package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/lk2023060901/local-llm-toolkit/internal/pipe/types"
	"go.uber.org/zap"
)

const anthropicVersion = "2023-06-01"

// Provider Anthropic Messages API 适配器。每次调用只发起一个 POST，
// 除配置外不持有任何跨调用状态。
type Provider struct {
	config *types.Config
	client *http.Client
	logger *zap.Logger
}

// New 创建 Provider。API Key 即使为空也不报错，
// 缺失的 Key 会由服务端以 401 的形式暴露。
func New(config *types.Config, logger *zap.Logger) *Provider {
	config.Normalize()

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Provider{
		config: config,
		logger: logger,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: config.ConnectTimeout,
				}).DialContext,
				ResponseHeaderTimeout: config.ReadTimeout,
			},
		},
	}
}

// Name 返回服务商名称
func (p *Provider) Name() string {
	return "anthropic"
}

// Models 返回静态模型目录（不发起网络调用）
func (p *Provider) Models() []types.Model {
	return []types.Model{
		{ID: "anthropic.claude-3-5-sonnet-20241022", DisplayName: "Claude 3.5 Sonnet"},
		{ID: "anthropic.claude-3-5-haiku-20241022", DisplayName: "Claude 3.5 Haiku"},
		{ID: "anthropic.claude-3-opus-20240229", DisplayName: "Claude 3 Opus"},
		{ID: "anthropic.claude-3-sonnet-20240229", DisplayName: "Claude 3 Sonnet"},
		{ID: "anthropic.claude-3-haiku-20240307", DisplayName: "Claude 3 Haiku"},
	}
}

// setHeaders 设置请求 headers
func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.config.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)
}

// send 发送一次 POST 请求。非 2xx 状态码转为携带状态码和响应体的传输错误。
// 调用方负责关闭返回的响应体。
func (p *Provider) send(ctx context.Context, payload *anthropicRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, types.NewTransportError(0, "marshal request failed", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, types.NewTransportError(0, "create request failed", err)
	}

	p.setHeaders(httpReq)
	if payload.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, types.NewTransportError(0, "request failed", err)
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, types.NewTransportError(resp.StatusCode,
			fmt.Sprintf("API error: %s", string(respBody)), nil)
	}

	return resp, nil
}

// anthropicResponse 非流式响应体
type anthropicResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Content    []anthropicContentBlock `json:"content"`
	Model      string                  `json:"model"`
	StopReason string                  `json:"stop_reason"`
}

// Complete 同步补全：发送请求，整体读取响应并解码出文本
func (p *Provider) Complete(ctx context.Context, req *types.CompletionRequest) (string, error) {
	payload, err := buildRequest(req)
	if err != nil {
		return "", err
	}
	payload.Stream = false

	resp, err := p.send(ctx, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.NewTransportError(0, "read response failed", err)
	}

	return decodeMessage(body, p.logger), nil
}

// CompleteStream 流式补全：返回惰性拉取迭代器，由调用方驱动消费和关闭
func (p *Provider) CompleteStream(ctx context.Context, req *types.CompletionRequest) (*Stream, error) {
	payload, err := buildRequest(req)
	if err != nil {
		return nil, err
	}
	payload.Stream = true

	resp, err := p.send(ctx, payload)
	if err != nil {
		return nil, err
	}

	return newStream(resp.Body, p.config.StreamDelay, p.logger), nil
}

// decodeMessage 从非流式响应体中提取第一个 text 类型内容块。
// content 缺失、为空或响应体无法解析时返回空字符串而非报错。
func decodeMessage(body []byte, logger *zap.Logger) string {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Warn("failed to decode response body", zap.Error(err))
		return ""
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text
		}
	}
	return ""
}
