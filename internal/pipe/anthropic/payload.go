package anthropic

import (
	"fmt"
	"strings"

	"github.com/lk2023060901/local-llm-toolkit/internal/pipe/types"
)

// 单次请求的图片限制（Anthropic API 约束）
const (
	MaxImageCount      = 5
	MaxTotalImageBytes = 100 * 1024 * 1024 // 100 MiB（base64 解码后的累计大小）
)

// anthropicRequest Anthropic Messages API 请求体
type anthropicRequest struct {
	Model         string             `json:"model"`
	Messages      []anthropicMessage `json:"messages"`
	System        string             `json:"system,omitempty"`
	MaxTokens     int                `json:"max_tokens"`
	Temperature   float64            `json:"temperature"`
	TopK          int                `json:"top_k"`
	TopP          float64            `json:"top_p"`
	StopSequences []string           `json:"stop_sequences,omitempty"`
	Stream        bool               `json:"stream"`
}

// anthropicMessage 单条消息。Content 为纯字符串或内容块数组
type anthropicMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// anthropicContentBlock 内容块（text 或 image）
type anthropicContentBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

// anthropicImageSource 图片来源（base64 内联或 URL 引用）
type anthropicImageSource struct {
	Type      string `json:"type"`                 // base64 | url
	MediaType string `json:"media_type,omitempty"` // 仅 base64
	Data      string `json:"data,omitempty"`       // 仅 base64
	URL       string `json:"url,omitempty"`        // 仅 url
}

// buildRequest 将通用补全请求转换为 Anthropic 请求体。
// 迭代过程中累计图片数量和解码后字节数，超限立即返回前置条件错误，
// 不发起任何网络调用。
func buildRequest(req *types.CompletionRequest) (*anthropicRequest, error) {
	out := &anthropicRequest{
		Model:         stripModelPrefix(req.Model),
		MaxTokens:     req.ResolveMaxTokens(),
		Temperature:   req.ResolveTemperature(),
		TopK:          req.ResolveTopK(),
		TopP:          req.ResolveTopP(),
		StopSequences: req.StopSequences,
		Stream:        req.Stream,
	}

	// Anthropic 要求 system 为顶级字段而非消息列表的一部分，
	// 仅提取开头的 system 消息
	messages := req.Messages
	if len(messages) > 0 && messages[0].Role == types.RoleSystem {
		out.System = messages[0].Content.PlainText()
		messages = messages[1:]
	}

	imageCount := 0
	totalImageBytes := 0

	for _, msg := range messages {
		if msg.Content.IsPlain() {
			out.Messages = append(out.Messages, anthropicMessage{
				Role:    msg.Role,
				Content: msg.Content.Text,
			})
			continue
		}

		var blocks []anthropicContentBlock
		for _, part := range msg.Content.Parts {
			switch part.Type {
			case types.PartTypeText:
				blocks = append(blocks, anthropicContentBlock{
					Type: "text",
					Text: part.Text,
				})

			case types.PartTypeImageURL:
				if part.ImageURL == nil {
					return nil, types.NewPreconditionError("image_url part missing url")
				}

				source, decodedSize, err := processImageURL(part.ImageURL.URL)
				if err != nil {
					return nil, err
				}

				imageCount++
				if imageCount > MaxImageCount {
					return nil, types.NewPreconditionError(
						fmt.Sprintf("max images: at most %d images per request", MaxImageCount))
				}

				totalImageBytes += decodedSize
				if totalImageBytes > MaxTotalImageBytes {
					return nil, types.NewPreconditionError(
						fmt.Sprintf("max total size: image data exceeds %d bytes", MaxTotalImageBytes))
				}

				blocks = append(blocks, anthropicContentBlock{
					Type:   "image",
					Source: source,
				})

			default:
				return nil, types.NewPreconditionError(
					fmt.Sprintf("unsupported content part type %q", part.Type))
			}
		}

		out.Messages = append(out.Messages, anthropicMessage{
			Role:    msg.Role,
			Content: blocks,
		})
	}

	return out, nil
}

// processImageURL 转换单个图片引用。data:image URI 解析出 MIME 类型和
// base64 数据作为内联图片，其余按 URL 引用处理。
// 返回的大小为 base64 解码后的估算字节数；URL 引用不取回字节，计 0。
func processImageURL(url string) (*anthropicImageSource, int, error) {
	if !strings.HasPrefix(url, "data:image") {
		return &anthropicImageSource{
			Type: "url",
			URL:  url,
		}, 0, nil
	}

	// data:<media-type>;base64,<data>
	header, data, found := strings.Cut(url, ",")
	if !found {
		return nil, 0, types.NewPreconditionError("malformed data URI: missing comma separator")
	}

	mediaType, encoding, found := strings.Cut(strings.TrimPrefix(header, "data:"), ";")
	if !found || encoding != "base64" {
		return nil, 0, types.NewPreconditionError("malformed data URI: expected base64 encoding")
	}

	// base64 解码后大小约为文本长度的 3/4
	decodedSize := (len(data)*3 + 3) / 4

	return &anthropicImageSource{
		Type:      "base64",
		MediaType: mediaType,
		Data:      data,
	}, decodedSize, nil
}

// stripModelPrefix 去掉服务商命名空间前缀（anthropic.claude-x → claude-x）
func stripModelPrefix(model string) string {
	if _, name, found := strings.Cut(model, "."); found {
		return name
	}
	return model
}
