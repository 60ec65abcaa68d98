package extractor

import "context"

// TextExtractor 纯文本抽取器
type TextExtractor struct{}

// NewTextExtractor 创建纯文本抽取器
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract 纯文本原样返回
func (e *TextExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	return string(data), nil
}

// Extensions 返回支持的文件扩展名
func (e *TextExtractor) Extensions() []string {
	return []string{".txt", ".log"}
}
