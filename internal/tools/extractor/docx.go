package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/lk2023060901/local-llm-toolkit/internal/pkg/office"
	"github.com/unidoc/unioffice/document"
)

// DocxExtractor Word 文档抽取器
type DocxExtractor struct{}

// NewDocxExtractor 创建 Word 文档抽取器
func NewDocxExtractor() *DocxExtractor {
	office.EnsureLicense()
	return &DocxExtractor{}
}

// Extract 提取所有段落的文本
func (e *DocxExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX document: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			textBuilder.WriteString(run.Text())
		}
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

// Extensions 返回支持的文件扩展名
func (e *DocxExtractor) Extensions() []string {
	return []string{".docx"}
}
