package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// PDFExtractor PDF 抽取器（基于 go-fitz/MuPDF）
type PDFExtractor struct{}

// NewPDFExtractor 创建 PDF 抽取器
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract 提取所有页面的文本，无法解析的页面跳过
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

// Extensions 返回支持的文件扩展名
func (e *PDFExtractor) Extensions() []string {
	return []string{".pdf"}
}
