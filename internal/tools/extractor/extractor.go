// Package extractor 按文件扩展名抽取纯文本内容，
// 供检索等工具把任意格式的知识库文件当作字符串处理。
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor 单一格式的文本抽取器
type Extractor interface {
	// Extract 从原始文件数据抽取纯文本
	Extract(ctx context.Context, data []byte) (string, error)

	// Extensions 返回支持的文件扩展名（含点，小写）
	Extensions() []string
}

// Registry 抽取器注册表，按扩展名分发
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry 创建注册表并注册所有内置抽取器
func NewRegistry() *Registry {
	r := &Registry{
		extractors: make(map[string]Extractor),
	}

	r.register(NewTextExtractor())
	r.register(NewMarkdownExtractor())
	r.register(NewDocxExtractor())
	r.register(NewPDFExtractor())
	r.register(NewJSONExtractor())

	return r
}

func (r *Registry) register(e Extractor) {
	for _, ext := range e.Extensions() {
		r.extractors[ext] = e
	}
}

// Supported 判断文件扩展名是否有对应的抽取器
func (r *Registry) Supported(path string) bool {
	_, ok := r.extractors[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ExtractFile 读取文件并按扩展名抽取文本。
// 未知扩展名返回空文本而非错误，调用方据此跳过该文件。
func (r *Registry) ExtractFile(ctx context.Context, path string) (string, error) {
	e, ok := r.extractors[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}

	text, err := e.Extract(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return text, nil
}
