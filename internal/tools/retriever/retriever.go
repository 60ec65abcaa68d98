// Package retriever 基于关键词的朴素检索：扫描知识库目录、
// 抽取文本、做大小写不敏感的子串匹配，返回命中文件的内容片段。
// 不建索引、不做排序，适合小规模本地知识库。
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/lk2023060901/local-llm-toolkit/internal/tools/extractor"
	"github.com/lk2023060901/local-llm-toolkit/internal/tools/scanner"
	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

const (
	// 每个命中文件返回的内容片段长度（字符数）
	snippetLength = 500

	// token 统计使用的编码
	tokenEncoding = "cl100k_base"
)

// Match 单个命中文件
type Match struct {
	Path    string `json:"path"`    // 文件路径
	Snippet string `json:"snippet"` // 内容片段（最多 snippetLength 个字符）
	Tokens  int    `json:"tokens"`  // 片段的 token 数（编码器不可用时为 0）
}

// Retriever 关键词检索器
type Retriever struct {
	registry    *extractor.Registry
	logger      *zap.Logger
	countTokens func(string) int
}

// New 创建检索器。token 编码器加载失败只降级为不统计，不影响检索。
func New(registry *extractor.Registry, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Retriever{
		registry:    registry,
		logger:      logger,
		countTokens: func(string) int { return 0 },
	}

	if encoding, err := tiktoken.GetEncoding(tokenEncoding); err == nil {
		r.countTokens = func(text string) int {
			return len(encoding.Encode(text, nil, nil))
		}
	} else {
		logger.Warn("token encoding unavailable, token counts disabled", zap.Error(err))
	}

	return r
}

// Search 在目录下检索查询词，返回命中文件列表（按扫描顺序）
func (r *Retriever) Search(ctx context.Context, query, dirPath string) ([]Match, error) {
	files, err := scanner.Scan(dirPath)
	if err != nil {
		return nil, err
	}

	loweredQuery := strings.ToLower(query)

	var matches []Match
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := r.registry.ExtractFile(ctx, file)
		if err != nil {
			// 单个文件失败不中断整体检索
			r.logger.Warn("skipping unreadable file",
				zap.String("path", file),
				zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}

		if strings.Contains(strings.ToLower(text), loweredQuery) {
			snippet := truncate(text, snippetLength)
			matches = append(matches, Match{
				Path:    file,
				Snippet: snippet,
				Tokens:  r.countTokens(snippet),
			})
		}
	}

	return matches, nil
}

// Retrieve 检索并格式化为模型可直接消费的上下文文本
func (r *Retriever) Retrieve(ctx context.Context, query, dirPath string) (string, error) {
	matches, err := r.Search(ctx, query, dirPath)
	if err != nil {
		return "", err
	}
	return FormatResult(matches), nil
}

// FormatResult 将命中列表格式化为提示文本
func FormatResult(matches []Match) string {
	if len(matches) == 0 {
		return "No relevant information found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found relevant information in %d file(s):\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(&b, "\nFile: %s\n---\n%s...\n\n", m.Path, m.Snippet)
	}
	return b.String()
}

// truncate 按字符数截断文本（不拆分多字节字符）
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
