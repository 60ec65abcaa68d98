package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// MarkdownExtractor Markdown 抽取器。先渲染为 HTML 再剥离标签，
// 得到对子串匹配友好的纯文本。
type MarkdownExtractor struct{}

// NewMarkdownExtractor 创建 Markdown 抽取器
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{}
}

// Extract 将 Markdown 转换为纯文本
func (e *MarkdownExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	html := blackfriday.Run(data)
	return htmlToPlainText(string(html)), nil
}

// Extensions 返回支持的文件扩展名
func (e *MarkdownExtractor) Extensions() []string {
	return []string{".md", ".markdown"}
}

var (
	reScript     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyle      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reLineBreak  = regexp.MustCompile(`(?i)<br\s*/?>|</p>`)
	reHeadingEnd = regexp.MustCompile(`(?i)</h[1-6]>`)
	reListItem   = regexp.MustCompile(`(?i)</li>`)
	reTag        = regexp.MustCompile(`<[^>]+>`)
	reNewlines   = regexp.MustCompile(`\n{3,}`)
)

// htmlToPlainText 将 HTML 转换为纯文本
func htmlToPlainText(html string) string {
	html = reScript.ReplaceAllString(html, "")
	html = reStyle.ReplaceAllString(html, "")

	html = reLineBreak.ReplaceAllString(html, "\n")
	html = reHeadingEnd.ReplaceAllString(html, "\n\n")
	html = reListItem.ReplaceAllString(html, "\n")

	text := reTag.ReplaceAllString(html, "")
	text = decodeHTMLEntities(text)
	return cleanWhitespace(text)
}

// decodeHTMLEntities 解码常见的 HTML 实体
func decodeHTMLEntities(text string) string {
	entities := map[string]string{
		"&nbsp;": " ",
		"&lt;":   "<",
		"&gt;":   ">",
		"&amp;":  "&",
		"&quot;": "\"",
		"&apos;": "'",
	}

	for entity, replacement := range entities {
		text = strings.ReplaceAll(text, entity, replacement)
	}
	return text
}

// cleanWhitespace 清理多余的空白字符
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	text = strings.Join(cleaned, "\n")
	text = reNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
