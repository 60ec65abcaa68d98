package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// JSONExtractor JSON 抽取器，将结构化数据展平为可读的键值文本
type JSONExtractor struct{}

// NewJSONExtractor 创建 JSON 抽取器
func NewJSONExtractor() *JSONExtractor {
	return &JSONExtractor{}
}

// Extract 展平 JSON 内容
func (e *JSONExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("invalid JSON format")
	}

	result := gjson.ParseBytes(data)

	var textBuilder strings.Builder
	var extractValues func(key string, value gjson.Result, depth int)
	extractValues = func(key string, value gjson.Result, depth int) {
		indent := strings.Repeat("  ", depth)

		switch value.Type {
		case gjson.String:
			fmt.Fprintf(&textBuilder, "%s%s: %s\n", indent, key, value.String())
		case gjson.Number:
			fmt.Fprintf(&textBuilder, "%s%s: %v\n", indent, key, value.Num)
		case gjson.True, gjson.False:
			fmt.Fprintf(&textBuilder, "%s%s: %v\n", indent, key, value.Bool())
		case gjson.Null:
			fmt.Fprintf(&textBuilder, "%s%s: null\n", indent, key)
		case gjson.JSON:
			if value.IsArray() {
				fmt.Fprintf(&textBuilder, "%s%s: [\n", indent, key)
				for i, item := range value.Array() {
					extractValues(fmt.Sprintf("[%d]", i), item, depth+1)
				}
				fmt.Fprintf(&textBuilder, "%s]\n", indent)
			} else if value.IsObject() {
				fmt.Fprintf(&textBuilder, "%s%s: {\n", indent, key)
				value.ForEach(func(k, v gjson.Result) bool {
					extractValues(k.String(), v, depth+1)
					return true
				})
				fmt.Fprintf(&textBuilder, "%s}\n", indent)
			}
		}
	}

	if result.IsArray() {
		for i, item := range result.Array() {
			extractValues(fmt.Sprintf("Item %d", i), item, 0)
		}
	} else if result.IsObject() {
		result.ForEach(func(key, value gjson.Result) bool {
			extractValues(key.String(), value, 0)
			return true
		})
	} else {
		return result.String(), nil
	}

	return textBuilder.String(), nil
}

// Extensions 返回支持的文件扩展名
func (e *JSONExtractor) Extensions() []string {
	return []string{".json"}
}
