// Package exporter 把聊天输出保存为常见办公文档格式
// （Word / Excel / PowerPoint），按目标扩展名分发。
package exporter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lk2023060901/local-llm-toolkit/internal/pkg/office"
	"go.uber.org/zap"
)

// 导出文档的统一标题
const exportTitle = "Chat Output"

// Exporter 文档导出器
type Exporter struct {
	logger *zap.Logger
}

// New 创建导出器
func New(logger *zap.Logger) *Exporter {
	office.EnsureLicense()

	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{logger: logger}
}

// Export 将文本写入目标文件，格式由扩展名决定（.docx / .xlsx / .pptx）
func (e *Exporter) Export(text, path string) error {
	ext := strings.ToLower(filepath.Ext(path))

	var err error
	switch ext {
	case ".docx":
		err = e.exportWord(text, path)
	case ".xlsx":
		err = e.exportExcel(text, path)
	case ".pptx":
		err = e.exportPowerPoint(text, path)
	default:
		return fmt.Errorf("unsupported export format %q, must be .docx, .xlsx or .pptx", ext)
	}

	if err != nil {
		return fmt.Errorf("failed to export %s: %w", path, err)
	}

	e.logger.Info("chat output exported",
		zap.String("path", path),
		zap.String("format", ext),
		zap.Int("chars", len(text)))
	return nil
}
