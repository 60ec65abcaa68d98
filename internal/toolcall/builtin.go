package toolcall

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lk2023060901/local-llm-toolkit/internal/tools/exporter"
	"github.com/lk2023060901/local-llm-toolkit/internal/tools/retriever"
	"github.com/lk2023060901/local-llm-toolkit/internal/tools/scanner"
)

// RegisterBuiltinTools 把协作工具注册为模型可调用的函数。
// knowledgeDir 是检索与扫描的默认目录。
func RegisterBuiltinTools(s *Shim, ret *retriever.Retriever, exp *exporter.Exporter, knowledgeDir string) error {
	retrieveSchema := json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "The keyword or phrase to search for"}
		},
		"required": ["query"]
	}`)
	err := s.RegisterTool("retrieve_documents", "Search the local document directory for information relevant to a query", retrieveSchema,
		func(ctx context.Context, args json.RawMessage) (string, error) {
			var p struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &p); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			return ret.Retrieve(ctx, p.Query, knowledgeDir)
		})
	if err != nil {
		return err
	}

	scanSchema := json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {"type": "string", "description": "Directory to list; defaults to the document directory"}
		}
	}`)
	err = s.RegisterTool("scan_directory", "List all files under a directory", scanSchema,
		func(ctx context.Context, args json.RawMessage) (string, error) {
			var p struct {
				Path string `json:"path"`
			}
			if err := json.Unmarshal(args, &p); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			if p.Path == "" {
				p.Path = knowledgeDir
			}
			files, err := scanner.Scan(p.Path)
			if err != nil {
				return "", err
			}
			return strings.Join(files, "\n"), nil
		})
	if err != nil {
		return err
	}

	exportSchema := json.RawMessage(`{
		"type": "object",
		"properties": {
			"text": {"type": "string", "description": "The text to write into the document"},
			"path": {"type": "string", "description": "Target file path ending in .docx, .xlsx or .pptx"}
		},
		"required": ["text", "path"]
	}`)
	return s.RegisterTool("export_document", "Export text to a Word, Excel or PowerPoint document", exportSchema,
		func(ctx context.Context, args json.RawMessage) (string, error) {
			var p struct {
				Text string `json:"text"`
				Path string `json:"path"`
			}
			if err := json.Unmarshal(args, &p); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			if err := exp.Export(p.Text, p.Path); err != nil {
				return "", err
			}
			return "Exported to " + p.Path, nil
		})
}
