package exporter

import (
	"strings"

	"github.com/unidoc/unioffice/document"
)

// exportWord 保存为 Word 文档，每行一个段落
func (e *Exporter) exportWord(text, path string) error {
	doc := document.New()
	defer doc.Close()

	for _, line := range strings.Split(text, "\n") {
		para := doc.AddParagraph()
		run := para.AddRun()
		run.AddText(line)
	}

	return doc.SaveToFile(path)
}
