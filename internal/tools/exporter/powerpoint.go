package exporter

import (
	"github.com/unidoc/unioffice/presentation"
)

// exportPowerPoint 保存为单页演示文稿：标题加正文
func (e *Exporter) exportPowerPoint(text, path string) error {
	ppt := presentation.New()
	defer ppt.Close()

	slide := ppt.AddSlide()

	tb := slide.AddTextBox()

	title := tb.AddParagraph()
	title.AddRun().SetText(exportTitle)

	body := tb.AddParagraph()
	body.AddRun().SetText(text)

	return ppt.SaveToFile(path)
}
