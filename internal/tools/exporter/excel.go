package exporter

import (
	"github.com/unidoc/unioffice/spreadsheet"
)

// exportExcel 保存为 Excel 表格：表头一列 "Chat Output"，内容占一个单元格
func (e *Exporter) exportExcel(text, path string) error {
	wb := spreadsheet.New()
	defer wb.Close()

	sheet := wb.AddSheet()

	header := sheet.AddRow()
	header.AddCell().SetString(exportTitle)

	row := sheet.AddRow()
	row.AddCell().SetString(text)

	if err := wb.Validate(); err != nil {
		return err
	}
	return wb.SaveToFile(path)
}
