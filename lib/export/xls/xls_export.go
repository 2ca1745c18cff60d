package xlsexport

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportTable(sheetName string, headers []string, rows [][]string) (*bytes.Buffer, error)
}

func NewInstance() Provider {
	return impl{}
}

type impl struct{}

func (i impl) ExportTable(sheetName string, headers []string, rows [][]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, headers)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(rows) != 0 {
		if err = applyDataCellStyle(f, sheet, 1, row+1, len(headers), row+len(rows)); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования стиля таблицы в xlsx")
		}
		for _, values := range rows {
			row++
			for col, value := range values {
				if value == "" {
					continue
				}
				if err = writeColumn(f, sheet, col+1, row, value); err != nil {
					return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
				}
			}
		}
	}
	if sheetName != "" {
		if err = f.SetSheetName(sheet, sheetName); err != nil {
			return nil, errors.Wrap(err, "ошибка переименования листа")
		}
	}
	return f.WriteToBuffer()
}
