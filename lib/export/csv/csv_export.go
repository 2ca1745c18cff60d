package csvexport

import (
	"bytes"
	"encoding/csv"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Provider interface {
	ExportTable(headers []string, rows [][]string) (*bytes.Buffer, error)
}

func NewInstance() Provider {
	return impl{}
}

type impl struct{}

// ExportTable CSV с разделителем ";" в UTF-8 с BOM
func (i impl) ExportTable(headers []string, rows [][]string) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	bomWriter := transform.NewWriter(buf, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(bomWriter)
	w.Comma = ';'
	w.UseCRLF = true
	if err := w.Write(headers); err != nil {
		return nil, errors.Wrap(err, "ошибка записи заголовка csv")
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, errors.Wrap(err, "ошибка записи строк csv")
	}
	if err := bomWriter.Close(); err != nil {
		return nil, errors.Wrap(err, "ошибка записи csv")
	}
	return buf, nil
}
