package xlsexport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportTable(t *testing.T) {
	headers := []string{"ID", "Название", "Статус"}
	rows := [][]string{
		{"1", "Отчет", "Завершена"},
		{"2", "", "Новая"},
	}
	buf, err := NewInstance().ExportTable("Архив", headers, rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Архив")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, headers, got[0])
	require.Equal(t, "Завершена", got[1][2])
	require.Equal(t, "Новая", got[2][2])
}
