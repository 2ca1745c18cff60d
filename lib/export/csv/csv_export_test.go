package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportTable(t *testing.T) {
	headers := []string{"ID", "Название"}
	rows := [][]string{
		{"1", "Первая; задача"},
		{"2", "Вторая"},
	}
	buf, err := NewInstance().ExportTable(headers, rows)
	require.NoError(t, err)

	data := buf.Bytes()
	t.Run(`starts with bom`, func(t *testing.T) {
		require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	})
	t.Run(`semicolon delimited`, func(t *testing.T) {
		r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
		r.Comma = ';'
		records, err := r.ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		require.Equal(t, headers, records[0])
		require.Equal(t, "Первая; задача", records[1][1])
	})
}
