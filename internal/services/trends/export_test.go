package trends

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/trendmap/internal/models"
)

func sampleRows() []models.PeriodRow {
	return PeriodRows([]models.AggregatedPeriod{
		period("2023-Q1", 100, 105),
		period("2023-Q2", 105, 99.75),
	})
}

func TestPeriodRows_TrendLabels(t *testing.T) {
	rows := sampleRows()
	require.Len(t, rows, 2)
	assert.Equal(t, models.TrendBullish, rows[0].Trend)
	assert.Equal(t, models.TrendBearish, rows[1].Trend)
}

func TestCSVExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVExporter{}.Export(&buf, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"period", "open", "close", "change", "changePercent", "trend"}, records[0])
	assert.Equal(t, []string{"2023-Q1", "100", "105", "5", "5", "BULLISH"}, records[1])
	assert.Equal(t, "-5", records[2][4])
	assert.Equal(t, "BEARISH", records[2][5])
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONExporter{}.Export(&buf, sampleRows()))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "2023-Q1", decoded[0]["period"])
	assert.Equal(t, 5.0, decoded[0]["changePercent"])
	assert.Equal(t, "BULLISH", decoded[0]["trend"])
}

func TestJSONExporter_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONExporter{}.Export(&buf, nil))
	assert.JSONEq(t, "[]", buf.String())
}

func TestParquetExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ParquetExporter{}.Export(&buf, sampleRows()))

	rows, err := parquet.Read[parquetRow](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2023-Q2", rows[1].Period)
	assert.Equal(t, -5.0, rows[1].ChangePercent)
	assert.Equal(t, "BEARISH", rows[1].Trend)
}

func TestNewExporter(t *testing.T) {
	for format, want := range map[string]string{"": "csv", "CSV": "csv", "json": "json", "parquet": "parquet"} {
		e, err := NewExporter(format)
		require.NoError(t, err, format)
		assert.Equal(t, want, e.Format())
		assert.NotEmpty(t, e.ContentType())
	}

	_, err := NewExporter("xlsx")
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}
