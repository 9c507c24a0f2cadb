package trends

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/bobmcallan/trendmap/internal/interfaces"
	"github.com/bobmcallan/trendmap/internal/models"
)

// NewExporter returns the exporter for format (csv, json, parquet).
func NewExporter(format string) (interfaces.PeriodExporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "csv":
		return CSVExporter{}, nil
	case "json":
		return JSONExporter{}, nil
	case "parquet":
		return ParquetExporter{}, nil
	}
	return nil, fmt.Errorf("%w: unsupported export format %q", models.ErrInvalidRequest, format)
}

// CSVExporter writes a header row then one row per period.
type CSVExporter struct{}

func (CSVExporter) Format() string      { return "csv" }
func (CSVExporter) ContentType() string { return "text/csv" }

func (CSVExporter) Export(w io.Writer, rows []models.PeriodRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "open", "close", "change", "changePercent", "trend"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Period,
			floatStr(r.Open),
			floatStr(r.Close),
			floatStr(r.Change),
			floatStr(r.ChangePercent),
			r.Trend,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// JSONExporter writes an indented JSON array.
type JSONExporter struct{}

func (JSONExporter) Format() string      { return "json" }
func (JSONExporter) ContentType() string { return "application/json" }

func (JSONExporter) Export(w io.Writer, rows []models.PeriodRow) error {
	if rows == nil {
		rows = []models.PeriodRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// parquetRow is the flat column layout of a parquet export.
type parquetRow struct {
	Period        string  `parquet:"period"`
	Open          float64 `parquet:"open"`
	Close         float64 `parquet:"close"`
	Change        float64 `parquet:"change"`
	ChangePercent float64 `parquet:"change_percent"`
	Trend         string  `parquet:"trend"`
}

// ParquetExporter writes a single parquet file.
type ParquetExporter struct{}

func (ParquetExporter) Format() string      { return "parquet" }
func (ParquetExporter) ContentType() string { return "application/vnd.apache.parquet" }

func (ParquetExporter) Export(w io.Writer, rows []models.PeriodRow) error {
	out := make([]parquetRow, len(rows))
	for i, r := range rows {
		out[i] = parquetRow{
			Period:        r.Period,
			Open:          r.Open,
			Close:         r.Close,
			Change:        r.Change,
			ChangePercent: r.ChangePercent,
			Trend:         r.Trend,
		}
	}
	if err := parquet.Write(w, out); err != nil {
		return fmt.Errorf("parquet write failed: %w", err)
	}
	return nil
}

// PeriodRows attaches trend labels to periods.
func PeriodRows(periods []models.AggregatedPeriod) []models.PeriodRow {
	rows := make([]models.PeriodRow, len(periods))
	for i, p := range periods {
		rows[i] = models.PeriodRow{AggregatedPeriod: p, Trend: p.Trend()}
	}
	return rows
}
