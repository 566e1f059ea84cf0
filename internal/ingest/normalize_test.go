package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReport(t *testing.T, rows ...[]string) string {
	t.Helper()
	var lines []string
	for _, row := range rows {
		lines = append(lines, strings.Join(row, "\t"))
	}
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestParseReport(t *testing.T) {
	path := writeReport(t,
		[]string{"amazon-order-id", "purchase-date", "last-updated-date", "sales-channel", "asin", "quantity", "item-price", "is-business-order"},
		[]string{"111-0000001-0000001", "2024-03-05T14:30:00Z", "2024-03-06T09:00:00Z", "Amazon.com", "B000TEST01", "2", "19.98", "true"},
		[]string{"111-0000001-0000002", "2024-03-05T15:00:00+00:00", "2024-03-06T09:00:00Z", "Amazon.ca", "B000TEST02", "1", "9.99", "false"},
	)

	lines, err := ParseReport(path)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, "111-0000001-0000001", first.AmazonOrderID)
	require.NotNil(t, first.PurchaseDate)
	assert.Equal(t, "2024-03-05 14:30:00", first.PurchaseDate.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "2024-03-06 09:00:00", first.LastUpdatedDate.Format("2006-01-02 15:04:05"))
	require.NotNil(t, first.Quantity)
	assert.Equal(t, 2, *first.Quantity)
	require.NotNil(t, first.ItemPrice)
	assert.Equal(t, 19.98, *first.ItemPrice)
	require.NotNil(t, first.IsBusinessOrder)
	assert.Equal(t, 1, *first.IsBusinessOrder)

	second := lines[1]
	require.NotNil(t, second.IsBusinessOrder)
	assert.Equal(t, 0, *second.IsBusinessOrder)
}

func TestParseReportAbsentColumns(t *testing.T) {
	// Exports routinely omit columns; absence is not an error.
	path := writeReport(t,
		[]string{"amazon-order-id", "last-updated-date"},
		[]string{"111-0000001-0000001", "2024-03-06T09:00:00Z"},
	)

	lines, err := ParseReport(path)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Nil(t, lines[0].PurchaseDate)
	assert.Nil(t, lines[0].Quantity)
	assert.Nil(t, lines[0].ItemPrice)
	assert.Nil(t, lines[0].SalesChannel)
	assert.Nil(t, lines[0].IsBusinessOrder)
}

func TestParseReportMalformedCells(t *testing.T) {
	path := writeReport(t,
		[]string{"amazon-order-id", "purchase-date", "last-updated-date", "quantity", "item-price"},
		[]string{"111-0000001-0000001", "not-a-date", "2024-03-06T09:00:00Z", "two", "1,99"},
	)

	lines, err := ParseReport(path)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Nil(t, lines[0].PurchaseDate)
	assert.Nil(t, lines[0].Quantity)
	assert.Nil(t, lines[0].ItemPrice)
}

func TestParseReportMissingOrderID(t *testing.T) {
	path := writeReport(t,
		[]string{"amazon-order-id", "last-updated-date"},
		[]string{"111-0000001-0000001", "2024-03-06T09:00:00Z"},
		[]string{"", "2024-03-06T09:00:00Z"},
	)

	_, err := ParseReport(path)
	require.ErrorIs(t, err, ErrMissingOrderID)
}

func TestToBusinessOrder(t *testing.T) {
	assert.Nil(t, toBusinessOrder(""))

	one := toBusinessOrder("true")
	require.NotNil(t, one)
	assert.Equal(t, 1, *one)

	zero := toBusinessOrder("yes")
	require.NotNil(t, zero)
	assert.Equal(t, 0, *zero)
}

func TestToTimestampOffset(t *testing.T) {
	ts := toTimestamp("2024-03-05T14:30:00-05:00")
	require.NotNil(t, ts)
	assert.Equal(t, "2024-03-05 14:30:00", ts.Format("2006-01-02 15:04:05"))
	_, offset := ts.Zone()
	assert.Equal(t, -5*60*60, offset)
	assert.True(t, ts.Equal(time.Date(2024, 3, 5, 19, 30, 0, 0, time.UTC)))
}
