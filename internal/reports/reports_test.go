package reports

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reports/internal/store"
	"reports/models"
)

func strp(s string) *string { return &s }

func intp(n int) *int { return &n }

func fltp(f float64) *float64 { return &f }

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	t = t.UTC()
	return &t
}

func line(orderID, purchase, channel, asin string, qty int, price float64) models.OrderLine {
	l := models.OrderLine{
		AmazonOrderID:   orderID,
		PurchaseDate:    date(purchase),
		LastUpdatedDate: *date("2024-03-14 00:00:00"),
		Quantity:        intp(qty),
		ItemPrice:       fltp(price),
	}
	if channel != "" {
		l.SalesChannel = strp(channel)
	}
	if asin != "" {
		l.ASIN = strp(asin)
	}
	return l
}

// newTestEngine pins "now" to 2024-03-15 so month windows are stable.
func newTestEngine(t *testing.T, lines ...models.OrderLine) (*Engine, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	if len(lines) > 0 {
		_, err = st.ReplaceLines(context.Background(), lines)
		require.NoError(t, err)
	}

	e := NewEngine(st, nil)
	e.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	}
	return e, st
}

func TestMonthlyPeriodCoverage(t *testing.T) {
	e, _ := newTestEngine(t,
		line("A-1", "2024-01-10 12:00:00", "Amazon.com", "B01", 1, 10),
		line("A-2", "2024-03-02 12:00:00", "Amazon.com", "B01", 1, 10),
	)

	summaries, err := e.Monthly(context.Background(), 3, "")
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	labels := []string{summaries[0].Period, summaries[1].Period, summaries[2].Period}
	assert.Equal(t, []string{"2024-03", "2024-02", "2024-01"}, labels)

	// February had no sales but is still present.
	assert.Zero(t, summaries[1].Totals.Units)
	assert.Zero(t, summaries[1].Totals.TotalSales)
}

func TestMonthlyInvalidCount(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Monthly(context.Background(), 0, "")
	require.ErrorIs(t, err, ErrInvalidMonthCount)
}

func TestMonthlyUnknownChannelFilter(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Monthly(context.Background(), 1, "mars")
	require.Error(t, err)
}

func TestChannelBucketing(t *testing.T) {
	e, _ := newTestEngine(t,
		line("A-1", "2024-03-05 12:00:00", "Amazon.com", "B01", 2, 19.98),
	)

	summaries, err := e.Monthly(context.Background(), 1, "")
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	us := summaries[0].ChannelTotals[models.ChannelUS]
	assert.Equal(t, 2, us.Units)
	assert.InDelta(t, 19.98, us.TotalSales, 1e-9)

	ca := summaries[0].ChannelTotals[models.ChannelCanada]
	assert.Zero(t, ca.Units)
	assert.Zero(t, ca.TotalSales)
}

func TestMonthlyChannelFilterIsPreFilter(t *testing.T) {
	e, _ := newTestEngine(t,
		line("A-1", "2024-03-05 12:00:00", "Amazon.com", "B01", 2, 20),
		line("A-2", "2024-03-06 12:00:00", "Amazon.ca", "B01", 1, 10),
	)

	summaries, err := e.Monthly(context.Background(), 1, "us")
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	// Overall totals reflect only the filtered channel.
	assert.Equal(t, 2, summaries[0].Totals.Units)
	assert.InDelta(t, 20, summaries[0].Totals.TotalSales, 1e-9)
}

func TestRevenueAdditivity(t *testing.T) {
	e, _ := newTestEngine(t,
		line("A-1", "2024-03-05 12:00:00", "Amazon.com", "B01", 2, 19.98),
		line("A-2", "2024-03-06 12:00:00", "Amazon.ca", "B02", 1, 9.99),
		line("A-3", "2024-03-07 12:00:00", "Amazon.de", "B01", 3, 30),
		line("A-4", "2024-03-08 12:00:00", "", "", 1, 5),
	)

	summaries, err := e.Monthly(context.Background(), 1, "")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	month := summaries[0]

	var asinUnits int
	var asinSales float64
	for _, as := range month.ByASIN {
		asinUnits += as.Totals.Units
		asinSales += as.Totals.TotalSales
	}
	assert.Equal(t, month.Totals.Units, asinUnits)
	assert.InDelta(t, month.Totals.TotalSales, asinSales, 1e-9)

	// Classified channels never exceed the overall total: Amazon.de and
	// the channel-less row count toward overall only.
	var channelSales float64
	for _, b := range month.ChannelTotals {
		channelSales += b.TotalSales
	}
	assert.Less(t, channelSales, month.Totals.TotalSales)
}

func TestWeeklySummaries(t *testing.T) {
	e, _ := newTestEngine(t,
		line("A-1", "2024-03-05 12:00:00", "Amazon.com", "B01", 1, 10), // Tue of 2024-W10
		line("A-2", "2024-03-14 12:00:00", "Amazon.ca", "B02", 2, 20),  // Thu of 2024-W11
	)

	summaries, err := e.Weekly(context.Background(),
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC),
		"")
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "2024-W10", summaries[0].Period)
	assert.Equal(t, "2024-03-04", summaries[0].StartDate)
	assert.Equal(t, "2024-03-10", summaries[0].EndDate)
	assert.Equal(t, 1, summaries[0].Totals.Units)

	assert.Equal(t, "2024-W11", summaries[1].Period)
	assert.Equal(t, 2, summaries[1].Totals.Units)
	assert.InDelta(t, 20, summaries[1].ChannelTotals[models.ChannelCanada].TotalSales, 1e-9)

	// The last week overlaps the range but has no sales.
	assert.Equal(t, "2024-W12", summaries[2].Period)
	assert.Zero(t, summaries[2].Totals.Units)
}

func TestWeeklyInvalidRange(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Weekly(context.Background(),
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		"")
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestSalesTotalExcludesCancelled(t *testing.T) {
	cancelled := line("A-2", "2024-03-06 12:00:00", "Amazon.com", "B01", 1, 100)
	cancelled.ItemStatus = strp("Cancelled")

	e, _ := newTestEngine(t,
		line("A-1", "2024-03-05 12:00:00", "Amazon.com", "B01", 2, 19.98),
		cancelled,
	)

	total, err := e.SalesTotal(context.Background(),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		"")
	require.NoError(t, err)
	assert.InDelta(t, 19.98, total, 1e-9)
}

func TestSalesTotalByChannel(t *testing.T) {
	e, _ := newTestEngine(t,
		line("A-1", "2024-03-05 12:00:00", "Amazon.com", "B01", 2, 20),
		line("A-2", "2024-03-06 12:00:00", "Amazon.ca", "B02", 1, 10),
		line("A-3", "2024-03-07 12:00:00", "Amazon.de", "B03", 1, 99),
	)

	totals, err := e.SalesTotalByChannel(context.Background(),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 20, totals[models.ChannelUS], 1e-9)
	assert.InDelta(t, 10, totals[models.ChannelCanada], 1e-9)
	assert.Len(t, totals, 2, "unclassified channels are omitted")
}

func TestDashboardComparisonUndefined(t *testing.T) {
	// Sales this year, nothing a year ago: the change is "no comparison
	// available", not 0%.
	e, _ := newTestEngine(t,
		line("A-1", "2024-03-05 12:00:00", "Amazon.com", "B01", 2, 19.98),
	)

	summary, err := e.Dashboard(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 19.98, summary.YearToDate.Totals.Current, 1e-9)
	assert.Zero(t, summary.YearToDate.Totals.Previous)
	assert.Nil(t, summary.YearToDate.Totals.ChangePct)
	assert.Nil(t, summary.YearToDate.Channels[models.ChannelUS].ChangePct)
}

func TestDashboardComparisonDefined(t *testing.T) {
	e, _ := newTestEngine(t,
		line("A-1", "2024-02-05 12:00:00", "Amazon.com", "B01", 2, 30),
		line("A-0", "2023-02-10 12:00:00", "Amazon.com", "B01", 1, 20),
	)

	summary, err := e.Dashboard(context.Background())
	require.NoError(t, err)

	ytd := summary.YearToDate.Totals
	assert.InDelta(t, 30, ytd.Current, 1e-9)
	assert.InDelta(t, 20, ytd.Previous, 1e-9)
	require.NotNil(t, ytd.ChangePct)
	assert.InDelta(t, 50, *ytd.ChangePct, 1e-9)

	assert.Equal(t, "2024-01-01", summary.YearToDate.Start)
	assert.Equal(t, "2024-03-15", summary.YearToDate.End)
	assert.Equal(t, "2024-03-11", summary.Week.Start, "week starts on Monday")
	assert.Equal(t, "2024-03-14", summary.LatestUpdate)
}

func TestYearlyChannelMonthlyTotals(t *testing.T) {
	e, _ := newTestEngine(t,
		line("A-1", "2024-01-05 12:00:00", "Amazon.com", "B01", 2, 20),
		line("A-2", "2024-01-15 12:00:00", "Amazon.com", "B02", 1, 5),
		line("A-3", "2024-06-05 12:00:00", "Amazon.ca", "B01", 3, 30),
		line("A-4", "2023-01-20 12:00:00", "Amazon.com", "B01", 1, 12),
		line("A-5", "2024-02-01 12:00:00", "Amazon.de", "B01", 1, 99),
	)

	series, err := e.YearlyChannelMonthlyTotals(context.Background(), 2024)
	require.NoError(t, err)

	assert.Equal(t, 2024, series.Year)
	assert.Equal(t, 2023, series.PreviousYear)
	require.Len(t, series.Labels, 12)

	us := series.Channels[models.ChannelUS]
	assert.Equal(t, 3, us.Units[0])
	assert.InDelta(t, 25, us.Sales[0], 1e-9)
	assert.InDelta(t, 12, us.PreviousSales[0], 1e-9)

	ca := series.Channels[models.ChannelCanada]
	assert.Equal(t, 3, ca.Units[5])
	assert.InDelta(t, 30, ca.Sales[5], 1e-9)

	// Amazon.de is unclassified and appears in neither series.
	assert.Zero(t, us.Sales[1])
	assert.Zero(t, ca.Sales[1])
}

func TestRevenuePolicies(t *testing.T) {
	l := models.OrderLine{
		ItemPrice:             fltp(100),
		ItemTax:               fltp(8),
		ShippingPrice:         fltp(5),
		ShippingTax:           fltp(0.4),
		GiftWrapPrice:         fltp(2),
		GiftWrapTax:           fltp(0.16),
		ItemPromotionDiscount: fltp(10),
		ShipPromotionDiscount: fltp(5),
	}

	assert.InDelta(t, 100, GrossItemRevenue(l), 1e-9)
	assert.InDelta(t, 100.56, NetItemRevenue(l), 1e-9)

	// Absent fields are zero, never an error.
	assert.Zero(t, GrossItemRevenue(models.OrderLine{}))
	assert.Zero(t, NetItemRevenue(models.OrderLine{}))
}

func TestMetadataSnapshotInSummary(t *testing.T) {
	e, st := newTestEngine(t,
		line("A-1", "2024-03-05 12:00:00", "Amazon.com", "B01", 1, 10),
	)
	require.NoError(t, st.UpsertAsinMeta(context.Background(), models.AsinMeta{
		ASIN:          "B01",
		TitleOverride: strp("Widget, Blue"),
		Category:      strp("Widgets"),
	}))

	summaries, err := e.Monthly(context.Background(), 1, "")
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	as, ok := summaries[0].ByASIN["B01"]
	require.True(t, ok)
	require.NotNil(t, as.Meta.TitleOverride)
	assert.Equal(t, "Widget, Blue", *as.Meta.TitleOverride)
	assert.Equal(t, "Widgets", *as.Meta.Category)
}
